package handlers

import (
	"context"
	"net/http"
	"net/url"
	"sync"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	maxMsgSize = 1 << 12 // 4 KB

	envelopeClock = "clock"
	envelopeTheme = "theme"
)

// wsEnvelope is the frame written to the page.
type wsEnvelope struct {
	Type string      `json:"type"`
	Data interface{} `json:"data,omitempty"`
}

var upgrader = websocket.Upgrader{
	CheckOrigin: sameOrigin,
}

// sameOrigin accepts requests without Origin (non-browser clients) and
// browser requests whose Origin host matches the Host header.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return u.Host == r.Host
}

// wsConnect is the page's live channel. The connection's lifetime is the
// page's mount: it mounts one clock widget and one theme subscription and
// releases both on every exit path.
func (h *Handler) wsConnect(c *gin.Context) {
	id := visitorID(c)

	if !h.live.add() {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "server is shutting down"})
		return
	}
	defer h.live.done()

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_upgrade_failed", "err", err)
		}
		return
	}
	defer func() { _ = conn.Close() }()

	conn.SetReadLimit(maxMsgSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	done := make(chan struct{})
	go h.startReader(conn, done)

	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()
	// hijacked connections are not tracked by http.Server.Shutdown
	stopOnClose := context.AfterFunc(h.baseCtx, cancel)
	defer stopOnClose()

	themes, unsubscribe := h.services.Theme.Subscribe(id)
	defer unsubscribe()

	pref, err := h.services.Theme.Get(ctx, id)
	if err != nil {
		if h.log != nil {
			h.log.Errorw("ws_theme_load_failed", "err", err, "visitor", id)
		}
		return
	}
	if err := writeEnvelope(conn, envelopeTheme, pref); err != nil {
		if h.log != nil {
			h.log.Infow("ws_write_failed_initial", "err", err)
		}
		return
	}

	readings := make(chan models.ClockReading, 1)
	widget := h.services.Clock.Mount(ctx, func(r models.ClockReading) { offerLatest(readings, r) })
	defer widget.Unmount()

	if h.log != nil {
		h.log.Debugw("ws_mounted", "visitor", id)
		defer h.log.Debugw("ws_unmounted", "visitor", id)
	}

	ping := time.NewTicker(pingPeriod)
	defer ping.Stop()

	for {
		select {
		case <-done:
			return
		case <-ctx.Done():
			return
		case <-ping.C:
			_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				if h.log != nil {
					h.log.Infow("ws_ping_failed", "err", err)
				}
				return
			}
		case r := <-readings:
			if err := writeEnvelope(conn, envelopeClock, r); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "type", envelopeClock)
				}
				return
			}
		case pref, ok := <-themes:
			if !ok {
				return
			}
			if err := writeEnvelope(conn, envelopeTheme, pref); err != nil {
				if h.log != nil {
					h.log.Infow("ws_write_failed", "err", err, "type", envelopeTheme)
				}
				return
			}
		}
	}
}

// liveConns counts open live channels so Close can wait for them.
type liveConns struct {
	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// add registers a connection. It fails once closing has begun.
func (l *liveConns) add() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.closed {
		return false
	}
	l.wg.Add(1)
	return true
}

func (l *liveConns) done() { l.wg.Done() }

// closeAndWait refuses new connections and waits for open ones to finish.
func (l *liveConns) closeAndWait() {
	l.mu.Lock()
	l.closed = true
	l.mu.Unlock()
	l.wg.Wait()
}

// offerLatest replaces any unsent reading with r. Single producer.
func offerLatest(ch chan models.ClockReading, r models.ClockReading) {
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- r:
	default:
	}
}

// startReader drains incoming messages to handle control frames and detect closure.
func (h *Handler) startReader(conn *websocket.Conn, done chan<- struct{}) {
	defer close(done)
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if h.log != nil {
				h.log.Debugw("ws_read_closed", "err", err)
			}
			return
		}
	}
}

func writeEnvelope(conn *websocket.Conn, typ string, data interface{}) error {
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(wsEnvelope{Type: typ, Data: data})
}
