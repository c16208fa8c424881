package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"

	"github.com/jonboulle/clockwork"
)

const (
	DefaultClockInterval = 10 * time.Second
	DefaultOffsetHours   = 5

	layout24h = "15:04"
	layout12h = "03:04 PM"
)

type ClockOptions struct {
	OffsetHours int
	Interval    time.Duration
	HourCycle   int // 12 or 24
	Location    string
}

// ClockService computes wall-clock time at a fixed UTC offset. The offset
// is applied literally: no time zone database, no daylight saving.
type ClockService struct {
	clock    clockwork.Clock
	zone     *time.Location
	interval time.Duration
	layout   string
	location string
}

func NewClockService(clock clockwork.Clock, opts ClockOptions) *ClockService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if opts.Interval <= 0 {
		opts.Interval = DefaultClockInterval
	}
	layout := layout24h
	if opts.HourCycle == 12 {
		layout = layout12h
	}
	return &ClockService{
		clock:    clock,
		zone:     fixedOffsetZone(opts.OffsetHours),
		interval: opts.Interval,
		layout:   layout,
		location: opts.Location,
	}
}

func fixedOffsetZone(hours int) *time.Location {
	name := "UTC"
	if hours != 0 {
		name = fmt.Sprintf("UTC%+d", hours)
	}
	return time.FixedZone(name, hours*60*60)
}

// Interval is the recomputation period of mounted widgets.
func (s *ClockService) Interval() time.Duration { return s.interval }

// Format renders instant in the target zone.
func (s *ClockService) Format(instant time.Time) string {
	return instant.In(s.zone).Format(s.layout)
}

// Now computes a single reading without mounting a widget.
func (s *ClockService) Now() models.ClockReading {
	return s.reading(s.clock.Now(), 0)
}

func (s *ClockService) reading(now time.Time, tick int) models.ClockReading {
	return models.ClockReading{
		Display:  s.Format(now),
		Instant:  now.UTC(),
		Location: s.location,
		Tick:     tick,
	}
}

// Mount computes the first reading synchronously, then starts the ticker.
// onTick must not call Unmount.
func (s *ClockService) Mount(ctx context.Context, onTick func(models.ClockReading)) *ClockWidget {
	ctx, cancel := context.WithCancel(ctx)
	w := &ClockWidget{
		svc:    s,
		onTick: onTick,
		cancel: cancel,
		done:   make(chan struct{}),
		state:  WidgetMounted,
	}
	w.publish(s.reading(s.clock.Now(), 0))

	ticker := s.clock.NewTicker(s.interval)
	go w.run(ctx, ticker)
	return w
}

type WidgetState int

const (
	WidgetMounted WidgetState = iota
	WidgetUnmounted
)

func (st WidgetState) String() string {
	if st == WidgetMounted {
		return "mounted"
	}
	return "unmounted"
}

// ClockWidget is one mounted clock. It owns exactly one ticker.
type ClockWidget struct {
	svc    *ClockService
	onTick func(models.ClockReading)
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once

	mu      sync.RWMutex
	current models.ClockReading
	ticks   int
	state   WidgetState
}

func (w *ClockWidget) run(ctx context.Context, ticker clockwork.Ticker) {
	defer close(w.done)
	defer w.setState(WidgetUnmounted)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.Chan():
			if ctx.Err() != nil {
				return
			}
			w.mu.Lock()
			w.ticks++
			tick := w.ticks
			w.mu.Unlock()
			w.publish(w.svc.reading(now, tick))
		}
	}
}

func (w *ClockWidget) publish(r models.ClockReading) {
	w.mu.Lock()
	w.current = r
	w.mu.Unlock()
	if w.onTick != nil {
		w.onTick(r)
	}
}

func (w *ClockWidget) setState(st WidgetState) {
	w.mu.Lock()
	w.state = st
	w.mu.Unlock()
}

// Current is the last computed reading.
func (w *ClockWidget) Current() models.ClockReading {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.current
}

// Ticks counts recomputations after the mount computation.
func (w *ClockWidget) Ticks() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.ticks
}

func (w *ClockWidget) State() WidgetState {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Unmount stops the ticker and waits for the tick loop to exit. Safe to
// call more than once. No reading is published after it returns.
func (w *ClockWidget) Unmount() {
	w.once.Do(w.cancel)
	<-w.done
}

// Done is closed once the widget is unmounted.
func (w *ClockWidget) Done() <-chan struct{} { return w.done }
