package handlers

import (
	"context"
	"net/http"
	"sync"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/jonboulle/clockwork"
)

// ---- Service Mocks ----

type mockTheme struct {
	mu sync.Mutex

	current models.Theme
	getErr  error
	setErr  error
	// setKeepsPref makes Set return the preference together with setErr.
	setKeepsPref bool

	setCalls     int
	lastVisitor  string
	subscribers  map[string][]chan models.ThemePreference
	unsubscribed int
}

func newMockTheme(t models.Theme) *mockTheme {
	return &mockTheme{current: t, subscribers: map[string][]chan models.ThemePreference{}}
}

func (m *mockTheme) Get(ctx context.Context, visitorID string) (models.ThemePreference, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastVisitor = visitorID
	if m.getErr != nil {
		return models.ThemePreference{}, m.getErr
	}
	return models.NewThemePreference(visitorID, m.current, time.Time{}), nil
}

func (m *mockTheme) Set(ctx context.Context, visitorID string, t models.Theme) (models.ThemePreference, error) {
	m.mu.Lock()
	m.setCalls++
	m.lastVisitor = visitorID
	if m.setErr != nil && !m.setKeepsPref {
		m.mu.Unlock()
		return models.ThemePreference{}, m.setErr
	}
	m.current = t
	subs := append([]chan models.ThemePreference(nil), m.subscribers[visitorID]...)
	err := m.setErr
	m.mu.Unlock()

	pref := models.NewThemePreference(visitorID, t, mockSetTime)
	for _, ch := range subs {
		ch <- pref
	}
	return pref, err
}

func (m *mockTheme) Subscribe(visitorID string) (<-chan models.ThemePreference, func()) {
	ch := make(chan models.ThemePreference, 4)
	m.mu.Lock()
	m.subscribers[visitorID] = append(m.subscribers[visitorID], ch)
	m.mu.Unlock()

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.mu.Lock()
			m.unsubscribed++
			m.mu.Unlock()
		})
	}
}

func (m *mockTheme) Resolve(t models.Theme, hint string) models.Theme {
	if t == models.ThemeSystem && hint == "dark" {
		return models.ThemeDark
	}
	return t
}

func (m *mockTheme) subscriberCount(visitorID string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.subscribers[visitorID])
}

func (m *mockTheme) unsubscribeCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.unsubscribed
}

type mockEventLog struct {
	resp        []models.PreferenceEvent
	err         error
	lastVisitor string
	lastFilter  service.LogFilter
}

func (m *mockEventLog) List(ctx context.Context, visitorID string, f service.LogFilter) ([]models.PreferenceEvent, error) {
	m.lastVisitor = visitorID
	m.lastFilter = f
	return m.resp, m.err
}

// ---- Shared Test Helpers ----

var testInstant = time.Date(2025, 4, 10, 12, 0, 0, 0, time.UTC)

// mockSetTime is the UpdatedAt the theme mock stamps on every Set.
var mockSetTime = time.Date(2025, 4, 9, 8, 30, 0, 0, time.UTC)

func newTestClock() (*service.ClockService, *clockwork.FakeClock) {
	fc := clockwork.NewFakeClockAt(testInstant)
	return service.NewClockService(fc, service.ClockOptions{
		OffsetHours: 5,
		HourCycle:   24,
		Interval:    10 * time.Second,
		Location:    "Almaty, Kazakhstan",
	}), fc
}

func testProfile() models.Profile {
	return models.Profile{
		Name:       "Kirill",
		Greeting:   "HEY, I'M KIRILL",
		Paragraphs: []string{"I build things."},
		Tech:       []string{"Python", "Next.js"},
		Links:      []models.Link{{Label: "github.com/someone", URL: "https://github.com/someone", Icon: "github"}},
		ImagePath:  "/static/img/profile.svg",
	}
}

func newTestRouter(s *service.Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(s, nil, PageOptions{Profile: testProfile()})
	return h.InitRoutes()
}

func withVisitor(req *http.Request, id string) *http.Request {
	req.AddCookie(&http.Cookie{Name: visitorCookie, Value: id})
	return req
}

const testVisitor = "7d444840-9dc0-11d1-b245-5ffdce74fad2"
