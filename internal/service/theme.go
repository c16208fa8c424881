package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/repository"

	"github.com/jonboulle/clockwork"
)

// themePreferenceName is the stored preference key.
const themePreferenceName = "theme"

// ErrHistoryAppend marks a Set whose preference was stored and published but
// whose change-log entry could not be written.
var ErrHistoryAppend = errors.New("log theme change")

// ThemeService stores one theme per visitor and fans changes out to that
// visitor's subscribers (every open tab of the page).
type ThemeService struct {
	prefs    repository.PreferenceRepo
	events   repository.EventRepo
	clock    clockwork.Clock
	fallback models.Theme

	mu     sync.Mutex
	nextID uint64
	subs   map[string]map[uint64]chan models.ThemePreference

	// setMu serializes Set per visitor so save order equals publish order.
	setMu sync.Mutex
	sets  map[string]*visitorLock
}

type visitorLock struct {
	mu   sync.Mutex
	refs int
}

func NewThemeService(prefs repository.PreferenceRepo, events repository.EventRepo, clock clockwork.Clock, fallback models.Theme) *ThemeService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if !fallback.Valid() {
		fallback = models.ThemeSystem
	}
	return &ThemeService{
		prefs:    prefs,
		events:   events,
		clock:    clock,
		fallback: fallback,
		subs:     make(map[string]map[uint64]chan models.ThemePreference),
		sets:     make(map[string]*visitorLock),
	}
}

// Get returns the stored theme, or the default when nothing valid is stored.
func (s *ThemeService) Get(ctx context.Context, visitorID string) (models.ThemePreference, error) {
	p, err := s.prefs.Load(ctx, visitorID, themePreferenceName)
	if err != nil {
		return models.ThemePreference{}, err
	}
	t, err := models.ParseTheme(p.Value)
	if err != nil {
		return models.NewThemePreference(visitorID, s.fallback, p.UpdatedAt), nil
	}
	return models.NewThemePreference(visitorID, t, p.UpdatedAt), nil
}

// Set persists t and notifies subscribers. Re-selecting the current theme is
// saved but not logged as a change.
func (s *ThemeService) Set(ctx context.Context, visitorID string, t models.Theme) (models.ThemePreference, error) {
	if !t.Valid() {
		return models.ThemePreference{}, fmt.Errorf("%w: %q", models.ErrUnknownTheme, string(t))
	}

	unlock := s.lockVisitor(visitorID)
	defer unlock()

	prev, err := s.Get(ctx, visitorID)
	if err != nil {
		return models.ThemePreference{}, err
	}

	now := s.clock.Now().UTC()
	if err := s.prefs.Save(ctx, repository.Preference{
		VisitorID: visitorID,
		Name:      themePreferenceName,
		Value:     t.String(),
		UpdatedAt: now,
	}); err != nil {
		return models.ThemePreference{}, err
	}

	pref := models.NewThemePreference(visitorID, t, now)
	s.publish(visitorID, pref)

	if prev.Theme == t {
		return pref, nil
	}
	if err := s.events.Append(ctx, models.PreferenceEvent{
		VisitorID:   visitorID,
		OccurredAt:  now,
		Type:        models.EventThemeChange,
		Description: "Theme changed to " + t.String(),
		Metadata:    map[string]any{"from": prev.Theme.String(), "to": t.String()},
	}); err != nil {
		return pref, fmt.Errorf("%w: %w", ErrHistoryAppend, err)
	}
	return pref, nil
}

// lockVisitor holds visitorID's Set lock until the returned func is called.
// Lock entries are dropped once no Set for the visitor is in flight.
func (s *ThemeService) lockVisitor(visitorID string) func() {
	s.setMu.Lock()
	l := s.sets[visitorID]
	if l == nil {
		l = &visitorLock{}
		s.sets[visitorID] = l
	}
	l.refs++
	s.setMu.Unlock()

	l.mu.Lock()
	return func() {
		l.mu.Unlock()
		s.setMu.Lock()
		l.refs--
		if l.refs == 0 {
			delete(s.sets, visitorID)
		}
		s.setMu.Unlock()
	}
}

func (s *ThemeService) Subscribe(visitorID string) (<-chan models.ThemePreference, func()) {
	ch := make(chan models.ThemePreference, 1)

	s.mu.Lock()
	s.nextID++
	id := s.nextID
	if s.subs[visitorID] == nil {
		s.subs[visitorID] = make(map[uint64]chan models.ThemePreference)
	}
	s.subs[visitorID][id] = ch
	s.mu.Unlock()

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[visitorID], id)
			if len(s.subs[visitorID]) == 0 {
				delete(s.subs, visitorID)
			}
			close(ch)
		})
	}
	return ch, cancel
}

// Subscribers reports how many observers visitorID currently has.
func (s *ThemeService) Subscribers(visitorID string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs[visitorID])
}

// publish delivers pref to every subscriber, replacing an unread value.
func (s *ThemeService) publish(visitorID string, pref models.ThemePreference) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ch := range s.subs[visitorID] {
		select {
		case <-ch:
		default:
		}
		ch <- pref
	}
}

// Resolve turns "system" into light or dark when the browser sent a
// Sec-CH-Prefers-Color-Scheme hint. Without a usable hint it returns t.
func (s *ThemeService) Resolve(t models.Theme, colorSchemeHint string) models.Theme {
	if t != models.ThemeSystem {
		return t
	}
	switch strings.Trim(strings.ToLower(strings.TrimSpace(colorSchemeHint)), `"`) {
	case "dark":
		return models.ThemeDark
	case "light":
		return models.ThemeLight
	}
	return t
}
