package service

import (
	"context"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/repository"

	"github.com/jonboulle/clockwork"
)

// Theme reflects and mutates a visitor's display mode.
type Theme interface {
	Get(ctx context.Context, visitorID string) (models.ThemePreference, error)
	Set(ctx context.Context, visitorID string, t models.Theme) (models.ThemePreference, error)
	// Subscribe registers an observer of visitorID's theme. The returned func
	// unregisters it and closes the channel.
	Subscribe(visitorID string) (<-chan models.ThemePreference, func())
	Resolve(t models.Theme, colorSchemeHint string) models.Theme
}

// Clock computes the local-time widget readings.
type Clock interface {
	Now() models.ClockReading
	// Mount starts a widget that recomputes on every interval until it is
	// unmounted or ctx is canceled.
	Mount(ctx context.Context, onTick func(models.ClockReading)) *ClockWidget
}

// EventLog exposes a visitor's preference change history.
type EventLog interface {
	List(ctx context.Context, visitorID string, f LogFilter) ([]models.PreferenceEvent, error)
}

type Service struct {
	Theme
	Clock
	EventLog
}

// Options carries the configurable parts of the services.
type Options struct {
	DefaultTheme models.Theme
	Clock        ClockOptions
}

// LogFilter bounds the history by time. Zero values are open bounds.
type LogFilter struct {
	From time.Time
	To   time.Time
}

func NewService(repos *repository.Repository, clock clockwork.Clock, opts Options) *Service {
	return &Service{
		Theme:    NewThemeService(repos.Preferences, repos.Events, clock, opts.DefaultTheme),
		Clock:    NewClockService(clock, opts.Clock),
		EventLog: NewEventLogService(repos.Events),
	}
}
