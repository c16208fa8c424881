package repository

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
)

type prefKey struct {
	visitorID string
	name      string
}

// PreferenceMemory is a PreferenceRepo backed by a map.
type PreferenceMemory struct {
	mu   sync.RWMutex
	rows map[prefKey]Preference
}

func NewPreferenceMemory() *PreferenceMemory {
	return &PreferenceMemory{rows: make(map[prefKey]Preference)}
}

var _ PreferenceRepo = (*PreferenceMemory)(nil)

func (m *PreferenceMemory) Save(_ context.Context, p Preference) error {
	if p.UpdatedAt.IsZero() {
		p.UpdatedAt = time.Now()
	}
	p.UpdatedAt = p.UpdatedAt.UTC()

	m.mu.Lock()
	defer m.mu.Unlock()
	m.rows[prefKey{p.VisitorID, p.Name}] = p
	return nil
}

func (m *PreferenceMemory) Load(_ context.Context, visitorID, name string) (Preference, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.rows[prefKey{visitorID, name}], nil
}

// EventMemory is an EventRepo backed by a slice per visitor.
type EventMemory struct {
	mu     sync.RWMutex
	events map[string][]models.PreferenceEvent
}

func NewEventMemory() *EventMemory {
	return &EventMemory{events: make(map[string][]models.PreferenceEvent)}
}

var _ EventRepo = (*EventMemory)(nil)

func (m *EventMemory) Append(_ context.Context, e models.PreferenceEvent) error {
	e = stampEvent(e)

	m.mu.Lock()
	defer m.mu.Unlock()
	m.events[e.VisitorID] = append(m.events[e.VisitorID], e)
	return nil
}

func (m *EventMemory) List(_ context.Context, visitorID string, from, to time.Time) ([]models.PreferenceEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]models.PreferenceEvent, 0, len(m.events[visitorID]))
	for _, e := range m.events[visitorID] {
		if !from.IsZero() && e.OccurredAt.Before(from) {
			continue
		}
		if !to.IsZero() && e.OccurredAt.After(to) {
			continue
		}
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].OccurredAt.Before(out[j].OccurredAt) })
	return out, nil
}
