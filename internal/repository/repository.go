package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
)

// Preference is a single named value stored for a visitor.
type Preference struct {
	VisitorID string
	Name      string
	Value     string
	UpdatedAt time.Time
}

// PreferenceRepo is the get/set capability over named preference values.
// Load returns a zero Preference (empty Value) when nothing is stored.
type PreferenceRepo interface {
	Save(ctx context.Context, p Preference) error
	Load(ctx context.Context, visitorID, name string) (Preference, error)
}

type EventRepo interface {
	Append(ctx context.Context, e models.PreferenceEvent) error
	List(ctx context.Context, visitorID string, from, to time.Time) ([]models.PreferenceEvent, error)
}

type Repository struct {
	Preferences PreferenceRepo
	Events      EventRepo
}

func NewRepository(db *sql.DB) *Repository {
	return &Repository{
		Preferences: NewPreferenceSQLite(db),
		Events:      NewEventSQLite(db),
	}
}

// NewMemoryRepository keeps everything in process memory. Values are lost
// on restart.
func NewMemoryRepository() *Repository {
	return &Repository{
		Preferences: NewPreferenceMemory(),
		Events:      NewEventMemory(),
	}
}

// storedTimeLayout is fixed-width so TEXT comparison orders chronologically.
const storedTimeLayout = "2006-01-02T15:04:05.000000000Z"

func formatStoredTime(t time.Time) string {
	return t.UTC().Format(storedTimeLayout)
}

func parseStoredTime(s string) (time.Time, error) {
	t, err := time.Parse(storedTimeLayout, s)
	if err != nil {
		// rows written by hand may use RFC3339
		return time.Parse(time.RFC3339Nano, s)
	}
	return t, nil
}
