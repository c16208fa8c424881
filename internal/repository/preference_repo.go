package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type PreferenceSQLite struct {
	db *sql.DB
}

func NewPreferenceSQLite(db *sql.DB) *PreferenceSQLite {
	return &PreferenceSQLite{db: db}
}

var _ PreferenceRepo = (*PreferenceSQLite)(nil)

const (
	upsertPreferenceSQL = `
		INSERT INTO preferences (visitor_id, name, value, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(visitor_id, name) DO UPDATE SET
			value=excluded.value,
			updated_at=excluded.updated_at
	`

	selectPreferenceSQL = `
		SELECT visitor_id, name, value, updated_at
		FROM preferences WHERE visitor_id=? AND name=?
	`
)

// Save upserts the (visitor, name) row. A zero UpdatedAt is stamped with now.
func (r *PreferenceSQLite) Save(ctx context.Context, p Preference) error {
	ts := p.UpdatedAt
	if ts.IsZero() {
		ts = time.Now()
	}
	_, err := r.db.ExecContext(ctx, upsertPreferenceSQL,
		p.VisitorID,
		p.Name,
		p.Value,
		formatStoredTime(ts),
	)
	if err != nil {
		return fmt.Errorf("save preference %q for %s: %w", p.Name, p.VisitorID, err)
	}
	return nil
}

// Load fetches one preference row.
func (r *PreferenceSQLite) Load(ctx context.Context, visitorID, name string) (Preference, error) {
	var (
		p  Preference
		ts string
	)
	err := r.db.QueryRowContext(ctx, selectPreferenceSQL, visitorID, name).
		Scan(&p.VisitorID, &p.Name, &p.Value, &ts)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Preference{}, nil
		}
		return Preference{}, fmt.Errorf("load preference %q for %s: %w", name, visitorID, err)
	}
	if p.UpdatedAt, err = parseStoredTime(ts); err != nil {
		return Preference{}, fmt.Errorf("parse updated_at %q: %w", ts, err)
	}
	return p, nil
}
