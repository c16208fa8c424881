package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"

	"github.com/google/uuid"
)

type EventSQLite struct {
	db *sql.DB
}

func NewEventSQLite(db *sql.DB) *EventSQLite { return &EventSQLite{db: db} }

var _ EventRepo = (*EventSQLite)(nil)

// Append inserts a new event. Missing EventID/OccurredAt are filled in.
func (r *EventSQLite) Append(ctx context.Context, e models.PreferenceEvent) error {
	e = stampEvent(e)

	var meta *string
	if e.Metadata != nil {
		if b, err := json.Marshal(e.Metadata); err == nil {
			s := string(b)
			meta = &s
		}
	}

	_, err := r.db.ExecContext(ctx, `
		INSERT INTO preference_events (id, visitor_id, occurred_at, type, message, meta)
		VALUES (?, ?, ?, ?, ?, ?)
	`,
		e.EventID,
		e.VisitorID,
		formatStoredTime(e.OccurredAt),
		e.Type,
		e.Description,
		meta,
	)
	if err != nil {
		return fmt.Errorf("append event for %s: %w", e.VisitorID, err)
	}
	return nil
}

// List returns a visitor's events within [from, to] (zero bounds are open),
// oldest first.
func (r *EventSQLite) List(ctx context.Context, visitorID string, from, to time.Time) ([]models.PreferenceEvent, error) {
	conds := []string{"visitor_id = ?"}
	args := []any{visitorID}

	if !from.IsZero() {
		conds = append(conds, "occurred_at >= ?")
		args = append(args, formatStoredTime(from))
	}
	if !to.IsZero() {
		conds = append(conds, "occurred_at <= ?")
		args = append(args, formatStoredTime(to))
	}

	q := `SELECT id, visitor_id, occurred_at, type, message, meta FROM preference_events WHERE ` +
		strings.Join(conds, " AND ") +
		` ORDER BY occurred_at ASC`

	rows, err := r.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list events for %s: %w", visitorID, err)
	}
	defer rows.Close()

	out := make([]models.PreferenceEvent, 0, 16)
	for rows.Next() {
		var (
			ev   models.PreferenceEvent
			ts   string
			meta sql.NullString
		)
		if err := rows.Scan(&ev.EventID, &ev.VisitorID, &ts, &ev.Type, &ev.Description, &meta); err != nil {
			return nil, err
		}
		if ev.OccurredAt, err = parseStoredTime(ts); err != nil {
			return nil, fmt.Errorf("parse occurred_at %q: %w", ts, err)
		}
		if meta.Valid && meta.String != "" {
			var v any
			if err := json.Unmarshal([]byte(meta.String), &v); err == nil {
				ev.Metadata = v
			} else {
				ev.Metadata = meta.String
			}
		}
		out = append(out, ev)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func stampEvent(e models.PreferenceEvent) models.PreferenceEvent {
	if e.EventID == "" {
		e.EventID = uuid.NewString()
	}
	if e.OccurredAt.IsZero() {
		e.OccurredAt = time.Now().UTC()
	} else {
		e.OccurredAt = e.OccurredAt.UTC()
	}
	e.Type = strings.ToUpper(strings.TrimSpace(e.Type))
	return e
}
