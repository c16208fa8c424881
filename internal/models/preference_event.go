package models

import "time"

const EventThemeChange = "THEME_CHANGE"

// PreferenceEvent is a single entry in a visitor's preference log.
type PreferenceEvent struct {
	EventID     string    `json:"event_id"`
	VisitorID   string    `json:"visitor_id"`
	OccurredAt  time.Time `json:"occurred_at"`
	Type        string    `json:"type"`        // THEME_CHANGE
	Description string    `json:"description"` // human-readable
	Metadata    any       `json:"metadata,omitempty"`
}
