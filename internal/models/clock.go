package models

import "time"

// ClockReading is one computation of the local-time widget.
type ClockReading struct {
	Display  string    `json:"display"`  // e.g. "17:42" or "05:42 PM"
	Instant  time.Time `json:"instant"`  // UTC instant the display was computed from
	Location string    `json:"location"` // human label, e.g. "Almaty, Kazakhstan"
	Tick     int       `json:"tick"`     // 0 for the mount computation
}
