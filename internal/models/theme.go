package models

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

// Theme is the display mode a visitor selected.
type Theme string

const (
	ThemeLight  Theme = "light"
	ThemeDark   Theme = "dark"
	ThemeSystem Theme = "system"
)

// Icon glyph names rendered by the toggle button.
const (
	IconSun    = "sun"
	IconMoon   = "moon"
	IconLaptop = "laptop"
)

// ErrUnknownTheme is returned for any value outside light/dark/system.
var ErrUnknownTheme = errors.New("unknown theme: must be light, dark, or system")

// Themes lists the selectable values in menu order.
var Themes = []Theme{ThemeLight, ThemeDark, ThemeSystem}

// ParseTheme normalizes s and validates it against the enum.
func ParseTheme(s string) (Theme, error) {
	t := Theme(strings.ToLower(strings.TrimSpace(s)))
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownTheme, s)
	}
	return t, nil
}

func (t Theme) Valid() bool {
	switch t {
	case ThemeLight, ThemeDark, ThemeSystem:
		return true
	}
	return false
}

// Icon returns the toggle glyph for t. Anything that is not light or dark
// falls back to the laptop glyph.
func (t Theme) Icon() string {
	switch t {
	case ThemeLight:
		return IconSun
	case ThemeDark:
		return IconMoon
	default:
		return IconLaptop
	}
}

// Label is the menu caption.
func (t Theme) Label() string {
	switch t {
	case ThemeLight:
		return "Light"
	case ThemeDark:
		return "Dark"
	default:
		return "System"
	}
}

func (t Theme) String() string { return string(t) }

// ThemePreference is the theme currently in effect for one visitor.
type ThemePreference struct {
	VisitorID string    `json:"visitor_id"`
	Theme     Theme     `json:"theme"`
	Icon      string    `json:"icon"`
	Label     string    `json:"label"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// NewThemePreference fills the derived icon/label fields.
func NewThemePreference(visitorID string, t Theme, updatedAt time.Time) ThemePreference {
	return ThemePreference{
		VisitorID: visitorID,
		Theme:     t,
		Icon:      t.Icon(),
		Label:     t.Label(),
		UpdatedAt: updatedAt,
	}
}
