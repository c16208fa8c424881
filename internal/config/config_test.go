package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "config.yml"), []byte(body), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return dir
}

func TestLoad_DefaultsWhenFileMissing(t *testing.T) {
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "8080" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.DefaultTheme() != models.ThemeSystem {
		t.Errorf("default theme: got %q", cfg.DefaultTheme())
	}
	if cfg.Clock.Interval != 10*time.Second {
		t.Errorf("interval: got %s", cfg.Clock.Interval)
	}
	if cfg.Clock.OffsetHours != 5 {
		t.Errorf("offset: got %d", cfg.Clock.OffsetHours)
	}
	if cfg.Storage != StorageSQLite {
		t.Errorf("storage: got %q", cfg.Storage)
	}
}

func TestLoad_ReadsFileAndProfile(t *testing.T) {
	dir := writeConfig(t, `
port: "9090"
storage: memory
theme:
  default: dark
clock:
  interval: 5s
  hour_cycle: 12
  location: "Somewhere"
profile:
  name: "Kirill"
  tech: ["Python", "Next.js"]
  links:
    - label: "github.com/someone"
      url: "https://github.com/someone"
      icon: github
`)
	cfg, err := Load(dir)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "9090" || cfg.Storage != StorageMemory {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.DefaultTheme() != models.ThemeDark {
		t.Errorf("theme: got %q", cfg.DefaultTheme())
	}
	if cfg.Clock.Interval != 5*time.Second || cfg.Clock.HourCycle != 12 {
		t.Errorf("clock: %+v", cfg.Clock)
	}
	if cfg.Profile.Name != "Kirill" || len(cfg.Profile.Tech) != 2 {
		t.Errorf("profile: %+v", cfg.Profile)
	}
	if len(cfg.Profile.Links) != 1 || cfg.Profile.Links[0].Icon != "github" {
		t.Errorf("links: %+v", cfg.Profile.Links)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("PORTFOLIO_PORT", "7070")
	t.Setenv("PORTFOLIO_THEME_DEFAULT", "light")
	cfg, err := Load(t.TempDir())
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Port != "7070" {
		t.Errorf("port: got %q", cfg.Port)
	}
	if cfg.DefaultTheme() != models.ThemeLight {
		t.Errorf("theme: got %q", cfg.DefaultTheme())
	}
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	cases := map[string]string{
		"theme":      "theme:\n  default: sepia\n",
		"hour_cycle": "clock:\n  hour_cycle: 13\n",
		"interval":   "clock:\n  interval: 0s\n",
		"storage":    "storage: redis\n",
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			if _, err := Load(writeConfig(t, body)); err == nil {
				t.Fatalf("expected error for %s", name)
			}
		})
	}
}
