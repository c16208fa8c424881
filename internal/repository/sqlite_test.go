package repository_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/djessicatony/my-portfolio/internal/models"
	"github.com/djessicatony/my-portfolio/internal/repository"
	"github.com/djessicatony/my-portfolio/internal/repository/db"
)

// Reopening the file simulates a page reload after a server restart.
func TestSQLite_PreferenceSurvivesReopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "prefs.db")

	first, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB: %v", err)
	}
	repos := repository.NewRepository(first)
	if err := repos.Preferences.Save(ctx, repository.Preference{VisitorID: "v-1", Name: "theme", Value: "dark"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	if err := repos.Preferences.Save(ctx, repository.Preference{VisitorID: "v-1", Name: "theme", Value: "light"}); err != nil {
		t.Fatalf("Save overwrite: %v", err)
	}
	if err := repos.Events.Append(ctx, models.PreferenceEvent{VisitorID: "v-1", Type: models.EventThemeChange, Description: "x"}); err != nil {
		t.Fatalf("Append: %v", err)
	}
	if err := first.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}

	second, err := db.InitDB(path)
	if err != nil {
		t.Fatalf("InitDB reopen: %v", err)
	}
	defer second.Close()
	repos = repository.NewRepository(second)

	p, err := repos.Preferences.Load(ctx, "v-1", "theme")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Value != "light" {
		t.Fatalf("expected last-set value light, got %q", p.Value)
	}
	other, err := repos.Preferences.Load(ctx, "v-2", "theme")
	if err != nil || other.Value != "" {
		t.Fatalf("expected nothing for v-2, got %+v err=%v", other, err)
	}

	events, err := repos.Events.List(ctx, "v-1", time.Now().Add(-time.Hour), time.Now().Add(time.Hour))
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 1 || events[0].Type != models.EventThemeChange {
		t.Fatalf("unexpected events: %+v", events)
	}
}

func TestMemoryRepository_FiltersAndOrders(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepository()

	base := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	for _, d := range []int{3, 1, 2} {
		if err := repos.Events.Append(ctx, models.PreferenceEvent{
			VisitorID:  "v-1",
			OccurredAt: base.AddDate(0, 0, d),
			Type:       models.EventThemeChange,
		}); err != nil {
			t.Fatalf("Append: %v", err)
		}
	}

	events, err := repos.Events.List(ctx, "v-1", base.AddDate(0, 0, 2), time.Time{})
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if !events[0].OccurredAt.Before(events[1].OccurredAt) {
		t.Fatalf("events not ordered: %+v", events)
	}
	if events[0].EventID == "" {
		t.Fatal("expected generated event id")
	}

	if err := repos.Preferences.Save(ctx, repository.Preference{VisitorID: "v-1", Name: "theme", Value: "dark"}); err != nil {
		t.Fatalf("Save: %v", err)
	}
	p, _ := repos.Preferences.Load(ctx, "v-1", "theme")
	if p.Value != "dark" || p.UpdatedAt.IsZero() {
		t.Fatalf("unexpected preference: %+v", p)
	}
}
