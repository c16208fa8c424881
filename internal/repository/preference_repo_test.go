package repository_test

import (
	"context"
	"database/sql/driver"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/djessicatony/my-portfolio/internal/repository"

	"github.com/DATA-DOG/go-sqlmock"
)

// sqlmockArgumentFunc adapts a predicate to sqlmock.Argument.
type sqlmockArgumentFunc func(v driver.Value) bool

func (f sqlmockArgumentFunc) Match(v driver.Value) bool { return f(v) }

func TestPreferenceSQLite_Save_StampsZeroTimeInUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewPreferenceSQLite(db)

	isRecentUTC := sqlmockArgumentFunc(func(v driver.Value) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		tm, err := time.Parse("2006-01-02T15:04:05.000000000Z", s)
		if err != nil {
			return false
		}
		return time.Since(tm) < 5*time.Second && time.Since(tm) > -5*time.Second
	})

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO preferences")).
		WithArgs("v-1", "theme", "dark", isRecentUTC).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), repository.Preference{
		VisitorID: "v-1",
		Name:      "theme",
		Value:     "dark",
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPreferenceSQLite_Save_ConvertsGivenTimeToUTC(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	repo := repository.NewPreferenceSQLite(db)

	almaty := time.FixedZone("UTC+5", 5*60*60)
	at := time.Date(2025, 3, 1, 17, 30, 0, 0, almaty)

	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO preferences")).
		WithArgs("v-1", "theme", "light", "2025-03-01T12:30:00.000000000Z").
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := repo.Save(context.Background(), repository.Preference{
		VisitorID: "v-1", Name: "theme", Value: "light", UpdatedAt: at,
	}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestPreferenceSQLite_Save_WrapsError(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New(): %v", err)
	}
	defer db.Close()

	boom := errors.New("disk full")
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO preferences")).WillReturnError(boom)

	err = repository.NewPreferenceSQLite(db).Save(context.Background(), repository.Preference{
		VisitorID: "v-1", Name: "theme", Value: "dark",
	})
	if !errors.Is(err, boom) {
		t.Fatalf("expected wrapped %v, got %v", boom, err)
	}
}

func TestPreferenceSQLite_Load(t *testing.T) {
	t.Run("returns row", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New(): %v", err)
		}
		defer db.Close()

		rows := sqlmock.NewRows([]string{"visitor_id", "name", "value", "updated_at"}).
			AddRow("v-1", "theme", "dark", "2025-03-01T12:30:00.000000000Z")
		mock.ExpectQuery(regexp.QuoteMeta("FROM preferences WHERE visitor_id=? AND name=?")).
			WithArgs("v-1", "theme").
			WillReturnRows(rows)

		p, err := repository.NewPreferenceSQLite(db).Load(context.Background(), "v-1", "theme")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if p.Value != "dark" || p.VisitorID != "v-1" {
			t.Fatalf("unexpected preference: %+v", p)
		}
		want := time.Date(2025, 3, 1, 12, 30, 0, 0, time.UTC)
		if !p.UpdatedAt.Equal(want) {
			t.Fatalf("UpdatedAt = %v, want %v", p.UpdatedAt, want)
		}
	})

	t.Run("no rows is not an error", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New(): %v", err)
		}
		defer db.Close()

		mock.ExpectQuery(regexp.QuoteMeta("FROM preferences")).
			WithArgs("v-2", "theme").
			WillReturnRows(sqlmock.NewRows([]string{"visitor_id", "name", "value", "updated_at"}))

		p, err := repository.NewPreferenceSQLite(db).Load(context.Background(), "v-2", "theme")
		if err != nil {
			t.Fatalf("Load() error = %v", err)
		}
		if p.Value != "" {
			t.Fatalf("expected zero preference, got %+v", p)
		}
	})

	t.Run("bad timestamp", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		if err != nil {
			t.Fatalf("sqlmock.New(): %v", err)
		}
		defer db.Close()

		rows := sqlmock.NewRows([]string{"visitor_id", "name", "value", "updated_at"}).
			AddRow("v-1", "theme", "dark", "yesterday")
		mock.ExpectQuery(regexp.QuoteMeta("FROM preferences")).WillReturnRows(rows)

		if _, err := repository.NewPreferenceSQLite(db).Load(context.Background(), "v-1", "theme"); err == nil {
			t.Fatal("expected parse error")
		}
	})
}
