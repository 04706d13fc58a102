package storage_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/storage"
	"github.com/julianstephens/wird/internal/storage/sqlite"
)

func newSQLite(t *testing.T, name string) *sqlite.Store {
	t.Helper()
	s := sqlite.NewStore(filepath.Join(t.TempDir(), name))
	if err := s.Init(); err != nil {
		t.Fatalf("Init(%s) failed: %v", name, err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestCopy(t *testing.T) {
	ctx := context.Background()
	src := newSQLite(t, "src.db")
	dst := newSQLite(t, "dst.db")

	habit := models.Habit{ID: "fajr", Name: "Fajr", Type: constants.HabitPrayer, IsActive: true, AffectsScore: true}
	if _, err := src.UpsertHabit(ctx, habit); err != nil {
		t.Fatal(err)
	}
	for _, date := range []string{"2024-03-09", "2024-03-10"} {
		log := models.HabitLog{HabitID: "fajr", Date: date, Status: constants.StatusDone, Value: constants.PrayerTakbirah}
		if _, err := src.UpsertLog(ctx, log); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := src.UpsertReason(ctx, models.CustomReason{Text: "Travelling"}); err != nil {
		t.Fatal(err)
	}

	// an existing log in dst for the same key is overwritten
	stale := models.HabitLog{HabitID: "fajr", Date: "2024-03-10", Status: constants.StatusFail}
	if _, err := dst.UpsertLog(ctx, stale); err != nil {
		t.Fatal(err)
	}

	stats, err := storage.Copy(ctx, src, dst)
	if err != nil {
		t.Fatalf("Copy failed: %v", err)
	}
	if stats != (storage.CopyStats{Habits: 1, Logs: 2, Reasons: 1}) {
		t.Errorf("stats = %+v", stats)
	}

	logs, err := dst.ListLogs(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(logs) != 2 {
		t.Fatalf("dst has %d logs, want 2", len(logs))
	}
	for _, l := range logs {
		if l.Status != constants.StatusDone {
			t.Errorf("log %s status = %s, want done", l.Key(), l.Status)
		}
	}
}
