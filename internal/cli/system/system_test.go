package system

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/session"
	"github.com/julianstephens/wird/internal/storage/sqlite"
)

// setupTestContext returns a command context over a fresh local database.
func setupTestContext(t *testing.T) *cli.Context {
	t.Helper()
	cfg := config.Defaults()
	cfg.Storage.Path = filepath.Join(t.TempDir(), "wird.db")

	store := sqlite.NewStore(cfg.Storage.Path)
	if err := store.Init(); err != nil {
		t.Fatalf("failed to initialize test store: %v", err)
	}

	ctx := cli.NewContext(cfg, session.ResolveIdentity(cfg), store, nil)
	t.Cleanup(func() { _ = ctx.Close() })
	return ctx
}

func addHabit(t *testing.T, ctx *cli.Context, id, name string) {
	t.Helper()
	_, err := ctx.Store.UpsertHabit(context.Background(), models.Habit{
		ID:           id,
		Name:         name,
		Type:         constants.HabitRegular,
		IsActive:     true,
		AffectsScore: true,
		Recurrence:   models.Recurrence{Kind: constants.RecurrenceNone},
	})
	if err != nil {
		t.Fatalf("failed to add habit: %v", err)
	}
}
