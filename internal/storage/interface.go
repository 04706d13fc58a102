package storage

import (
	"context"

	"github.com/julianstephens/wird/internal/models"
)

// HabitStore persists habit definitions. Every write returns the full,
// ordered collection as the backend now holds it.
type HabitStore interface {
	ListHabits(ctx context.Context) ([]models.Habit, error)
	UpsertHabit(ctx context.Context, habit models.Habit) ([]models.Habit, error)
	// DeleteHabit removes the habit and every log that references it.
	DeleteHabit(ctx context.Context, id string) ([]models.Habit, error)
}

// LogStore persists daily results, keyed by (habit id, date)
type LogStore interface {
	ListLogs(ctx context.Context) ([]models.HabitLog, error)
	UpsertLog(ctx context.Context, log models.HabitLog) ([]models.HabitLog, error)
	DeleteLog(ctx context.Context, habitID, date string) ([]models.HabitLog, error)
}

// ReasonStore persists the user's custom excuse reasons
type ReasonStore interface {
	ListReasons(ctx context.Context) ([]models.CustomReason, error)
	UpsertReason(ctx context.Context, reason models.CustomReason) ([]models.CustomReason, error)
	DeleteReason(ctx context.Context, text string) ([]models.CustomReason, error)
}

// Provider is a storage backend. Exactly one is chosen per session.
type Provider interface {
	// Lifecycle
	Init() error
	Load() error
	Close() error

	HabitStore
	LogStore
	ReasonStore

	// Utils
	GetConfigPath() string
}

// Migrator is implemented by backends with a versioned schema
type Migrator interface {
	Migrate(logFn func(string)) (int, error)
	SchemaVersion() (current, latest int, err error)
}
