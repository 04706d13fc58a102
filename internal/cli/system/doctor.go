package system

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/julianstephens/wird/internal/backup"
	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/storage"
	"github.com/julianstephens/wird/internal/storage/sqlite"
	"github.com/julianstephens/wird/internal/utils"
)

type DoctorCmd struct{}

// check is one diagnostic. Warnings never fail the command.
type check struct {
	name     string
	run      func(ctx *cli.Context) error
	needsDB  bool
	warnOnly bool
}

var checks = []check{
	{name: "Database reachable", run: checkDBReachable},
	{name: "Schema version", run: checkSchemaVersion, needsDB: true},
	{name: "Migrations complete", run: checkMigrationsComplete, needsDB: true},
	{name: "Data integrity", run: checkDataIntegrity, needsDB: true},
	{name: "Backups present", run: checkBackupsPresent, warnOnly: true},
	{name: "Timezone", run: checkTimezone},
	{name: "Clock", run: func(*cli.Context) error { return checkClock(time.Now()) }},
}

func (cmd *DoctorCmd) Run(ctx *cli.Context) error {
	fmt.Println("Running diagnostics...")
	fmt.Println()

	hasError := false
	dbReachable := true
	for _, c := range checks {
		if c.needsDB && !dbReachable {
			fmt.Printf("⊘ %s: SKIPPED (database not reachable)\n", c.name)
			continue
		}

		err := c.run(ctx)
		switch {
		case err == nil:
			fmt.Printf("✓ %s: OK\n", c.name)
		case c.warnOnly:
			fmt.Printf("⚠ %s: WARNING\n", c.name)
			fmt.Printf("   %v\n", err)
		default:
			fmt.Printf("❌ %s: FAIL\n", c.name)
			fmt.Printf("   Error: %v\n", err)
			hasError = true
			if c.name == "Database reachable" {
				dbReachable = false
			}
		}
	}

	fmt.Println()
	if hasError {
		fmt.Println("Some checks failed. Please review the errors above.")
		return errors.New("diagnostics failed")
	}
	fmt.Println("All checks passed!")
	return nil
}

func checkDBReachable(ctx *cli.Context) error {
	if err := ctx.Store.Load(); err != nil {
		return fmt.Errorf("failed to load database: %w", err)
	}

	// For SQLite, also try a simple query
	if s, ok := ctx.Store.(*sqlite.Store); ok {
		db := s.GetDB()
		if db == nil {
			return fmt.Errorf("database connection is nil")
		}
		var result int
		if err := db.QueryRow("SELECT 1").Scan(&result); err != nil {
			return fmt.Errorf("failed to query database: %w", err)
		}
	}
	return nil
}

func checkSchemaVersion(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current > latest {
		return fmt.Errorf("database schema version (%d) is newer than supported version (%d)", current, latest)
	}
	return nil
}

func checkMigrationsComplete(ctx *cli.Context) error {
	migrator, ok := ctx.Store.(storage.Migrator)
	if !ok {
		return nil
	}
	current, latest, err := migrator.SchemaVersion()
	if err != nil {
		return fmt.Errorf("failed to read schema version: %w", err)
	}
	if current < latest {
		return fmt.Errorf("migrations incomplete: current version %d, latest version %d (run 'wird migrate')", current, latest)
	}
	return nil
}

func checkDataIntegrity(ctx *cli.Context) error {
	bg := context.Background()
	habits, err := ctx.Store.ListHabits(bg)
	if err != nil {
		return fmt.Errorf("failed to list habits: %w", err)
	}
	logs, err := ctx.Store.ListLogs(bg)
	if err != nil {
		return fmt.Errorf("failed to list logs: %w", err)
	}
	return validateData(habits, logs)
}

// validateData reports the first habit or log that the app would reject.
func validateData(habits []models.Habit, logs []models.HabitLog) error {
	known := make(map[string]bool, len(habits))
	for _, h := range habits {
		if known[h.ID] {
			return fmt.Errorf("duplicate habit ID found: %s", h.ID)
		}
		known[h.ID] = true
		if err := h.Validate(); err != nil {
			return fmt.Errorf("habit %s: %w", h.ID, err)
		}
	}

	seen := make(map[models.LogKey]bool, len(logs))
	for _, l := range logs {
		if !known[l.HabitID] {
			return fmt.Errorf("log for %s on %s references a missing habit", l.HabitID, l.Date)
		}
		if !utils.ValidateDateFormat(l.Date) {
			return fmt.Errorf("log for %s has invalid date %q", l.HabitID, l.Date)
		}
		if !models.ValidStatus(l.Status) {
			return fmt.Errorf("log for %s on %s has invalid status %q", l.HabitID, l.Date, l.Status)
		}
		if seen[l.Key()] {
			return fmt.Errorf("duplicate log for %s on %s", l.HabitID, l.Date)
		}
		seen[l.Key()] = true
	}
	return nil
}

func checkBackupsPresent(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return nil
	}
	backups, err := backup.NewManager(ctx.Store.GetConfigPath()).List()
	if err != nil {
		return fmt.Errorf("failed to list backups: %w", err)
	}
	if len(backups) == 0 {
		return fmt.Errorf("no backups found - consider creating one with 'wird backup create'")
	}
	return nil
}

func checkTimezone(ctx *cli.Context) error {
	if !utils.ValidateTimezone(ctx.Config.Calendar.Timezone) {
		return fmt.Errorf("unknown timezone %q", ctx.Config.Calendar.Timezone)
	}
	return nil
}

func checkClock(now time.Time) error {
	// Check if time is in a reasonable range (after 2020 and before 2100)
	if now.Year() < 2020 || now.Year() > 2100 {
		return fmt.Errorf("system time appears incorrect: %s", now.Format(time.RFC3339))
	}
	return nil
}
