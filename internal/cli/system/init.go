package system

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/julianstephens/wird/internal/backup"
	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/presets"
	"github.com/julianstephens/wird/internal/storage"
	"github.com/julianstephens/wird/internal/storage/postgres"
	"github.com/julianstephens/wird/internal/storage/sqlite"
)

type InitCmd struct {
	Force      bool   `help:"Back up and delete the existing local database before initializing."`
	Presets    bool   `help:"Add the built-in prayers, Quran, adhkar and fasts."`
	Source     string `help:"Database path or PostgreSQL connection string to copy data from."`
	SourceUser string `help:"User whose data to copy when the source is PostgreSQL. Defaults to the current user."`
}

func (c *InitCmd) Run(ctx *cli.Context) error {
	if c.Force {
		if err := c.reset(ctx); err != nil {
			return err
		}
	}

	if err := ctx.Store.Init(); err != nil {
		return err
	}
	fmt.Printf("Initialized wird storage at: %s\n", ctx.Store.GetConfigPath())

	if path := ctx.Config.Path(); path != "" {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := config.Write(ctx.Config, path); err != nil {
				return err
			}
			fmt.Printf("Wrote default configuration to: %s\n", path)
		}
	}

	bg := context.Background()
	if c.Source != "" {
		fmt.Printf("Copying data from: %s\n", c.Source)
		stats, err := c.copyFrom(bg, ctx)
		if err != nil {
			return fmt.Errorf("copy failed: %w", err)
		}
		fmt.Printf("  Copied %d habits, %d logs, %d reasons\n", stats.Habits, stats.Logs, stats.Reasons)
	}

	if c.Presets {
		coord, err := ctx.Coordinator(bg)
		if err != nil {
			return err
		}
		added, err := presets.Seed(bg, coord)
		if err != nil {
			return err
		}
		if err := ctx.Commit(); err != nil {
			return err
		}
		fmt.Printf("Added %d preset habit(s)\n", added)
	}
	return nil
}

// reset removes the local database after saving a backup of it.
func (c *InitCmd) reset(ctx *cli.Context) error {
	if _, ok := ctx.Store.(*sqlite.Store); !ok {
		return errors.New("--force is only supported for local storage")
	}

	dbPath := ctx.Store.GetConfigPath()
	// Don't delete if it's the source (user error protection)
	if c.Source != "" {
		absDB, errDB := filepath.Abs(dbPath)
		absSource, errSource := filepath.Abs(c.Source)
		if errDB == nil && errSource == nil && absDB == absSource {
			return fmt.Errorf("cannot use --force when source and destination are the same: %s", dbPath)
		}
	}

	if _, err := os.Stat(dbPath); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to access existing database: %w", err)
	}

	saved, err := backup.NewManager(dbPath).Create()
	if err != nil {
		return fmt.Errorf("failed to back up existing database: %w", err)
	}
	fmt.Printf("Backed up existing database to: %s\n", saved)

	// Database exists, close it first to prevent file locking issues
	if err := ctx.Close(); err != nil {
		return fmt.Errorf("failed to close existing database: %w", err)
	}
	if err := os.Remove(dbPath); err != nil {
		return fmt.Errorf("failed to delete existing database: %w", err)
	}
	fmt.Printf("Deleted existing database at: %s\n", dbPath)
	return nil
}

func (c *InitCmd) copyFrom(bg context.Context, ctx *cli.Context) (storage.CopyStats, error) {
	var source storage.Provider
	if strings.HasPrefix(c.Source, "postgres://") || strings.HasPrefix(c.Source, "postgresql://") || strings.Contains(c.Source, "host=") {
		if _, err := postgres.ValidateConnString(c.Source); err != nil {
			if errors.Is(err, postgres.ErrEmbeddedCredentials) {
				return storage.CopyStats{}, fmt.Errorf("PostgreSQL source connection string contains embedded credentials. Use environment variables or .pgpass instead")
			}
			return storage.CopyStats{}, err
		}
		user := c.SourceUser
		if user == "" && ctx.Identity != nil {
			user = ctx.Identity.ID
		}
		source = postgres.New(c.Source, user)
	} else {
		source = sqlite.NewStore(c.Source)
	}

	if err := source.Load(); err != nil {
		return storage.CopyStats{}, fmt.Errorf("failed to load source database: %w", err)
	}
	defer source.Close()

	return storage.Copy(bg, source, ctx.Store)
}
