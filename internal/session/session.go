// Package session opens the backend for the signed-in identity and wires it
// to a coordinator.
package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	wirderrors "github.com/julianstephens/wird/internal/errors"
	"github.com/julianstephens/wird/internal/keyring"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/storage"
	"github.com/julianstephens/wird/internal/storage/postgres"
	"github.com/julianstephens/wird/internal/storage/sqlite"
)

// ErrNoConnectionString is returned for cloud sessions without a DSN
var ErrNoConnectionString = errors.New("no PostgreSQL connection string configured")

// Session is one signed-in user's view of their data
type Session struct {
	Identity    *models.Identity
	Store       storage.Provider
	Coordinator *coordinator.Coordinator
}

// ResolveIdentity maps the configured session mode to an identity. Cloud mode
// without a user id means nobody is signed in.
func ResolveIdentity(cfg *config.Config) *models.Identity {
	if cfg.IsCloud() {
		if cfg.Session.UserID == "" {
			return nil
		}
		return &models.Identity{ID: cfg.Session.UserID}
	}
	return &models.Identity{ID: constants.LocalIdentityID, LocalOnly: true}
}

// ConnectionString returns the Postgres DSN from config or the keyring.
func ConnectionString(cfg *config.Config) (string, error) {
	connStr := cfg.Storage.ConnectionString
	if connStr == "" {
		stored, err := keyring.GetConnectionString()
		if err != nil {
			if errors.Is(err, keyring.ErrNotFound) {
				return "", wirderrors.WithHint(ErrNoConnectionString,
					"run `wird keyring set database` or export "+constants.EnvDBConnection)
			}
			return "", err
		}
		connStr = stored
	}

	if _, err := postgres.ValidateConnString(connStr); err != nil {
		if errors.Is(err, postgres.ErrEmbeddedCredentials) {
			return "", wirderrors.WithHint(err, "store the password in ~/.pgpass or PGPASSWORD instead")
		}
		return "", err
	}
	return connStr, nil
}

// OpenStore builds the backend for identity without connecting to it.
func OpenStore(cfg *config.Config, identity *models.Identity) (storage.Provider, error) {
	if identity == nil {
		return nil, coordinator.ErrNotAuthenticated
	}
	if identity.LocalOnly {
		return sqlite.NewStore(cfg.Storage.Path), nil
	}

	connStr, err := ConnectionString(cfg)
	if err != nil {
		return nil, err
	}
	return postgres.New(connStr, identity.ID), nil
}

// Start opens and loads the backend for identity and returns a session whose
// coordinator already holds the user's data.
func Start(ctx context.Context, cfg *config.Config, identity *models.Identity, sink notifier.Sink) (*Session, error) {
	store, err := OpenStore(cfg, identity)
	if err != nil {
		return nil, err
	}
	return Attach(ctx, cfg, identity, store, sink)
}

// Attach loads an already built store and puts a coordinator in front of it.
// The store is closed again if loading fails.
func Attach(ctx context.Context, cfg *config.Config, identity *models.Identity, store storage.Provider, sink notifier.Sink) (*Session, error) {
	if identity == nil {
		return nil, coordinator.ErrNotAuthenticated
	}

	if err := store.Load(); err != nil {
		if identity.LocalOnly {
			return nil, wirderrors.WithHint(fmt.Errorf("failed to open %s: %w", store.GetConfigPath(), err),
				"run `wird init` first")
		}
		return nil, fmt.Errorf("failed to connect to %s: %w", store.GetConfigPath(), err)
	}

	coord := coordinator.New(identity, store, sink,
		coordinator.WithWriteTimeout(cfg.Storage.WriteTimeout.Std()),
	)
	if err := coord.Load(ctx); err != nil {
		store.Close()
		return nil, fmt.Errorf("failed to load data: %w", err)
	}

	logger.Info("session started", "user", identity.ID, "backend", store.GetConfigPath())
	return &Session{Identity: identity, Store: store, Coordinator: coord}, nil
}

// Close waits for pending writes, then closes the backend.
func (s *Session) Close() error {
	if err := s.Coordinator.Close(); err != nil {
		return err
	}
	return s.Store.Close()
}
