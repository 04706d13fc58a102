package keyring

import (
	"errors"
	"fmt"

	"github.com/zalando/go-keyring"

	"github.com/julianstephens/wird/internal/constants"
)

// Entry names a secret stored under the wird service
type Entry string

const (
	// EntryDatabase holds the Postgres connection string for cloud sessions
	EntryDatabase Entry = constants.DefaultKeyringUser
	// EntryOpenAI holds the API key used by `wird insight`
	EntryOpenAI Entry = "openai-api-key"
)

var (
	// ErrNotFound is returned when no credentials are found in the keyring
	ErrNotFound = errors.New("credentials not found in keyring")
	// ErrKeyringUnavailable is returned when the OS keyring is not available
	ErrKeyringUnavailable = errors.New("OS keyring is not available")
)

// Get retrieves a secret, returning ErrNotFound when it was never stored.
func Get(entry Entry) (string, error) {
	value, err := keyring.Get(constants.AppName, string(entry))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("%w: %v", ErrKeyringUnavailable, err)
	}
	return value, nil
}

func Set(entry Entry, value string) error {
	if value == "" {
		return fmt.Errorf("%s cannot be empty", entry)
	}
	if err := keyring.Set(constants.AppName, string(entry), value); err != nil {
		return fmt.Errorf("failed to store %s in keyring: %w", entry, err)
	}
	return nil
}

func Delete(entry Entry) error {
	err := keyring.Delete(constants.AppName, string(entry))
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete %s from keyring: %w", entry, err)
	}
	return nil
}

// GetConnectionString retrieves the Postgres connection string.
func GetConnectionString() (string, error) {
	return Get(EntryDatabase)
}

// SetConnectionString stores the Postgres connection string.
func SetConnectionString(connStr string) error {
	return Set(EntryDatabase, connStr)
}

// DeleteConnectionString removes the Postgres connection string.
func DeleteConnectionString() error {
	return Delete(EntryDatabase)
}

// IsAvailable is a best-effort check of the OS keyring.
func IsAvailable() bool {
	_, err := keyring.Get(constants.AppName, "test-availability")
	return err == nil || errors.Is(err, keyring.ErrNotFound)
}
