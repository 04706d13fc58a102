package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
)

// clearEnv unsets every variable Load reads
func clearEnv(t *testing.T) {
	t.Helper()
	for _, v := range []string{
		constants.EnvConfigPath,
		constants.EnvSessionMode,
		constants.EnvUserID,
		constants.EnvDBConnection,
		constants.EnvTimezone,
		constants.EnvOpenAIKey,
		"WIRD_HIJRI_OFFSET",
		"WIRD_WRITE_TIMEOUT",
		"WIRD_LOG_LEVEL",
	} {
		t.Setenv(v, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0600); err != nil {
		t.Fatalf("failed to write config: %v", err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	clearEnv(t)

	path := filepath.Join(t.TempDir(), "missing.yaml")
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.Mode != constants.SessionModeLocal {
		t.Errorf("Session.Mode = %q, want local", cfg.Session.Mode)
	}
	if cfg.Storage.WriteTimeout.Std() != constants.DefaultWriteTimeout {
		t.Errorf("Storage.WriteTimeout = %v, want %v", cfg.Storage.WriteTimeout.Std(), constants.DefaultWriteTimeout)
	}
	if cfg.Reminder.Schedule != constants.DefaultReminderSchedule {
		t.Errorf("Reminder.Schedule = %q", cfg.Reminder.Schedule)
	}
	if cfg.Notify.ToastTTL.Std() != 2*time.Second {
		t.Errorf("Notify.ToastTTL = %v, want 2s", cfg.Notify.ToastTTL.Std())
	}
	if strings.HasPrefix(cfg.Storage.Path, "~") {
		t.Errorf("Storage.Path %q was not expanded", cfg.Storage.Path)
	}
	if cfg.Dir() != filepath.Dir(path) {
		t.Errorf("Dir() = %q, want %q", cfg.Dir(), filepath.Dir(path))
	}
}

func TestLoad_YAMLFile(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, `
session:
  mode: cloud
  user_id: user-123
storage:
  path: /tmp/wird-test.db
  write_timeout: 3s
calendar:
  timezone: Asia/Riyadh
  hijri_offset: -1
reminder:
  schedule: "30 20 * * *"
insight:
  window_days: 7
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if !cfg.IsCloud() || cfg.Session.UserID != "user-123" {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Storage.Path != "/tmp/wird-test.db" {
		t.Errorf("Storage.Path = %q", cfg.Storage.Path)
	}
	if cfg.Storage.WriteTimeout.Std() != 3*time.Second {
		t.Errorf("Storage.WriteTimeout = %v", cfg.Storage.WriteTimeout.Std())
	}
	if cfg.Calendar.Timezone != "Asia/Riyadh" || cfg.Calendar.HijriOffset != -1 {
		t.Errorf("Calendar = %+v", cfg.Calendar)
	}
	if cfg.Reminder.Schedule != "30 20 * * *" {
		t.Errorf("Reminder.Schedule = %q", cfg.Reminder.Schedule)
	}
	if cfg.Insight.Window != 7 {
		t.Errorf("Insight.Window = %d", cfg.Insight.Window)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "calendar:\n  timezone: UTC\n")
	t.Setenv(constants.EnvSessionMode, constants.SessionModeCloud)
	t.Setenv(constants.EnvUserID, "env-user")
	t.Setenv(constants.EnvDBConnection, "host=localhost dbname=wird")
	t.Setenv(constants.EnvTimezone, "Europe/London")
	t.Setenv(constants.EnvOpenAIKey, "sk-test")
	t.Setenv("WIRD_HIJRI_OFFSET", "1")
	t.Setenv("WIRD_WRITE_TIMEOUT", "250ms")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Session.UserID != "env-user" || !cfg.IsCloud() {
		t.Errorf("Session = %+v", cfg.Session)
	}
	if cfg.Storage.ConnectionString != "host=localhost dbname=wird" {
		t.Errorf("ConnectionString = %q", cfg.Storage.ConnectionString)
	}
	if cfg.Calendar.Timezone != "Europe/London" || cfg.Calendar.HijriOffset != 1 {
		t.Errorf("Calendar = %+v", cfg.Calendar)
	}
	if cfg.Insight.APIKey != "sk-test" {
		t.Errorf("Insight.APIKey not read from env")
	}
	if cfg.Storage.WriteTimeout.Std() != 250*time.Millisecond {
		t.Errorf("WriteTimeout = %v", cfg.Storage.WriteTimeout.Std())
	}
}

func TestLoad_ConfigPathFromEnv(t *testing.T) {
	clearEnv(t)

	path := writeConfig(t, "log:\n  level: debug\n")
	t.Setenv(constants.EnvConfigPath, path)

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Path() != path || cfg.Log.Level != "debug" {
		t.Errorf("Load(\"\") path = %q level = %q", cfg.Path(), cfg.Log.Level)
	}
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"bad mode", "session:\n  mode: remote\n", "session.mode"},
		{"cloud without user", "session:\n  mode: cloud\n", "user_id"},
		{"bad timezone", "calendar:\n  timezone: Mars/Olympus\n", "timezone"},
		{"offset out of range", "calendar:\n  hijri_offset: 3\n", "hijri_offset"},
		{"bad schedule", "reminder:\n  schedule: every day\n", "reminder.schedule"},
		{"bad duration", "storage:\n  write_timeout: soon\n", "invalid duration"},
		{"zero timeout", "storage:\n  write_timeout: 0s\n", "write_timeout"},
		{"bad yaml", "session: [", "parsing config file"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			_, err := Load(writeConfig(t, tt.body))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Load() error = %v, want containing %q", err, tt.want)
			}
		})
	}
}

func TestWrite_RoundTrip(t *testing.T) {
	clearEnv(t)

	cfg := Defaults()
	cfg.Calendar.HijriOffset = 1
	cfg.Storage.ConnectionString = "must not be written"

	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	if err := Write(cfg, path); err != nil {
		t.Fatalf("Write() error = %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "must not be written") {
		t.Error("secret written to config file")
	}

	loaded, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if loaded.Calendar.HijriOffset != 1 || loaded.Storage.WriteTimeout != cfg.Storage.WriteTimeout {
		t.Errorf("round trip lost values: %+v", loaded)
	}
}
