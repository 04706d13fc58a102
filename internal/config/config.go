package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/robfig/cron/v3"
	"gopkg.in/yaml.v3"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/utils"
)

// Config is the root configuration structure. It is read-only after Load returns.
type Config struct {
	Session  SessionConfig  `yaml:"session"`
	Storage  StorageConfig  `yaml:"storage"`
	Calendar CalendarConfig `yaml:"calendar"`
	Reminder ReminderConfig `yaml:"reminder"`
	Insight  InsightConfig  `yaml:"insight"`
	Notify   NotifyConfig   `yaml:"notify"`
	Log      LogConfig      `yaml:"log"`

	// path is where the config was read from, empty for pure defaults
	path string
}

// SessionConfig selects who is signed in and which backend serves them.
type SessionConfig struct {
	Mode   string `yaml:"mode"`    // "local" or "cloud"
	UserID string `yaml:"user_id"` // required for cloud
}

type StorageConfig struct {
	Path             string   `yaml:"path"`
	ConnectionString string   `yaml:"-"` // env or keyring only
	WriteTimeout     Duration `yaml:"write_timeout"`
}

type CalendarConfig struct {
	Timezone    string `yaml:"timezone"`
	HijriOffset int    `yaml:"hijri_offset"`
}

type ReminderConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"`
}

type InsightConfig struct {
	APIKey    string   `yaml:"-"` // env or keyring only
	Model     string   `yaml:"model"`
	Window    int      `yaml:"window_days"`
	CacheTTL  Duration `yaml:"cache_ttl"`
	CachePath string   `yaml:"cache_path"`
}

type NotifyConfig struct {
	Tray     bool     `yaml:"tray"`
	ToastTTL Duration `yaml:"toast_ttl"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Duration is a time.Duration that reads and writes YAML strings like "10s".
type Duration time.Duration

func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.ParseDuration(s)
	if err != nil {
		return fmt.Errorf("invalid duration %q: %w", s, err)
	}
	*d = Duration(parsed)
	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return time.Duration(d).String(), nil
}

// Std returns the value as a time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Path returns the file the configuration was loaded from.
func (c *Config) Path() string {
	return c.path
}

// Dir is the directory holding the config file, logs and backups.
func (c *Config) Dir() string {
	if c.path == "" {
		return utils.ExpandPath(constants.DefaultConfigDir)
	}
	return filepath.Dir(c.path)
}

// IsCloud reports whether the session uses the remote backend.
func (c *Config) IsCloud() bool {
	return c.Session.Mode == constants.SessionModeCloud
}

// Load reads configuration with precedence: defaults, then the YAML file,
// then environment variables. An empty path falls back to WIRD_CONFIG_PATH
// and then the default location. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Defaults()

	if path == "" {
		path = getEnv(constants.EnvConfigPath, constants.DefaultConfigPath)
	}
	cfg.path = utils.ExpandPath(path)

	if err := loadYAMLFile(cfg, cfg.path); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)
	cfg.Storage.Path = utils.ExpandPath(cfg.Storage.Path)
	cfg.Insight.CachePath = utils.ExpandPath(cfg.Insight.CachePath)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Defaults returns a Config with every default applied.
func Defaults() *Config {
	return &Config{
		Session: SessionConfig{
			Mode: constants.SessionModeLocal,
		},
		Storage: StorageConfig{
			Path:         constants.DefaultDBPath,
			WriteTimeout: Duration(constants.DefaultWriteTimeout),
		},
		Calendar: CalendarConfig{
			Timezone:    constants.DefaultTimezone,
			HijriOffset: constants.DefaultHijriOffset,
		},
		Reminder: ReminderConfig{
			Enabled:  true,
			Schedule: constants.DefaultReminderSchedule,
		},
		Insight: InsightConfig{
			Model:     constants.DefaultInsightModel,
			Window:    constants.DefaultInsightWindow,
			CacheTTL:  Duration(constants.DefaultInsightCacheTTL),
			CachePath: constants.DefaultConfigDir + "/insight-cache.json",
		},
		Notify: NotifyConfig{
			Tray:     true,
			ToastTTL: Duration(constants.NotificationDuration),
		},
		Log: LogConfig{
			Level: "warn",
		},
	}
}

// Write stores the configuration as YAML at path, creating parent directories.
func Write(cfg *Config, path string) error {
	path = utils.ExpandPath(path)
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

func loadYAMLFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parsing config file: %w", err)
	}
	return nil
}

// applyEnvOverrides applies non-empty environment variables over the config.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv(constants.EnvSessionMode); v != "" {
		cfg.Session.Mode = v
	}
	if v := os.Getenv(constants.EnvUserID); v != "" {
		cfg.Session.UserID = v
	}
	if v := os.Getenv(constants.EnvDBConnection); v != "" {
		cfg.Storage.ConnectionString = v
	}
	if v := os.Getenv(constants.EnvTimezone); v != "" {
		cfg.Calendar.Timezone = v
	}
	if v := os.Getenv("WIRD_HIJRI_OFFSET"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			cfg.Calendar.HijriOffset = n
		}
	}
	if v := os.Getenv("WIRD_WRITE_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Storage.WriteTimeout = Duration(d)
		}
	}
	if v := os.Getenv("WIRD_LOG_LEVEL"); v != "" {
		cfg.Log.Level = v
	}
	// OPENAI_API_KEY is industry convention
	if v := os.Getenv(constants.EnvOpenAIKey); v != "" {
		cfg.Insight.APIKey = v
	}
}

// Validate checks value ranges and cross-field requirements.
func (c *Config) Validate() error {
	switch c.Session.Mode {
	case constants.SessionModeLocal:
	case constants.SessionModeCloud:
		if c.Session.UserID == "" {
			return errors.New("session.user_id is required in cloud mode")
		}
	default:
		return fmt.Errorf("session.mode must be %q or %q, got %q",
			constants.SessionModeLocal, constants.SessionModeCloud, c.Session.Mode)
	}

	if c.Storage.WriteTimeout <= 0 {
		return errors.New("storage.write_timeout must be positive")
	}
	if !utils.ValidateTimezone(c.Calendar.Timezone) {
		return fmt.Errorf("calendar.timezone %q is not a valid IANA timezone", c.Calendar.Timezone)
	}
	if c.Calendar.HijriOffset < -constants.MaxHijriOffset || c.Calendar.HijriOffset > constants.MaxHijriOffset {
		return fmt.Errorf("calendar.hijri_offset must be between -%d and %d", constants.MaxHijriOffset, constants.MaxHijriOffset)
	}
	if _, err := cron.ParseStandard(c.Reminder.Schedule); err != nil {
		return fmt.Errorf("reminder.schedule: %w", err)
	}
	if c.Insight.Window < 1 {
		return errors.New("insight.window_days must be at least 1")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
