package constants

import "time"

const (
	// Session modes
	SessionModeLocal = "local"
	SessionModeCloud = "cloud"

	// Environment variables
	EnvConfigPath   = "WIRD_CONFIG_PATH"
	EnvSessionMode  = "WIRD_SESSION_MODE"
	EnvUserID       = "WIRD_USER_ID"
	EnvDBConnection = "WIRD_DB_CONNECTION"
	EnvTimezone     = "WIRD_TIMEZONE"
	EnvOpenAIKey    = "OPENAI_API_KEY"

	// Default config values
	DefaultWriteTimeout     = 10 * time.Second
	DefaultTimezone         = "Local" // Use system local timezone by default
	DefaultHijriOffset      = 0
	MaxHijriOffset          = 2
	DefaultReminderSchedule = "0 21 * * *"
	DefaultInsightModel     = "gpt-4o-mini"
	DefaultInsightCacheTTL  = 24 * time.Hour
	DefaultInsightWindow    = 14
)
