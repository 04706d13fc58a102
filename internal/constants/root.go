package constants

import "time"

// HabitType is the kind of value a habit is logged with
type HabitType string

// LogStatus is the outcome recorded by a habit log
type LogStatus string

// RecurrenceKind selects the calendar rule a habit follows
type RecurrenceKind string

// NotificationKind distinguishes success and failure toasts
type NotificationKind string

// SessionState represents the current state of the TUI application
type SessionState int

const (
	AppName            = "wird"
	DefaultKeyringUser = "database-connection"
	DefaultConfigDir   = "~/.config/wird"
	DefaultConfigPath  = "~/.config/wird/config.yaml"
	DefaultDBPath      = "~/.config/wird/wird.db"
	LocalIdentityID    = "local"
	Version            = "v0.1.0"

	// DateFormat is the standard date format used throughout the application (YYYY-MM-DD)
	DateFormat = "2006-01-02"

	// Backup constants
	MaxBackups       = 14
	BackupDirName    = "backups"
	BackupFilePrefix = "wird-"
	BackupFileSuffix = ".db"

	// Notify constants
	NotificationDuration = 2 * time.Second
	NotifierLockfileName = "wird-notifier.lock"
	TrayAppIdentifier    = "com.julianstephens.wird"

	// Habit types
	HabitRegular HabitType = "regular"
	HabitCounter HabitType = "counter"
	HabitPrayer  HabitType = "prayer"

	// Log statuses
	StatusDone    LogStatus = "done"
	StatusFail    LogStatus = "fail"
	StatusExcused LogStatus = "excused"

	// Prayer quality scale. Only PrayerTakbirah preserves a streak.
	PrayerMissed       = 0
	PrayerOnTime       = 1
	PrayerCongregation = 2
	PrayerTakbirah     = 3

	// Recurrence kinds
	RecurrenceNone    RecurrenceKind = "none"
	RecurrenceWeekday RecurrenceKind = "weekday"
	RecurrenceLunar   RecurrenceKind = "lunar"

	// White days: 13th-15th of the lunar month
	WhiteDaysStart = 13
	WhiteDaysEnd   = 15

	// Notification kinds
	NotifySuccess  NotificationKind = "success"
	NotifyError    NotificationKind = "error"
	NotifyReminder NotificationKind = "reminder"
)

// Session States
const (
	StateToday SessionState = iota
	StateAddHabit
	StateReason
)
