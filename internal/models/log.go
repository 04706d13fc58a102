package models

import (
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/wird/internal/constants"
)

// logNamespace seeds the deterministic log ids
var logNamespace = uuid.MustParse("6f1c7c36-2b0e-4b8e-9a59-0d9c3b1f7a21")

// HabitLog represents a single day's result for one habit
type HabitLog struct {
	ID        string              `json:"id"`
	HabitID   string              `json:"habit_id"`
	Date      string              `json:"date"` // YYYY-MM-DD format
	Value     int                 `json:"value"`
	Status    constants.LogStatus `json:"status"`
	Reason    string              `json:"reason,omitempty"`
	Timestamp time.Time           `json:"timestamp"`
}

// LogKey is the natural identity of a log
type LogKey struct {
	HabitID string
	Date    string
}

func (k LogKey) String() string {
	return k.HabitID + "|" + k.Date
}

// LogID derives the storage id for a (habit, date) pair so that re-saving
// the same pair always addresses the same record.
func LogID(habitID, date string) string {
	return uuid.NewSHA1(logNamespace, []byte(LogKey{HabitID: habitID, Date: date}.String())).String()
}

func (l HabitLog) Key() LogKey {
	return LogKey{HabitID: l.HabitID, Date: l.Date}
}

// ValidStatus reports whether s is one of the known log statuses
func ValidStatus(s constants.LogStatus) bool {
	switch s {
	case constants.StatusDone, constants.StatusFail, constants.StatusExcused:
		return true
	}
	return false
}

// PrayerLabel names a prayer quality value
func PrayerLabel(value int) string {
	switch value {
	case constants.PrayerMissed:
		return "missed"
	case constants.PrayerOnTime:
		return "on time"
	case constants.PrayerCongregation:
		return "in congregation"
	case constants.PrayerTakbirah:
		return "with takbirah"
	default:
		return "unknown"
	}
}
