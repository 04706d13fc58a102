package utils

import (
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

// Resolver decides which habits are in scope on a calendar date.
// It holds no state beyond configuration and is safe to share.
type Resolver struct {
	HijriOffset int
}

// IsInScope reports whether the habit applies to the date using the
// unadjusted lunar calendar.
func IsInScope(habit models.Habit, date time.Time) bool {
	return Resolver{}.InScope(habit, date)
}

// InScope determines if a habit should be shown and counted on the given date.
// This logic is shared between the day list, completion and reminders so that
// they always agree.
func (r Resolver) InScope(habit models.Habit, date time.Time) bool {
	if !habit.IsActive {
		return false
	}
	if !r.started(habit, date) {
		return false
	}
	return r.OccursOn(habit, date)
}

// OccursOn evaluates only the habit's recurrence rule, ignoring the active
// flag and start date.
func (r Resolver) OccursOn(habit models.Habit, date time.Time) bool {
	switch habit.Recurrence.Kind {
	case constants.RecurrenceWeekday:
		for _, wd := range habit.Recurrence.Weekdays {
			if date.Weekday() == wd {
				return true
			}
		}
		return false
	case constants.RecurrenceLunar:
		day := ToHijri(date, r.HijriOffset).Day
		return day >= habit.Recurrence.LunarStartDay && day <= habit.Recurrence.LunarEndDay
	default:
		return true
	}
}

// started reports whether date is on or after the habit's start date.
// An unparseable start date is treated as unset.
func (r Resolver) started(habit models.Habit, date time.Time) bool {
	if habit.StartDate == "" {
		return true
	}
	start, err := ParseDate(habit.StartDate)
	if err != nil {
		return true
	}
	return !Midnight(date).Before(start)
}
