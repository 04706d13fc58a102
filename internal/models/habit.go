package models

import (
	"fmt"
	"sort"
	"time"

	"github.com/julianstephens/wird/internal/constants"
)

// Recurrence restricts the calendar days a habit applies to
type Recurrence struct {
	Kind          constants.RecurrenceKind `json:"kind"`
	Weekdays      []time.Weekday           `json:"weekdays,omitempty"`
	LunarStartDay int                      `json:"lunar_start_day,omitempty"`
	LunarEndDay   int                      `json:"lunar_end_day,omitempty"`
}

// Habit represents a tracked practice
type Habit struct {
	ID            string              `json:"id"`
	Name          string              `json:"name"`
	NameAr        string              `json:"name_ar,omitempty"`
	Type          constants.HabitType `json:"type"`
	DailyTarget   int                 `json:"daily_target,omitempty"`
	IsActive      bool                `json:"is_active"`
	Order         int                 `json:"order"`
	StartDate     string              `json:"start_date,omitempty"` // YYYY-MM-DD format
	AffectsScore  bool                `json:"affects_score"`
	RequireReason bool                `json:"require_reason,omitempty"`
	Recurrence    Recurrence          `json:"recurrence"`
	CreatedAt     time.Time           `json:"created_at"`
}

// WeekdayRecurrence builds a recurrence limited to the given weekdays
func WeekdayRecurrence(days ...time.Weekday) Recurrence {
	return Recurrence{Kind: constants.RecurrenceWeekday, Weekdays: days}
}

// LunarRecurrence builds a recurrence limited to a window of lunar days-of-month
func LunarRecurrence(startDay, endDay int) Recurrence {
	return Recurrence{Kind: constants.RecurrenceLunar, LunarStartDay: startDay, LunarEndDay: endDay}
}

// IsBonus reports whether the habit is excluded from completion and score
func (h Habit) IsBonus() bool {
	return !h.AffectsScore
}

func (h Habit) Validate() error {
	if h.ID == "" {
		return fmt.Errorf("habit id cannot be empty")
	}
	if h.Name == "" {
		return fmt.Errorf("habit name cannot be empty")
	}

	switch h.Type {
	case constants.HabitRegular, constants.HabitPrayer:
	case constants.HabitCounter:
		if h.DailyTarget < 1 {
			return fmt.Errorf("counter habit %q needs a daily target of at least 1", h.ID)
		}
	default:
		return fmt.Errorf("unknown habit type %q", h.Type)
	}

	if h.StartDate != "" {
		if _, err := time.Parse(constants.DateFormat, h.StartDate); err != nil {
			return fmt.Errorf("invalid start date format (expected YYYY-MM-DD): %w", err)
		}
	}

	return h.Recurrence.Validate()
}

func (r Recurrence) Validate() error {
	switch r.Kind {
	case "", constants.RecurrenceNone:
		return nil
	case constants.RecurrenceWeekday:
		if len(r.Weekdays) == 0 {
			return fmt.Errorf("weekdays must be specified for weekday recurrence")
		}
		for _, wd := range r.Weekdays {
			if wd < time.Sunday || wd > time.Saturday {
				return fmt.Errorf("invalid weekday %d", wd)
			}
		}
		return nil
	case constants.RecurrenceLunar:
		if r.LunarStartDay < 1 || r.LunarEndDay > 30 || r.LunarStartDay > r.LunarEndDay {
			return fmt.Errorf("invalid lunar window %d-%d", r.LunarStartDay, r.LunarEndDay)
		}
		return nil
	default:
		return fmt.Errorf("unknown recurrence kind %q", r.Kind)
	}
}

// FormatRecurrence returns a human-readable string describing the recurrence
func (r Recurrence) FormatRecurrence() string {
	switch r.Kind {
	case constants.RecurrenceWeekday:
		days := make([]string, len(r.Weekdays))
		for i, wd := range r.Weekdays {
			days[i] = wd.String()[:3]
		}
		return fmt.Sprintf("weekly on %v", days)
	case constants.RecurrenceLunar:
		return fmt.Sprintf("lunar days %d-%d", r.LunarStartDay, r.LunarEndDay)
	default:
		return "daily"
	}
}

// SortHabits orders habits by Order. Ties keep their original position.
func SortHabits(habits []Habit) {
	sort.SliceStable(habits, func(i, j int) bool {
		return habits[i].Order < habits[j].Order
	})
}
