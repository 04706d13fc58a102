// Package presets holds the built-in habit set offered on first run.
package presets

import (
	"context"
	"fmt"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/models"
)

// Prayer ids are reserved for the five daily prayers
var prayers = []struct{ id, name, nameAr string }{
	{"fajr", "Fajr", "الفجر"},
	{"dhuhr", "Dhuhr", "الظهر"},
	{"asr", "Asr", "العصر"},
	{"maghrib", "Maghrib", "المغرب"},
	{"isha", "Isha", "العشاء"},
}

// IsPrayer reports whether id is one of the reserved prayer ids
func IsPrayer(id string) bool {
	for _, p := range prayers {
		if p.id == id {
			return true
		}
	}
	return false
}

// Habits returns a fresh copy of the preset habits in display order.
func Habits() []models.Habit {
	none := models.Recurrence{Kind: constants.RecurrenceNone}

	var habits []models.Habit
	for _, p := range prayers {
		habits = append(habits, models.Habit{
			ID: p.id, Name: p.name, NameAr: p.nameAr,
			Type: constants.HabitPrayer, IsActive: true, AffectsScore: true,
			RequireReason: true, Recurrence: none,
		})
	}

	habits = append(habits,
		models.Habit{
			ID: "quran", Name: "Quran", NameAr: "القرآن",
			Type: constants.HabitCounter, DailyTarget: 10,
			IsActive: true, AffectsScore: true, Recurrence: none,
		},
		models.Habit{
			ID: "adhkar-morning", Name: "Morning adhkar", NameAr: "أذكار الصباح",
			Type: constants.HabitRegular, IsActive: true, AffectsScore: true, Recurrence: none,
		},
		models.Habit{
			ID: "adhkar-evening", Name: "Evening adhkar", NameAr: "أذكار المساء",
			Type: constants.HabitRegular, IsActive: true, AffectsScore: true, Recurrence: none,
		},
		models.Habit{
			ID: "fast-mon-thu", Name: "Monday & Thursday fast", NameAr: "صيام الإثنين والخميس",
			Type: constants.HabitRegular, IsActive: true, AffectsScore: true,
			Recurrence: models.WeekdayRecurrence(time.Monday, time.Thursday),
		},
		models.Habit{
			ID: "white-days", Name: "White days fast", NameAr: "صيام الأيام البيض",
			Type: constants.HabitRegular, IsActive: true, AffectsScore: true,
			Recurrence: models.LunarRecurrence(constants.WhiteDaysStart, constants.WhiteDaysEnd),
		},
		// bonus: shown, but never counted against the day
		models.Habit{
			ID: "duha", Name: "Duha", NameAr: "الضحى",
			Type: constants.HabitRegular, IsActive: true, AffectsScore: false, Recurrence: none,
		},
	)

	for i := range habits {
		habits[i].Order = i
	}
	return habits
}

// Coordinator is the part of the coordinator Seed needs
type Coordinator interface {
	Snapshot() coordinator.State
	SaveHabit(ctx context.Context, h models.Habit) error
}

// Seed saves every preset whose id is not already taken, after the existing
// habits. It returns how many were added.
func Seed(ctx context.Context, c Coordinator) (int, error) {
	state := c.Snapshot()
	existing := make(map[string]bool, len(state.Habits))
	next := 0
	for _, h := range state.Habits {
		existing[h.ID] = true
		if h.Order >= next {
			next = h.Order + 1
		}
	}

	added := 0
	for _, h := range Habits() {
		if existing[h.ID] {
			continue
		}
		h.Order = next
		next++
		if err := c.SaveHabit(ctx, h); err != nil {
			return added, fmt.Errorf("failed to add preset %s: %w", h.ID, err)
		}
		added++
	}
	return added, nil
}
