package tui

import (
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
)

func TestHabitFormModel_Habit(t *testing.T) {
	tests := []struct {
		name    string
		form    HabitFormModel
		wantErr bool
		check   func(t *testing.T, fm HabitFormModel)
	}{
		{
			name: "daily regular",
			form: HabitFormModel{Name: " Duha ", Type: "regular", Schedule: scheduleDaily},
		},
		{
			name: "counter with target",
			form: HabitFormModel{Name: "Quran", Type: "counter", Target: "10", Schedule: scheduleDaily, Bonus: true},
		},
		{
			name:    "counter without target",
			form:    HabitFormModel{Name: "Quran", Type: "counter", Schedule: scheduleDaily},
			wantErr: true,
		},
		{
			name: "weekday fast",
			form: HabitFormModel{Name: "Fast", Type: "regular", Schedule: scheduleWeekday, Weekdays: "mon,thu"},
		},
		{
			name:    "bad weekdays",
			form:    HabitFormModel{Name: "Fast", Type: "regular", Schedule: scheduleWeekday, Weekdays: "someday"},
			wantErr: true,
		},
		{
			name: "white days",
			form: HabitFormModel{Name: "Fast", Type: "regular", Schedule: scheduleLunar, Lunar: "white", RequireReason: true},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h, err := tt.form.Habit()
			if (err != nil) != tt.wantErr {
				t.Fatalf("Habit() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				return
			}
			if h.Name != "Duha" && h.Name != tt.form.Name {
				t.Errorf("name = %q", h.Name)
			}
			if !h.IsActive || h.AffectsScore == tt.form.Bonus || h.RequireReason != tt.form.RequireReason {
				t.Errorf("flags = %+v", h)
			}
			switch tt.form.Schedule {
			case scheduleWeekday:
				if h.Recurrence.Kind != constants.RecurrenceWeekday || h.Recurrence.Weekdays[1] != time.Thursday {
					t.Errorf("recurrence = %+v", h.Recurrence)
				}
			case scheduleLunar:
				if h.Recurrence.Kind != constants.RecurrenceLunar || h.Recurrence.LunarStartDay != constants.WhiteDaysStart {
					t.Errorf("recurrence = %+v", h.Recurrence)
				}
			default:
				if h.Recurrence.Kind != constants.RecurrenceNone {
					t.Errorf("recurrence = %+v", h.Recurrence)
				}
			}
			if h.Type == constants.HabitCounter && h.DailyTarget != 10 {
				t.Errorf("target = %d", h.DailyTarget)
			}
		})
	}
}

func TestValidateTarget(t *testing.T) {
	for _, s := range []string{"1", " 33 "} {
		if err := validateTarget(s); err != nil {
			t.Errorf("validateTarget(%q) = %v", s, err)
		}
	}
	for _, s := range []string{"", "0", "-3", "ten"} {
		if err := validateTarget(s); err == nil {
			t.Errorf("validateTarget(%q) should fail", s)
		}
	}
}
