package utils

import (
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

func mustDate(t *testing.T, s string) time.Time {
	t.Helper()
	d, err := ParseDate(s)
	if err != nil {
		t.Fatalf("bad test date %q: %v", s, err)
	}
	return d
}

func TestIsInScope_Inactive(t *testing.T) {
	habit := models.Habit{ID: "adhkar", Type: constants.HabitRegular, IsActive: false}
	if IsInScope(habit, mustDate(t, "2024-03-10")) {
		t.Error("archived habit should never be in scope")
	}
}

func TestIsInScope_StartDateBoundary(t *testing.T) {
	habit := models.Habit{
		ID:        "quran",
		Type:      constants.HabitRegular,
		IsActive:  true,
		StartDate: "2024-03-10",
	}

	for _, day := range []string{"2024-03-09", "2024-03-01", "2023-12-31"} {
		if IsInScope(habit, mustDate(t, day)) {
			t.Errorf("habit in scope on %s, before its start date", day)
		}
	}
	if !IsInScope(habit, mustDate(t, "2024-03-10")) {
		t.Error("habit should be in scope on its start date")
	}
	if !IsInScope(habit, mustDate(t, "2024-03-11")) {
		t.Error("habit should be in scope after its start date")
	}
}

func TestIsInScope_StartDateWithWallClockTime(t *testing.T) {
	habit := models.Habit{ID: "quran", Type: constants.HabitRegular, IsActive: true, StartDate: "2024-03-10"}
	lateEvening := time.Date(2024, 3, 10, 22, 15, 0, 0, time.UTC)
	if !IsInScope(habit, lateEvening) {
		t.Error("time of day must not push the start date boundary")
	}
}

func TestIsInScope_WeekdayThursdaySampledYear(t *testing.T) {
	habit := models.Habit{
		ID:         "fast_thursday",
		Type:       constants.HabitRegular,
		IsActive:   true,
		Recurrence: models.WeekdayRecurrence(time.Thursday),
	}

	inScope := map[time.Weekday]int{}
	day := mustDate(t, "2025-01-01")
	end := mustDate(t, "2026-01-01")
	for day.Before(end) {
		if IsInScope(habit, day) {
			inScope[day.Weekday()]++
		}
		day = day.AddDate(0, 0, 1)
	}

	if inScope[time.Thursday] != 52 {
		t.Errorf("expected 52 Thursdays in scope in 2025, got %d", inScope[time.Thursday])
	}
	for wd, n := range inScope {
		if wd != time.Thursday && n != 0 {
			t.Errorf("habit in scope on %d %s(s)", n, wd)
		}
	}
}

func TestIsInScope_MultipleWeekdays(t *testing.T) {
	habit := models.Habit{
		ID:         "fast",
		Type:       constants.HabitRegular,
		IsActive:   true,
		Recurrence: models.WeekdayRecurrence(time.Monday, time.Thursday),
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-11", true},  // Monday
		{"2024-03-12", false}, // Tuesday
		{"2024-03-14", true},  // Thursday
		{"2024-03-16", false}, // Saturday
	}
	for _, tt := range tests {
		if got := IsInScope(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsInScope(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}
}

func TestIsInScope_WhiteDays(t *testing.T) {
	habit := models.Habit{
		ID:         "white_days",
		Type:       constants.HabitRegular,
		IsActive:   true,
		Recurrence: models.LunarRecurrence(constants.WhiteDaysStart, constants.WhiteDaysEnd),
	}

	tests := []struct {
		date string
		want bool
	}{
		{"2024-03-22", false}, // 12 Ramadan
		{"2024-03-23", true},  // 13 Ramadan
		{"2024-03-24", true},  // 14 Ramadan
		{"2024-03-25", true},  // 15 Ramadan
		{"2024-03-26", false}, // 16 Ramadan
		{"2024-01-24", true},  // 13 Rajab
	}
	for _, tt := range tests {
		if got := IsInScope(habit, mustDate(t, tt.date)); got != tt.want {
			t.Errorf("IsInScope(%s) = %v, want %v", tt.date, got, tt.want)
		}
	}

	count := 0
	day := mustDate(t, "2024-01-01")
	for day.Year() == 2024 {
		if IsInScope(habit, day) {
			count++
		}
		day = day.AddDate(0, 0, 1)
	}
	if count != 36 {
		t.Errorf("expected 36 white days in 2024, got %d", count)
	}
}

func TestResolver_HijriOffset(t *testing.T) {
	habit := models.Habit{
		ID:         "white_days",
		Type:       constants.HabitRegular,
		IsActive:   true,
		Recurrence: models.LunarRecurrence(constants.WhiteDaysStart, constants.WhiteDaysEnd),
	}
	shifted := Resolver{HijriOffset: 1}

	// 2024-03-22 is 12 Ramadan unadjusted, 13 Ramadan with a one-day offset.
	if !shifted.InScope(habit, mustDate(t, "2024-03-22")) {
		t.Error("expected offset resolver to include 2024-03-22")
	}
	if shifted.InScope(habit, mustDate(t, "2024-03-25")) {
		t.Error("expected offset resolver to exclude 2024-03-25")
	}
}

func TestIsInScope_Deterministic(t *testing.T) {
	habit := models.Habit{ID: "fajr", Type: constants.HabitPrayer, IsActive: true}
	d := mustDate(t, "2030-06-01")
	for i := 0; i < 3; i++ {
		if !IsInScope(habit, d) {
			t.Fatal("plain active habit should always be in scope")
		}
	}
}
