package presets

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/storage/sqlite"
	"github.com/julianstephens/wird/internal/utils"
)

func TestHabits_Valid(t *testing.T) {
	habits := Habits()
	if len(habits) != 11 {
		t.Fatalf("expected 11 presets, got %d", len(habits))
	}

	seen := make(map[string]bool)
	for i, h := range habits {
		if err := h.Validate(); err != nil {
			t.Errorf("preset %s is invalid: %v", h.ID, err)
		}
		if seen[h.ID] {
			t.Errorf("duplicate preset id %s", h.ID)
		}
		seen[h.ID] = true
		if h.Order != i {
			t.Errorf("preset %s Order = %d, want %d", h.ID, h.Order, i)
		}
		if IsPrayer(h.ID) != (h.Type == constants.HabitPrayer) {
			t.Errorf("preset %s: prayer id and type disagree", h.ID)
		}
	}

	var bonus []string
	for _, h := range habits {
		if h.IsBonus() {
			bonus = append(bonus, h.ID)
		}
	}
	if len(bonus) != 1 || bonus[0] != "duha" {
		t.Errorf("bonus presets = %v, want [duha]", bonus)
	}
}

func TestHabits_Recurrence(t *testing.T) {
	byID := make(map[string]models.Habit)
	for _, h := range Habits() {
		byID[h.ID] = h
	}

	monday, _ := utils.ParseDate("2024-03-11")
	tuesday, _ := utils.ParseDate("2024-03-12")
	fast := byID["fast-mon-thu"]
	if !utils.IsInScope(fast, monday) || utils.IsInScope(fast, tuesday) {
		t.Error("Monday/Thursday fast should be visible on Monday only")
	}

	// 13 Ramadan 1445 AH
	whiteDay, _ := utils.ParseDate("2024-03-23")
	if !utils.IsInScope(byID["white-days"], whiteDay) {
		t.Error("white days fast should be visible on 13 Ramadan")
	}
	if utils.IsInScope(byID["white-days"], tuesday) {
		t.Error("white days fast should be hidden on 2 Ramadan")
	}
}

func TestHabits_ReturnsCopies(t *testing.T) {
	a := Habits()
	a[0].Name = "changed"
	a[8].Recurrence.Weekdays[0] = time.Sunday

	b := Habits()
	if b[0].Name == "changed" || b[8].Recurrence.Weekdays[0] != time.Monday {
		t.Error("Habits must return independent values")
	}
}

func TestSeed(t *testing.T) {
	ctx := context.Background()
	store := sqlite.NewStore(filepath.Join(t.TempDir(), "wird.db"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init failed: %v", err)
	}
	defer store.Close()

	coord := coordinator.New(&models.Identity{ID: constants.LocalIdentityID, LocalOnly: true}, store, notifier.Multi{})
	if err := coord.Load(ctx); err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if err := coord.SaveHabit(ctx, models.Habit{ID: "fajr", Name: "My Fajr", Type: constants.HabitPrayer, IsActive: true}); err != nil {
		t.Fatalf("SaveHabit failed: %v", err)
	}
	if err := coord.SaveHabit(ctx, models.Habit{ID: "walk", Name: "Walk", Type: constants.HabitRegular, IsActive: true, Order: 4}); err != nil {
		t.Fatalf("SaveHabit failed: %v", err)
	}

	added, err := Seed(ctx, coord)
	if err != nil {
		t.Fatalf("Seed failed: %v", err)
	}
	if added != 10 {
		t.Errorf("Seed added %d, want 10", added)
	}
	coord.Flush()

	habits, err := store.ListHabits(ctx)
	if err != nil {
		t.Fatalf("ListHabits failed: %v", err)
	}
	if len(habits) != 12 {
		t.Fatalf("expected 12 stored habits, got %d", len(habits))
	}
	if habits[0].ID != "fajr" || habits[0].Name != "My Fajr" {
		t.Errorf("existing habit should be kept first, got %+v", habits[0])
	}
	if habits[2].ID != "dhuhr" || habits[2].Order != 5 {
		t.Errorf("presets should follow existing habits, got %s at order %d", habits[2].ID, habits[2].Order)
	}

	again, err := Seed(ctx, coord)
	if err != nil || again != 0 {
		t.Errorf("second Seed = %d, %v; want 0, nil", again, err)
	}
}
