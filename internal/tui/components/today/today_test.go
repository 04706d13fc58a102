package today

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
)

func items() []streak.Item {
	fajr := models.Habit{ID: "fajr", Name: "Fajr", NameAr: "الفجر", Type: constants.HabitPrayer, AffectsScore: true}
	quran := models.Habit{ID: "quran", Name: "Quran", Type: constants.HabitCounter, DailyTarget: 10}
	return []streak.Item{
		{
			Habit:   fajr,
			Log:     &models.HabitLog{HabitID: "fajr", Value: constants.PrayerTakbirah, Status: constants.StatusDone},
			Outcome: streak.OutcomeSuccess,
			Streak:  4,
		},
		{Habit: quran},
	}
}

func TestItem(t *testing.T) {
	rows := items()

	done := Item{rows[0]}
	if got := done.Title(); got != "✓ Fajr  الفجر" {
		t.Errorf("Title() = %q", got)
	}
	if got := done.Description(); got != "with takbirah · streak 4" {
		t.Errorf("Description() = %q", got)
	}

	pending := Item{rows[1]}
	if !strings.HasPrefix(pending.Title(), "○") {
		t.Errorf("unlogged title = %q", pending.Title())
	}
	if got := pending.Description(); got != "0/10 · bonus" {
		t.Errorf("unlogged counter description = %q", got)
	}
}

func runKey(t *testing.T, m Model, s string) tea.Msg {
	t.Helper()
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)})
	if cmd == nil {
		return nil
	}
	return cmd()
}

func TestUpdate_EmitsActions(t *testing.T) {
	m := New(80, 20)
	m.SetItems(items())

	if msg, ok := runKey(t, m, "x").(LogMsg); !ok || msg.HabitID != "fajr" || msg.Action != ActionFail {
		t.Errorf("x = %#v", msg)
	}
	if msg, ok := runKey(t, m, "2").(LogMsg); !ok || msg.Action != ActionPrayer || msg.Value != 2 {
		t.Errorf("2 = %#v", msg)
	}
	if msg, ok := runKey(t, m, "u").(LogMsg); !ok || msg.Action != ActionClear {
		t.Errorf("u = %#v", msg)
	}
	if _, ok := runKey(t, m, "a").(AddHabitMsg); !ok {
		t.Error("a should ask for a new habit")
	}
	// Counter keys do nothing on a prayer
	if msg, ok := runKey(t, m, "+").(LogMsg); ok {
		t.Errorf("+ on a prayer = %#v", msg)
	}
}

func TestUpdate_CounterKeys(t *testing.T) {
	m := New(80, 20)
	m.SetItems(items()[1:])

	if msg, ok := runKey(t, m, "+").(LogMsg); !ok || msg.HabitID != "quran" || msg.Action != ActionIncrement {
		t.Errorf("+ = %#v", msg)
	}
	// Nothing to clear or decrement before the first log
	if msg, ok := runKey(t, m, "-").(LogMsg); ok {
		t.Errorf("- without a log = %#v", msg)
	}
	if msg, ok := runKey(t, m, "u").(LogMsg); ok {
		t.Errorf("u without a log = %#v", msg)
	}
}

func TestView_Empty(t *testing.T) {
	m := New(80, 20)
	if !strings.Contains(m.View(), "Nothing scheduled") {
		t.Errorf("empty view = %q", m.View())
	}
}
