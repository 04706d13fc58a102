package streak

import (
	"reflect"
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

func TestIsDateComplete(t *testing.T) {
	quran := regularHabit("quran")
	dhikr := regularHabit("dhikr")
	bonus := regularHabit("bonus")
	bonus.AffectsScore = false

	habits := []models.Habit{quran, dhikr, bonus}

	tests := []struct {
		name string
		logs []models.HabitLog
		want bool
	}{
		{
			name: "all scoring habits logged",
			logs: []models.HabitLog{
				logOn("quran", "2024-03-10", constants.StatusDone),
				logOn("dhikr", "2024-03-10", constants.StatusDone),
			},
			want: true,
		},
		{
			name: "failed log still counts as logged",
			logs: []models.HabitLog{
				logOn("quran", "2024-03-10", constants.StatusDone),
				logOn("dhikr", "2024-03-10", constants.StatusFail),
			},
			want: true,
		},
		{
			name: "missing scoring habit",
			logs: []models.HabitLog{
				logOn("quran", "2024-03-10", constants.StatusDone),
				logOn("bonus", "2024-03-10", constants.StatusDone),
			},
			want: false,
		},
		{
			name: "log on another date",
			logs: []models.HabitLog{
				logOn("quran", "2024-03-10", constants.StatusDone),
				logOn("dhikr", "2024-03-09", constants.StatusDone),
			},
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsDateComplete(habits, tt.logs, "2024-03-10"); got != tt.want {
				t.Errorf("IsDateComplete() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestIsDateComplete_NothingInScope(t *testing.T) {
	bonus := regularHabit("bonus")
	bonus.AffectsScore = false
	inactive := regularHabit("old")
	inactive.IsActive = false

	habits := []models.Habit{bonus, inactive}
	logs := []models.HabitLog{
		logOn("bonus", "2024-03-10", constants.StatusDone),
		logOn("old", "2024-03-10", constants.StatusDone),
	}

	if IsDateComplete(habits, logs, "2024-03-10") {
		t.Error("date with no scoring habits in scope should not be complete")
	}
	if IsDateComplete(nil, nil, "2024-03-10") {
		t.Error("date with no habits should not be complete")
	}
}

func TestCompletedDates(t *testing.T) {
	daily := regularHabit("daily")
	daily.StartDate = "2024-03-07"
	thursday := regularHabit("thu")
	thursday.Recurrence = models.WeekdayRecurrence(time.Thursday)

	habits := []models.Habit{daily, thursday}
	logs := []models.HabitLog{
		// before daily started: only the Thursday habit is in scope, but the
		// stray log for a Wednesday has nothing in scope at all
		logOn("thu", "2024-03-06", constants.StatusDone),
		// Thursday: both in scope, both logged
		logOn("daily", "2024-03-07", constants.StatusDone),
		logOn("thu", "2024-03-07", constants.StatusDone),
		// Friday: only daily in scope
		logOn("daily", "2024-03-08", constants.StatusFail),
		// Saturday: missing daily
		logOn("thu", "2024-03-09", constants.StatusDone),
		// Thursday: missing thu
		logOn("daily", "2024-03-14", constants.StatusDone),
	}

	want := []string{"2024-03-07", "2024-03-08"}
	if got := CompletedDates(habits, logs); !reflect.DeepEqual(got, want) {
		t.Errorf("CompletedDates() = %v, want %v", got, want)
	}
}

func TestSummarize_Score(t *testing.T) {
	a := regularHabit("a")
	b := regularHabit("b")
	habits := []models.Habit{a, b}

	logs := []models.HabitLog{
		logOn("a", "2024-03-10", constants.StatusDone),
		logOn("b", "2024-03-10", constants.StatusFail),
	}

	summary := Engine{}.Summarize(habits, logs, "2024-03-10")
	score, ok := summary.Score()
	if !ok {
		t.Fatal("expected a score")
	}
	if score != 0.5 {
		t.Errorf("Score() = %v, want 0.5", score)
	}
	if !summary.Complete {
		t.Error("expected day to be complete")
	}

	if _, ok := (Engine{}).DayScore(nil, nil, "2024-03-10"); ok {
		t.Error("empty day should have no score")
	}
}

func TestHistory(t *testing.T) {
	habits := []models.Habit{regularHabit("a")}
	logs := []models.HabitLog{logOn("a", "2024-03-09", constants.StatusDone)}

	days := Engine{}.History(habits, logs, "2024-03-08", "2024-03-10")
	if len(days) != 3 {
		t.Fatalf("History() returned %d days, want 3", len(days))
	}
	for _, d := range days {
		want := d.Date == "2024-03-09"
		if d.Complete != want {
			t.Errorf("%s complete = %v, want %v", d.Date, d.Complete, want)
		}
	}

	if days := (Engine{}).History(habits, logs, "bad", "2024-03-10"); days != nil {
		t.Errorf("History() with bad range = %v, want nil", days)
	}
}

func TestToday(t *testing.T) {
	first := regularHabit("first")
	first.Order = 0
	second := regularHabit("second")
	second.Order = 1
	bonus := regularHabit("bonus")
	bonus.Order = 2
	bonus.AffectsScore = false
	monday := regularHabit("monday")
	monday.Order = 3
	monday.Recurrence = models.WeekdayRecurrence(time.Monday)

	habits := []models.Habit{bonus, monday, second, first}
	logs := []models.HabitLog{
		logOn("first", "2024-03-09", constants.StatusDone),
		logOn("first", "2024-03-10", constants.StatusDone),
	}

	// 2024-03-10 is a Sunday
	items := Engine{}.Today(habits, logs, "2024-03-10")
	var ids []string
	for _, item := range items {
		ids = append(ids, item.Habit.ID)
	}
	if want := []string{"first", "second", "bonus"}; !reflect.DeepEqual(ids, want) {
		t.Fatalf("Today() ids = %v, want %v", ids, want)
	}

	if items[0].Log == nil || items[0].Outcome != OutcomeSuccess || items[0].Streak != 2 {
		t.Errorf("first item = %+v, want logged success with streak 2", items[0])
	}
	if items[1].Log != nil || items[1].Outcome != OutcomeNone {
		t.Errorf("second item = %+v, want unlogged", items[1])
	}

	// input order is untouched
	if habits[0].ID != "bonus" {
		t.Error("Today() reordered the caller's slice")
	}
}
