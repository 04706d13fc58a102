package streak

import (
	"testing"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

func regularHabit(id string) models.Habit {
	return models.Habit{
		ID:           id,
		Name:         id,
		Type:         constants.HabitRegular,
		IsActive:     true,
		AffectsScore: true,
	}
}

func logOn(habitID, date string, status constants.LogStatus) models.HabitLog {
	return models.HabitLog{
		ID:      models.LogID(habitID, date),
		HabitID: habitID,
		Date:    date,
		Status:  status,
	}
}

func TestClassify(t *testing.T) {
	counter := models.Habit{ID: "c", Type: constants.HabitCounter, DailyTarget: 5}
	prayer := models.Habit{ID: "p", Type: constants.HabitPrayer}
	regular := regularHabit("r")

	tests := []struct {
		name  string
		habit models.Habit
		log   models.HabitLog
		want  Outcome
	}{
		{"regular done", regular, models.HabitLog{Status: constants.StatusDone}, OutcomeSuccess},
		{"regular fail", regular, models.HabitLog{Status: constants.StatusFail}, OutcomeFailure},
		{"regular excused", regular, models.HabitLog{Status: constants.StatusExcused}, OutcomeExcused},
		{"counter below target", counter, models.HabitLog{Status: constants.StatusFail, Value: 3}, OutcomeFailure},
		{"counter meets target", counter, models.HabitLog{Status: constants.StatusFail, Value: 5}, OutcomeSuccess},
		{"counter done", counter, models.HabitLog{Status: constants.StatusDone, Value: 1}, OutcomeSuccess},
		{"counter excused beats value", counter, models.HabitLog{Status: constants.StatusExcused, Value: 9}, OutcomeExcused},
		{"prayer takbirah", prayer, models.HabitLog{Status: constants.StatusDone, Value: constants.PrayerTakbirah}, OutcomeSuccess},
		{"prayer congregation", prayer, models.HabitLog{Status: constants.StatusDone, Value: constants.PrayerCongregation}, OutcomeFailure},
		{"prayer excused", prayer, models.HabitLog{Status: constants.StatusExcused}, OutcomeExcused},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.habit, tt.log); got != tt.want {
				t.Errorf("Classify() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestNeedsReason(t *testing.T) {
	required := regularHabit("fast")
	required.RequireReason = true
	prayer := models.Habit{ID: "isha", Type: constants.HabitPrayer, RequireReason: true}

	tests := []struct {
		name  string
		habit models.Habit
		log   models.HabitLog
		want  bool
	}{
		{"failure without reason", required, models.HabitLog{Status: constants.StatusFail}, true},
		{"failure with blank reason", required, models.HabitLog{Status: constants.StatusFail, Reason: "  "}, true},
		{"failure with reason", required, models.HabitLog{Status: constants.StatusFail, Reason: "ill"}, false},
		{"excused without reason", required, models.HabitLog{Status: constants.StatusExcused}, false},
		{"success", required, models.HabitLog{Status: constants.StatusDone}, false},
		{"prayer below takbirah", prayer, models.HabitLog{Status: constants.StatusDone, Value: constants.PrayerOnTime}, true},
		{"not required", regularHabit("duha"), models.HabitLog{Status: constants.StatusFail}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NeedsReason(tt.habit, tt.log); got != tt.want {
				t.Errorf("NeedsReason() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak(t *testing.T) {
	h := regularHabit("h1")

	tests := []struct {
		name string
		logs []models.HabitLog
		ref  string
		want int
	}{
		{
			name: "excused day bridges",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-08", constants.StatusDone),
				logOn("h1", "2024-03-09", constants.StatusExcused),
				logOn("h1", "2024-03-10", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 2,
		},
		{
			name: "failure breaks",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-08", constants.StatusDone),
				logOn("h1", "2024-03-09", constants.StatusFail),
				logOn("h1", "2024-03-10", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 1,
		},
		{
			name: "gap breaks",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-07", constants.StatusDone),
				logOn("h1", "2024-03-09", constants.StatusDone),
				logOn("h1", "2024-03-10", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 2,
		},
		{
			name: "unlogged today falls back to yesterday",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-09", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 1,
		},
		{
			name: "fallback keeps counting back",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-07", constants.StatusDone),
				logOn("h1", "2024-03-08", constants.StatusDone),
				logOn("h1", "2024-03-09", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 3,
		},
		{
			name: "fallback only reaches one day",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-08", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 0,
		},
		{
			name: "failed today",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-09", constants.StatusDone),
				logOn("h1", "2024-03-10", constants.StatusFail),
			},
			ref:  "2024-03-10",
			want: 0,
		},
		{
			name: "excused today",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-09", constants.StatusDone),
				logOn("h1", "2024-03-10", constants.StatusExcused),
			},
			ref:  "2024-03-10",
			want: 1,
		},
		{
			name: "only excused",
			logs: []models.HabitLog{
				logOn("h1", "2024-03-09", constants.StatusExcused),
				logOn("h1", "2024-03-10", constants.StatusExcused),
			},
			ref:  "2024-03-10",
			want: 0,
		},
		{
			name: "no logs",
			ref:  "2024-03-10",
			want: 0,
		},
		{
			name: "other habits ignored",
			logs: []models.HabitLog{
				logOn("h2", "2024-03-09", constants.StatusDone),
				logOn("h2", "2024-03-10", constants.StatusDone),
			},
			ref:  "2024-03-10",
			want: 0,
		},
		{
			name: "invalid reference",
			logs: []models.HabitLog{logOn("h1", "2024-03-10", constants.StatusDone)},
			ref:  "03/10/2024",
			want: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := CurrentStreak(h, tt.logs, tt.ref); got != tt.want {
				t.Errorf("CurrentStreak() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestCurrentStreak_StopsAtStartDate(t *testing.T) {
	h := regularHabit("h1")
	h.StartDate = "2024-03-10"

	logs := []models.HabitLog{
		logOn("h1", "2024-03-08", constants.StatusDone),
		logOn("h1", "2024-03-09", constants.StatusDone),
		logOn("h1", "2024-03-10", constants.StatusDone),
	}

	if got := CurrentStreak(h, logs, "2024-03-10"); got != 1 {
		t.Errorf("CurrentStreak() = %d, want 1", got)
	}
	if got := CurrentStreak(h, logs, "2024-03-09"); got != 0 {
		t.Errorf("CurrentStreak() before start = %d, want 0", got)
	}
}

func TestCurrentStreak_WeekdayRecurrenceSkipsOffDays(t *testing.T) {
	h := regularHabit("thu")
	h.Recurrence = models.WeekdayRecurrence(time.Thursday)

	// 2024-03-07, 03-14 and 03-21 are Thursdays
	logs := []models.HabitLog{
		logOn("thu", "2024-03-07", constants.StatusDone),
		logOn("thu", "2024-03-14", constants.StatusDone),
		logOn("thu", "2024-03-21", constants.StatusDone),
	}

	if got := CurrentStreak(h, logs, "2024-03-21"); got != 3 {
		t.Errorf("CurrentStreak() on Thursday = %d, want 3", got)
	}
	// Friday with no log falls back to the Thursday before it
	if got := CurrentStreak(h, logs, "2024-03-22"); got != 3 {
		t.Errorf("CurrentStreak() on Friday = %d, want 3", got)
	}
}

func TestCurrentStreak_WeekdayRecurrenceMissedOccurrence(t *testing.T) {
	h := regularHabit("thu")
	h.Recurrence = models.WeekdayRecurrence(time.Thursday)

	logs := []models.HabitLog{
		logOn("thu", "2024-03-07", constants.StatusDone),
		logOn("thu", "2024-03-21", constants.StatusDone),
	}

	if got := CurrentStreak(h, logs, "2024-03-21"); got != 1 {
		t.Errorf("CurrentStreak() = %d, want 1", got)
	}
}

func TestCurrentStreak_Prayer(t *testing.T) {
	h := regularHabit("fajr")
	h.Type = constants.HabitPrayer

	logs := []models.HabitLog{
		{HabitID: "fajr", Date: "2024-03-08", Status: constants.StatusDone, Value: constants.PrayerTakbirah},
		{HabitID: "fajr", Date: "2024-03-09", Status: constants.StatusDone, Value: constants.PrayerTakbirah},
		{HabitID: "fajr", Date: "2024-03-10", Status: constants.StatusDone, Value: constants.PrayerTakbirah},
	}
	if got := CurrentStreak(h, logs, "2024-03-10"); got != 3 {
		t.Errorf("CurrentStreak() = %d, want 3", got)
	}

	logs[1].Value = constants.PrayerCongregation
	if got := CurrentStreak(h, logs, "2024-03-10"); got != 1 {
		t.Errorf("CurrentStreak() with congregation day = %d, want 1", got)
	}
}

func TestBestStreak(t *testing.T) {
	h := regularHabit("h1")

	logs := []models.HabitLog{
		logOn("h1", "2024-03-01", constants.StatusDone),
		logOn("h1", "2024-03-02", constants.StatusDone),
		logOn("h1", "2024-03-03", constants.StatusExcused),
		logOn("h1", "2024-03-04", constants.StatusDone),
		logOn("h1", "2024-03-05", constants.StatusFail),
		logOn("h1", "2024-03-06", constants.StatusDone),
		// 03-07 missing
		logOn("h1", "2024-03-08", constants.StatusDone),
	}

	if got := (Engine{}).BestStreak(h, logs); got != 3 {
		t.Errorf("BestStreak() = %d, want 3", got)
	}
	if got := (Engine{}).BestStreak(h, nil); got != 0 {
		t.Errorf("BestStreak() with no logs = %d, want 0", got)
	}
}
