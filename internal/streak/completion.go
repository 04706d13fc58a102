package streak

import (
	"sort"
	"time"

	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/utils"
)

// Item is one habit's row in a day view
type Item struct {
	Habit   models.Habit
	Log     *models.HabitLog
	Outcome Outcome
	Streak  int
}

// DaySummary aggregates a single date
type DaySummary struct {
	Date     string
	InScope  int // scoring habits in scope
	Logged   int // scoring habits with any log
	Success  int // scoring habits with a successful log
	Complete bool
}

// Score is the share of scoring habits completed successfully, and false when
// nothing was in scope.
func (d DaySummary) Score() (float64, bool) {
	if d.InScope == 0 {
		return 0, false
	}
	return float64(d.Success) / float64(d.InScope), true
}

// logIndex maps date -> habit id -> log
type logIndex map[string]map[string]models.HabitLog

func indexLogs(logs []models.HabitLog) logIndex {
	idx := make(logIndex)
	for _, l := range logs {
		day, ok := idx[l.Date]
		if !ok {
			day = make(map[string]models.HabitLog)
			idx[l.Date] = day
		}
		day[l.HabitID] = l
	}
	return idx
}

// scoring returns the habits that count toward completion on date.
func (e Engine) scoring(habits []models.Habit, date time.Time) []models.Habit {
	var out []models.Habit
	for _, h := range habits {
		if h.AffectsScore && e.Resolver.InScope(h, date) {
			out = append(out, h)
		}
	}
	return out
}

func (e Engine) summarize(habits []models.Habit, idx logIndex, date string) DaySummary {
	summary := DaySummary{Date: date}
	d, err := utils.ParseDate(date)
	if err != nil {
		return summary
	}

	day := idx[date]
	for _, h := range e.scoring(habits, d) {
		summary.InScope++
		l, ok := day[h.ID]
		if !ok {
			continue
		}
		summary.Logged++
		if Classify(h, l) == OutcomeSuccess {
			summary.Success++
		}
	}
	summary.Complete = summary.InScope > 0 && summary.Logged == summary.InScope
	return summary
}

// IsDateComplete reports whether every scoring habit in scope on date has a
// log, whatever its outcome. A date with nothing in scope is never complete.
func (e Engine) IsDateComplete(habits []models.Habit, logs []models.HabitLog, date string) bool {
	return e.summarize(habits, indexLogs(logs), date).Complete
}

// Summarize returns the aggregate for one date.
func (e Engine) Summarize(habits []models.Habit, logs []models.HabitLog, date string) DaySummary {
	return e.summarize(habits, indexLogs(logs), date)
}

// CompletedDates returns, in ascending order, every logged date that is fully complete.
func (e Engine) CompletedDates(habits []models.Habit, logs []models.HabitLog) []string {
	idx := indexLogs(logs)
	var dates []string
	for date := range idx {
		if e.summarize(habits, idx, date).Complete {
			dates = append(dates, date)
		}
	}
	sort.Strings(dates)
	return dates
}

// DayScore returns the share of scoring habits in scope on date that were
// completed successfully. ok is false when nothing is in scope.
func (e Engine) DayScore(habits []models.Habit, logs []models.HabitLog, date string) (score float64, ok bool) {
	return e.Summarize(habits, logs, date).Score()
}

// History returns one summary per day from `from` to `to` inclusive.
func (e Engine) History(habits []models.Habit, logs []models.HabitLog, from, to string) []DaySummary {
	start, err := utils.ParseDate(from)
	if err != nil {
		return nil
	}
	end, err := utils.ParseDate(to)
	if err != nil {
		return nil
	}

	idx := indexLogs(logs)
	var out []DaySummary
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		out = append(out, e.summarize(habits, idx, utils.FormatDate(d)))
	}
	return out
}

// Today lists the habits in scope on date in display order, with their log and
// current streak. Bonus habits are included.
func (e Engine) Today(habits []models.Habit, logs []models.HabitLog, date string) []Item {
	d, err := utils.ParseDate(date)
	if err != nil {
		return nil
	}

	ordered := append([]models.Habit(nil), habits...)
	models.SortHabits(ordered)

	day := indexLogs(logs)[date]
	var items []Item
	for _, h := range ordered {
		if !e.Resolver.InScope(h, d) {
			continue
		}
		item := Item{Habit: h, Streak: e.CurrentStreak(h, logs, date)}
		if l, ok := day[h.ID]; ok {
			item.Log = &l
			item.Outcome = Classify(h, l)
		}
		items = append(items, item)
	}
	return items
}

// IsDateComplete uses the unadjusted lunar calendar.
func IsDateComplete(habits []models.Habit, logs []models.HabitLog, date string) bool {
	return Engine{}.IsDateComplete(habits, logs, date)
}

// CompletedDates uses the unadjusted lunar calendar.
func CompletedDates(habits []models.Habit, logs []models.HabitLog) []string {
	return Engine{}.CompletedDates(habits, logs)
}
