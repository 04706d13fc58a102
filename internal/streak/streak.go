// Package streak derives streaks and day completion from the habit log.
//
// Everything here is a pure function of (habits, logs, reference date): nothing
// is written, nothing is cached, and malformed input yields empty results
// rather than errors.
package streak

import (
	"strings"
	"time"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/utils"
)

// Outcome is how a single day counts for a habit's streak
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeSuccess
	OutcomeExcused
	OutcomeFailure
)

func (o Outcome) String() string {
	switch o {
	case OutcomeSuccess:
		return "success"
	case OutcomeExcused:
		return "excused"
	case OutcomeFailure:
		return "failure"
	default:
		return "none"
	}
}

// Engine computes derived state. The zero value uses the unadjusted lunar calendar.
type Engine struct {
	Resolver utils.Resolver
}

func New(resolver utils.Resolver) Engine {
	return Engine{Resolver: resolver}
}

// Classify decides whether a log counts as a success, an excuse or a failure
// for its habit's type.
func Classify(habit models.Habit, log models.HabitLog) Outcome {
	if log.Status == constants.StatusExcused {
		return OutcomeExcused
	}

	switch habit.Type {
	case constants.HabitPrayer:
		if log.Value == constants.PrayerTakbirah {
			return OutcomeSuccess
		}
		return OutcomeFailure
	case constants.HabitCounter:
		if log.Status == constants.StatusDone {
			return OutcomeSuccess
		}
		if habit.DailyTarget > 0 && log.Value >= habit.DailyTarget {
			return OutcomeSuccess
		}
		return OutcomeFailure
	default:
		if log.Status == constants.StatusDone {
			return OutcomeSuccess
		}
		return OutcomeFailure
	}
}

// NeedsReason reports whether log must carry a reason before it is saved:
// the habit asks for one and the day counts as a failure. Excuses are exempt.
func NeedsReason(habit models.Habit, log models.HabitLog) bool {
	return habit.RequireReason && strings.TrimSpace(log.Reason) == "" && Classify(habit, log) == OutcomeFailure
}

// walker steps backward through one habit's history
type walker struct {
	engine Engine
	habit  models.Habit
	byDate map[string]models.HabitLog
	floor  time.Time
}

func (e Engine) newWalker(habit models.Habit, logs []models.HabitLog) (walker, bool) {
	w := walker{engine: e, habit: habit, byDate: make(map[string]models.HabitLog)}

	var earliest time.Time
	for _, l := range logs {
		if l.HabitID != habit.ID {
			continue
		}
		d, err := utils.ParseDate(l.Date)
		if err != nil {
			continue
		}
		w.byDate[l.Date] = l
		if earliest.IsZero() || d.Before(earliest) {
			earliest = d
		}
	}
	if len(w.byDate) == 0 {
		return w, false
	}

	w.floor = earliest
	if habit.StartDate != "" {
		if start, err := utils.ParseDate(habit.StartDate); err == nil && start.After(w.floor) {
			w.floor = start
		}
	}
	return w, true
}

func (w walker) outcome(day time.Time) Outcome {
	if day.Before(w.floor) {
		return OutcomeNone
	}
	l, ok := w.byDate[utils.FormatDate(day)]
	if !ok {
		return OutcomeNone
	}
	return Classify(w.habit, l)
}

// previous returns the closest earlier day that matters for the streak: one
// with a log, or one the habit's recurrence requires. Days the habit does not
// occur on and that carry no log are stepped over.
func (w walker) previous(day time.Time) (time.Time, bool) {
	for d := day.AddDate(0, 0, -1); !d.Before(w.floor); d = d.AddDate(0, 0, -1) {
		if _, ok := w.byDate[utils.FormatDate(d)]; ok {
			return d, true
		}
		if w.engine.Resolver.OccursOn(w.habit, d) {
			return d, true
		}
	}
	return time.Time{}, false
}

// countBack counts successes strictly before day until a gap or failure.
func (w walker) countBack(day time.Time) int {
	count := 0
	cursor := day
	for {
		prev, ok := w.previous(cursor)
		if !ok {
			return count
		}
		switch w.outcome(prev) {
		case OutcomeSuccess:
			count++
		case OutcomeExcused:
		default:
			return count
		}
		cursor = prev
	}
}

// CurrentStreak returns the run of successes ending at ref. An unlogged ref
// day falls back to the previous day so that a run ending yesterday still
// counts; excused days neither extend nor break the run. For weekday and
// lunar habits, unlogged days the habit does not occur on are skipped rather
// than ending the run, unlike the plain daily walk.
func (e Engine) CurrentStreak(habit models.Habit, logs []models.HabitLog, ref string) int {
	refDate, err := utils.ParseDate(ref)
	if err != nil {
		return 0
	}
	w, ok := e.newWalker(habit, logs)
	if !ok || refDate.Before(w.floor) {
		return 0
	}

	seed := refDate
	streak := 0
	switch w.outcome(seed) {
	case OutcomeSuccess:
		streak = 1
	case OutcomeExcused:
	case OutcomeFailure:
		return 0
	default:
		prev, ok := w.previous(seed)
		if !ok {
			return 0
		}
		seed = prev
		switch w.outcome(seed) {
		case OutcomeSuccess:
			streak = 1
		case OutcomeExcused:
		default:
			return 0
		}
	}

	return streak + w.countBack(seed)
}

// BestStreak returns the longest run of successes anywhere in the habit's history.
func (e Engine) BestStreak(habit models.Habit, logs []models.HabitLog) int {
	w, ok := e.newWalker(habit, logs)
	if !ok {
		return 0
	}

	var last time.Time
	for date := range w.byDate {
		d, _ := utils.ParseDate(date)
		if d.After(last) {
			last = d
		}
	}

	best, run := 0, 0
	for d := w.floor; !d.After(last); d = d.AddDate(0, 0, 1) {
		switch w.outcome(d) {
		case OutcomeSuccess:
			run++
			if run > best {
				best = run
			}
		case OutcomeExcused:
		case OutcomeFailure:
			run = 0
		default:
			if e.Resolver.OccursOn(habit, d) {
				run = 0
			}
		}
	}
	return best
}

// CurrentStreak uses the unadjusted lunar calendar.
func CurrentStreak(habit models.Habit, logs []models.HabitLog, ref string) int {
	return Engine{}.CurrentStreak(habit, logs, ref)
}
