// Package reminder nudges the user about habits still unlogged for the day.
package reminder

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/utils"
)

// Source supplies the habits and logs to check. Load refreshes it, since
// other processes may have logged since the last run.
type Source interface {
	Load(ctx context.Context) error
	Snapshot() coordinator.State
}

// Reminder runs the unlogged-habit check on a cron schedule
type Reminder struct {
	source Source
	engine streak.Engine
	sink   notifier.Sink
	loc    *time.Location
	now    func() time.Time
	cron   *cron.Cron
}

func New(source Source, engine streak.Engine, sink notifier.Sink, loc *time.Location) *Reminder {
	if loc == nil {
		loc = time.Local
	}
	return &Reminder{
		source: source,
		engine: engine,
		sink:   sink,
		loc:    loc,
		now:    time.Now,
		cron:   cron.New(cron.WithLocation(loc)),
	}
}

// Pending lists the scoring habits in scope on date that have no log yet, in
// display order.
func Pending(engine streak.Engine, habits []models.Habit, logs []models.HabitLog, date string) []models.Habit {
	d, err := utils.ParseDate(date)
	if err != nil {
		return nil
	}

	logged := make(map[string]bool)
	for _, l := range logs {
		if l.Date == date {
			logged[l.HabitID] = true
		}
	}

	ordered := append([]models.Habit(nil), habits...)
	models.SortHabits(ordered)

	var pending []models.Habit
	for _, h := range ordered {
		if h.AffectsScore && !logged[h.ID] && engine.Resolver.InScope(h, d) {
			pending = append(pending, h)
		}
	}
	return pending
}

// Message renders the reminder text for pending habits
func Message(pending []models.Habit) string {
	names := make([]string, len(pending))
	for i, h := range pending {
		names[i] = h.Name
	}
	if len(names) == 1 {
		return "Still to log today: " + names[0]
	}
	return fmt.Sprintf("%d habits still to log today: %s", len(names), strings.Join(names, ", "))
}

// Check sends one notification when anything is unlogged today. It reports
// the pending habits.
func (r *Reminder) Check(ctx context.Context) ([]models.Habit, error) {
	if err := r.source.Load(ctx); err != nil {
		return nil, fmt.Errorf("failed to refresh habits: %w", err)
	}
	state := r.source.Snapshot()
	today := utils.FormatDate(r.now().In(r.loc))

	pending := Pending(r.engine, state.Habits, state.Logs, today)
	if len(pending) == 0 {
		logger.Debug("reminder: nothing pending", "date", today)
		return nil, nil
	}

	r.sink.Notify(notifier.New(constants.NotifyReminder, Message(pending)))
	logger.Info("reminder sent", "date", today, "pending", len(pending))
	return pending, nil
}

// Schedule registers the check on a standard five-field cron spec.
func (r *Reminder) Schedule(spec string) (cron.EntryID, error) {
	return r.cron.AddFunc(spec, func() {
		if _, err := r.Check(context.Background()); err != nil {
			logger.Error("reminder check failed", "error", err)
		}
	})
}

func (r *Reminder) Start() {
	r.cron.Start()
}

// Stop waits for a running check to finish.
func (r *Reminder) Stop() {
	ctx := r.cron.Stop()
	<-ctx.Done()
}

// Next returns when the check runs next, zero before Start.
func (r *Reminder) Next() time.Time {
	var next time.Time
	for _, e := range r.cron.Entries() {
		if next.IsZero() || (!e.Next.IsZero() && e.Next.Before(next)) {
			next = e.Next
		}
	}
	return next
}
