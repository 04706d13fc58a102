package logs

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
)

type LogCmd struct {
	Habit  string `arg:"" help:"Habit id or name."`
	Value  int    `help:"Logged value: 0-3 for prayers (missed, on time, in congregation, with takbirah), a count for counters." default:"-1"`
	Status string `help:"Result for the day." enum:"done,fail,excused" default:"done"`
	Reason string `short:"r" help:"Why the habit was missed or excused."`
	Date   string `short:"d" help:"Date to log (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *LogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	habit, err := cli.FindHabit(coord.Snapshot().Habits, c.Habit)
	if err != nil {
		return err
	}

	l := BuildLog(habit, date, constants.LogStatus(c.Status), c.Value)
	l.Reason = strings.TrimSpace(c.Reason)

	if streak.NeedsReason(habit, l) {
		return fmt.Errorf("%s needs a reason (--reason) when not completed", habit.Name)
	}
	if err := coord.SaveLog(bg, l); err != nil {
		return err
	}
	if l.Reason != "" && l.Status != constants.StatusDone {
		if err := coord.AddReason(bg, l.Reason); err != nil {
			return err
		}
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("%s %s on %s: %s\n", outcomeMark(streak.Classify(habit, l)), habit.Name, date, Describe(habit, &l))
	return nil
}

// BuildLog fills in a value for the habit type when value is negative. A
// prayer logged done defaults to with takbirah, a counter to its target.
func BuildLog(habit models.Habit, date string, status constants.LogStatus, value int) models.HabitLog {
	l := models.HabitLog{HabitID: habit.ID, Date: date, Status: status}
	if value >= 0 {
		l.Value = value
		return l
	}
	if status != constants.StatusDone {
		return l
	}
	switch habit.Type {
	case constants.HabitPrayer:
		l.Value = constants.PrayerTakbirah
	case constants.HabitCounter:
		l.Value = habit.DailyTarget
	default:
		l.Value = 1
	}
	return l
}

// Describe summarizes a day's log for display
func Describe(habit models.Habit, l *models.HabitLog) string {
	if l == nil {
		return "not logged"
	}

	var desc string
	switch habit.Type {
	case constants.HabitPrayer:
		desc = models.PrayerLabel(l.Value)
	case constants.HabitCounter:
		desc = fmt.Sprintf("%d/%d", l.Value, habit.DailyTarget)
	default:
		desc = string(l.Status)
	}
	if l.Status == constants.StatusExcused {
		desc = "excused"
	}
	if l.Reason != "" {
		desc += " (" + l.Reason + ")"
	}
	return desc
}

func outcomeMark(o streak.Outcome) string {
	switch o {
	case streak.OutcomeSuccess:
		return cli.SuccessStyle.Render("✓")
	case streak.OutcomeExcused:
		return cli.ExcusedStyle.Render("~")
	case streak.OutcomeFailure:
		return cli.FailureStyle.Render("✗")
	default:
		return cli.MutedStyle.Render("○")
	}
}

type UnlogCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Date  string `short:"d" help:"Date to clear (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *UnlogCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	habit, err := cli.FindHabit(coord.Snapshot().Habits, c.Habit)
	if err != nil {
		return err
	}

	if err := coord.DeleteLog(bg, habit.ID, date); err != nil {
		if errors.Is(err, coordinator.ErrInvalidLog) {
			return fmt.Errorf("%s has no log on %s", habit.Name, date)
		}
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Cleared %s on %s\n", habit.Name, date)
	return nil
}
