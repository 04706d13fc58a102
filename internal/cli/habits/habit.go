package habits

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/presets"
	"github.com/julianstephens/wird/internal/tui"
	"github.com/julianstephens/wird/internal/utils"
)

type HabitCmd struct {
	Add     HabitAddCmd     `cmd:"" help:"Add a new habit."`
	List    HabitListCmd    `cmd:"" help:"List habits." default:"1"`
	Edit    HabitEditCmd    `cmd:"" help:"Edit a habit."`
	Archive HabitArchiveCmd `cmd:"" help:"Archive or unarchive a habit."`
	Delete  HabitDeleteCmd  `cmd:"" help:"Delete a habit and all of its logs."`
	Reorder HabitReorderCmd `cmd:"" help:"Set the display order of habits."`
	Presets HabitPresetsCmd `cmd:"" help:"Add the built-in prayers, Quran, adhkar and fasts."`
}

// ScheduleFlags selects a habit's recurrence. At most one may be set.
type ScheduleFlags struct {
	Weekdays string `help:"Comma-separated weekdays (e.g. mon,thu)." xor:"schedule"`
	Lunar    string `help:"Lunar day window (e.g. 13-15, or 'white')." xor:"schedule"`
	Daily    bool   `help:"Clear any recurrence so the habit applies every day." xor:"schedule"`
}

// Recurrence returns the chosen rule, and false when no flag was given.
func (f ScheduleFlags) Recurrence() (models.Recurrence, bool, error) {
	switch {
	case f.Weekdays != "":
		days, err := cli.ParseWeekdays(f.Weekdays)
		if err != nil {
			return models.Recurrence{}, false, err
		}
		return models.WeekdayRecurrence(days...), true, nil
	case f.Lunar != "":
		r, err := cli.ParseLunarWindow(f.Lunar)
		return r, err == nil, err
	case f.Daily:
		return models.Recurrence{Kind: constants.RecurrenceNone}, true, nil
	}
	return models.Recurrence{Kind: constants.RecurrenceNone}, false, nil
}

type HabitAddCmd struct {
	Name          string `arg:"" optional:"" help:"Habit name."`
	NameAr        string `name:"arabic" help:"Arabic name shown beside the habit."`
	Type          string `help:"Habit type." enum:"regular,counter,prayer" default:"regular"`
	Target        int    `help:"Daily target for counter habits."`
	Start         string `help:"First date the habit applies (YYYY-MM-DD)."`
	Bonus         bool   `help:"Track without counting toward the daily score."`
	RequireReason bool   `help:"Ask for a reason whenever the habit is not completed."`
	Interactive   bool   `short:"i" help:"Fill in the habit with a form."`
	ScheduleFlags `embed:""`
}

func (c *HabitAddCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	var habit models.Habit
	if c.Interactive {
		fm := &tui.HabitFormModel{Name: c.Name, Type: c.Type}
		if err := tui.NewHabitForm(fm).Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				fmt.Println("Cancelled.")
				return nil
			}
			return err
		}
		habit, err = fm.Habit()
	} else {
		habit, err = c.habit()
	}
	if err != nil {
		return err
	}

	if err := coord.SaveHabit(bg, habit); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	fmt.Printf("Added habit: %s (%s, %s)\n", habit.Name, habit.Type, habit.Recurrence.FormatRecurrence())
	return nil
}

func (c *HabitAddCmd) habit() (models.Habit, error) {
	if strings.TrimSpace(c.Name) == "" {
		return models.Habit{}, errors.New("habit name is required (or use -i)")
	}
	rec, _, err := c.Recurrence()
	if err != nil {
		return models.Habit{}, err
	}
	if c.Start != "" && !utils.ValidateDateFormat(c.Start) {
		return models.Habit{}, fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", c.Start)
	}

	habit := models.Habit{
		Name:          c.Name,
		NameAr:        c.NameAr,
		Type:          constants.HabitType(c.Type),
		DailyTarget:   c.Target,
		IsActive:      true,
		StartDate:     c.Start,
		AffectsScore:  !c.Bonus,
		RequireReason: c.RequireReason,
		Recurrence:    rec,
	}
	if habit.Type != constants.HabitCounter {
		habit.DailyTarget = 0
	}
	return habit, nil
}

type HabitListCmd struct {
	All bool `help:"Include archived habits."`
}

func (c *HabitListCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator(context.Background())
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	state := coord.Snapshot()
	if len(state.Habits) == 0 {
		fmt.Println("No habits found. Add one with 'wird habit add' or 'wird habit presets'.")
		return nil
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%-3s %-24s %-8s %-22s %7s %5s", "#", "Habit", "Type", "Schedule", "Streak", "Best")))
	for _, h := range state.Habits {
		if !h.IsActive && !c.All {
			continue
		}
		name := h.Name
		if h.NameAr != "" {
			name += " " + h.NameAr
		}
		kind := string(h.Type)
		if h.Type == constants.HabitCounter {
			kind = fmt.Sprintf("%s/%d", h.Type, h.DailyTarget)
		}
		line := fmt.Sprintf("%-3d %-24s %-8s %-22s %7d %5d",
			h.Order, truncate(name, 24), kind, h.Recurrence.FormatRecurrence(),
			ctx.Engine.CurrentStreak(h, state.Logs, today), ctx.Engine.BestStreak(h, state.Logs))

		var tags []string
		if h.IsBonus() {
			tags = append(tags, "bonus")
		}
		if h.RequireReason {
			tags = append(tags, "reason required")
		}
		if !h.IsActive {
			tags = append(tags, "archived")
		}
		if len(tags) > 0 {
			line += "  " + cli.MutedStyle.Render("["+strings.Join(tags, ", ")+"]")
		}
		fmt.Println(line)
	}
	return nil
}

type HabitEditCmd struct {
	Habit         string `arg:"" help:"Habit id or name."`
	Name          string `help:"New name."`
	NameAr        string `name:"arabic" help:"New Arabic name."`
	Target        int    `help:"New daily target for counter habits."`
	Start         string `help:"New start date (YYYY-MM-DD), or 'none' to clear."`
	Bonus         bool   `help:"Stop counting the habit toward the daily score." xor:"score"`
	Scoring       bool   `help:"Count the habit toward the daily score." xor:"score"`
	RequireReason bool   `help:"Ask for a reason when the habit is not completed." xor:"reason"`
	NoReason      bool   `help:"Stop asking for a reason." xor:"reason"`
	ScheduleFlags `embed:""`
}

func (c *HabitEditCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	habit, err := cli.FindHabit(coord.Snapshot().Habits, c.Habit)
	if err != nil {
		return err
	}

	if c.Name != "" {
		habit.Name = c.Name
	}
	if c.NameAr != "" {
		habit.NameAr = c.NameAr
	}
	if c.Target > 0 {
		habit.DailyTarget = c.Target
	}
	switch {
	case c.Start == "none":
		habit.StartDate = ""
	case c.Start != "":
		if !utils.ValidateDateFormat(c.Start) {
			return fmt.Errorf("invalid start date %q (expected YYYY-MM-DD)", c.Start)
		}
		habit.StartDate = c.Start
	}
	if c.Bonus {
		habit.AffectsScore = false
	}
	if c.Scoring {
		habit.AffectsScore = true
	}
	if c.RequireReason {
		habit.RequireReason = true
	}
	if c.NoReason {
		habit.RequireReason = false
	}
	rec, set, err := c.Recurrence()
	if err != nil {
		return err
	}
	if set {
		habit.Recurrence = rec
	}

	if err := coord.SaveHabit(bg, habit); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Updated habit: %s\n", habit.Name)
	return nil
}

type HabitArchiveCmd struct {
	Habit     string `arg:"" help:"Habit id or name."`
	Unarchive bool   `help:"Unarchive the habit instead."`
}

func (c *HabitArchiveCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	habit, err := cli.FindHabit(coord.Snapshot().Habits, c.Habit)
	if err != nil {
		return err
	}
	habit.IsActive = c.Unarchive

	if err := coord.SaveHabit(bg, habit); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	if c.Unarchive {
		fmt.Printf("Unarchived habit: %s\n", habit.Name)
	} else {
		fmt.Printf("Archived habit: %s\n", habit.Name)
	}
	return nil
}

type HabitDeleteCmd struct {
	Habit string `arg:"" help:"Habit id or name."`
	Yes   bool   `short:"y" help:"Do not ask for confirmation."`
}

func (c *HabitDeleteCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	state := coord.Snapshot()
	habit, err := cli.FindHabit(state.Habits, c.Habit)
	if err != nil {
		return err
	}

	if !c.Yes {
		logs := 0
		for _, l := range state.Logs {
			if l.HabitID == habit.ID {
				logs++
			}
		}
		confirmed := false
		err := huh.NewConfirm().
			Title(fmt.Sprintf("Delete %s and its %d log(s)?", habit.Name, logs)).
			Description("This cannot be undone. Consider 'wird habit archive' instead.").
			Value(&confirmed).
			Run()
		if err != nil && !errors.Is(err, huh.ErrUserAborted) {
			return err
		}
		if !confirmed {
			fmt.Println("Cancelled.")
			return nil
		}
	}

	if err := coord.DeleteHabit(bg, habit.ID); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}
	fmt.Printf("Deleted habit: %s\n", habit.Name)
	return nil
}

type HabitReorderCmd struct {
	Habits []string `arg:"" help:"Habit ids or names in their new order. Unlisted habits keep their relative order after these."`
}

func (c *HabitReorderCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	habits := coord.Snapshot().Habits
	ids := make([]string, 0, len(c.Habits))
	for _, ref := range c.Habits {
		h, err := cli.FindHabit(habits, ref)
		if err != nil {
			return err
		}
		ids = append(ids, h.ID)
	}

	if err := coord.ReorderHabits(bg, ids); err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	for i, h := range coord.Snapshot().Habits {
		fmt.Printf("%2d. %s\n", i+1, h.Name)
	}
	return nil
}

type HabitPresetsCmd struct{}

func (c *HabitPresetsCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}

	added, err := presets.Seed(bg, coord)
	if err != nil {
		return err
	}
	if err := ctx.Commit(); err != nil {
		return err
	}

	if added == 0 {
		fmt.Println("All preset habits are already present.")
	} else {
		fmt.Printf("Added %d preset habit(s).\n", added)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-3]) + "..."
}
