package logs

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/utils"
)

type TodayCmd struct {
	Date string `arg:"" optional:"" help:"Date to show (YYYY-MM-DD, 'today' or 'yesterday')." default:"today"`
}

func (c *TodayCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator(context.Background())
	if err != nil {
		return err
	}
	date, err := ctx.ResolveDate(c.Date)
	if err != nil {
		return err
	}
	day, err := utils.ParseDate(date)
	if err != nil {
		return err
	}

	state := coord.Snapshot()
	hijri := utils.ToHijri(day, ctx.Config.Calendar.HijriOffset)
	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("%s  %s", day.Format("Monday, 2 January 2006"), hijri)))
	fmt.Println()

	items := ctx.Engine.Today(state.Habits, state.Logs, date)
	if len(items) == 0 {
		fmt.Println("Nothing scheduled.")
		return nil
	}

	for _, item := range items {
		name := item.Habit.Name
		if item.Habit.NameAr != "" {
			name += " " + cli.MutedStyle.Render(item.Habit.NameAr)
		}
		var extras []string
		if item.Streak > 0 {
			extras = append(extras, fmt.Sprintf("streak %d", item.Streak))
		}
		if item.Habit.IsBonus() {
			extras = append(extras, "bonus")
		}
		line := fmt.Sprintf("%s %s  %s", outcomeMark(item.Outcome), name, Describe(item.Habit, item.Log))
		if len(extras) > 0 {
			line += "  " + cli.MutedStyle.Render(strings.Join(extras, ", "))
		}
		fmt.Println(line)
	}

	summary := ctx.Engine.Summarize(state.Habits, state.Logs, date)
	fmt.Println()
	if score, ok := summary.Score(); ok {
		status := fmt.Sprintf("Score: %d/%d (%.0f%%)", summary.Success, summary.InScope, score*100)
		if summary.Complete {
			status += "  " + cli.SuccessStyle.Render("complete")
		}
		fmt.Println(status)
	}
	return nil
}
