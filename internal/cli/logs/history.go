package logs

import (
	"context"
	"fmt"
	"strings"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/utils"
)

const nameWidth = 20

type HistoryCmd struct {
	Days  int    `help:"Number of days to show." default:"14"`
	Habit string `help:"Show history for one habit only."`
}

func (c *HistoryCmd) Run(ctx *cli.Context) error {
	if c.Days < 1 {
		return fmt.Errorf("--days must be at least 1")
	}
	coord, err := ctx.Coordinator(context.Background())
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	state := coord.Snapshot()
	var selected []models.Habit
	if c.Habit != "" {
		h, err := cli.FindHabit(state.Habits, c.Habit)
		if err != nil {
			return err
		}
		selected = []models.Habit{h}
	} else {
		for _, h := range state.Habits {
			if h.IsActive {
				selected = append(selected, h)
			}
		}
	}
	if len(selected) == 0 {
		fmt.Println("No habits found.")
		return nil
	}

	from := utils.AddDays(today, -(c.Days - 1))
	dates := make([]string, 0, c.Days)
	for d := from; d <= today; d = utils.AddDays(d, 1) {
		dates = append(dates, d)
	}

	fmt.Printf("History (last %d days):\n\n", c.Days)

	header := strings.Repeat(" ", nameWidth)
	for _, d := range dates {
		header += " " + d[5:7] + "/" + d[8:]
	}
	fmt.Println(cli.HeaderStyle.Render(header))
	fmt.Println(strings.Repeat("-", nameWidth+6*len(dates)))

	byKey := make(map[models.LogKey]models.HabitLog, len(state.Logs))
	for _, l := range state.Logs {
		byKey[l.Key()] = l
	}

	for _, h := range selected {
		row := pad(h.Name, nameWidth)
		for _, d := range dates {
			row += "  " + cell(ctx.Engine, h, byKey, d) + "   "
		}
		fmt.Println(row)
	}

	scores := strings.Repeat(" ", nameWidth-5) + "score"
	for _, s := range ctx.Engine.History(state.Habits, state.Logs, from, today) {
		if score, ok := s.Score(); ok {
			scores += fmt.Sprintf(" %4.0f%%", score*100)
		} else {
			scores += "     -"
		}
	}
	fmt.Println(strings.Repeat("-", nameWidth+6*len(dates)))
	fmt.Println(scores)
	fmt.Println()
	fmt.Println(cli.MutedStyle.Render("✓ done  ~ excused  ✗ missed  . not logged  (blank) not scheduled"))
	return nil
}

// cell marks one day. Logs on unscheduled days still show.
func cell(engine streak.Engine, h models.Habit, byKey map[models.LogKey]models.HabitLog, date string) string {
	if l, ok := byKey[models.LogKey{HabitID: h.ID, Date: date}]; ok {
		return outcomeMark(streak.Classify(h, l))
	}
	day, err := utils.ParseDate(date)
	if err != nil || !engine.Resolver.InScope(h, day) {
		return " "
	}
	return cli.MutedStyle.Render(".")
}

func pad(s string, n int) string {
	r := []rune(s)
	if len(r) > n {
		return string(r[:n-3]) + "..."
	}
	return s + strings.Repeat(" ", n-len(r))
}
