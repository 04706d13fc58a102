// Package insight turns a window of habit history into a short written
// reflection. Results are cached but never stored as user data.
package insight

import (
	"fmt"
	"strings"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/utils"
)

// HabitStats counts one habit's outcomes over the window
type HabitStats struct {
	Name          string
	Type          constants.HabitType
	Bonus         bool
	Scheduled     int
	Succeeded     int
	Excused       int
	Failed        int
	Unlogged      int
	CurrentStreak int
	BestStreak    int
	Reasons       []string
}

// Summary is the model input. It holds no ids or timestamps so that equal
// histories hash equally.
type Summary struct {
	From         string
	To           string
	Days         int
	CompleteDays int
	AverageScore float64
	Habits       []HabitStats
}

// Summarize collects stats for active habits over [from, to].
func Summarize(engine streak.Engine, habits []models.Habit, logs []models.HabitLog, from, to string) (Summary, error) {
	start, err := utils.ParseDate(from)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid from date: %w", err)
	}
	end, err := utils.ParseDate(to)
	if err != nil {
		return Summary{}, fmt.Errorf("invalid to date: %w", err)
	}
	if end.Before(start) {
		return Summary{}, fmt.Errorf("window ends (%s) before it starts (%s)", to, from)
	}

	byKey := make(map[models.LogKey]models.HabitLog, len(logs))
	for _, l := range logs {
		byKey[l.Key()] = l
	}

	ordered := append([]models.Habit(nil), habits...)
	models.SortHabits(ordered)

	summary := Summary{From: from, To: to}
	for _, h := range ordered {
		if !h.IsActive {
			continue
		}
		stats := HabitStats{
			Name:          h.Name,
			Type:          h.Type,
			Bonus:         h.IsBonus(),
			CurrentStreak: engine.CurrentStreak(h, logs, to),
			BestStreak:    engine.BestStreak(h, logs),
		}
		seen := make(map[string]bool)
		for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
			if !engine.Resolver.InScope(h, d) {
				continue
			}
			stats.Scheduled++
			l, ok := byKey[models.LogKey{HabitID: h.ID, Date: utils.FormatDate(d)}]
			if !ok {
				stats.Unlogged++
				continue
			}
			switch streak.Classify(h, l) {
			case streak.OutcomeSuccess:
				stats.Succeeded++
			case streak.OutcomeExcused:
				stats.Excused++
			default:
				stats.Failed++
			}
			if key := models.ReasonKey(l.Reason); key != "" && !seen[key] {
				seen[key] = true
				stats.Reasons = append(stats.Reasons, strings.TrimSpace(l.Reason))
			}
		}
		if stats.Scheduled > 0 {
			summary.Habits = append(summary.Habits, stats)
		}
	}

	var total float64
	scored := 0
	for _, day := range engine.History(habits, logs, from, to) {
		summary.Days++
		if day.Complete {
			summary.CompleteDays++
		}
		if score, ok := day.Score(); ok {
			total += score
			scored++
		}
	}
	if scored > 0 {
		summary.AverageScore = total / float64(scored)
	}
	return summary, nil
}

// Prompt renders the summary as the user message.
func (s Summary) Prompt() string {
	var b strings.Builder
	fmt.Fprintf(&b, "Window: %s to %s (%d days)\n", s.From, s.To, s.Days)
	fmt.Fprintf(&b, "Fully complete days: %d\n", s.CompleteDays)
	fmt.Fprintf(&b, "Average daily score: %.0f%%\n\n", s.AverageScore*100)

	for _, h := range s.Habits {
		kind := string(h.Type)
		if h.Bonus {
			kind += ", bonus"
		}
		fmt.Fprintf(&b, "- %s (%s): %d/%d done, %d excused, %d missed, %d not logged; streak %d, best %d\n",
			h.Name, kind, h.Succeeded, h.Scheduled, h.Excused, h.Failed, h.Unlogged, h.CurrentStreak, h.BestStreak)
		if len(h.Reasons) > 0 {
			fmt.Fprintf(&b, "  reasons given: %s\n", strings.Join(h.Reasons, "; "))
		}
	}
	return b.String()
}
