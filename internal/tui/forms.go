package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
)

const (
	scheduleDaily   = "daily"
	scheduleWeekday = "weekday"
	scheduleLunar   = "lunar"
)

type HabitFormModel struct {
	Name          string
	NameAr        string
	Type          string
	Target        string
	Schedule      string
	Weekdays      string
	Lunar         string
	Bonus         bool
	RequireReason bool
}

type ReasonFormModel struct {
	Reason string
}

// NewHabitForm creates a new form for adding habits
func NewHabitForm(fm *HabitFormModel) *huh.Form {
	if fm.Type == "" {
		fm.Type = string(constants.HabitRegular)
	}
	if fm.Schedule == "" {
		fm.Schedule = scheduleDaily
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Habit Name").
				Value(&fm.Name).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return fmt.Errorf("habit name cannot be empty")
					}
					return nil
				}),
			huh.NewInput().
				Title("Arabic Name").
				Description("Optional").
				Value(&fm.NameAr),
			huh.NewSelect[string]().
				Title("Type").
				Options(
					huh.NewOption("Regular (done / not done)", string(constants.HabitRegular)),
					huh.NewOption("Counter (daily target)", string(constants.HabitCounter)),
					huh.NewOption("Prayer (missed to takbirah)", string(constants.HabitPrayer)),
				).
				Value(&fm.Type),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Daily Target").
				Value(&fm.Target).
				Validate(validateTarget),
		).WithHideFunc(func() bool { return fm.Type != string(constants.HabitCounter) }),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Schedule").
				Options(
					huh.NewOption("Every day", scheduleDaily),
					huh.NewOption("Certain weekdays", scheduleWeekday),
					huh.NewOption("Lunar days", scheduleLunar),
				).
				Value(&fm.Schedule),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Weekdays").
				Description("Comma-separated, e.g. mon,thu").
				Value(&fm.Weekdays).
				Validate(func(s string) error {
					_, err := cli.ParseWeekdays(s)
					return err
				}),
		).WithHideFunc(func() bool { return fm.Schedule != scheduleWeekday }),
		huh.NewGroup(
			huh.NewInput().
				Title("Lunar Days").
				Description("e.g. 13-15 for the white days").
				Value(&fm.Lunar).
				Validate(func(s string) error {
					_, err := cli.ParseLunarWindow(s)
					return err
				}),
		).WithHideFunc(func() bool { return fm.Schedule != scheduleLunar }),
		huh.NewGroup(
			huh.NewConfirm().
				Title("Bonus habit?").
				Description("Bonus habits are tracked but do not affect the daily score.").
				Value(&fm.Bonus),
			huh.NewConfirm().
				Title("Ask for a reason when missed?").
				Value(&fm.RequireReason),
		),
	).WithTheme(huh.ThemeDracula())
}

func validateTarget(s string) error {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 {
		return fmt.Errorf("target must be a whole number of at least 1")
	}
	return nil
}

// Habit converts the completed form into a new active habit.
func (fm *HabitFormModel) Habit() (models.Habit, error) {
	habit := models.Habit{
		Name:          strings.TrimSpace(fm.Name),
		NameAr:        strings.TrimSpace(fm.NameAr),
		Type:          constants.HabitType(fm.Type),
		IsActive:      true,
		AffectsScore:  !fm.Bonus,
		RequireReason: fm.RequireReason,
		Recurrence:    models.Recurrence{Kind: constants.RecurrenceNone},
	}

	if habit.Type == constants.HabitCounter {
		if err := validateTarget(fm.Target); err != nil {
			return models.Habit{}, err
		}
		habit.DailyTarget, _ = strconv.Atoi(strings.TrimSpace(fm.Target))
	}

	switch fm.Schedule {
	case scheduleWeekday:
		days, err := cli.ParseWeekdays(fm.Weekdays)
		if err != nil {
			return models.Habit{}, err
		}
		habit.Recurrence = models.WeekdayRecurrence(days...)
	case scheduleLunar:
		r, err := cli.ParseLunarWindow(fm.Lunar)
		if err != nil {
			return models.Habit{}, err
		}
		habit.Recurrence = r
	}
	return habit, nil
}

// NewReasonForm asks why a habit was missed, suggesting saved reasons. An
// empty answer is refused when required is set.
func NewReasonForm(fm *ReasonFormModel, habit models.Habit, reasons []models.CustomReason, required bool) *huh.Form {
	suggestions := make([]string, len(reasons))
	for i, r := range reasons {
		suggestions[i] = r.Text
	}

	input := huh.NewInput().
		Title("Reason for " + habit.Name).
		Suggestions(suggestions).
		Value(&fm.Reason)
	if required {
		input = input.Validate(func(s string) error {
			if strings.TrimSpace(s) == "" {
				return fmt.Errorf("%s needs a reason", habit.Name)
			}
			return nil
		})
	}

	return huh.NewForm(huh.NewGroup(input)).WithTheme(huh.ThemeDracula())
}
