package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wird/internal/cli/logs"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/tui/components/today"
	"github.com/julianstephens/wird/internal/utils"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		// header, score line, toasts and help
		m.todayModel.SetSize(msg.Width-4, msg.Height-8)
		return m, nil
	case tickMsg:
		m.refresh()
		return m, tick()
	}

	switch m.state {
	case constants.StateAddHabit:
		return m.updateHabitForm(msg)
	case constants.StateReason:
		return m.updateReasonForm(msg)
	}

	switch msg := msg.(type) {
	case today.LogMsg:
		return m.apply(msg)
	case today.AddHabitMsg:
		m.habitForm = &HabitFormModel{}
		m.form = NewHabitForm(m.habitForm)
		m.formError = ""
		m.state = constants.StateAddHabit
		return m, m.form.Init()
	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.quitting = true
			return m, tea.Quit
		case key.Matches(msg, m.keys.Help):
			m.help.ShowAll = !m.help.ShowAll
			return m, nil
		case key.Matches(msg, m.keys.PrevDay):
			m.date = utils.AddDays(m.date, -1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.NextDay):
			m.date = utils.AddDays(m.date, 1)
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Today):
			if d, err := utils.GetTodayInTimezone(m.timezone); err == nil {
				m.date = d
			}
			m.refresh()
			return m, nil
		case key.Matches(msg, m.keys.Dismiss):
			if len(m.toasts) > 0 && m.toaster != nil {
				m.toaster.Dismiss(m.toasts[0].ID)
				m.refresh()
			}
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.todayModel, cmd = m.todayModel.Update(msg)
	return m, cmd
}

// apply turns a key action on the selected habit into a log mutation.
func (m Model) apply(msg today.LogMsg) (tea.Model, tea.Cmd) {
	snap := m.coord.Snapshot()
	var habit models.Habit
	found := false
	for _, h := range snap.Habits {
		if h.ID == msg.HabitID {
			habit, found = h, true
			break
		}
	}
	if !found {
		return m, nil
	}
	var existing *models.HabitLog
	for i := range snap.Logs {
		if snap.Logs[i].HabitID == habit.ID && snap.Logs[i].Date == m.date {
			existing = &snap.Logs[i]
			break
		}
	}

	var l models.HabitLog
	switch msg.Action {
	case today.ActionClear:
		_ = m.coord.DeleteLog(context.Background(), habit.ID, m.date)
		m.refresh()
		return m, nil
	case today.ActionDone:
		l = logs.BuildLog(habit, m.date, constants.StatusDone, -1)
	case today.ActionFail:
		l = logs.BuildLog(habit, m.date, constants.StatusFail, -1)
	case today.ActionExcuse:
		l = logs.BuildLog(habit, m.date, constants.StatusExcused, -1)
	case today.ActionIncrement, today.ActionDecrement:
		value := 0
		if existing != nil {
			value = existing.Value
		}
		if msg.Action == today.ActionIncrement {
			value++
		} else if value > 0 {
			value--
		}
		status := constants.StatusFail
		if value >= habit.DailyTarget {
			status = constants.StatusDone
		}
		l = logs.BuildLog(habit, m.date, status, value)
	case today.ActionPrayer:
		status := constants.StatusDone
		if msg.Value == constants.PrayerMissed {
			status = constants.StatusFail
		}
		l = logs.BuildLog(habit, m.date, status, msg.Value)
	}

	outcome := streak.Classify(habit, l)
	if existing != nil && outcome != streak.OutcomeSuccess {
		l.Reason = existing.Reason
	}

	if msg.Action == today.ActionExcuse || streak.NeedsReason(habit, l) {
		return m.openReason(habit, l)
	}

	m.save(l)
	return m, nil
}

func (m Model) openReason(habit models.Habit, l models.HabitLog) (tea.Model, tea.Cmd) {
	m.pending = &l
	m.reasonForm = &ReasonFormModel{Reason: l.Reason}
	required := habit.RequireReason && streak.Classify(habit, l) == streak.OutcomeFailure
	m.form = NewReasonForm(m.reasonForm, habit, m.coord.Snapshot().Reasons, required)
	m.formError = ""
	m.state = constants.StateReason
	return m, m.form.Init()
}

// save hands the log to the coordinator. Failures reach the user as toasts
// through the notification sink.
func (m *Model) save(l models.HabitLog) {
	_ = m.coord.SaveLog(context.Background(), l)
	m.refresh()
}

func (m Model) updateHabitForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.formError = ""
		m.state = constants.StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		habit, err := m.habitForm.Habit()
		if err != nil {
			// Stay in the form so the value can be corrected
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		if err := m.coord.SaveHabit(context.Background(), habit); err != nil {
			m.formError = err.Error()
			m.form.State = huh.StateNormal
			return m, cmd
		}
		m.formError = ""
		m.state = constants.StateToday
		m.refresh()
	case huh.StateAborted:
		m.state = constants.StateToday
	}
	return m, cmd
}

func (m Model) updateReasonForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok && key.Matches(msg, m.keys.Cancel) {
		m.pending = nil
		m.state = constants.StateToday
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		if m.pending != nil {
			l := *m.pending
			l.Reason = strings.TrimSpace(m.reasonForm.Reason)
			m.save(l)
			if l.Reason != "" {
				_ = m.coord.AddReason(context.Background(), l.Reason)
			}
		}
		m.pending = nil
		m.state = constants.StateToday
	case huh.StateAborted:
		m.pending = nil
		m.state = constants.StateToday
	}
	return m, cmd
}
