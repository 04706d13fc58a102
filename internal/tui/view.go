package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/utils"
)

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var content string
	switch m.state {
	case constants.StateAddHabit, constants.StateReason:
		content = m.viewForm()
	default:
		content = docStyle.Render(m.todayModel.View())
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.viewHeader(),
		m.viewToasts(),
		content,
		m.help.View(m),
	)
}

func (m Model) viewHeader() string {
	title := titleStyle.Render("wird · " + m.date)
	if d, err := utils.ParseDate(m.date); err == nil {
		title += " " + mutedStyle.Render(utils.ToHijri(d, m.hijriOffset).String())
	}

	var score string
	if s, ok := m.summary.Score(); ok {
		score = fmt.Sprintf("%d/%d (%.0f%%)", m.summary.Success, m.summary.InScope, s*100)
		if m.summary.Complete {
			score += " " + completeStyle.Render("complete")
		}
	} else {
		score = mutedStyle.Render("nothing scored")
	}
	return lipgloss.JoinVertical(lipgloss.Left, title, " "+score)
}

func (m Model) viewToasts() string {
	if len(m.toasts) == 0 {
		return ""
	}
	lines := make([]string, len(m.toasts))
	for i, n := range m.toasts {
		style := toastStyle
		switch n.Kind {
		case constants.NotifyError:
			style = errorToastStyle
		case constants.NotifyReminder:
			style = reminderToastStyle
		}
		lines[i] = style.Render(n.Message)
	}
	return strings.Join(lines, "\n")
}

func (m Model) viewForm() string {
	view := m.form.View()
	if m.formError != "" {
		view = lipgloss.JoinVertical(lipgloss.Left, dangerStyle.Render(m.formError), view)
	}
	if m.state == constants.StateReason && m.pending != nil && m.pending.Status == constants.StatusExcused {
		view = lipgloss.JoinVertical(lipgloss.Left, warningStyle.Render("Excusing "+m.pending.Date), view)
	}
	return docStyle.Render(view)
}
