package tui

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/coordinator"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/streak"
	"github.com/julianstephens/wird/internal/tui/components/today"
	"github.com/julianstephens/wird/internal/utils"
)

// refreshInterval is how often the view re-reads the coordinator snapshot
// and expires toasts.
const refreshInterval = 250 * time.Millisecond

type tickMsg time.Time

type Model struct {
	coord       *coordinator.Coordinator
	engine      streak.Engine
	toaster     *notifier.Toaster
	timezone    string
	hijriOffset int

	state      constants.SessionState
	keys       KeyMap
	help       help.Model
	todayModel today.Model
	date       string
	summary    streak.DaySummary
	toasts     []models.Notification

	form       *huh.Form
	habitForm  *HabitFormModel
	reasonForm *ReasonFormModel
	pending    *models.HabitLog // log waiting on a reason
	formError  string

	quitting bool
	width    int
	height   int
}

func NewModel(coord *coordinator.Coordinator, engine streak.Engine, toaster *notifier.Toaster, timezone string, hijriOffset int) Model {
	date, err := utils.GetTodayInTimezone(timezone)
	if err != nil {
		date = utils.FormatDate(time.Now())
	}

	m := Model{
		coord:       coord,
		engine:      engine,
		toaster:     toaster,
		timezone:    timezone,
		hijriOffset: hijriOffset,
		state:       constants.StateToday,
		keys:        DefaultKeyMap(),
		help:        help.New(),
		todayModel:  today.New(0, 0),
		date:        date,
	}
	m.refresh()
	return m
}

// refresh rebuilds the day view from the latest snapshot.
func (m *Model) refresh() {
	snap := m.coord.Snapshot()
	m.todayModel.SetItems(m.engine.Today(snap.Habits, snap.Logs, m.date))
	m.summary = m.engine.Summarize(snap.Habits, snap.Logs, m.date)
	if m.toaster != nil {
		m.toasts = m.toaster.Active()
	}
}

func (m Model) ShortHelp() []key.Binding {
	keys := []key.Binding{m.keys.Quit, m.keys.Help}
	if m.state == constants.StateToday {
		tk := m.todayModel.Keys()
		keys = append(keys, tk.Done, tk.Fail, tk.Excuse, m.keys.PrevDay, m.keys.NextDay)
	} else {
		keys = append(keys, m.keys.Cancel)
	}
	return keys
}

func (m Model) FullHelp() [][]key.Binding {
	global := []key.Binding{m.keys.Quit, m.keys.Help, m.keys.Dismiss}
	navigation := []key.Binding{m.keys.Up, m.keys.Down, m.keys.PrevDay, m.keys.NextDay, m.keys.Today}
	return [][]key.Binding{global, navigation, m.todayModel.Keys().Bindings()}
}

func tick() tea.Cmd {
	return tea.Tick(refreshInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m Model) Init() tea.Cmd {
	return tick()
}
