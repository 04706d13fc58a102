package today

import (
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/streak"
)

// Action is what the user asked to record for the selected habit
type Action int

const (
	ActionDone Action = iota
	ActionFail
	ActionExcuse
	ActionClear
	ActionIncrement
	ActionDecrement
	ActionPrayer
)

type LogMsg struct {
	HabitID string
	Action  Action
	// Value is the prayer quality for ActionPrayer
	Value int
}

type AddHabitMsg struct{}

type Item struct {
	streak.Item
}

func (i Item) Title() string {
	title := mark(i.Outcome) + " " + i.Habit.Name
	if i.Habit.NameAr != "" {
		title += "  " + i.Habit.NameAr
	}
	return title
}

func (i Item) Description() string {
	desc := "not logged"
	if i.Log != nil {
		switch i.Habit.Type {
		case constants.HabitPrayer:
			desc = models.PrayerLabel(i.Log.Value)
		case constants.HabitCounter:
			desc = fmt.Sprintf("%d/%d", i.Log.Value, i.Habit.DailyTarget)
		default:
			desc = string(i.Log.Status)
		}
		if i.Log.Status == constants.StatusExcused {
			desc = "excused"
		}
		if i.Log.Reason != "" {
			desc += " · " + i.Log.Reason
		}
	} else if i.Habit.Type == constants.HabitCounter {
		desc = fmt.Sprintf("0/%d", i.Habit.DailyTarget)
	}
	if i.Streak > 0 {
		desc += fmt.Sprintf(" · streak %d", i.Streak)
	}
	if i.Habit.IsBonus() {
		desc += " · bonus"
	}
	return desc
}

func (i Item) FilterValue() string { return i.Habit.Name }

func mark(o streak.Outcome) string {
	switch o {
	case streak.OutcomeSuccess:
		return "✓"
	case streak.OutcomeExcused:
		return "~"
	case streak.OutcomeFailure:
		return "✗"
	default:
		return "○"
	}
}

type KeyMap struct {
	Add       key.Binding
	Done      key.Binding
	Fail      key.Binding
	Excuse    key.Binding
	Clear     key.Binding
	Increment key.Binding
	Decrement key.Binding
	Prayer    key.Binding
}

func DefaultKeyMap() KeyMap {
	return KeyMap{
		Add: key.NewBinding(
			key.WithKeys("a"),
			key.WithHelp("a", "add habit"),
		),
		Done: key.NewBinding(
			key.WithKeys("enter", " "),
			key.WithHelp("enter", "done"),
		),
		Fail: key.NewBinding(
			key.WithKeys("x"),
			key.WithHelp("x", "missed"),
		),
		Excuse: key.NewBinding(
			key.WithKeys("e"),
			key.WithHelp("e", "excuse"),
		),
		Clear: key.NewBinding(
			key.WithKeys("backspace", "u"),
			key.WithHelp("u", "clear"),
		),
		Increment: key.NewBinding(
			key.WithKeys("+", "="),
			key.WithHelp("+/-", "count"),
		),
		Decrement: key.NewBinding(
			key.WithKeys("-"),
		),
		Prayer: key.NewBinding(
			key.WithKeys("0", "1", "2", "3"),
			key.WithHelp("0-3", "prayer quality"),
		),
	}
}

func (k KeyMap) Bindings() []key.Binding {
	return []key.Binding{k.Done, k.Fail, k.Excuse, k.Clear, k.Increment, k.Prayer, k.Add}
}

type Model struct {
	list list.Model
	keys KeyMap
}

func New(width, height int) Model {
	l := list.New(nil, list.NewDefaultDelegate(), width, height)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)

	return Model{list: l, keys: DefaultKeyMap()}
}

// SetItems replaces the rows, keeping the cursor on the same index.
func (m *Model) SetItems(items []streak.Item) {
	rows := make([]list.Item, len(items))
	for i, it := range items {
		rows[i] = Item{it}
	}
	cursor := m.list.Index()
	m.list.SetItems(rows)
	if cursor < len(rows) {
		m.list.Select(cursor)
	}
}

// Selected returns the highlighted row.
func (m Model) Selected() (streak.Item, bool) {
	i, ok := m.list.SelectedItem().(Item)
	return i.Item, ok
}

func (m Model) Keys() KeyMap {
	return m.keys
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if key.Matches(msg, m.keys.Add) {
			return m, func() tea.Msg { return AddHabitMsg{} }
		}

		if i, ok := m.Selected(); ok {
			id := i.Habit.ID
			send := func(a Action, value int) tea.Cmd {
				return func() tea.Msg { return LogMsg{HabitID: id, Action: a, Value: value} }
			}
			switch {
			case key.Matches(msg, m.keys.Done):
				return m, send(ActionDone, 0)
			case key.Matches(msg, m.keys.Fail):
				return m, send(ActionFail, 0)
			case key.Matches(msg, m.keys.Excuse):
				return m, send(ActionExcuse, 0)
			case key.Matches(msg, m.keys.Clear):
				if i.Log != nil {
					return m, send(ActionClear, 0)
				}
				return m, nil
			case key.Matches(msg, m.keys.Increment):
				if i.Habit.Type == constants.HabitCounter {
					return m, send(ActionIncrement, 0)
				}
				return m, nil
			case key.Matches(msg, m.keys.Decrement):
				if i.Habit.Type == constants.HabitCounter && i.Log != nil {
					return m, send(ActionDecrement, 0)
				}
				return m, nil
			case key.Matches(msg, m.keys.Prayer):
				if i.Habit.Type == constants.HabitPrayer {
					return m, send(ActionPrayer, int(msg.String()[0]-'0'))
				}
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) View() string {
	if len(m.list.Items()) == 0 {
		return "\n  Nothing scheduled for this day.\n  Press 'a' to add a habit."
	}
	return m.list.View()
}

func (m *Model) SetSize(width, height int) {
	m.list.SetSize(width, height)
}
