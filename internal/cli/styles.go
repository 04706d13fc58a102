package cli

import "github.com/charmbracelet/lipgloss"

var (
	SuccessStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	ExcusedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	FailureStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	MutedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	HeaderStyle  = lipgloss.NewStyle().Bold(true)
)
