package system

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/tui"
)

type TuiCmd struct{}

func (c *TuiCmd) Run(ctx *cli.Context) error {
	coord, err := ctx.Coordinator(context.Background())
	if err != nil {
		return err
	}

	// Perform automatic backup on TUI startup (after successful load)
	ctx.PerformAutomaticBackup()

	toaster := ctx.Toaster
	if toaster == nil {
		toaster = notifier.NewToaster(ctx.Config.Notify.ToastTTL.Std())
	}
	m := tui.NewModel(coord, ctx.Engine, toaster, ctx.Config.Calendar.Timezone, ctx.Config.Calendar.HijriOffset)
	p := tea.NewProgram(m, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("tui exited with error: %w", err)
	}
	return nil
}
