package system

import (
	"fmt"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/constants"
	"github.com/julianstephens/wird/internal/notifier"
)

type NotifyCmd struct {
	Message string `arg:"" help:"Text to show."`
	Kind    string `help:"Notification kind." enum:"success,error,reminder" default:"reminder"`
	DryRun  bool   `help:"Print the notification to stdout instead of sending it."`
}

func (c *NotifyCmd) Run(ctx *cli.Context) error {
	n := notifier.New(constants.NotificationKind(c.Kind), c.Message)
	if c.DryRun {
		fmt.Printf("[DryRun] %s: %s\n", n.Kind, n.Message)
		return nil
	}
	if err := notifier.NewTray(ctx.Config.Notify.ToastTTL.Std()).Send(n); err != nil {
		return fmt.Errorf("failed to send notification: %w", err)
	}
	return nil
}
