package system

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/models"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/reminder"
	"github.com/julianstephens/wird/internal/utils"
)

type RemindCmd struct {
	Once     bool   `help:"Check once and exit instead of running on a schedule."`
	Schedule string `help:"Cron schedule (minute hour dom month dow). Defaults to reminder.schedule from the config."`
}

func (c *RemindCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}
	loc, err := utils.LoadLocation(ctx.Config.Calendar.Timezone)
	if err != nil {
		return fmt.Errorf("invalid timezone %q: %w", ctx.Config.Calendar.Timezone, err)
	}

	sink := notifier.Multi{notifier.SinkFunc(func(n models.Notification) {
		fmt.Println(n.Message)
	})}
	if ctx.Config.Notify.Tray {
		sink = append(sink, notifier.NewTray(ctx.Config.Notify.ToastTTL.Std()))
	}
	r := reminder.New(coord, ctx.Engine, sink, loc)

	if c.Once {
		pending, err := r.Check(bg)
		if err != nil {
			return err
		}
		if len(pending) == 0 {
			fmt.Println("Nothing left to log today.")
		}
		return nil
	}

	spec := c.Schedule
	if spec == "" {
		spec = ctx.Config.Reminder.Schedule
	}
	if _, err := r.Schedule(spec); err != nil {
		return fmt.Errorf("invalid schedule %q: %w", spec, err)
	}

	sigCtx, stop := signal.NotifyContext(bg, os.Interrupt, syscall.SIGTERM)
	defer stop()

	r.Start()
	fmt.Printf("Reminders scheduled (%s). Next check: %s. Press Ctrl+C to stop.\n",
		spec, r.Next().In(loc).Format("Mon 2 Jan 15:04"))
	<-sigCtx.Done()
	r.Stop()
	fmt.Println("Reminders stopped.")
	return nil
}
