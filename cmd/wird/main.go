package main

import (
	"strings"

	"github.com/alecthomas/kong"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/cli/backups"
	"github.com/julianstephens/wird/internal/cli/habits"
	"github.com/julianstephens/wird/internal/cli/logs"
	"github.com/julianstephens/wird/internal/cli/system"
	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/constants"
	wirderrors "github.com/julianstephens/wird/internal/errors"
	"github.com/julianstephens/wird/internal/logger"
	"github.com/julianstephens/wird/internal/notifier"
	"github.com/julianstephens/wird/internal/session"
	"github.com/julianstephens/wird/internal/storage"
)

var CLI struct {
	Version kong.VersionFlag
	Config  string `help:"Path to the YAML config file. Defaults to $WIRD_CONFIG_PATH or ~/.config/wird/config.yaml." type:"path"`
	Debug   bool   `help:"Log at debug level and mirror logs to stderr."`

	Init    system.InitCmd    `cmd:"" help:"Initialize wird storage."`
	Migrate system.MigrateCmd `cmd:"" help:"Run database migrations."`
	Doctor  system.DoctorCmd  `cmd:"" help:"Run health checks and diagnostics."`
	Tui     system.TuiCmd     `cmd:"" help:"Launch the interactive TUI." default:"1"`
	Today   logs.TodayCmd     `cmd:"" help:"Show the habits scheduled for a day."`
	Log     logs.LogCmd       `cmd:"" help:"Record a habit for a day."`
	Unlog   logs.UnlogCmd     `cmd:"" help:"Clear a habit's log for a day."`
	History logs.HistoryCmd   `cmd:"" help:"Show recent days as a grid."`
	Habit   habits.HabitCmd   `cmd:"" help:"Manage habits."`
	Reason  logs.ReasonCmd    `cmd:"" help:"Manage saved reasons."`
	Backup  struct {
		Create  backups.BackupCreateCmd  `cmd:"" help:"Create a manual backup." default:"1"`
		List    backups.BackupListCmd    `cmd:"" help:"List available backups."`
		Restore backups.BackupRestoreCmd `cmd:"" help:"Restore from a backup."`
	} `cmd:"" help:"Manage database backups."`
	Keyring struct {
		Set    system.KeyringSetCmd    `cmd:"" help:"Store a secret in the OS keyring."`
		Get    system.KeyringGetCmd    `cmd:"" help:"Show a stored secret, masked."`
		Delete system.KeyringDeleteCmd `cmd:"" help:"Remove a secret from the OS keyring."`
		Status system.KeyringStatusCmd `cmd:"" help:"Check keyring availability." default:"1"`
	} `cmd:"" help:"Manage secrets in the OS keyring."`
	Remind  system.RemindCmd  `cmd:"" help:"Remind about unlogged habits on a schedule."`
	Insight system.InsightCmd `cmd:"" help:"Summarize recent consistency with an AI model."`
	Notify  system.NotifyCmd  `cmd:"" hidden:"" help:"Send a notification (used internally)."`
}

// storeOptional lists commands that must work before storage is configured.
var storeOptional = []string{"keyring", "notify"}

func main() {
	ctx := kong.Parse(&CLI,
		kong.Name("wird"),
		kong.Description("Daily prayer and habit tracker"),
		kong.UsageOnError(),
		kong.ConfigureHelp(kong.HelpOptions{
			Compact:             true,
			NoExpandSubcommands: true,
		}),
		kong.Vars{"version": constants.Version},
	)

	cfg, err := config.Load(CLI.Config)
	wirderrors.Fatal(err)

	if err := logger.Init(logger.Config{Debug: CLI.Debug, ConfigDir: cfg.Dir(), Level: cfg.Log.Level}); err != nil {
		wirderrors.Fatal(err)
	}
	logger.Debug("configuration loaded", "path", cfg.Path(), "mode", cfg.Session.Mode)

	identity := session.ResolveIdentity(cfg)
	var store storage.Provider
	store, err = session.OpenStore(cfg, identity)
	if err != nil && !optional(ctx.Command()) {
		wirderrors.Fatal(err)
	}

	toaster := notifier.NewToaster(cfg.Notify.ToastTTL.Std())
	appCtx := cli.NewContext(cfg, identity, store, notifier.Multi{notifier.LogSink{}, toaster})
	appCtx.Toaster = toaster

	err = ctx.Run(appCtx)
	if closeErr := appCtx.Close(); closeErr != nil {
		logger.Warn("failed to close storage", "error", closeErr)
	}
	wirderrors.Fatal(err)
}

func optional(command string) bool {
	for _, name := range storeOptional {
		if strings.HasPrefix(command, name) {
			return true
		}
	}
	return false
}
