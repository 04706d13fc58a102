package system

import (
	"context"
	"errors"
	"fmt"

	"github.com/julianstephens/wird/internal/cli"
	"github.com/julianstephens/wird/internal/config"
	"github.com/julianstephens/wird/internal/constants"
	wirderrors "github.com/julianstephens/wird/internal/errors"
	"github.com/julianstephens/wird/internal/insight"
	"github.com/julianstephens/wird/internal/keyring"
	"github.com/julianstephens/wird/internal/utils"
)

type InsightCmd struct {
	Days    int    `help:"Number of days to reflect on. Defaults to insight.window_days from the config."`
	Model   string `help:"Chat model to use. Defaults to insight.model from the config."`
	NoCache bool   `help:"Always ask the model, ignoring cached insights."`
	Stats   bool   `help:"Print the summary sent to the model and exit."`
}

func (c *InsightCmd) Run(ctx *cli.Context) error {
	bg := context.Background()
	coord, err := ctx.Coordinator(bg)
	if err != nil {
		return err
	}
	today, err := ctx.Today()
	if err != nil {
		return err
	}

	days := c.Days
	if days <= 0 {
		days = ctx.Config.Insight.Window
	}
	state := coord.Snapshot()
	summary, err := insight.Summarize(ctx.Engine, state.Habits, state.Logs, utils.AddDays(today, -(days-1)), today)
	if err != nil {
		return err
	}
	if c.Stats {
		fmt.Print(summary.Prompt())
		return nil
	}

	apiKey, err := openAIKey(ctx.Config)
	if err != nil {
		return err
	}
	model := c.Model
	if model == "" {
		model = ctx.Config.Insight.Model
	}
	var cache *insight.Cache
	if !c.NoCache {
		cache = insight.NewCache(ctx.Config.Insight.CachePath, ctx.Config.Insight.CacheTTL.Std())
	}

	gen, err := insight.NewOpenAI(apiKey, model, cache)
	if err != nil {
		return err
	}
	text, err := gen.Generate(bg, summary)
	if err != nil {
		return err
	}

	fmt.Println(cli.HeaderStyle.Render(fmt.Sprintf("Reflection on %s to %s", summary.From, summary.To)))
	fmt.Println()
	fmt.Println(text)
	return nil
}

// openAIKey reads the key from config (env included), then the keyring.
func openAIKey(cfg *config.Config) (string, error) {
	if cfg.Insight.APIKey != "" {
		return cfg.Insight.APIKey, nil
	}
	key, err := keyring.Get(keyring.EntryOpenAI)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", wirderrors.WithHint(insight.ErrNoAPIKey,
				"export "+constants.EnvOpenAIKey+" or run `wird keyring set openai <key>`")
		}
		return "", err
	}
	return key, nil
}
