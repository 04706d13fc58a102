package system

import (
	"errors"
	"strings"
	"testing"

	gokeyring "github.com/zalando/go-keyring"

	"github.com/julianstephens/wird/internal/config"
	wirderrors "github.com/julianstephens/wird/internal/errors"
	"github.com/julianstephens/wird/internal/insight"
	"github.com/julianstephens/wird/internal/keyring"
)

func TestOpenAIKey(t *testing.T) {
	gokeyring.MockInit()
	cfg := config.Defaults()

	_, err := openAIKey(cfg)
	if !errors.Is(err, insight.ErrNoAPIKey) {
		t.Fatalf("expected ErrNoAPIKey, got %v", err)
	}
	if !strings.Contains(wirderrors.Hint(err), "keyring set openai") {
		t.Errorf("hint = %q", wirderrors.Hint(err))
	}

	if err := keyring.Set(keyring.EntryOpenAI, "sk-keyring"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	defer func() { _ = keyring.Delete(keyring.EntryOpenAI) }()
	if key, err := openAIKey(cfg); err != nil || key != "sk-keyring" {
		t.Errorf("openAIKey() from keyring = %q, %v", key, err)
	}

	cfg.Insight.APIKey = "sk-env"
	if key, err := openAIKey(cfg); err != nil || key != "sk-env" {
		t.Errorf("openAIKey() from config = %q, %v", key, err)
	}
}

func TestInsightCmd_Stats(t *testing.T) {
	ctx := setupTestContext(t)
	addHabit(t, ctx, "fajr", "Fajr")

	if err := (&InsightCmd{Days: 7, Stats: true}).Run(ctx); err != nil {
		t.Errorf("InsightCmd.Run() --stats error = %v", err)
	}
}
