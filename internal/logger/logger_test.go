package logger

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestInit(t *testing.T) {
	configDir := filepath.Join(t.TempDir(), "config")

	if err := Init(Config{ConfigDir: configDir, Level: "info"}); err != nil {
		t.Fatalf("Failed to initialize logger: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger == nil {
		t.Fatal("Logger is nil after initialization")
	}

	Debug("hidden below info")
	Info("coordinator write", "key", "log:fajr|2024-03-10", "op", "save")
	With("component", "test").Warn("child logger")

	data, err := os.ReadFile(filepath.Join(configDir, "logs", "wird.log"))
	if err != nil {
		t.Fatalf("log file not written: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "coordinator write") || !strings.Contains(out, "component=test") {
		t.Errorf("log file missing entries:\n%s", out)
	}
	if strings.Contains(out, "hidden below info") {
		t.Error("debug line written at info level")
	}
}

func TestInitDebugMode(t *testing.T) {
	if err := Init(Config{Debug: true, ConfigDir: t.TempDir()}); err != nil {
		t.Fatalf("Failed to initialize logger in debug mode: %v", err)
	}
	t.Cleanup(func() { Logger = nil })

	if Logger.GetLevel() != log.DebugLevel {
		t.Error("debug mode should enable debug level")
	}
}

func TestInitInvalidLevel(t *testing.T) {
	if err := Init(Config{ConfigDir: t.TempDir(), Level: "loud"}); err == nil {
		t.Error("Init() with unknown level should fail")
	}
}

func TestLogFunctionsWithoutInit(t *testing.T) {
	Logger = nil

	// These should not panic when Logger is nil
	Debug("Test debug message")
	Info("Test info message")
	Warn("Test warning message")
	Error("Test error message")
	With("k", "v").Info("discarded")
}
