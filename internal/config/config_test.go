package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("WriteFile() error = %v", err)
	}
	return path
}

func TestLoadConfigDefaultsWithEnvToken(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:env-token")

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123456:env-token" {
		t.Errorf("Token = %q, want env value", cfg.Telegram.Token)
	}
	if cfg.Database.Path != DefaultDBPath {
		t.Errorf("Database.Path = %q, want %q", cfg.Database.Path, DefaultDBPath)
	}
	if cfg.Database.BusyTimeout != DefaultDBBusyTimeout {
		t.Errorf("Database.BusyTimeout = %v, want %v", cfg.Database.BusyTimeout, DefaultDBBusyTimeout)
	}
	if cfg.Summarizer.MaxInputChars != DefaultMaxInputChars {
		t.Errorf("Summarizer.MaxInputChars = %d, want %d", cfg.Summarizer.MaxInputChars, DefaultMaxInputChars)
	}
	if cfg.Messages.Summarizing != DefaultMessages.Summarizing {
		t.Errorf("Messages.Summarizing = %q", cfg.Messages.Summarizing)
	}
	if !cfg.Scheduler.Tasks["wal_checkpoint"].Enabled {
		t.Errorf("wal_checkpoint task should be enabled by default: %+v", cfg.Scheduler.Tasks)
	}
	if cfg.Location() != time.Local {
		t.Errorf("Location() = %v, want Local", cfg.Location())
	}
}

func TestLoadConfigRequiresToken(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")

	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	if err == nil || !strings.Contains(err.Error(), "Token") {
		t.Fatalf("LoadConfig() error = %v, want token validation error", err)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "")

	path := writeConfig(t, `
timezone: America/Sao_Paulo
logger:
  level: debug
  json: false
telegram:
  token: "123456:file-token"
database:
  path: /tmp/chat.db
  busy_timeout: 2s
summarizer:
  max_input_chars: 5000
health:
  enabled: false
scheduler:
  tasks:
    wal_checkpoint:
      enabled: false
messages:
  summarizing: "working on it"
`)

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig() error = %v", err)
	}

	if cfg.Telegram.Token != "123456:file-token" {
		t.Errorf("Token = %q", cfg.Telegram.Token)
	}
	if cfg.Logger.Level != "debug" || cfg.Logger.JSON {
		t.Errorf("Logger = %+v", cfg.Logger)
	}
	if cfg.Database.Path != "/tmp/chat.db" || cfg.Database.BusyTimeout != 2*time.Second {
		t.Errorf("Database = %+v", cfg.Database)
	}
	if cfg.Database.MaxRetries != DefaultDBMaxRetries {
		t.Errorf("Database.MaxRetries = %d, want default", cfg.Database.MaxRetries)
	}
	if cfg.Summarizer.MaxInputChars != 5000 {
		t.Errorf("Summarizer.MaxInputChars = %d", cfg.Summarizer.MaxInputChars)
	}
	if cfg.Health.Enabled {
		t.Error("Health.Enabled = true, want false")
	}
	if cfg.Scheduler.Tasks["wal_checkpoint"].Enabled {
		t.Error("wal_checkpoint should be disabled by file")
	}
	if cfg.Messages.Summarizing != "working on it" || cfg.Messages.Help != DefaultMessages.Help {
		t.Errorf("Messages not merged with defaults: %+v", cfg.Messages)
	}
	if got := cfg.Location().String(); got != "America/Sao_Paulo" {
		t.Errorf("Location() = %q", got)
	}
}

func TestLoadConfigRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"log level", "logger:\n  level: loud\n"},
		{"timezone", "timezone: Mars/Olympus\n"},
		{"reduction ratio", "summarizer:\n  reduction_ratio: 2\n"},
		{"retries", "database:\n  max_retries: 0\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("BOT_TELEGRAM_TOKEN", "123456:token")
			if _, err := LoadConfig(writeConfig(t, tt.body)); err == nil {
				t.Errorf("LoadConfig() error = nil for invalid %s", tt.name)
			}
		})
	}
}

func TestLoadConfigMalformedFile(t *testing.T) {
	t.Setenv("BOT_TELEGRAM_TOKEN", "123456:token")

	if _, err := LoadConfig(writeConfig(t, "logger: [unterminated\n")); err == nil {
		t.Fatal("LoadConfig() error = nil for malformed YAML")
	}
}
