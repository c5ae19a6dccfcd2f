// Package config provides configuration loading, validation, and management
// for the catch-up bot. It reads a YAML file, applies defaults, honours BOT_*
// environment overrides and validates the result.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/go-telegram/bot/models"
	"github.com/spf13/viper"
)

// Config is the root application configuration.
type Config struct {
	Logger     LoggerConfig     `mapstructure:"logger"`
	Telegram   TelegramConfig   `mapstructure:"telegram"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Summarizer SummarizerConfig `mapstructure:"summarizer"`
	Scheduler  SchedulerConfig  `mapstructure:"scheduler"`
	Health     HealthConfig     `mapstructure:"health"`
	Messages   MessagesConfig   `mapstructure:"messages"`

	// Timezone is the IANA zone used to resolve the start of "today".
	Timezone string `mapstructure:"timezone" validate:"required"`
}

// LoggerConfig controls the slog handler.
type LoggerConfig struct {
	Level string `mapstructure:"level" validate:"oneof=debug info warn error"`
	JSON  bool   `mapstructure:"json"`
}

// TelegramConfig holds the bot token and, at runtime, the bot identity.
type TelegramConfig struct {
	Token string `mapstructure:"token" validate:"required"`

	// BotInfo is filled from getMe after startup.
	BotInfo *models.User `mapstructure:"-"`
}

// DatabaseConfig configures the SQLite message store.
type DatabaseConfig struct {
	Path         string        `mapstructure:"path"          validate:"required"`
	MaxOpenConns int           `mapstructure:"max_open_conns" validate:"min=1,max=64"`
	BusyTimeout  time.Duration `mapstructure:"busy_timeout"  validate:"min=0,max=1m"`
	MaxRetries   int           `mapstructure:"max_retries"   validate:"min=1,max=10"`
	RetryBackoff time.Duration `mapstructure:"retry_backoff" validate:"min=0,max=30s"`
	QueryTimeout time.Duration `mapstructure:"query_timeout" validate:"min=1s,max=5m"`
}

// SummarizerConfig bounds the extractive summarization pipeline.
type SummarizerConfig struct {
	MessageTextLimit  int     `mapstructure:"message_text_limit"  validate:"min=20,max=4096"`
	FallbackTextLimit int     `mapstructure:"fallback_text_limit" validate:"min=10,max=4096"`
	MaxInputChars     int     `mapstructure:"max_input_chars"     validate:"min=500,max=100000"`
	SampleMiddle      int     `mapstructure:"sample_middle"       validate:"min=1,max=1000"`
	ReductionRatio    float64 `mapstructure:"reduction_ratio"     validate:"gt=0,lte=1"`
}

// SchedulerConfig maps task names to their schedules.
type SchedulerConfig struct {
	Tasks map[string]TaskConfig `mapstructure:"tasks" validate:"dive"`
}

// TaskConfig describes a single scheduled task.
type TaskConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Schedule string `mapstructure:"schedule" validate:"required_if=Enabled true"`
}

// HealthConfig configures the liveness HTTP endpoint.
type HealthConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Addr    string `mapstructure:"addr" validate:"required_if=Enabled true"`
}

// MessagesConfig holds user-facing reply texts.
type MessagesConfig struct {
	Welcome        string `mapstructure:"welcome"         validate:"required"`
	Help           string `mapstructure:"help"            validate:"required"`
	PrivateChat    string `mapstructure:"private_chat"    validate:"required"`
	Summarizing    string `mapstructure:"summarizing"     validate:"required"`
	PersonUsage    string `mapstructure:"person_usage"    validate:"required"`
	InvalidWindow  string `mapstructure:"invalid_window"  validate:"required"`
	StoreError     string `mapstructure:"store_error"     validate:"required"`
	GeneralError   string `mapstructure:"general_error"   validate:"required"`
	NothingToSay   string `mapstructure:"nothing_to_say"  validate:"required"`
	NoParticipants string `mapstructure:"no_participants" validate:"required"`
}

// Location resolves Timezone, falling back to the process local zone.
func (c *Config) Location() *time.Location {
	if c.Timezone == "" || strings.EqualFold(c.Timezone, "local") {
		return time.Local
	}
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.Local
	}
	return loc
}

// LoadConfig reads the YAML file at path (missing file is allowed), applies
// defaults and BOT_* environment overrides, and validates the result.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetEnvPrefix("BOT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	if cfg.Timezone != "" && !strings.EqualFold(cfg.Timezone, "local") {
		if _, err := time.LoadLocation(cfg.Timezone); err != nil {
			return nil, fmt.Errorf("invalid timezone %q: %w", cfg.Timezone, err)
		}
	}

	return cfg, nil
}
