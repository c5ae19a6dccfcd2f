package config

import (
	"time"

	"github.com/spf13/viper"
)

// Default values for configuration.
const (
	DefaultLogLevel = "info"
	DefaultTimezone = "Local"

	DefaultDBPath         = "chat_history.db"
	DefaultDBMaxOpenConns = 4
	DefaultDBBusyTimeout  = 5 * time.Second
	DefaultDBMaxRetries   = 3
	DefaultDBRetryBackoff = 200 * time.Millisecond
	DefaultDBQueryTimeout = 15 * time.Second

	DefaultMessageTextLimit  = 200
	DefaultFallbackTextLimit = 100
	DefaultMaxInputChars     = 12000
	DefaultSampleMiddle      = 80
	DefaultReductionRatio    = 1.0

	DefaultHealthAddr = ":8080"
)

// DefaultMessages are the reply texts used when config.yaml does not override them.
var DefaultMessages = MessagesConfig{
	Welcome: "👋 Hi! I'm your chat summarizer.\n\n" +
		"✅ I'm now saving all messages!\n\n" +
		"Commands:\n" +
		"/catchup - Summarize chat\n" +
		"/who - See active members\n" +
		"/person [Name] - Summarize specific person",
	Help: "❓ How to use:\n\n" +
		"/catchup - Summary of today\n" +
		"/catchup 3 - Summary of the last 3 hours\n" +
		"/who - Who has been active today\n" +
		"/person John - What John said today\n" +
		"/person John Sarah - What John & Sarah said\n" +
		"/person John 3 - What John said in the last 3 hours",
	PrivateChat: "🚫 I only work in groups!\n\n" +
		"Add me to a group and make me admin to use my features.",
	Summarizing:    "⏳ Reading messages and summarizing...",
	PersonUsage:    "❓ Usage: /person John [Sarah ...] [hours]",
	InvalidWindow:  "⚠️ The number of hours must be a positive whole number.",
	StoreError:     "⚠️ I couldn't reach my message history right now. Please try again in a moment.",
	GeneralError:   "❌ An error occurred. Please try again later.",
	NothingToSay:   "📭 No messages found %s!\nI only summarize messages sent while I am in the group.",
	NoParticipants: "💤 No one has sent messages %s yet!",
}

// DefaultTasks are the scheduled maintenance jobs.
var DefaultTasks = map[string]TaskConfig{
	"sql_maintenance": {Enabled: true, Schedule: "0 0 4 * * *"},
	"wal_checkpoint":  {Enabled: true, Schedule: "0 */15 * * * *"},
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("timezone", DefaultTimezone)

	v.SetDefault("logger.level", DefaultLogLevel)
	v.SetDefault("logger.json", true)

	v.SetDefault("telegram.token", "")

	v.SetDefault("database.path", DefaultDBPath)
	v.SetDefault("database.max_open_conns", DefaultDBMaxOpenConns)
	v.SetDefault("database.busy_timeout", DefaultDBBusyTimeout)
	v.SetDefault("database.max_retries", DefaultDBMaxRetries)
	v.SetDefault("database.retry_backoff", DefaultDBRetryBackoff)
	v.SetDefault("database.query_timeout", DefaultDBQueryTimeout)

	v.SetDefault("summarizer.message_text_limit", DefaultMessageTextLimit)
	v.SetDefault("summarizer.fallback_text_limit", DefaultFallbackTextLimit)
	v.SetDefault("summarizer.max_input_chars", DefaultMaxInputChars)
	v.SetDefault("summarizer.sample_middle", DefaultSampleMiddle)
	v.SetDefault("summarizer.reduction_ratio", DefaultReductionRatio)

	v.SetDefault("health.enabled", true)
	v.SetDefault("health.addr", DefaultHealthAddr)

	tasks := make(map[string]any, len(DefaultTasks))
	for name, task := range DefaultTasks {
		tasks[name] = map[string]any{"enabled": task.Enabled, "schedule": task.Schedule}
	}
	v.SetDefault("scheduler.tasks", tasks)

	v.SetDefault("messages.welcome", DefaultMessages.Welcome)
	v.SetDefault("messages.help", DefaultMessages.Help)
	v.SetDefault("messages.private_chat", DefaultMessages.PrivateChat)
	v.SetDefault("messages.summarizing", DefaultMessages.Summarizing)
	v.SetDefault("messages.person_usage", DefaultMessages.PersonUsage)
	v.SetDefault("messages.invalid_window", DefaultMessages.InvalidWindow)
	v.SetDefault("messages.store_error", DefaultMessages.StoreError)
	v.SetDefault("messages.general_error", DefaultMessages.GeneralError)
	v.SetDefault("messages.nothing_to_say", DefaultMessages.NothingToSay)
	v.SetDefault("messages.no_participants", DefaultMessages.NoParticipants)
}
