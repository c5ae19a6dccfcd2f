package handlers

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"unicode/utf8"

	"github.com/go-telegram/bot"

	"github.com/edgard/catchupbot/internal/config"
	"github.com/edgard/catchupbot/internal/database"
)

// maxMessageLength is Telegram's limit for a single text message.
const maxMessageLength = 4096

// splitMessage breaks text into chunks of at most limit runes, cutting at
// line boundaries when possible.
func splitMessage(text string, limit int) []string {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return []string{text}
	}

	var chunks []string
	var cur []string
	curLen := 0

	flush := func() {
		if len(cur) > 0 {
			chunks = append(chunks, strings.Join(cur, "\n"))
			cur = cur[:0]
			curLen = 0
		}
	}

	for _, line := range strings.Split(text, "\n") {
		r := []rune(line)
		if len(r) > limit {
			flush()
			for len(r) > limit {
				chunks = append(chunks, string(r[:limit]))
				r = r[limit:]
			}
		}

		need := len(r)
		if len(cur) > 0 {
			need++
		}
		if curLen+need > limit {
			flush()
			need = len(r)
		}
		cur = append(cur, string(r))
		curLen += need
	}
	flush()

	return chunks
}

// errorText maps a digest error to the reply shown to users.
func errorText(msgs config.MessagesConfig, err error) string {
	switch {
	case errors.Is(err, database.ErrInvalidQuery):
		return msgs.InvalidWindow
	case errors.Is(err, database.ErrStoreUnavailable),
		errors.Is(err, context.DeadlineExceeded):
		return msgs.StoreError
	default:
		return msgs.GeneralError
	}
}

// sendChunks sends text to chatID as one or more messages.
func sendChunks(ctx context.Context, b *bot.Bot, log *slog.Logger, chatID int64, text string) {
	for _, chunk := range splitMessage(text, maxMessageLength) {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: chunk}); err != nil {
			log.ErrorContext(ctx, "Failed to send reply", "error", err, "chat_id", chatID)
			return
		}
	}
}
