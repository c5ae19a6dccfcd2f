package handlers

import (
	"context"
	"errors"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/catchupbot/internal/database"
	"github.com/edgard/catchupbot/internal/digest"
)

// NewPersonHandler returns a handler for the /person command.
func NewPersonHandler(deps HandlerDeps) bot.HandlerFunc {
	return personHandler{deps}.Handle
}

// personHandler summarizes what one or more named participants said.
// Usage: /person Name [Name ...] [hours].
type personHandler struct {
	deps HandlerDeps
}

func (h personHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "person")

	if update.Message == nil {
		log.WarnContext(ctx, "Person handler received update with nil message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	names, arg := splitPersonArgs(commandArgs(update.Message.Text))
	if len(names) == 0 {
		sendChunks(ctx, b, log, chatID, h.deps.Config.Messages.PersonUsage)
		return
	}

	window, err := digest.ParseWindow(arg)
	if err != nil {
		sendChunks(ctx, b, log, chatID, errorText(h.deps.Config.Messages, err))
		return
	}

	log.InfoContext(ctx, "Handling /person command", "chat_id", chatID, "names", names, "window", window.Label())

	text, err := h.deps.Digest.PersonDigest(ctx, chatID, names, window)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build person digest", "error", err, "chat_id", chatID)
		text = errorText(h.deps.Config.Messages, err)
		if errors.Is(err, database.ErrInvalidQuery) {
			text = h.deps.Config.Messages.PersonUsage
		}
	}
	sendChunks(ctx, b, log, chatID, text)
}
