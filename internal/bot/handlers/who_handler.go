package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/catchupbot/internal/digest"
)

// NewWhoHandler returns a handler for the /who command.
func NewWhoHandler(deps HandlerDeps) bot.HandlerFunc {
	return whoHandler{deps}.Handle
}

type whoHandler struct {
	deps HandlerDeps
}

func (h whoHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "who")

	if update.Message == nil {
		log.WarnContext(ctx, "Who handler received update with nil message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	var arg string
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		arg = args[0]
	}
	window, err := digest.ParseWindow(arg)
	if err != nil {
		sendChunks(ctx, b, log, chatID, errorText(h.deps.Config.Messages, err))
		return
	}

	log.InfoContext(ctx, "Handling /who command", "chat_id", chatID, "window", window.Label())

	text, err := h.deps.Digest.Roster(ctx, chatID, window)
	if err != nil {
		log.ErrorContext(ctx, "Failed to list participants", "error", err, "chat_id", chatID)
		text = errorText(h.deps.Config.Messages, err)
	}
	sendChunks(ctx, b, log, chatID, text)
}
