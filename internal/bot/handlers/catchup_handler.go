package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/catchupbot/internal/digest"
)

// NewCatchupHandler returns a handler for the /catchup command.
func NewCatchupHandler(deps HandlerDeps) bot.HandlerFunc {
	return catchupHandler{deps}.Handle
}

// catchupHandler summarizes today or the last N hours of the chat.
type catchupHandler struct {
	deps HandlerDeps
}

func (h catchupHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "catchup")

	if update.Message == nil {
		log.WarnContext(ctx, "Catchup handler received update with nil message", "update_id", update.ID)
		return
	}
	chatID := update.Message.Chat.ID

	var arg string
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		arg = args[0]
	}
	window, err := digest.ParseWindow(arg)
	if err != nil {
		log.InfoContext(ctx, "Invalid catchup window", "chat_id", chatID, "arg", arg)
		sendChunks(ctx, b, log, chatID, errorText(h.deps.Config.Messages, err))
		return
	}

	log.InfoContext(ctx, "Handling /catchup command", "chat_id", chatID, "window", window.Label())

	// Progress message, edited in place once the digest is ready.
	status, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: h.deps.Config.Messages.Summarizing})
	if err != nil {
		log.ErrorContext(ctx, "Failed to send progress message", "error", err, "chat_id", chatID)
	}

	text, err := h.deps.Digest.Digest(ctx, chatID, window)
	if err != nil {
		log.ErrorContext(ctx, "Failed to build digest", "error", err, "chat_id", chatID)
		text = errorText(h.deps.Config.Messages, err)
	}

	chunks := splitMessage(text, maxMessageLength)
	if status != nil {
		_, editErr := b.EditMessageText(ctx, &bot.EditMessageTextParams{
			ChatID:    chatID,
			MessageID: status.ID,
			Text:      chunks[0],
		})
		if editErr == nil {
			chunks = chunks[1:]
		} else {
			log.WarnContext(ctx, "Failed to edit progress message, sending a new one", "error", editErr, "chat_id", chatID)
		}
	}

	for _, chunk := range chunks {
		if _, err := b.SendMessage(ctx, &bot.SendMessageParams{ChatID: chatID, Text: chunk}); err != nil {
			log.ErrorContext(ctx, "Failed to send digest", "error", err, "chat_id", chatID)
			return
		}
	}
}
