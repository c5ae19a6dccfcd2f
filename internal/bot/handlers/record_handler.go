package handlers

import (
	"context"
	"database/sql"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/catchupbot/internal/database"
)

// NewRecordHandler returns the default handler. It stores every plain text
// group message so later commands can summarize it.
func NewRecordHandler(deps HandlerDeps) bot.HandlerFunc {
	return recordHandler{deps}.Handle
}

type recordHandler struct {
	deps HandlerDeps
}

func (h recordHandler) Handle(ctx context.Context, _ *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "record")

	msg := toStoredMessage(update)
	if msg == nil {
		log.DebugContext(ctx, "Ignoring update that is not a group text message", "update_id", update.ID)
		return
	}

	dbCtx, cancel := context.WithTimeout(ctx, h.deps.Config.Database.QueryTimeout)
	defer cancel()

	if err := h.deps.Store.AppendMessage(dbCtx, msg); err != nil {
		log.ErrorContext(ctx, "Failed to record message", "error", err, "chat_id", msg.ChatID)
		return
	}

	log.DebugContext(ctx, "Recorded message",
		"chat_id", msg.ChatID,
		"message_id", msg.ID,
		"sender", msg.DisplayName)
}

// toStoredMessage converts a group text update into a store record. It
// returns nil for non-group chats, empty texts and commands.
func toStoredMessage(update *models.Update) *database.Message {
	if update == nil || update.Message == nil {
		return nil
	}
	m := update.Message
	if !isGroupChat(m.Chat) {
		return nil
	}
	if strings.TrimSpace(m.Text) == "" || strings.HasPrefix(m.Text, "/") {
		return nil
	}

	stored := &database.Message{
		ChatID:      m.Chat.ID,
		DisplayName: database.UnknownDisplayName,
		Text:        m.Text,
	}
	switch {
	case m.From != nil:
		stored.SenderID = sql.NullInt64{Int64: m.From.ID, Valid: true}
		if name := strings.TrimSpace(m.From.FirstName); name != "" {
			stored.DisplayName = name
		}
		stored.Handle = database.NullHandle(m.From.Username)
	case m.SenderChat != nil:
		if title := strings.TrimSpace(m.SenderChat.Title); title != "" {
			stored.DisplayName = title
		}
		stored.Handle = database.NullHandle(m.SenderChat.Username)
	}
	return stored
}
