// Package handlers contains Telegram bot command and message handlers,
// along with their registration logic and middleware.
package handlers

import (
	"context"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// isGroupChat reports whether the chat is a group or supergroup.
func isGroupChat(chat models.Chat) bool {
	return chat.Type == models.ChatTypeGroup || chat.Type == models.ChatTypeSupergroup
}

// GroupOnly creates a middleware that only lets group and supergroup messages
// through. Anywhere else it replies with the private-chat notice and stops.
func GroupOnly(deps HandlerDeps) tgbot.Middleware {
	return func(next tgbot.HandlerFunc) tgbot.HandlerFunc {
		return func(ctx context.Context, bot *tgbot.Bot, update *models.Update) {
			if update.Message == nil {
				return
			}

			if !isGroupChat(update.Message.Chat) {
				chatID := update.Message.Chat.ID
				log := deps.Logger.With("middleware", "GroupOnly")
				log.InfoContext(ctx, "Command used outside a group", "chat_id", chatID, "chat_type", update.Message.Chat.Type)

				_, err := bot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: chatID,
					Text:   deps.Config.Messages.PrivateChat,
				})
				if err != nil {
					log.ErrorContext(ctx, "Failed to send private chat notice", "error", err, "chat_id", chatID)
				}
				return
			}

			next(ctx, bot, update)
		}
	}
}
