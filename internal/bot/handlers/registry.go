package handlers

import (
	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// RegisteredHandler represents a command handler with its description and middleware.
// It encapsulates all information needed to register and document a command.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Description string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot commands.
// It configures each command with appropriate handlers and middleware.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	handlers := make(map[string]RegisteredHandler)

	handlers["/start"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "start",
		Description: "Start the bot",
		Handler:     NewStartHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}
	handlers["/help"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "help",
		Description: "How to use the bot",
		Handler:     NewHelpHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	groupMiddleware := []tgbot.Middleware{GroupOnly(deps)}

	handlers["/catchup"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "catchup",
		Description: "Summarize conversation",
		Handler:     NewCatchupHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupMiddleware,
	}
	handlers["/person"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "person",
		Description: "Summarize specific user",
		Handler:     NewPersonHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupMiddleware,
	}
	handlers["/who"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "who",
		Description: "See active members",
		Handler:     NewWhoHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
		Middleware:  groupMiddleware,
	}

	return handlers
}

// BotCommands returns the command menu entries for the registered handlers,
// in a stable order.
func BotCommands(registered map[string]RegisteredHandler) []models.BotCommand {
	order := []string{"start", "catchup", "person", "who", "help"}
	commands := make([]models.BotCommand, 0, len(registered))
	for _, name := range order {
		h, ok := registered["/"+name]
		if !ok || h.Description == "" {
			continue
		}
		commands = append(commands, models.BotCommand{Command: name, Description: h.Description})
	}
	return commands
}
