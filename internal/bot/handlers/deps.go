package handlers

import (
	"log/slog"

	"github.com/edgard/catchupbot/internal/config"
	"github.com/edgard/catchupbot/internal/database"
	"github.com/edgard/catchupbot/internal/digest"
)

// HandlerDeps provides dependencies for Telegram command handlers.
type HandlerDeps struct {
	Logger *slog.Logger
	Config *config.Config
	Store  database.Store
	Digest *digest.Service
}
