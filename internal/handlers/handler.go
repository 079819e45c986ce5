package handlers

import (
	"log/slog"

	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/config"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/conversion"
	"github.com/joseph-c-mcguire/metar-to-IWXXM/internal/services"
)

type Handler struct {
	cfg       config.Config
	logger    *slog.Logger
	auth      *services.AuthService
	converter conversion.Converter
}

func NewHandler(
	cfg config.Config,
	logger *slog.Logger,
	auth *services.AuthService,
	converter conversion.Converter,
) *Handler {
	return &Handler{
		cfg:       cfg,
		logger:    logger,
		auth:      auth,
		converter: converter,
	}
}
