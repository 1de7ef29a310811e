package handler

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

// SeedHandler exposes tooling endpoints for loading the project catalog.
type SeedHandler struct {
	service service.SeedService
	logger  zerolog.Logger
}

// NewSeedHandler constructs a seed handler.
func NewSeedHandler(service service.SeedService, logger zerolog.Logger) *SeedHandler {
	return &SeedHandler{
		service: service,
		logger:  logger.With().Str("component", "seed_handler").Logger(),
	}
}

// Register wires seed routes.
func (h *SeedHandler) Register(router fiber.Router) {
	router.Post("/projects", h.projects)
}

func (h *SeedHandler) projects(c *fiber.Ctx) error {
	token := c.Get("X-Seed-Token")
	var payload dto.SeedCatalogRequest
	if err := c.BodyParser(&payload); err != nil {
		return utils.SendError(c, fiber.StatusBadRequest, "invalid payload")
	}

	resp, err := h.service.SeedCatalog(c.UserContext(), token, payload)
	if err != nil {
		if errors.Is(err, service.ErrSeedDisabled) || errors.Is(err, service.ErrSeedUnauthorized) {
			requestLogger(h.logger, c).Warn().Str("ip", c.IP()).Msg("seed request refused")
		}
		return err
	}

	return utils.SendSuccess(c, "project catalog seeded", resp)
}
