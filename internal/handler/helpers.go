package handler

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/middleware"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

const invalidBody = "Invalid request body"

func requestLogger(base zerolog.Logger, c *fiber.Ctx) *zerolog.Logger {
	logger := base
	if c != nil {
		if correlation := middleware.GetCorrelationID(c); correlation != "" {
			logger = base.With().Str("correlation_id", correlation).Logger()
		}
	}
	return &logger
}

func param(c *fiber.Ctx, key string) string {
	return strings.TrimSpace(c.Params(key))
}

// parseBody decodes the request body; a malformed body answers 400 directly.
func parseBody(c *fiber.Ctx, out interface{}) (bool, error) {
	if err := c.BodyParser(out); err != nil {
		return false, utils.SendError(c, fiber.StatusBadRequest, invalidBody)
	}
	return true, nil
}
