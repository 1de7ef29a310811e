package handler

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/apperr"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

const internalMessage = "Internal server error"

// ErrorHandler turns every error a route returns into the response envelope. In debug
// mode the cause, with stack when available, is included in the error field.
func ErrorHandler(logger zerolog.Logger, debug bool) fiber.ErrorHandler {
	logger = logger.With().Str("component", "error_handler").Logger()

	return func(c *fiber.Ctx, err error) error {
		var fe *fiber.Error
		if errors.As(err, &fe) {
			message := fe.Message
			if fe.Code == fiber.StatusRequestEntityTooLarge {
				message = "File exceeds maximum allowed size"
			}
			if fe.Code == fiber.StatusNotFound {
				return RouteNotFound(c)
			}
			return utils.SendError(c, fe.Code, message)
		}

		status := apperr.HTTPStatus(apperr.KindOf(err))
		message := apperr.MessageOf(err, internalMessage)

		if status >= fiber.StatusInternalServerError {
			requestLogger(logger, c).Error().Err(err).Str("path", c.Path()).Msg(message)
		}

		detail := ""
		if debug && status >= fiber.StatusInternalServerError {
			detail = fmt.Sprintf("%+v", err)
		}
		return utils.SendErrorDetail(c, status, message, detail)
	}
}

// RouteNotFound answers requests that matched no route.
func RouteNotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(utils.APIResponse{
		Success: false,
		Message: "Route not found",
		Data:    fiber.Map{"path": c.OriginalURL(), "method": c.Method()},
	})
}
