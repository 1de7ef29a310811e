package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/noah-isme/ictak-go-api/internal/dto"
	"github.com/noah-isme/ictak-go-api/internal/middleware"
	"github.com/noah-isme/ictak-go-api/internal/service"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

// AuthHandler serves registration, login and token verification.
type AuthHandler struct {
	service service.AuthService
	logger  zerolog.Logger
}

// NewAuthHandler constructs an auth handler.
func NewAuthHandler(service service.AuthService, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service: service,
		logger:  logger.With().Str("component", "auth_handler").Logger(),
	}
}

// Register wires the auth routes. limit guards the credential endpoints and guard
// protects token verification.
func (h *AuthHandler) Register(router fiber.Router, guard, limit fiber.Handler) {
	router.Post("/register", limit, h.register)
	router.Post("/login", limit, h.login)
	router.Get("/verify-token", guard, h.verifyToken)
}

func (h *AuthHandler) register(c *fiber.Ctx) error {
	var payload dto.RegisterRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	resp, token, err := h.service.Register(c.UserContext(), payload)
	if err != nil {
		return err
	}
	return utils.SendToken(c, fiber.StatusCreated, "Student registered successfully!", resp, token)
}

func (h *AuthHandler) login(c *fiber.Ctx) error {
	var payload dto.LoginRequest
	if ok, err := parseBody(c, &payload); !ok {
		return err
	}

	resp, token, err := h.service.Login(c.UserContext(), payload)
	if err != nil {
		return err
	}
	requestLogger(h.logger, c).Debug().Str("email", resp.User.Email).Msg("login accepted")
	return utils.SendToken(c, fiber.StatusOK, "Login successful", resp, token)
}

func (h *AuthHandler) verifyToken(c *fiber.Ctx) error {
	identity, ok := middleware.IdentityFromContext(c)
	if !ok {
		return utils.SendError(c, fiber.StatusUnauthorized, "Access token required")
	}

	resp, err := h.service.CurrentAccount(c.UserContext(), identity)
	if err != nil {
		return err
	}
	return utils.SendSuccess(c, "Token is valid", resp)
}
