package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/noah-isme/ictak-go-api/internal/auth"
	"github.com/noah-isme/ictak-go-api/internal/utils"
)

const identityKey = "identity"

// TokenVerifier checks a session token and returns the identity it carries.
type TokenVerifier interface {
	Verify(token string) (auth.Identity, error)
}

// JWTProtected rejects requests without a valid bearer token and stores the
// verified identity on the request.
func JWTProtected(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authorization := strings.TrimSpace(c.Get(fiber.HeaderAuthorization))
		if authorization == "" {
			return utils.SendError(c, fiber.StatusUnauthorized, "Access token required")
		}

		// authorization is trimmed, so anything past the prefix holds a non-blank token.
		const bearer = "bearer "
		if len(authorization) <= len(bearer) || !strings.EqualFold(authorization[:len(bearer)], bearer) {
			return utils.SendError(c, fiber.StatusUnauthorized, "Invalid authorization header")
		}
		tokenString := strings.TrimSpace(authorization[len(bearer):])

		identity, err := verifier.Verify(tokenString)
		if err != nil {
			if auth.VerificationKindOf(err) == auth.VerificationExpired {
				return utils.SendError(c, fiber.StatusUnauthorized, "Access token expired")
			}
			return utils.SendError(c, fiber.StatusForbidden, "Invalid access token")
		}

		c.Locals(identityKey, identity)
		return c.Next()
	}
}

// IdentityFromContext returns the identity attached by JWTProtected.
func IdentityFromContext(c *fiber.Ctx) (auth.Identity, bool) {
	identity, ok := c.Locals(identityKey).(auth.Identity)
	return identity, ok
}
