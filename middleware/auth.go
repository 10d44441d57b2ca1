package middleware

import (
	"log"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// TokenVerifier maps a bearer token to a user id. Implemented by
// services.AuthClient; tests swap in a stub.
type TokenVerifier interface {
	VerifyToken(accessToken string) (string, error)
}

// UserAuthMiddleware verifies the caller's bearer token against the
// identity service and attaches the user id to the request context.
// Runs before any business logic: no token, no writes.
func UserAuthMiddleware(verifier TokenVerifier) fiber.Handler {
	return func(c *fiber.Ctx) error {
		authHeader := c.Get("Authorization")
		if authHeader == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Missing authorization header",
			})
		}

		// Parse "Bearer <token>"
		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == authHeader {
			// no "Bearer " prefix — try raw value
			token = authHeader
		}

		userID, err := verifier.VerifyToken(token)
		if err != nil {
			log.Printf("❌ [USER_AUTH] Token rejected for %s: %v", c.Path(), err)
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "Invalid or expired token",
			})
		}

		c.Locals("user_id", userID)
		return c.Next()
	}
}
