package middleware

import (
	"log"
	"os"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// ServiceAuthMiddleware guards the admin surface (deletion processing,
// location seeding). Accepts either the webhook secret header used by the
// external cron caller or the service key as a bearer token.
func ServiceAuthMiddleware() fiber.Handler {
	webhookSecret := os.Getenv("DELETION_WEBHOOK_SECRET")
	serviceKey := os.Getenv("AUTH_SERVICE_KEY")
	if webhookSecret == "" && serviceKey == "" {
		log.Fatal("❌ DELETION_WEBHOOK_SECRET or AUTH_SERVICE_KEY must be set — admin routes cannot authenticate callers")
	}

	return func(c *fiber.Ctx) error {
		if webhookSecret != "" && c.Get("X-Webhook-Secret") == webhookSecret {
			return c.Next()
		}

		token := strings.TrimPrefix(c.Get("Authorization"), "Bearer ")
		if serviceKey != "" && token == serviceKey {
			return c.Next()
		}

		log.Printf("🚫 [SERVICE_AUTH] Unauthorized admin call to %s", c.Path())
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "Unauthorized",
		})
	}
}
