package handlers

import (
	"errors"
	"log"

	"github.com/OliverSkoczylas/SXM-GO/middleware"
	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
)

// SetupGamifyRoutes wires the core gamification event endpoint.
//
// POST /gamify-event
// Authorization: Bearer <user_token>
// Body: { "eventType": "checkin", "eventId": "abc123", "meta": { "category": "beach", "locationId": "L001" } }
func SetupGamifyRoutes(app *fiber.App, gamifyService *services.GamifyService, verifier middleware.TokenVerifier) {
	secured := app.Group("/", middleware.UserAuthMiddleware(verifier))

	secured.Post("/gamify-event", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			EventType string         `json:"eventType"`
			EventID   string         `json:"eventId"`
			Meta      map[string]any `json:"meta"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			// Malformed bodies behave like empty ones; the missing eventId
			// check below rejects them before any write.
			req = Req{}
		}

		result, err := gamifyService.ProcessEvent(userID, req.EventType, req.EventID, req.Meta)
		if err != nil {
			switch {
			case errors.Is(err, services.ErrMissingEventID):
				return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
					"error": "Missing eventId",
				})
			case errors.Is(err, services.ErrProfileNotFound):
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Profile not found",
				})
			default:
				log.Printf("❌ gamify-event failed for %s: %v", userID, err)
				return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "Internal server error",
				})
			}
		}

		// Duplicates are a recognized outcome, not an error: 200 with
		// duplicate=true and zero side effects.
		return c.JSON(result)
	})
}
