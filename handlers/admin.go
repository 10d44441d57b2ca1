package handlers

import (
	"errors"
	"log"
	"time"

	"github.com/OliverSkoczylas/SXM-GO/middleware"
	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
)

// SetupAdminRoutes wires the service-to-service surface: the deletion
// processor trigger (hit by an external cron as well as the in-process
// worker) and location seeding.
func SetupAdminRoutes(app *fiber.App, privacyService *services.PrivacyService, checkinService *services.CheckInService) {
	admin := app.Group("/admin", middleware.ServiceAuthMiddleware())

	admin.Post("/process-deletions", func(c *fiber.Ctx) error {
		results, err := privacyService.ProcessExpiredDeletions("system-cron")
		if err != nil {
			log.Printf("❌ process-deletions failed: %v", err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Failed to fetch pending deletions",
			})
		}
		return c.JSON(fiber.Map{
			"processed": len(results),
			"results":   results,
			"timestamp": time.Now().UTC(),
		})
	})

	admin.Post("/locations", func(c *fiber.Ctx) error {
		type Req struct {
			Name      string  `json:"name"`
			Category  string  `json:"category"`
			Latitude  float64 `json:"latitude"`
			Longitude float64 `json:"longitude"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.Name == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing name",
			})
		}

		loc, err := checkinService.CreateLocation(req.Name, req.Category, req.Latitude, req.Longitude)
		if err != nil {
			if errors.Is(err, services.ErrLocationExists) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "Location already exists",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to create location",
			})
		}
		return c.Status(fiber.StatusCreated).JSON(loc)
	})
}
