package handlers

import (
	"errors"
	"log"
	"strconv"

	"github.com/OliverSkoczylas/SXM-GO/middleware"
	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
)

func SetupCheckInRoutes(app *fiber.App, checkinService *services.CheckInService, verifier middleware.TokenVerifier) {
	secured := app.Group("/checkins", middleware.UserAuthMiddleware(verifier))

	secured.Post("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			LocationID string  `json:"locationId"`
			Category   string  `json:"category"`
			Latitude   float64 `json:"latitude"`
			Longitude  float64 `json:"longitude"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "invalid JSON",
			})
		}
		if req.LocationID == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing locationId",
			})
		}

		checkin, result, err := checkinService.CheckIn(userID, req.LocationID, req.Category, req.Latitude, req.Longitude)
		if err != nil {
			if errors.Is(err, services.ErrLocationNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Location not found",
				})
			}
			log.Printf("❌ check-in failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"checkin": checkin,
			"gamify":  result,
		})
	})

	secured.Get("/", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)
		page, _ := strconv.Atoi(c.Query("page", "1"))
		size, _ := strconv.Atoi(c.Query("size", "20"))

		checkins, total, err := checkinService.Recent(userID, page, size)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to list check-ins",
			})
		}
		return c.JSON(fiber.Map{
			"checkins": checkins,
			"page":     page,
			"size":     size,
			"total":    total,
		})
	})
}
