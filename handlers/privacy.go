package handlers

import (
	"errors"
	"fmt"
	"log"

	"github.com/OliverSkoczylas/SXM-GO/middleware"
	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
)

// SetupPrivacyRoutes wires the GDPR surface: consent logging, data export
// (Article 15) and account deletion with its grace period (Article 17).
func SetupPrivacyRoutes(app *fiber.App, privacyService *services.PrivacyService, verifier middleware.TokenVerifier) {
	secured := app.Group("/privacy", middleware.UserAuthMiddleware(verifier))

	secured.Post("/consent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			ConsentType    string `json:"consentType"`
			Granted        bool   `json:"granted"`
			ConsentVersion string `json:"consentVersion"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || req.ConsentType == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing consentType",
			})
		}

		entry, err := privacyService.LogConsent(userID, req.ConsentType, req.Granted, req.ConsentVersion)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to log consent",
			})
		}
		return c.Status(fiber.StatusCreated).JSON(entry)
	})

	secured.Get("/consent", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		state, err := privacyService.ConsentState(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load consent state",
			})
		}
		return c.JSON(state)
	})

	secured.Post("/export", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		export, err := privacyService.ExportUserData(userID)
		if err != nil {
			log.Printf("❌ data export failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Internal server error",
			})
		}

		c.Set("Content-Disposition", fmt.Sprintf(`attachment; filename="sxm-go-data-export-%s.json"`, userID))
		return c.JSON(export)
	})

	secured.Post("/delete-account", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			Reason    *string `json:"reason"`
			Immediate bool    `json:"immediate"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil {
			req = Req{}
		}

		request, err := privacyService.RequestDeletion(userID, req.Reason, req.Immediate)
		if err != nil {
			if errors.Is(err, services.ErrDeletionPending) {
				return c.Status(fiber.StatusConflict).JSON(fiber.Map{
					"error": "A deletion request is already pending",
				})
			}
			log.Printf("❌ account deletion failed for %s: %v", userID, err)
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "Account deletion failed. Please try again.",
			})
		}

		if req.Immediate {
			return c.JSON(fiber.Map{
				"message": "Account deleted successfully.",
			})
		}
		return c.JSON(fiber.Map{
			"message":       fmt.Sprintf("Account scheduled for deletion on %s. You can cancel within this period.", request.ScheduledFor.UTC().Format("2006-01-02")),
			"scheduled_for": request.ScheduledFor,
		})
	})

	secured.Post("/delete-account/cancel", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		request, err := privacyService.CancelDeletion(userID)
		if err != nil {
			if errors.Is(err, services.ErrNoPendingDeletion) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "No pending deletion request",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to cancel deletion",
			})
		}
		return c.JSON(request)
	})

	secured.Get("/delete-account", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		request, err := privacyService.PendingDeletion(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to load deletion request",
			})
		}
		return c.JSON(fiber.Map{"pending": request})
	})
}
