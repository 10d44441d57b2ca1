package handlers

import (
	"errors"
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/OliverSkoczylas/SXM-GO/middleware"
	"github.com/OliverSkoczylas/SXM-GO/services"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// AvatarUploader is the slice of object storage the profile routes need.
type AvatarUploader interface {
	UploadAvatar(fileHeader *multipart.FileHeader, key string) (string, error)
}

func SetupProfileRoutes(app *fiber.App, profileService *services.ProfileService, leaderboardService *services.LeaderboardService, storage AvatarUploader, verifier middleware.TokenVerifier) {
	secured := app.Group("/", middleware.UserAuthMiddleware(verifier))

	secured.Get("/user/progress", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		profile, err := profileService.Get(userID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Profile not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "DB error fetching profile",
			})
		}

		badges, err := profileService.Badges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get badges",
			})
		}
		challenges, err := profileService.Challenges(userID)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to get challenge progress",
			})
		}

		return c.JSON(fiber.Map{
			"id":           profile.ID,
			"display_name": profile.DisplayName,
			"avatar_url":   profile.AvatarURL,
			"total_points": profile.TotalPoints,
			"badges":       badges,
			"challenges":   challenges,
		})
	})

	secured.Put("/profile", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		type Req struct {
			DisplayName string `json:"displayName"`
		}
		var req Req
		if err := c.BodyParser(&req); err != nil || strings.TrimSpace(req.DisplayName) == "" {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing displayName",
			})
		}

		profile, err := profileService.UpdateDisplayName(userID, strings.TrimSpace(req.DisplayName))
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
					"error": "Profile not found",
				})
			}
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to update profile",
			})
		}
		return c.JSON(profile)
	})

	secured.Post("/profile/avatar", func(c *fiber.Ctx) error {
		userID := c.Locals("user_id").(string)

		fileHeader, err := c.FormFile("avatar")
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "Missing avatar file",
			})
		}

		ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
		key := fmt.Sprintf("%s/avatar-%s%s", userID, uuid.NewString(), ext)

		url, err := storage.UploadAvatar(fileHeader, key)
		if err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "avatar upload failed",
			})
		}
		if err := profileService.SetAvatarURL(userID, url); err != nil {
			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "failed to save avatar URL",
			})
		}
		return c.JSON(fiber.Map{"avatar_url": url})
	})

	// Leaderboard is public read-only data in the app, but the API still
	// requires a signed-in caller like everything else.
	secured.Get("/leaderboard", func(c *fiber.Ctx) error {
		limit, _ := strconv.Atoi(c.Query("limit", "100"))

		entries, err := leaderboardService.Get(c.Query("type", services.LeaderboardGlobal), limit)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		return c.JSON(fiber.Map{
			"type":    c.Query("type", services.LeaderboardGlobal),
			"entries": entries,
		})
	})
}
