package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/OliverSkoczylas/SXM-GO/handlers"
	"github.com/OliverSkoczylas/SXM-GO/models"
	"github.com/OliverSkoczylas/SXM-GO/services"
	"github.com/OliverSkoczylas/SXM-GO/utils"
	"github.com/OliverSkoczylas/SXM-GO/workers"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  No .env file found, reading environment variables directly")
	}

	app := fiber.New(fiber.Config{
		BodyLimit: 10 * 1024 * 1024, // avatars only, keep it small
	})

	allowedOriginsEnv := os.Getenv("ALLOWED_ORIGINS")
	if allowedOriginsEnv == "" {
		log.Println("⚠️  ALLOWED_ORIGINS environment variable not set, using default: http://localhost:3000")
		allowedOriginsEnv = "http://localhost:3000"
	}
	allowedOriginsList := strings.Split(allowedOriginsEnv, ",")
	for i, origin := range allowedOriginsList {
		allowedOriginsList[i] = strings.TrimSpace(origin)
	}
	allowedOriginsString := strings.Join(allowedOriginsList, ",")

	app.Use(cors.New(cors.Config{
		AllowOrigins:     allowedOriginsString,
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH,HEAD",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With, X-Request-ID, X-Webhook-Secret",
		ExposeHeaders:    "Content-Length, Content-Type, Content-Disposition",
		AllowCredentials: true,
		MaxAge:           86400, // 24 hours
	}))

	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable not set")
	}

	// TranslateError turns driver unique-constraint violations into
	// gorm.ErrDuplicatedKey, which the gamify service relies on for its
	// idempotency and badge-award checks.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	if err := db.AutoMigrate(
		&models.Profile{},
		&models.PointTransaction{},
		&models.Challenge{},
		&models.ChallengeProgress{},
		&models.ChallengeVisitedLocation{},
		&models.Badge{},
		&models.UserBadge{},
		&models.Location{},
		&models.CheckIn{},
		&models.ConsentLog{},
		&models.DeletionRequest{},
	); err != nil {
		log.Fatal("failed to migrate database:", err)
	}

	authServiceURL := os.Getenv("AUTH_SERVICE_URL")
	if authServiceURL == "" {
		log.Fatal("AUTH_SERVICE_URL environment variable not set")
	}
	anonKey := os.Getenv("AUTH_ANON_KEY")
	serviceKey := os.Getenv("AUTH_SERVICE_KEY")
	if serviceKey == "" {
		log.Fatal("AUTH_SERVICE_KEY environment variable not set")
	}
	authClient := services.NewAuthClient(authServiceURL, anonKey, serviceKey)

	avatarStore, err := utils.NewAvatarStore()
	if err != nil {
		log.Fatal("failed to initialize R2 client:", err)
	}

	gamifyService := services.NewGamifyService(db)
	checkinService := services.NewCheckInService(db, gamifyService)
	profileService := services.NewProfileService(db)
	leaderboardService := services.NewLeaderboardService(db)
	privacyService := services.NewPrivacyService(db, avatarStore, authClient)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	deletionWorker := workers.NewDeletionWorker(privacyService)
	deletionWorker.Start(ctx)

	handlers.SetupGamifyRoutes(app, gamifyService, authClient)
	handlers.SetupCheckInRoutes(app, checkinService, authClient)
	handlers.SetupProfileRoutes(app, profileService, leaderboardService, avatarStore, authClient)
	handlers.SetupPrivacyRoutes(app, privacyService, authClient)
	handlers.SetupAdminRoutes(app, privacyService, checkinService)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	go func() {
		if err := app.Listen(":" + port); err != nil {
			log.Printf("Server error: %v", err)
		}
	}()

	log.Printf("✅ Server running on http://localhost:%s", port)
	log.Println("✅ Deletion worker running (daily at 02:00 UTC)")
	log.Printf("✅ CORS configured for origins: %s", allowedOriginsString)

	<-ctx.Done()
	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Printf("Shutdown error: %v", err)
	}
}
