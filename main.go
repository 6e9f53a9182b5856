package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"sedorist/internal/config"
	"sedorist/internal/handlers"
	"sedorist/internal/middleware"
	"sedorist/internal/models"
	"sedorist/internal/repositories"
	"sedorist/internal/services"
	"sedorist/pkg/cache"
	"sedorist/pkg/gemini"
	"sedorist/pkg/mailer"
)

func main() {
	// --- Configuration ---
	cfg := config.Load()

	// --- Logging ---
	logrus.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	// --- Database ---
	// TranslateError turns driver-specific duplicate-key errors into
	// gorm.ErrDuplicatedKey so the repositories can map them to conflicts.
	db, err := gorm.Open(postgres.Open(cfg.DatabaseDSN), &gorm.Config{
		TranslateError: true,
	})
	if err != nil {
		logrus.Fatalf("failed to connect to database: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Item{}, &models.Session{}); err != nil {
		logrus.Fatalf("failed to migrate schema: %v", err)
	}

	// --- Optional Redis cache ---
	var itemCache *cache.Cache
	if cfg.RedisAddr != "" {
		itemCache, err = cache.New(context.Background(), cache.Config{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPass,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			logrus.Fatalf("failed to connect to Redis: %v", err)
		}
		defer itemCache.Close()
	} else {
		logrus.Info("REDIS_ADDR not set, item list caching disabled")
	}

	// --- Optional Gemini client ---
	var extractor services.Extractor
	if cfg.GeminiAPIKey != "" {
		geminiClient, err := gemini.NewClient(context.Background(), gemini.Config{
			APIKey: cfg.GeminiAPIKey,
			Model:  cfg.GeminiModel,
		})
		if err != nil {
			logrus.Fatalf("failed to create Gemini client: %v", err)
		}
		defer geminiClient.Close()
		extractor = geminiClient
	} else {
		logrus.Warn("GEMINI_API_KEY not set, price tag scanning disabled")
	}

	// --- Mail ---
	resetMailer := mailer.New(mailer.Config{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPass,
		Sender:   cfg.MailSender,
	})

	// --- Repositories ---
	userRepo := repositories.NewGORMUserRepository(db)
	itemRepo := repositories.NewGORMItemRepository(db)
	sessionRepo := repositories.NewGORMSessionRepository(db)

	// --- Services ---
	authService := services.NewAuthService(userRepo, sessionRepo, itemRepo,
		resetMailer, cfg.AppURL, cfg.SessionTTL, cfg.ResetTokenTTL)
	accountService := services.NewAccountService(userRepo, sessionRepo)
	itemService := services.NewItemService(itemRepo, itemCache)
	scanService := services.NewScanService(extractor)

	// --- Handlers ---
	authHandler := handlers.NewAuthHandler(authService)
	accountHandler := handlers.NewAccountHandler(accountService)
	itemHandler := handlers.NewItemHandler(itemService)
	scanHandler := handlers.NewScanHandler(scanService)

	// --- Fiber app ---
	app := fiber.New(fiber.Config{
		BodyLimit: 16 * 1024 * 1024, // room for phone camera uploads
	})
	app.Use(logger.New())

	// --- API routes ---
	apiV1 := app.Group("/api/v1")
	authHandler.RegisterRoutes(apiV1)

	protected := apiV1.Group("", middleware.SessionRequired(authService))
	authHandler.RegisterProtectedRoutes(protected)
	accountHandler.RegisterRoutes(protected)
	itemHandler.RegisterRoutes(protected)
	scanHandler.RegisterRoutes(protected)

	// --- Health check ---
	app.Get("/health", func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusOK).JSON(fiber.Map{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	// --- Start HTTP server ---
	logrus.Infof("starting server on %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			logrus.Fatalf("server failed to start: %v", err)
		}
	}()

	<-quit
	logrus.Info("shutting down server...")
	if err := app.Shutdown(); err != nil {
		logrus.Errorf("error during shutdown: %v", err)
	}
	logrus.Info("server gracefully stopped")
}
