package main

import (
	"fmt"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/sirupsen/logrus"

	"github.com/voiceaid/voiceaid-backend/internal/api"
	"github.com/voiceaid/voiceaid-backend/internal/audio"
	"github.com/voiceaid/voiceaid-backend/internal/config"
	"github.com/voiceaid/voiceaid-backend/internal/database"
	"github.com/voiceaid/voiceaid-backend/internal/pipeline"
	"github.com/voiceaid/voiceaid-backend/internal/repository/postgres"
	"github.com/voiceaid/voiceaid-backend/internal/transcriber"
)

func main() {
	logger := logrus.New()
	logger.SetLevel(logrus.InfoLevel)

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration: ", err)
	}

	// Connect to database
	db, err := database.NewConnection(cfg.Database)
	if err != nil {
		logger.Fatal("Failed to connect to database: ", err)
	}
	defer db.Close()

	// Run migrations
	if err := database.RunMigrations(cfg.Database); err != nil {
		logger.Fatal("Failed to run migrations: ", err)
	}

	// Initialize Fiber app. BodyLimit leaves headroom over the audio
	// ceiling so oversize uploads reach the inspector and get a typed
	// error session instead of a connection reset.
	app := fiber.New(fiber.Config{
		AppName:      "VoiceAid Backend",
		BodyLimit:    (cfg.Processing.MaxFileSizeMB + 10) * 1024 * 1024,
		ErrorHandler: customErrorHandler,
	})

	// Middleware
	app.Use(recover.New())
	app.Use(fiberlogger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: getOrigins(cfg),
		AllowHeaders: "Origin, Content-Type, Accept",
		AllowMethods: "GET, POST, DELETE, OPTIONS",
	}))

	// Initialize pipeline dependencies
	sessionRepo := postgres.NewSessionRepository(db.DB)
	inspector := audio.NewInspector(cfg.Processing.MaxFileSizeMB)
	tr := transcriber.New(cfg.Processing, logger)

	p := pipeline.New(sessionRepo, inspector, tr, cfg.Processing, logger)

	api.SetupRoutes(app, p, cfg)

	logger.WithFields(logrus.Fields{
		"mock_mode":     cfg.Processing.MockMode,
		"whisper_model": cfg.Processing.WhisperModel,
		"port":          cfg.Server.Port,
	}).Info("VoiceAid backend starting")

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	if err := app.Listen(addr); err != nil {
		logger.Fatal("Failed to start server: ", err)
	}
}

func customErrorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
	}

	return c.Status(code).JSON(fiber.Map{
		"error": err.Error(),
		"code":  code,
	})
}

func getOrigins(cfg *config.Config) string {
	if cfg.CORSOrigins != "" {
		return cfg.CORSOrigins
	}
	return "http://localhost:5173,http://localhost:3000,http://127.0.0.1:5173"
}
