package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/voiceaid/voiceaid-backend/internal/api/handlers"
	"github.com/voiceaid/voiceaid-backend/internal/config"
	"github.com/voiceaid/voiceaid-backend/internal/pipeline"
)

// Version is reported by the health endpoint.
const Version = "0.1.0"

// SetupRoutes configures all API routes
func SetupRoutes(app *fiber.App, p *pipeline.Pipeline, cfg *config.Config) {
	api := app.Group("/api/v1")

	// Health check
	api.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"status":        "ok",
			"version":       Version,
			"mock_mode":     p.MockMode(),
			"whisper_model": cfg.Processing.WhisperModel,
		})
	})

	// Session endpoints: upload runs the full pipeline synchronously
	sessions := api.Group("/sessions")
	sessions.Post("", handlers.CreateSession(p))
	sessions.Get("", handlers.ListSessions(p))
	sessions.Get("/:id", handlers.GetSession(p))
	sessions.Delete("/:id", handlers.DeleteSession(p))
	sessions.Post("/:id/resummarize", handlers.ResummarizeSession(p))
}
