package api

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"github.com/hkarap/sentinews/internal/config"
	"github.com/hkarap/sentinews/internal/engine"
	"github.com/hkarap/sentinews/internal/middleware"
	"github.com/hkarap/sentinews/internal/store"
)

// SetupRoutes configures all the routes for the application
func SetupRoutes(app *fiber.App, cfg *config.Config, st *store.Store, seen engine.SeenCache, archive engine.ContentArchive) {
	handlers := NewHandlers(cfg, st, seen, archive)

	// Middleware
	app.Use(recover.New())
	app.Use(middleware.RequestLogger())

	// API group with versioning
	api := app.Group("/api/v1")

	// Health check endpoint
	api.Get("/health", handlers.HealthCheck)

	// Article read endpoints
	articles := api.Group("/articles")
	{
		articles.Get("", handlers.ListArticles)
		articles.Get("/:id", handlers.GetArticle)
		articles.Get("/:id/content", handlers.GetArticleContent)
		articles.Get("/:id/sentiment", handlers.GetArticleSentiment)
	}

	// Aggregate endpoints
	sentiment := api.Group("/sentiment")
	{
		sentiment.Get("/aggregate", handlers.GetAggregate)
		sentiment.Get("/summary", handlers.GetSummary)
	}

	// Source endpoints
	sources := api.Group("/sources")
	{
		sources.Get("", handlers.ListSources)
		sources.Get("/:id", handlers.GetSource)
	}

	// Topic endpoints, scoped per caller key
	topics := api.Group("/topics", middleware.RequireCallerKey())
	{
		topics.Get("", handlers.ListTopics)
		topics.Post("", handlers.CreateTopic)
		topics.Get("/:id", handlers.GetTopic)
		topics.Put("/:id", handlers.UpdateTopic)
		topics.Delete("/:id", handlers.DeleteTopic)
	}

	// Admin endpoints: ingestion producers and the classification pipeline
	admin := api.Group("/admin", middleware.AdminOnly(cfg.AdminAPIKey))
	{
		admin.Post("/articles", handlers.IngestArticle)
		admin.Post("/articles/:id/sentiment", handlers.AttachSentiment)
		admin.Post("/sources", handlers.CreateSource)
	}

	// 404 Handler
	app.Use(func(c *fiber.Ctx) error {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "Endpoint not found",
		})
	})
}
