package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/hkarap/sentinews/internal/api"
	"github.com/hkarap/sentinews/internal/archive"
	"github.com/hkarap/sentinews/internal/cache"
	"github.com/hkarap/sentinews/internal/config"
	"github.com/hkarap/sentinews/internal/engine"
	"github.com/hkarap/sentinews/internal/logger"
	"github.com/hkarap/sentinews/internal/middleware"
	"github.com/hkarap/sentinews/internal/store"
)

func main() {
	// Load and validate configuration
	cfg := config.Load()

	// Initialize logger
	if err := logger.Init(logger.Config{
		Level:  cfg.LogLevel,
		Output: "stdout",
		Pretty: cfg.Env != "production",
	}); err != nil {
		panic(err)
	}

	log := logger.Get()
	log.Info().Msg("Starting application...")

	ctx := context.Background()

	// Initialize Postgres store
	st, err := store.New(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to Postgres")
	}
	defer st.Close()

	if err := st.Migrate(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to run migrations")
	}

	// Redis-backed fingerprint cache is optional. When it is not
	// configured, deduplication falls through to the database.
	var seen engine.SeenCache
	if cfg.CacheEnabled() {
		redisCache, err := cache.NewRedisCache(cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize Redis cache")
		}
		defer func() {
			log.Info().Msg("Closing Redis cache...")
			if err := redisCache.Close(); err != nil {
				log.Error().Err(err).Msg("Error closing Redis cache")
			}
		}()
		seen = redisCache
	} else {
		log.Info().Msg("Fingerprint cache disabled, REDIS_URL not set")
	}

	// R2 content archive is optional as well.
	var contentArchive engine.ContentArchive
	if cfg.ArchiveEnabled() {
		arc, err := archive.New(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to initialize content archive")
		}
		contentArchive = arc
	} else {
		log.Info().Msg("Content archive disabled, R2 credentials not set")
	}

	// Create Fiber app with custom config
	app := fiber.New(fiber.Config{
		ReadTimeout:  cfg.HTTPTimeout,
		WriteTimeout: cfg.HTTPTimeout,
		IdleTimeout:  120 * time.Second,
		ErrorHandler: middleware.ErrorHandler,
	})

	// Setup API routes
	api.SetupRoutes(app, cfg, st, seen, contentArchive)

	// Start server in a goroutine
	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := app.Listen(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("Server error")
		}
	}()

	// Wait for interrupt signal to gracefully shut down the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// Create a deadline for graceful shutdown
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	// Shutdown the server
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	log.Info().Msg("Server exited properly")
}
