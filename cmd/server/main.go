package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/s-puig/ecommerce-demo/internal/adapters/http/middleware"
	"github.com/s-puig/ecommerce-demo/internal/adapters/http/routes"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/models"
	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/core/services"
	"github.com/s-puig/ecommerce-demo/internal/pkg/logger"

	"github.com/gofiber/fiber/v2"

	_ "github.com/s-puig/ecommerce-demo/docs" // Swagger docs
)

// @title E-Commerce Demo API
// @version 1.0
// @description Demo e-commerce backend with JWT authentication, soft deletes and optimistic locking.

// @contact.name API Support
// @contact.email support@ecommerce-demo.local

// @license.name MIT
// @license.url https://opensource.org/licenses/MIT

// @host localhost:3000
// @BasePath /api/v1
// @schemes http

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		logger.Init(logger.Options{})
		log := logger.Get()
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.Init(logger.Options{
		Level:  cfg.LogLevel,
		Pretty: cfg.IsDev(),
	})

	// Connect to database
	db, err := config.ConnectDatabase(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer config.CloseDatabase(db)

	// Auto migrate (creates tables if not exist)
	if err := models.AutoMigrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to auto migrate")
	}
	log.Info().Msg("Database migration completed")

	// Seed the initial administrator account
	if err := config.NewSeeder(db).Run(); err != nil {
		log.Warn().Err(err).Msg("Failed to seed initial data")
	}

	// Nightly refresh token cleanup
	cronService := services.NewCronService(db)
	cronService.Start()
	defer cronService.Stop()

	// Create Fiber app
	app := fiber.New(fiber.Config{
		AppName:      "E-Commerce Demo API v1.0",
		ErrorHandler: middleware.CustomErrorHandler,
	})

	// Setup middlewares
	middleware.Setup(app, cfg)

	// Setup routes (pass db and cfg for dependency injection)
	routes.Setup(app, db, cfg)

	// Graceful shutdown
	go gracefulShutdown(app)

	// Start server
	log.Info().Str("port", cfg.Port).Str("mode", cfg.AppMode).Msg("Server starting")
	if err := app.Listen(":" + cfg.Port); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

// gracefulShutdown handles graceful shutdown
func gracefulShutdown(app *fiber.App) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log := logger.Get()
	log.Info().Msg("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
	}
	log.Info().Msg("Server stopped gracefully")
}
