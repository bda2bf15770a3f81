package routes

import (
	"github.com/s-puig/ecommerce-demo/internal/adapters/http/handlers"
	"github.com/s-puig/ecommerce-demo/internal/adapters/http/middleware"
	"github.com/s-puig/ecommerce-demo/internal/adapters/persistence/repositories"
	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/core/services"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/swagger"
	"gorm.io/gorm"
)

// Setup configures all routes for the application
func Setup(app *fiber.App, db *gorm.DB, cfg *config.Config) {
	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	productRepo := repositories.NewProductRepository(db)
	refreshTokenRepo := repositories.NewRefreshTokenRepository(db)

	// Initialize services
	userService := services.NewUserService(db, userRepo)
	productService := services.NewProductService(db, productRepo, userRepo)
	authService := services.NewAuthService(db, userService, userRepo, refreshTokenRepo, cfg)

	// Initialize handlers
	healthHandler := handlers.NewHealthHandler(db)
	authHandler := handlers.NewAuthHandler(authService, userService, cfg)
	userHandler := handlers.NewUserHandler(userService)
	productHandler := handlers.NewProductHandler(productService)

	// Health check & root routes
	app.Get("/", healthHandler.Root)
	app.Get("/health", healthHandler.HealthCheck)

	// Swagger documentation
	app.Get("/swagger/*", swagger.HandlerDefault)

	// Token validation runs on every request. It attaches an identity when a
	// valid token is present and lets the request through either way; route
	// groups below decide what actually requires one.
	app.Use(middleware.Authenticate(cfg))

	// API v1 group
	apiV1 := app.Group("/api/v1")

	authRoutes := apiV1.Group("/auth")
	setupAuthRoutes(authRoutes, authHandler)

	userRoutes := apiV1.Group("/users")
	userRoutes.Use(middleware.RequireIdentity())
	setupUserRoutes(userRoutes, userHandler, productHandler)

	productRoutes := apiV1.Group("/products")
	setupProductRoutes(productRoutes, productHandler)
}

// setupAuthRoutes configures authentication routes
func setupAuthRoutes(router fiber.Router, handler *handlers.AuthHandler) {
	// Public routes
	router.Post("/register", middleware.AuthRateLimiter(), handler.Register)
	router.Post("/login", middleware.AuthRateLimiter(), handler.Login)
	router.Post("/refresh", middleware.AuthRateLimiter(), handler.RefreshToken)
	router.Post("/logout", handler.Logout)

	// Protected routes
	router.Get("/me", middleware.RequireIdentity(), handler.Me)
	router.Post("/logout-all", middleware.RequireIdentity(), handler.LogoutAll)
}

// setupUserRoutes configures user management routes
func setupUserRoutes(router fiber.Router, handler *handlers.UserHandler, productHandler *handlers.ProductHandler) {
	router.Get("/", middleware.AdministratorOnly(), handler.ListUsers)
	router.Get("/:id", handler.GetUser)
	router.Put("/:id", handler.UpdateUser)
	router.Delete("/:id", middleware.AdministratorOnly(), handler.DeleteUser)
	router.Get("/:id/products", productHandler.ListByOwner)
}

// setupProductRoutes configures product routes
func setupProductRoutes(router fiber.Router, handler *handlers.ProductHandler) {
	// Reads are public; visibility filtering hides inactive and deleted
	// products from anonymous callers
	router.Get("/", handler.List)
	router.Get("/:id", handler.Get)

	// Mutations require an authenticated caller
	router.Post("/", middleware.RequireIdentity(), handler.Create)
	router.Put("/:id", middleware.RequireIdentity(), handler.Update)
	router.Delete("/:id", middleware.RequireIdentity(), handler.Delete)
}
