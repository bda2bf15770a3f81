package handlers

import (
	"github.com/s-puig/ecommerce-demo/internal/config"
	"github.com/s-puig/ecommerce-demo/internal/pkg/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// HealthHandler handles health check endpoints
type HealthHandler struct {
	db *gorm.DB
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(db *gorm.DB) *HealthHandler {
	return &HealthHandler{db: db}
}

// Root handles the root endpoint
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return response.Success(c, "Ecommerce Demo API", fiber.Map{
		"version": "1.0",
		"docs":    "/swagger/index.html",
	})
}

// HealthCheck handles the health check endpoint
// @Summary Health check
// @Description Check API and database health
// @Tags Health
// @Produce json
// @Success 200 {object} response.Response
// @Failure 503 {object} response.Response
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	if err := config.HealthCheck(h.db); err != nil {
		return response.Error(c, fiber.StatusServiceUnavailable, "Database unreachable")
	}

	return response.Success(c, "OK", fiber.Map{
		"status": "healthy",
	})
}
