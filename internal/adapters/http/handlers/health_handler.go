package handlers

import (
	"context"
	"time"

	"cafechain/internal/config"

	"github.com/gofiber/fiber/v2"
)

// HealthChecker reports whether a dependency is usable
type HealthChecker interface {
	Health(ctx context.Context) error
}

// HealthHandler handles health check endpoints
type HealthHandler struct {
	cfg     *config.Config
	storage HealthChecker
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(cfg *config.Config, storage HealthChecker) *HealthHandler {
	return &HealthHandler{cfg: cfg, storage: storage}
}

// Root handles root endpoint
// @Summary Root endpoint
// @Description Returns API status
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *HealthHandler) Root(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "running",
		"message": "☕ CafeChain API v1.0 is running",
		"mode":    h.cfg.AppMode,
		"variant": h.cfg.AppVariant,
	})
}

// HealthCheck handles health check
// @Summary Health check
// @Description Check API and snapshot storage health
// @Tags Health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *HealthHandler) HealthCheck(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.UserContext(), 2*time.Second)
	defer cancel()

	status, storageStatus := "ok", "healthy"
	if err := h.storage.Health(ctx); err != nil {
		// The in-memory state keeps serving without storage
		status, storageStatus = "degraded", "unhealthy"
	}

	return c.JSON(fiber.Map{
		"status": status,
		"checks": fiber.Map{
			"api":     "healthy",
			"storage": storageStatus,
			"driver":  h.cfg.Storage.Driver,
		},
	})
}

// APIInfo handles API v1 info
func (h *HealthHandler) APIInfo(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"message": "CafeChain API v1.0",
		"version": "1.0.0",
	})
}
