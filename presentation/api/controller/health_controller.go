package controller

import (
	"context"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const healthCheckTimeout = 2 * time.Second

// Pinger is a dependency the health check probes.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthController interface {
	Health(c *fiber.Ctx) error
}

type healthController struct {
	checks map[string]Pinger
}

func NewHealthController(app *fiber.App, checks map[string]Pinger) HealthController {
	ctrl := &healthController{checks: checks}

	app.Get("/health", ctrl.Health)

	return ctrl
}

// Health godoc
// @Summary      Health check
// @Description  Returns the health status of the service and its stores
// @Tags         Health
// @Accept       json
// @Produce      json
// @Success      200  {object}  map[string]any  "Service is healthy"
// @Failure      503  {object}  map[string]any  "A dependency is unreachable"
// @Router       /health [get]
func (ctrl *healthController) Health(c *fiber.Ctx) error {
	ctx, cancel := context.WithTimeout(c.Context(), healthCheckTimeout)
	defer cancel()

	status := fiber.StatusOK
	deps := make(map[string]string, len(ctrl.checks))
	for name, check := range ctrl.checks {
		if err := check.Ping(ctx); err != nil {
			slog.Warn("Health check failed", "dependency", name, "error", err)
			deps[name] = "unavailable"
			status = fiber.StatusServiceUnavailable
			continue
		}
		deps[name] = "ok"
	}

	overall := "ok"
	if status != fiber.StatusOK {
		overall = "degraded"
	}
	return c.Status(status).JSON(fiber.Map{
		"status":       overall,
		"dependencies": deps,
	})
}
