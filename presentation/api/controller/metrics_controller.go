package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type MetricsController interface {
	Metrics(c *fiber.Ctx) error
}

type metricsController struct {
	handler fiber.Handler
}

func NewMetricsController(app *fiber.App) MetricsController {
	ctrl := &metricsController{handler: adaptor.HTTPHandler(promhttp.Handler())}

	app.Get("/metrics", ctrl.Metrics)

	return ctrl
}

// Metrics godoc
// @Summary      Prometheus metrics
// @Description  Exposes process and request metrics in the Prometheus text format
// @Tags         Metrics
// @Produce      plain
// @Success      200  {string}  string
// @Router       /metrics [get]
func (ctrl *metricsController) Metrics(c *fiber.Ctx) error {
	return ctrl.handler(c)
}
