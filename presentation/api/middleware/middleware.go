package middleware

import (
	"log/slog"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/product-analytics/infrastructure/metrics"
)

const LocalRequestID = "requestID"

func RequestID() fiber.Handler {
	return func(c *fiber.Ctx) error {
		requestID := c.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.New().String()
		}
		c.Set("X-Request-ID", requestID)
		c.Locals(LocalRequestID, requestID)
		return c.Next()
	}
}

func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()

		err := c.Next()

		status := c.Response().StatusCode()
		attrs := []any{
			"requestID", c.Locals(LocalRequestID),
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"latency", time.Since(start),
		}
		if err != nil {
			attrs = append(attrs, "error", err)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error("Request failed", attrs...)
		case status >= fiber.StatusBadRequest:
			slog.Warn("Request rejected", attrs...)
		default:
			slog.Info("Request handled", attrs...)
		}

		return err
	}
}

func Recovery() fiber.Handler {
	return func(c *fiber.Ctx) error {
		defer func() {
			if r := recover(); r != nil {
				slog.Error("Recovered from panic",
					"requestID", c.Locals(LocalRequestID),
					"method", c.Method(),
					"path", c.Path(),
					"panic", r,
				)

				_ = c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
					"error": "internal server error",
				})
			}
		}()

		return c.Next()
	}
}

// Metrics records request counts and latencies labelled by route pattern, so
// ids in the path do not create new series.
func Metrics() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		metrics.HTTPRequestsInFlight.Inc()
		defer metrics.HTTPRequestsInFlight.Dec()

		err := c.Next()

		status := c.Response().StatusCode()
		if err != nil {
			if fe, ok := err.(*fiber.Error); ok {
				status = fe.Code
			}
		}

		path := c.Route().Path
		metrics.HTTPRequestsTotal.WithLabelValues(c.Method(), path, strconv.Itoa(status)).Inc()
		metrics.HTTPRequestDuration.WithLabelValues(c.Method(), path).Observe(time.Since(start).Seconds())

		return err
	}
}
