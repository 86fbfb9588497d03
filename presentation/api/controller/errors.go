package controller

import (
	"errors"
	"log/slog"

	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/application"
	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/presentation/api/middleware"
)

// writeError maps service errors onto HTTP responses. Anything unrecognised
// is logged and reported as a 500 with the given message.
func writeError(c *fiber.Ctx, err error, message string) error {
	var validationErr *apperror.ValidationError
	var conflict *apperror.ConflictError

	switch {
	case errors.As(err, &validationErr):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":  "validation failed",
			"errors": validationErr.Errors,
		})
	case errors.As(err, &conflict):
		return c.Status(fiber.StatusBadRequest).JSON(conflict)
	case errors.Is(err, apperror.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
	case errors.Is(err, application.ErrInvalidAPIKey):
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid api key"})
	}

	slog.Error("Request failed",
		"requestID", c.Locals(middleware.LocalRequestID),
		"path", c.Path(),
		"error", err,
	)
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Error: message})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Error: "not found"})
}

func invalidBody(c *fiber.Ctx) error {
	return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "invalid request body"})
}

// idParam parses the :id route parameter. Anything but a positive integer is
// treated as a missing resource.
func idParam(c *fiber.Ctx) (int64, bool) {
	id, err := c.ParamsInt("id")
	if err != nil || id <= 0 {
		return 0, false
	}
	return int64(id), true
}

func truthy(v string) bool {
	switch v {
	case "1", "true", "True", "yes":
		return true
	}
	return false
}
