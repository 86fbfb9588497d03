package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/application"
	"github.com/product-analytics/domain/event"
)

type CaptureController interface {
	Capture(c *fiber.Ctx) error
	CaptureBatch(c *fiber.Ctx) error
}

type captureController struct {
	service application.CaptureService
}

// NewCaptureController registers the public capture endpoints. They
// authenticate with the team api_key carried in the body.
func NewCaptureController(router fiber.Router, service application.CaptureService) CaptureController {
	ctrl := &captureController{service: service}

	router.Post("/capture", ctrl.Capture)
	router.Post("/e", ctrl.Capture)
	router.Post("/track", ctrl.Capture)
	router.Post("/batch", ctrl.CaptureBatch)

	return ctrl
}

// Capture godoc
// @Summary      Capture event
// @Description  Queues a single event for the team owning api_key
// @Tags         Capture
// @Accept       json
// @Produce      json
// @Param        event  body      event.CaptureEventCommand  true  "Event"
// @Success      202    {object}  dto.CaptureResponse        "Event queued for processing"
// @Failure      400    {object}  dto.ErrorResponse          "Validation error"
// @Failure      500    {object}  dto.ErrorResponse          "Internal server error"
// @Router       /capture [post]
func (ctrl *captureController) Capture(c *fiber.Ctx) error {
	var cmd event.CaptureEventCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	resp, err := ctrl.service.Capture(c.Context(), &cmd, c.IP())
	if err != nil {
		return writeError(c, err, "failed to process event")
	}

	return c.Status(fiber.StatusAccepted).JSON(resp)
}

// CaptureBatch godoc
// @Summary      Capture batch
// @Description  Queues up to 1000 events in a single request
// @Tags         Capture
// @Accept       json
// @Produce      json
// @Param        batch  body      event.CaptureBatchCommand  true  "Events"
// @Success      202    {object}  dto.BatchCaptureResponse   "All events queued"
// @Success      207    {object}  dto.BatchCaptureResponse   "Partial success"
// @Failure      400    {object}  dto.ErrorResponse          "Validation error"
// @Failure      500    {object}  dto.ErrorResponse          "Internal server error"
// @Router       /batch [post]
func (ctrl *captureController) CaptureBatch(c *fiber.Ctx) error {
	var cmd event.CaptureBatchCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	if len(cmd.Batch) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "batch cannot be empty",
		})
	}

	resp, err := ctrl.service.CaptureBatch(c.Context(), &cmd, c.IP())
	if err != nil {
		return writeError(c, err, "failed to process events")
	}

	statusCode := fiber.StatusAccepted
	if resp.FailedCount > 0 && resp.SuccessCount > 0 {
		statusCode = fiber.StatusMultiStatus
	} else if resp.FailedCount > 0 && resp.SuccessCount == 0 {
		statusCode = fiber.StatusBadRequest
	}

	return c.Status(statusCode).JSON(resp)
}
