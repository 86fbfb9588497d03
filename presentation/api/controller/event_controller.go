package controller

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/application"
	"github.com/product-analytics/presentation/api/middleware"
)

type EventController interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Names(c *fiber.Ctx) error
	Properties(c *fiber.Ctx) error
	Values(c *fiber.Ctx) error
}

type eventController struct {
	service application.EventService
}

func NewEventController(router fiber.Router, service application.EventService) EventController {
	ctrl := &eventController{service: service}

	events := router.Group("/event")
	events.Get("/", ctrl.List)
	events.Get("/names", ctrl.Names)
	events.Get("/properties", ctrl.Properties)
	events.Get("/values", ctrl.Values)
	events.Get("/:id", ctrl.Get)

	return ctrl
}

// List godoc
// @Summary      List events
// @Description  Newest first, 100 per page. Parameters other than the listed ones filter on event properties.
// @Tags         Events
// @Produce      json
// @Param        after        query     string  false  "Only events after this time"
// @Param        before       query     string  false  "Only events before this time"
// @Param        distinct_id  query     string  false  "Only events of this distinct id"
// @Param        person_id    query     int     false  "Only events of this person"
// @Param        action_id    query     int     false  "Only events matching this action"
// @Success      200          {object}  dto.EventListResponse
// @Failure      400          {object}  dto.ErrorResponse
// @Failure      404          {object}  dto.ErrorResponse
// @Router       /api/event [get]
func (ctrl *eventController) List(c *fiber.Ctx) error {
	resp, err := ctrl.service.List(c.Context(), middleware.TeamID(c), c.Queries())
	if err != nil {
		return writeError(c, err, "failed to list events")
	}
	if resp.HasNext && len(resp.Results) > 0 {
		last := resp.Results[len(resp.Results)-1]
		resp.Next = nextURL(c, map[string]string{
			application.ParamBefore: last.Timestamp.UTC().Format(time.RFC3339Nano),
		})
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Get event
// @Description  Returns the event with the live actions it matches
// @Tags         Events
// @Produce      json
// @Param        id   path      string  true  "Event id"
// @Success      200  {object}  dto.EventDetailResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/event/{id} [get]
func (ctrl *eventController) Get(c *fiber.Ctx) error {
	resp, err := ctrl.service.Get(c.Context(), middleware.TeamID(c), c.Params("id"))
	if err != nil {
		return writeError(c, err, "failed to get event")
	}
	return c.JSON(resp)
}

// Names godoc
// @Summary      Event names
// @Description  Distinct event names with their counts, most frequent first
// @Tags         Events
// @Produce      json
// @Success      200  {array}   dto.NameCountResponse
// @Router       /api/event/names [get]
func (ctrl *eventController) Names(c *fiber.Ctx) error {
	resp, err := ctrl.service.Names(c.Context(), middleware.TeamID(c))
	if err != nil {
		return writeError(c, err, "failed to list event names")
	}
	return c.JSON(resp)
}

// Properties godoc
// @Summary      Event property keys
// @Tags         Events
// @Produce      json
// @Success      200  {array}   dto.NameCountResponse
// @Router       /api/event/properties [get]
func (ctrl *eventController) Properties(c *fiber.Ctx) error {
	resp, err := ctrl.service.Properties(c.Context(), middleware.TeamID(c))
	if err != nil {
		return writeError(c, err, "failed to list event properties")
	}
	return c.JSON(resp)
}

// Values godoc
// @Summary      Event property values
// @Tags         Events
// @Produce      json
// @Param        key    query     string  true   "Property key"
// @Param        value  query     string  false  "Only values containing this text"
// @Success      200    {array}   dto.NameCountResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/event/values [get]
func (ctrl *eventController) Values(c *fiber.Ctx) error {
	resp, err := ctrl.service.Values(c.Context(), middleware.TeamID(c), c.Query("key"), c.Query("value"))
	if err != nil {
		return writeError(c, err, "failed to list event values")
	}
	return c.JSON(resp)
}
