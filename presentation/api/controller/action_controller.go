package controller

import (
	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/application"
	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/trend"
	"github.com/product-analytics/presentation/api/middleware"
)

type ActionController interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
	Trends(c *fiber.Ctx) error
}

type actionController struct {
	service application.ActionService
	trends  application.TrendService
}

func NewActionController(router fiber.Router, service application.ActionService, trends application.TrendService) ActionController {
	ctrl := &actionController{service: service, trends: trends}

	actions := router.Group("/action")
	actions.Get("/", ctrl.List)
	actions.Post("/", ctrl.Create)
	actions.Get("/trends", ctrl.Trends)
	actions.Get("/:id", ctrl.Get)
	actions.Patch("/:id", ctrl.Update)
	actions.Put("/:id", ctrl.Update)
	actions.Delete("/:id", ctrl.Delete)

	return ctrl
}

// List godoc
// @Summary      List actions
// @Description  Lists the team's live actions, optionally with all-time matched event counts
// @Tags         Actions
// @Produce      json
// @Param        actions        query     string  false  "Comma separated action ids"
// @Param        include_count  query     bool    false  "Add matched event counts and sort by them"
// @Success      200            {object}  dto.ActionListResponse
// @Failure      400            {object}  dto.ErrorResponse
// @Router       /api/action [get]
func (ctrl *actionController) List(c *fiber.Ctx) error {
	query := &dto.ListActionsQuery{IncludeCount: truthy(c.Query("include_count"))}
	if raw := c.Query(trend.ParamActions); raw != "" {
		ids, err := trend.ParseIDList(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		query.IDs = ids
	}

	resp, err := ctrl.service.List(c.Context(), middleware.TeamID(c), query)
	if err != nil {
		return writeError(c, err, "failed to list actions")
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Get action
// @Tags         Actions
// @Produce      json
// @Param        id   path      int  true  "Action id"
// @Success      200  {object}  dto.ActionResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/action/{id} [get]
func (ctrl *actionController) Get(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	resp, err := ctrl.service.Get(c.Context(), middleware.TeamID(c), id)
	if err != nil {
		return writeError(c, err, "failed to get action")
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary      Create action
// @Description  Creates an action with its steps. A live action with the same name is reported with its id.
// @Tags         Actions
// @Accept       json
// @Produce      json
// @Param        action  body      action.CreateActionCommand  true  "Action"
// @Success      200     {object}  dto.ActionResponse
// @Failure      400     {object}  dto.ActionExistsResponse
// @Router       /api/action [post]
func (ctrl *actionController) Create(c *fiber.Ctx) error {
	var cmd action.CreateActionCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	resp, err := ctrl.service.Create(c.Context(), middleware.CurrentUser(c), &cmd)
	if err != nil {
		return writeError(c, err, "failed to create action")
	}
	return c.JSON(resp)
}

// Update godoc
// @Summary      Update action
// @Description  Updates name, deleted flag and steps. Steps with an id are updated, others created, unlisted ones deleted.
// @Tags         Actions
// @Accept       json
// @Produce      json
// @Param        id      path      int                         true  "Action id"
// @Param        action  body      action.UpdateActionCommand  true  "Changes"
// @Success      200     {object}  dto.ActionResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/action/{id} [patch]
func (ctrl *actionController) Update(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	var cmd action.UpdateActionCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	resp, err := ctrl.service.Update(c.Context(), middleware.TeamID(c), id, &cmd)
	if err != nil {
		return writeError(c, err, "failed to update action")
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Delete action
// @Tags         Actions
// @Param        id   path  int  true  "Action id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/action/{id} [delete]
func (ctrl *actionController) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	if err := ctrl.service.Delete(c.Context(), middleware.TeamID(c), id); err != nil {
		return writeError(c, err, "failed to delete action")
	}
	return c.SendStatus(fiber.StatusNoContent)
}

// Trends godoc
// @Summary      Action trends
// @Description  Daily matched event counts per action over the last `days` days, with an optional property breakdown. Other query parameters filter on event properties.
// @Tags         Actions
// @Produce      json
// @Param        days       query     int     false  "Window length in days"  default(7)  maximum(3650)
// @Param        actions    query     string  false  "Comma separated action ids"
// @Param        breakdown  query     string  false  "Property to break down by"
// @Success      200        {array}   dto.TrendResponse
// @Failure      400        {object}  dto.ErrorResponse
// @Failure      500        {object}  dto.ErrorResponse
// @Router       /api/action/trends [get]
func (ctrl *actionController) Trends(c *fiber.Ctx) error {
	query, err := trend.ParseQuery(c.Queries())
	if err != nil {
		return writeError(c, err, "failed to build trends")
	}

	resp, err := ctrl.trends.GetTrends(c.Context(), middleware.TeamID(c), query)
	if err != nil {
		return writeError(c, err, "failed to build trends")
	}
	return c.JSON(resp)
}
