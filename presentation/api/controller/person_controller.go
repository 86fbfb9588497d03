package controller

import (
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/product-analytics/application"
	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/domain/trend"
	"github.com/product-analytics/presentation/api/middleware"
)

const (
	paramCursor           = "cursor"
	paramSearch           = "search"
	paramLimit            = "limit"
	paramIncludeLastEvent = "include_last_event"
)

type PersonController interface {
	List(c *fiber.Ctx) error
	Get(c *fiber.Ctx) error
	GetByDistinctID(c *fiber.Ctx) error
	Create(c *fiber.Ctx) error
	Update(c *fiber.Ctx) error
	Delete(c *fiber.Ctx) error
}

type personController struct {
	service application.PersonService
}

func NewPersonController(router fiber.Router, service application.PersonService) PersonController {
	ctrl := &personController{service: service}

	persons := router.Group("/person")
	persons.Get("/", ctrl.List)
	persons.Post("/", ctrl.Create)
	persons.Get("/by_distinct_id", ctrl.GetByDistinctID)
	persons.Get("/:id", ctrl.Get)
	persons.Patch("/:id", ctrl.Update)
	persons.Put("/:id", ctrl.Update)
	persons.Delete("/:id", ctrl.Delete)

	return ctrl
}

// List godoc
// @Summary      List persons
// @Description  Pages through persons newest first. `search` matches property keys or values; `key:value` matches a property exactly.
// @Tags         Persons
// @Produce      json
// @Param        id                  query     string  false  "Comma separated person ids"
// @Param        search              query     string  false  "Search term"
// @Param        cursor              query     int     false  "Return persons with a lower id"
// @Param        limit               query     int     false  "Page size"
// @Param        include_last_event  query     bool    false  "Add the latest event timestamp"
// @Success      200                 {object}  dto.PersonListResponse
// @Failure      400                 {object}  dto.ErrorResponse
// @Router       /api/person [get]
func (ctrl *personController) List(c *fiber.Ctx) error {
	query := &dto.ListPersonsQuery{
		Search:           c.Query(paramSearch),
		IncludeLastEvent: truthy(c.Query(paramIncludeLastEvent)),
	}

	if raw := c.Query("id"); raw != "" {
		ids, err := trend.ParseIDList(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: err.Error()})
		}
		query.IDs = ids
	}
	if raw := c.Query(paramCursor); raw != "" {
		cursor, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "cursor must be an integer"})
		}
		query.Cursor = cursor
	}
	if raw := c.Query(paramLimit); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Error: "limit must be an integer"})
		}
		query.Limit = limit
	}

	resp, err := ctrl.service.List(c.Context(), middleware.TeamID(c), query)
	if err != nil {
		return writeError(c, err, "failed to list persons")
	}
	if resp.NextCursor != 0 {
		resp.Next = nextURL(c, map[string]string{paramCursor: strconv.FormatInt(resp.NextCursor, 10)})
	}
	return c.JSON(resp)
}

// Get godoc
// @Summary      Get person
// @Tags         Persons
// @Produce      json
// @Param        id                  path      int   true   "Person id"
// @Param        include_last_event  query     bool  false  "Add the latest event timestamp"
// @Success      200                 {object}  dto.PersonResponse
// @Failure      404                 {object}  dto.ErrorResponse
// @Router       /api/person/{id} [get]
func (ctrl *personController) Get(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	resp, err := ctrl.service.Get(c.Context(), middleware.TeamID(c), id, truthy(c.Query(paramIncludeLastEvent)))
	if err != nil {
		return writeError(c, err, "failed to get person")
	}
	return c.JSON(resp)
}

// GetByDistinctID godoc
// @Summary      Get person by distinct id
// @Tags         Persons
// @Produce      json
// @Param        distinct_id         query     string  true   "Distinct id"
// @Param        include_last_event  query     bool    false  "Add the latest event timestamp"
// @Success      200                 {object}  dto.PersonResponse
// @Failure      400                 {object}  dto.ErrorResponse
// @Failure      404                 {object}  dto.ErrorResponse
// @Router       /api/person/by_distinct_id [get]
func (ctrl *personController) GetByDistinctID(c *fiber.Ctx) error {
	resp, err := ctrl.service.GetByDistinctID(c.Context(), middleware.TeamID(c), c.Query("distinct_id"), truthy(c.Query(paramIncludeLastEvent)))
	if err != nil {
		return writeError(c, err, "failed to get person")
	}
	return c.JSON(resp)
}

// Create godoc
// @Summary      Create person
// @Tags         Persons
// @Accept       json
// @Produce      json
// @Param        person  body      person.CreatePersonCommand  true  "Person"
// @Success      201     {object}  dto.PersonResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Router       /api/person [post]
func (ctrl *personController) Create(c *fiber.Ctx) error {
	var cmd person.CreatePersonCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	resp, err := ctrl.service.Create(c.Context(), middleware.TeamID(c), &cmd)
	if err != nil {
		return writeError(c, err, "failed to create person")
	}
	return c.Status(fiber.StatusCreated).JSON(resp)
}

// Update godoc
// @Summary      Update person properties
// @Tags         Persons
// @Accept       json
// @Produce      json
// @Param        id      path      int                         true  "Person id"
// @Param        person  body      person.UpdatePersonCommand  true  "Properties"
// @Success      200     {object}  dto.PersonResponse
// @Failure      400     {object}  dto.ErrorResponse
// @Failure      404     {object}  dto.ErrorResponse
// @Router       /api/person/{id} [patch]
func (ctrl *personController) Update(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	var cmd person.UpdatePersonCommand
	if err := c.BodyParser(&cmd); err != nil {
		return invalidBody(c)
	}

	resp, err := ctrl.service.Update(c.Context(), middleware.TeamID(c), id, &cmd)
	if err != nil {
		return writeError(c, err, "failed to update person")
	}
	return c.JSON(resp)
}

// Delete godoc
// @Summary      Delete person
// @Tags         Persons
// @Param        id   path  int  true  "Person id"
// @Success      204
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/person/{id} [delete]
func (ctrl *personController) Delete(c *fiber.Ctx) error {
	id, ok := idParam(c)
	if !ok {
		return notFound(c)
	}

	if err := ctrl.service.Delete(c.Context(), middleware.TeamID(c), id); err != nil {
		return writeError(c, err, "failed to delete person")
	}
	return c.SendStatus(fiber.StatusNoContent)
}
