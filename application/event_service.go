package application

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/person"
)

const (
	ParamAfter      = "after"
	ParamBefore     = "before"
	ParamDistinctID = "distinct_id"
	ParamPersonID   = "person_id"
	ParamActionID   = "action_id"
)

// eventListReserved are list parameters that are not property filters.
var eventListReserved = map[string]bool{
	ParamAfter:        true,
	ParamBefore:       true,
	ParamDistinctID:   true,
	ParamPersonID:     true,
	ParamActionID:     true,
	"event":           true,
	"ip":              true,
	"temporary_token": true,
}

type EventService interface {
	List(ctx context.Context, teamID int64, params map[string]string) (*dto.EventListResponse, error)
	Get(ctx context.Context, teamID int64, id string) (*dto.EventDetailResponse, error)
	Names(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error)
	Properties(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error)
	Values(ctx context.Context, teamID int64, key, contains string) ([]dto.NameCountResponse, error)
}

type eventService struct {
	repository event.EventRepository
	actions    action.ActionRepository
	matcher    action.EventMatcher
	persons    person.PersonRepository
}

func NewEventService(repository event.EventRepository, actions action.ActionRepository, matcher action.EventMatcher, persons person.PersonRepository) EventService {
	return &eventService{
		repository: repository,
		actions:    actions,
		matcher:    matcher,
		persons:    persons,
	}
}

func (s *eventService) List(ctx context.Context, teamID int64, params map[string]string) (*dto.EventListResponse, error) {
	validationErr := apperror.NewValidationError()
	after := parseTimeParam(params, ParamAfter, validationErr)
	before := parseTimeParam(params, ParamBefore, validationErr)

	var actionID int64
	if raw := params[ParamActionID]; raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			validationErr.Add(apperror.ErrorDetail{
				Field:   ParamActionID,
				Code:    apperror.ErrCodeInvalidInteger,
				Message: "action_id must be an integer",
			})
		}
		actionID = id
	}
	if err := validationErr.OrNil(); err != nil {
		return nil, err
	}

	distinctIDs, ok, err := s.distinctIDs(ctx, teamID, params)
	if err != nil {
		return nil, err
	}
	resp := &dto.EventListResponse{Results: make([]dto.EventResponse, 0)}
	if !ok {
		return resp, nil
	}

	filters := event.FiltersFromParams(params, eventListReserved)
	limit := event.DefaultPageSize + 1

	var events []*event.Event
	if actionID != 0 {
		a, err := s.actions.Get(ctx, teamID, actionID)
		if err != nil {
			return nil, err
		}
		events, err = s.matcher.Events(ctx, a, action.MatchOptions{
			Filters:     filters,
			DistinctIDs: distinctIDs,
			Since:       after,
			Until:       before,
			Limit:       limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to match events: %w", err)
		}
	} else {
		events, err = s.repository.List(ctx, &event.ListQuery{
			TeamID:      teamID,
			After:       after,
			Before:      before,
			DistinctIDs: distinctIDs,
			Filters:     filters,
			Limit:       limit,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to list events: %w", err)
		}
	}

	if len(events) > event.DefaultPageSize {
		events = events[:event.DefaultPageSize]
		resp.HasNext = true
	}
	for _, e := range events {
		resp.Results = append(resp.Results, dto.NewEventResponse(e))
	}
	return resp, nil
}

// distinctIDs resolves the distinct_id and person_id parameters. ok is false
// when the parameters name a person that does not exist.
func (s *eventService) distinctIDs(ctx context.Context, teamID int64, params map[string]string) ([]string, bool, error) {
	var ids []string
	if raw := params[ParamPersonID]; raw != "" {
		personID, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, false, nil
		}
		p, err := s.persons.Get(ctx, teamID, personID)
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, false, nil
		}
		if err != nil {
			return nil, false, fmt.Errorf("failed to load person: %w", err)
		}
		if len(p.DistinctIDs) == 0 {
			return nil, false, nil
		}
		ids = append(ids, p.DistinctIDs...)
	}
	if raw := params[ParamDistinctID]; raw != "" {
		ids = append(ids, raw)
	}
	return ids, true, nil
}

func parseTimeParam(params map[string]string, key string, validationErr *apperror.ValidationError) *time.Time {
	raw := params[key]
	if raw == "" {
		return nil
	}
	for _, layout := range []string{time.RFC3339Nano, time.DateOnly} {
		if t, err := time.Parse(layout, raw); err == nil {
			t = t.UTC()
			return &t
		}
	}
	validationErr.Add(apperror.ErrorDetail{
		Field:   key,
		Code:    apperror.ErrCodeValidationInvalid,
		Message: fmt.Sprintf("%s must be an RFC3339 timestamp or a date", key),
	})
	return nil
}

func (s *eventService) Get(ctx context.Context, teamID int64, id string) (*dto.EventDetailResponse, error) {
	e, err := s.repository.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	actions, err := s.actions.List(ctx, teamID, action.ListFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	resp := &dto.EventDetailResponse{
		EventResponse: dto.NewEventResponse(e),
		Actions:       make([]dto.ActionRef, 0),
	}
	for _, a := range action.MatchingActions(actions, e) {
		resp.Actions = append(resp.Actions, dto.ActionRef{ID: a.ID, Name: a.Name})
	}
	return resp, nil
}

func (s *eventService) Names(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error) {
	names, err := s.repository.Names(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load event names: %w", err)
	}
	return dto.NewNameCountResponses(names), nil
}

func (s *eventService) Properties(ctx context.Context, teamID int64) ([]dto.NameCountResponse, error) {
	keys, err := s.repository.PropertyKeys(ctx, teamID)
	if err != nil {
		return nil, fmt.Errorf("failed to load property keys: %w", err)
	}
	return dto.NewNameCountResponses(keys), nil
}

func (s *eventService) Values(ctx context.Context, teamID int64, key, contains string) ([]dto.NameCountResponse, error) {
	if key == "" {
		validationErr := apperror.NewValidationError()
		validationErr.Add(apperror.ErrorDetail{
			Field:   "key",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "key is required",
		})
		return nil, validationErr
	}

	values, err := s.repository.PropertyValues(ctx, teamID, key, contains)
	if err != nil {
		return nil, fmt.Errorf("failed to load property values: %w", err)
	}
	return dto.NewNameCountResponses(values), nil
}
