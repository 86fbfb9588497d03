package application

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/person"
	"github.com/product-analytics/infrastructure/metrics"
)

type PersonService interface {
	List(ctx context.Context, teamID int64, query *dto.ListPersonsQuery) (*dto.PersonListResponse, error)
	Get(ctx context.Context, teamID, id int64, includeLastEvent bool) (*dto.PersonResponse, error)
	GetByDistinctID(ctx context.Context, teamID int64, distinctID string, includeLastEvent bool) (*dto.PersonResponse, error)
	Create(ctx context.Context, teamID int64, cmd *person.CreatePersonCommand) (*dto.PersonResponse, error)
	Update(ctx context.Context, teamID, id int64, cmd *person.UpdatePersonCommand) (*dto.PersonResponse, error)
	Delete(ctx context.Context, teamID, id int64) error
	EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) error
}

type personService struct {
	repository person.PersonRepository
	events     event.EventRepository
}

func NewPersonService(repository person.PersonRepository, events event.EventRepository) PersonService {
	return &personService{
		repository: repository,
		events:     events,
	}
}

func (s *personService) List(ctx context.Context, teamID int64, query *dto.ListPersonsQuery) (*dto.PersonListResponse, error) {
	q := &person.ListQuery{
		TeamID:   teamID,
		IDs:      query.IDs,
		Search:   person.ParseSearch(query.Search),
		BeforeID: query.Cursor,
		Limit:    query.Limit,
	}
	size := q.PageSize()
	q.Limit = size + 1

	persons, err := s.repository.List(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("failed to list persons: %w", err)
	}

	resp := &dto.PersonListResponse{Results: make([]dto.PersonResponse, 0, len(persons))}
	if len(persons) > size {
		persons = persons[:size]
		resp.NextCursor = persons[size-1].ID
	}

	for _, p := range persons {
		pr, err := s.render(ctx, p, query.IncludeLastEvent)
		if err != nil {
			return nil, err
		}
		resp.Results = append(resp.Results, *pr)
	}
	return resp, nil
}

func (s *personService) Get(ctx context.Context, teamID, id int64, includeLastEvent bool) (*dto.PersonResponse, error) {
	p, err := s.repository.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, p, includeLastEvent)
}

func (s *personService) GetByDistinctID(ctx context.Context, teamID int64, distinctID string, includeLastEvent bool) (*dto.PersonResponse, error) {
	if distinctID == "" {
		validationErr := apperror.NewValidationError()
		validationErr.Add(apperror.ErrorDetail{
			Field:   "distinct_id",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "distinct_id is required",
		})
		return nil, validationErr
	}

	p, err := s.repository.GetByDistinctID(ctx, teamID, distinctID)
	if err != nil {
		return nil, err
	}
	return s.render(ctx, p, includeLastEvent)
}

func (s *personService) Create(ctx context.Context, teamID int64, cmd *person.CreatePersonCommand) (*dto.PersonResponse, error) {
	if err := apperror.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	p := &person.Person{
		TeamID:      teamID,
		Properties:  cmd.Properties,
		DistinctIDs: cmd.DistinctIDs,
	}
	if p.Properties == nil {
		p.Properties = map[string]any{}
	}

	if err := s.repository.Create(ctx, p); err != nil {
		return nil, err
	}
	resp := dto.NewPersonResponse(p)
	return &resp, nil
}

func (s *personService) Update(ctx context.Context, teamID, id int64, cmd *person.UpdatePersonCommand) (*dto.PersonResponse, error) {
	if err := apperror.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	p, err := s.repository.UpdateProperties(ctx, teamID, id, cmd.Properties)
	if err != nil {
		return nil, err
	}
	resp := dto.NewPersonResponse(p)
	return &resp, nil
}

func (s *personService) Delete(ctx context.Context, teamID, id int64) error {
	return s.repository.Delete(ctx, teamID, id)
}

// EnsureDistinctIDs gives every distinct id of the team a person.
func (s *personService) EnsureDistinctIDs(ctx context.Context, teamID int64, distinctIDs []string) error {
	if len(distinctIDs) == 0 {
		return nil
	}

	created, err := s.repository.EnsureDistinctIDs(ctx, teamID, distinctIDs)
	if err != nil {
		return fmt.Errorf("failed to ensure persons: %w", err)
	}
	if created > 0 {
		metrics.PersonsCreated.Add(float64(created))
		slog.Debug("Created persons", "team_id", teamID, "count", created)
	}
	return nil
}

func (s *personService) render(ctx context.Context, p *person.Person, includeLastEvent bool) (*dto.PersonResponse, error) {
	resp := dto.NewPersonResponse(p)
	if !includeLastEvent || len(p.DistinctIDs) == 0 {
		return &resp, nil
	}

	ts, err := s.events.LastSeen(ctx, p.TeamID, p.DistinctIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to load last event: %w", err)
	}
	if ts != nil {
		resp.LastEvent = &dto.LastEvent{Timestamp: *ts}
	}
	return &resp, nil
}
