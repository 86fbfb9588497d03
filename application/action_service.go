package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"

	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/infrastructure/telemetry"
	"golang.org/x/sync/errgroup"
)

const DetailActionExists = action.DetailExists

type ActionService interface {
	List(ctx context.Context, teamID int64, query *dto.ListActionsQuery) (*dto.ActionListResponse, error)
	Get(ctx context.Context, teamID, id int64) (*dto.ActionResponse, error)
	Create(ctx context.Context, user *account.User, cmd *action.CreateActionCommand) (*dto.ActionResponse, error)
	Update(ctx context.Context, teamID, id int64, cmd *action.UpdateActionCommand) (*dto.ActionResponse, error)
	Delete(ctx context.Context, teamID, id int64) error
}

type actionService struct {
	repository action.ActionRepository
	matcher    action.EventMatcher
	telemetry  telemetry.Capturer
	limit      int
}

func NewActionService(repository action.ActionRepository, matcher action.EventMatcher, capturer telemetry.Capturer, concurrency int) ActionService {
	if concurrency <= 0 {
		concurrency = 1
	}
	return &actionService{
		repository: repository,
		matcher:    matcher,
		telemetry:  capturer,
		limit:      concurrency,
	}
}

func (s *actionService) List(ctx context.Context, teamID int64, query *dto.ListActionsQuery) (*dto.ActionListResponse, error) {
	actions, err := s.repository.List(ctx, teamID, action.ListFilter{IDs: query.IDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	results := make([]dto.ActionResponse, len(actions))
	for i, a := range actions {
		results[i] = dto.NewActionResponse(a)
	}

	if query.IncludeCount {
		g, gctx := errgroup.WithContext(ctx)
		g.SetLimit(s.limit)
		for i, a := range actions {
			g.Go(func() error {
				count, err := s.matcher.Count(gctx, a, action.MatchOptions{})
				if err != nil {
					return fmt.Errorf("failed to count events for action %d: %w", a.ID, err)
				}
				results[i].Count = &count
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
		sort.SliceStable(results, func(i, j int) bool {
			return *results[i].Count > *results[j].Count
		})
	}

	return &dto.ActionListResponse{Results: results}, nil
}

func (s *actionService) Get(ctx context.Context, teamID, id int64) (*dto.ActionResponse, error) {
	a, err := s.repository.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}
	resp := dto.NewActionResponse(a)
	return &resp, nil
}

func (s *actionService) Create(ctx context.Context, user *account.User, cmd *action.CreateActionCommand) (*dto.ActionResponse, error) {
	if err := apperror.ValidateStruct(cmd); err != nil {
		return nil, err
	}
	if err := action.ValidateSelectors(cmd.Steps); err != nil {
		return nil, err
	}

	if err := s.ensureNameFree(ctx, user.TeamID, cmd.Name, 0); err != nil {
		return nil, err
	}

	a := &action.Action{
		TeamID:      user.TeamID,
		Name:        cmd.Name,
		CreatedByID: &user.ID,
		Steps:       make([]action.Step, 0, len(cmd.Steps)),
	}
	for _, in := range cmd.Steps {
		a.Steps = append(a.Steps, in.ToStep())
	}

	if err := s.repository.Create(ctx, a); err != nil {
		return nil, err
	}

	s.telemetry.Capture(user.DistinctID, "action created", map[string]any{
		"steps":        len(a.Steps),
		"match_text":   hasStepField(a.Steps, func(st action.Step) bool { return st.Text != "" }),
		"match_href":   hasStepField(a.Steps, func(st action.Step) bool { return st.Href != "" }),
		"match_url":    hasStepField(a.Steps, func(st action.Step) bool { return st.URL != "" }),
		"has_selector": hasStepField(a.Steps, func(st action.Step) bool { return st.Selector != "" }),
	})
	slog.Info("Action created", "team_id", a.TeamID, "action_id", a.ID, "steps", len(a.Steps))

	resp := dto.NewActionResponse(a)
	return &resp, nil
}

func (s *actionService) Update(ctx context.Context, teamID, id int64, cmd *action.UpdateActionCommand) (*dto.ActionResponse, error) {
	if err := apperror.ValidateStruct(cmd); err != nil {
		return nil, err
	}

	a, err := s.repository.Get(ctx, teamID, id)
	if err != nil {
		return nil, err
	}

	if cmd.Name != nil && *cmd.Name != a.Name {
		if err := s.ensureNameFree(ctx, teamID, *cmd.Name, a.ID); err != nil {
			return nil, err
		}
		a.Name = *cmd.Name
	}
	if cmd.Deleted != nil {
		a.Deleted = *cmd.Deleted
	}

	var plan action.StepPlan
	if cmd.Steps != nil {
		if err := action.ValidateSelectors(*cmd.Steps); err != nil {
			return nil, err
		}
		plan = action.PlanSteps(a.Steps, *cmd.Steps)
	}

	if err := s.repository.Update(ctx, a, plan); err != nil {
		return nil, err
	}

	return s.Get(ctx, teamID, id)
}

func (s *actionService) Delete(ctx context.Context, teamID, id int64) error {
	return s.repository.Delete(ctx, teamID, id)
}

func (s *actionService) ensureNameFree(ctx context.Context, teamID int64, name string, selfID int64) error {
	existing, err := s.repository.FindByName(ctx, teamID, name)
	switch {
	case errors.Is(err, apperror.ErrNotFound):
		return nil
	case err != nil:
		return fmt.Errorf("failed to look up action name: %w", err)
	case existing.ID == selfID:
		return nil
	}
	return &apperror.ConflictError{Detail: DetailActionExists, ID: existing.ID}
}

func hasStepField(steps []action.Step, fn func(action.Step) bool) bool {
	for _, st := range steps {
		if fn(st) {
			return true
		}
	}
	return false
}
