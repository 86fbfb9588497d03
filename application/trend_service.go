package application

import (
	"context"
	"fmt"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/product-analytics/application/dto"
	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/trend"
	"github.com/product-analytics/infrastructure/metrics"
	"golang.org/x/sync/errgroup"
)

type TrendService interface {
	GetTrends(ctx context.Context, teamID int64, query *trend.Query) ([]dto.TrendResponse, error)
}

type TrendOptions struct {
	Concurrency int
	Duplicates  trend.DuplicatePolicy
}

type trendService struct {
	actions action.ActionRepository
	matcher action.EventMatcher
	clock   clockwork.Clock
	filler  trend.Filler
	limit   int
}

func NewTrendService(actions action.ActionRepository, matcher action.EventMatcher, clock clockwork.Clock, opts TrendOptions) TrendService {
	limit := opts.Concurrency
	if limit <= 0 {
		limit = 1
	}
	return &trendService{
		actions: actions,
		matcher: matcher,
		clock:   clock,
		filler:  trend.Filler{Duplicates: opts.Duplicates},
		limit:   limit,
	}
}

func (s *trendService) GetTrends(ctx context.Context, teamID int64, query *trend.Query) ([]dto.TrendResponse, error) {
	start := time.Now()
	defer func() {
		metrics.TrendDuration.Observe(time.Since(start).Seconds())
	}()

	if query.Days > trend.MaxDays {
		validationErr := apperror.NewValidationError()
		validationErr.Add(apperror.ErrorDetail{
			Field:   trend.ParamDays,
			Code:    apperror.ErrCodeInvalidRange,
			Message: fmt.Sprintf("days must be at most %d", trend.MaxDays),
		})
		return nil, validationErr
	}

	actions, err := s.actions.List(ctx, teamID, action.ListFilter{IDs: query.ActionIDs})
	if err != nil {
		return nil, fmt.Errorf("failed to list actions: %w", err)
	}

	// Events are bucketed by UTC day.
	r := query.Range(s.clock.Now().UTC())
	opts := action.MatchOptions{
		Filters: query.Filters,
		Since:   &r.From,
		Until:   &r.Until,
	}

	results := make([]dto.TrendResponse, len(actions))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)
	for i, a := range actions {
		g.Go(func() error {
			res, err := s.assemble(gctx, a, query, r, opts)
			if err != nil {
				return fmt.Errorf("action %d: %w", a.ID, err)
			}
			results[i] = *res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	return results, nil
}

func (s *trendService) assemble(ctx context.Context, a *action.Action, query *trend.Query, r trend.Range, opts action.MatchOptions) (*dto.TrendResponse, error) {
	res := &dto.TrendResponse{
		Action:    dto.ActionRef{ID: a.ID, Name: a.Name},
		Label:     a.Name,
		Breakdown: []trend.BreakdownEntry{},
	}

	raw, err := s.matcher.CountByDay(ctx, a, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to count events by day: %w", err)
	}

	if len(raw) > 0 {
		filled, err := s.filler.Fill(r.From, query.Days, raw)
		if err != nil {
			return nil, err
		}
		res.Labels, res.Data, res.Count = trend.Series(filled)
	}

	if query.Breakdown != "" {
		breakdown, err := s.matcher.CountByProperty(ctx, a, opts, query.Breakdown)
		if err != nil {
			return nil, fmt.Errorf("failed to count events for breakdown: %w", err)
		}
		res.Breakdown = breakdown
	}

	return res, nil
}
