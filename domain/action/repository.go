package action

import (
	"context"
	"time"

	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/trend"
)

type ListFilter struct {
	IDs            []int64
	IncludeDeleted bool
}

type ActionRepository interface {
	List(ctx context.Context, teamID int64, filter ListFilter) ([]*Action, error)
	Get(ctx context.Context, teamID, id int64) (*Action, error)
	FindByName(ctx context.Context, teamID int64, name string) (*Action, error)
	Create(ctx context.Context, a *Action) error
	Update(ctx context.Context, a *Action, plan StepPlan) error
	Delete(ctx context.Context, teamID, id int64) error
}

// MatchOptions narrows the events an EventMatcher considers on top of the
// action's own steps. Since is inclusive, Until exclusive.
type MatchOptions struct {
	Filters     []event.PropertyFilter
	DistinctIDs []string
	Since       *time.Time
	Until       *time.Time
	Limit       int
}

// EventMatcher evaluates actions against the stored events of their team.
type EventMatcher interface {
	Count(ctx context.Context, a *Action, opts MatchOptions) (int64, error)
	CountByDay(ctx context.Context, a *Action, opts MatchOptions) ([]trend.DailyCount, error)
	Events(ctx context.Context, a *Action, opts MatchOptions) ([]*event.Event, error)
	CountByProperty(ctx context.Context, a *Action, opts MatchOptions, property string) ([]trend.BreakdownEntry, error)
}
