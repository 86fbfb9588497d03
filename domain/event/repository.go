package event

import (
	"context"
	"time"
)

type EventRepository interface {
	InsertBatch(ctx context.Context, events []*Event) error
	List(ctx context.Context, query *ListQuery) ([]*Event, error)
	Get(ctx context.Context, teamID int64, id string) (*Event, error)
	Names(ctx context.Context, teamID int64) ([]NameCount, error)
	PropertyKeys(ctx context.Context, teamID int64) ([]NameCount, error)
	PropertyValues(ctx context.Context, teamID int64, key, contains string) ([]NameCount, error)
	LastSeen(ctx context.Context, teamID int64, distinctIDs []string) (*time.Time, error)
}
