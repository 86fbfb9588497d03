package dto

import (
	"time"

	"github.com/product-analytics/domain/person"
)

type LastEvent struct {
	Timestamp time.Time `json:"timestamp"`
}

type PersonResponse struct {
	ID          int64          `json:"id"`
	Name        string         `json:"name"`
	DistinctIDs []string       `json:"distinct_ids"`
	Properties  map[string]any `json:"properties"`
	LastEvent   *LastEvent     `json:"last_event"`
	CreatedAt   time.Time      `json:"created_at"`
}

func NewPersonResponse(p *person.Person) PersonResponse {
	props := p.Properties
	if props == nil {
		props = map[string]any{}
	}
	ids := p.DistinctIDs
	if ids == nil {
		ids = []string{}
	}
	return PersonResponse{
		ID:          p.ID,
		Name:        p.Name(),
		DistinctIDs: ids,
		Properties:  props,
		CreatedAt:   p.CreatedAt,
	}
}

type ListPersonsQuery struct {
	IDs              []int64
	Search           string
	Cursor           int64
	Limit            int
	IncludeLastEvent bool
}

// PersonListResponse is a page of persons. Next is filled in by the HTTP
// layer from NextCursor.
type PersonListResponse struct {
	Next       *string          `json:"next"`
	Results    []PersonResponse `json:"results"`
	NextCursor int64            `json:"-"`
}
