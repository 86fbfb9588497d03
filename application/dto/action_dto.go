package dto

import (
	"time"

	"github.com/product-analytics/domain/action"
)

type ActionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type ActionResponse struct {
	ID          int64         `json:"id"`
	Name        string        `json:"name"`
	Steps       []action.Step `json:"steps"`
	CreatedAt   time.Time     `json:"created_at"`
	CreatedByID *int64        `json:"created_by_id,omitempty"`
	Deleted     bool          `json:"deleted"`
	Count       *int64        `json:"count,omitempty"`
}

func NewActionResponse(a *action.Action) ActionResponse {
	steps := a.Steps
	if steps == nil {
		steps = []action.Step{}
	}
	return ActionResponse{
		ID:          a.ID,
		Name:        a.Name,
		Steps:       steps,
		CreatedAt:   a.CreatedAt,
		CreatedByID: a.CreatedByID,
		Deleted:     a.Deleted,
	}
}

type ActionListResponse struct {
	Results []ActionResponse `json:"results"`
}

type ListActionsQuery struct {
	IDs          []int64
	IncludeCount bool
}

type ActionExistsResponse struct {
	Detail string `json:"detail"`
	ID     int64  `json:"id"`
}
