package dto

import (
	"time"

	"github.com/product-analytics/domain/event"
)

type CaptureResponse struct {
	EventID string `json:"event_id"`
	Status  string `json:"status"`
}

type BatchCaptureResponse struct {
	SuccessCount int              `json:"success_count"`
	FailedCount  int              `json:"failed_count"`
	Errors       []BatchItemError `json:"errors,omitempty"`
}

type BatchItemError struct {
	Index int    `json:"index"`
	Error string `json:"error"`
}

type ErrorResponse struct {
	Error   string            `json:"error"`
	Details map[string]string `json:"details,omitempty"`
}

type EventResponse struct {
	ID         string          `json:"id"`
	Event      string          `json:"event"`
	DistinctID string          `json:"distinct_id"`
	Properties map[string]any  `json:"properties"`
	Elements   []event.Element `json:"elements"`
	Timestamp  time.Time       `json:"timestamp"`
}

func NewEventResponse(e *event.Event) EventResponse {
	props := e.Properties
	if props == nil {
		props = map[string]any{}
	}
	elements := e.Elements
	if elements == nil {
		elements = []event.Element{}
	}
	return EventResponse{
		ID:         e.ID,
		Event:      e.Event,
		DistinctID: e.DistinctID,
		Properties: props,
		Elements:   elements,
		Timestamp:  e.Timestamp,
	}
}

type EventDetailResponse struct {
	EventResponse
	Actions []ActionRef `json:"actions"`
}

// EventListResponse is a page of events. Next is filled in by the HTTP layer
// when HasNext is set.
type EventListResponse struct {
	Next    *string         `json:"next"`
	Results []EventResponse `json:"results"`
	HasNext bool            `json:"-"`
}

type NameCountResponse struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

func NewNameCountResponses(in []event.NameCount) []NameCountResponse {
	out := make([]NameCountResponse, len(in))
	for i, nc := range in {
		out[i] = NameCountResponse{Name: nc.Name, Count: nc.Count}
	}
	return out
}
