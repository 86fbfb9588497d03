package event

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"
	"github.com/product-analytics/domain/apperror"
)

const (
	PropertyCurrentURL = "$current_url"

	MaxEventNameLength  = 200
	MaxDistinctIDLength = 200
	MaxElements         = 100
	MaxClockSkew        = time.Hour
)

type Element struct {
	Text      string   `json:"text,omitempty"`
	TagName   string   `json:"tag_name,omitempty"`
	Href      string   `json:"href,omitempty"`
	AttrID    string   `json:"attr_id,omitempty"`
	AttrClass []string `json:"attr_class,omitempty"`
	NthChild  int32    `json:"nth_child,omitempty"`
	NthOfType int32    `json:"nth_of_type,omitempty"`
	Order     int32    `json:"order"`
}

type Event struct {
	ID         string         `json:"id"`
	TeamID     int64          `json:"team_id"`
	Event      string         `json:"event"`
	DistinctID string         `json:"distinct_id"`
	Properties map[string]any `json:"properties"`
	Elements   []Element      `json:"elements"`
	Timestamp  time.Time      `json:"timestamp"`
	IP         string         `json:"ip,omitempty"`
}

func (e *Event) GenerateID() {
	e.ID = uuid.NewString()
}

func (e *Event) PropertiesJSON() string {
	if e.Properties == nil {
		return "{}"
	}
	data, err := json.Marshal(e.Properties)
	if err != nil {
		return "{}"
	}
	return string(data)
}

// Property returns the raw property value and whether it is set to a non-null value.
func (e *Event) Property(key string) (any, bool) {
	if e.Properties == nil {
		return nil, false
	}
	v, ok := e.Properties[key]
	if !ok || v == nil {
		return nil, false
	}
	return v, true
}

func (e *Event) CurrentURL() string {
	v, ok := e.Property(PropertyCurrentURL)
	if !ok {
		return ""
	}
	s, _ := v.(string)
	return s
}

// ElementAt returns the element with the given order, if any.
func (e *Event) ElementAt(order int32) (Element, bool) {
	for _, el := range e.Elements {
		if el.Order == order {
			return el, true
		}
	}
	return Element{}, false
}

type ValidateFunc func(e *Event) *apperror.ErrorDetail

var ValidateEventName ValidateFunc = func(e *Event) *apperror.ErrorDetail {
	if e.Event == "" {
		return &apperror.ErrorDetail{
			Field:   "event",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "event is required",
		}
	}
	if len(e.Event) > MaxEventNameLength {
		return &apperror.ErrorDetail{
			Field:   "event",
			Code:    apperror.ErrCodeValidationMaxLength,
			Message: fmt.Sprintf("event must be at most %d characters", MaxEventNameLength),
		}
	}
	return nil
}

var ValidateDistinctID ValidateFunc = func(e *Event) *apperror.ErrorDetail {
	if e.DistinctID == "" {
		return &apperror.ErrorDetail{
			Field:   "distinct_id",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "distinct_id is required",
		}
	}
	if len(e.DistinctID) > MaxDistinctIDLength {
		return &apperror.ErrorDetail{
			Field:   "distinct_id",
			Code:    apperror.ErrCodeValidationMaxLength,
			Message: fmt.Sprintf("distinct_id must be at most %d characters", MaxDistinctIDLength),
		}
	}
	return nil
}

var ValidateTimestamp ValidateFunc = func(e *Event) *apperror.ErrorDetail {
	if e.Timestamp.IsZero() {
		return &apperror.ErrorDetail{
			Field:   "timestamp",
			Code:    apperror.ErrCodeValidationRequired,
			Message: "timestamp is required",
		}
	}
	if e.Timestamp.After(time.Now().Add(MaxClockSkew)) {
		return &apperror.ErrorDetail{
			Field:   "timestamp",
			Code:    apperror.ErrCodeTimestampFuture,
			Message: "timestamp cannot be in the future",
		}
	}
	return nil
}

var ValidateElements ValidateFunc = func(e *Event) *apperror.ErrorDetail {
	if len(e.Elements) > MaxElements {
		return &apperror.ErrorDetail{
			Field:   "elements",
			Code:    apperror.ErrCodeValidationMaxLength,
			Message: fmt.Sprintf("elements must have at most %d items", MaxElements),
		}
	}
	return nil
}

func (e *Event) Validate(functions ...ValidateFunc) error {
	validationErr := apperror.NewValidationError()

	for _, fn := range functions {
		if err := fn(e); err != nil {
			validationErr.Add(*err)
		}
	}

	return validationErr.OrNil()
}

func (e *Event) ValidateAll() error {
	return e.Validate(
		ValidateEventName,
		ValidateDistinctID,
		ValidateTimestamp,
		ValidateElements,
	)
}

// DistinctIDsByTeam groups the distinct ids of events per team, deduplicated,
// in first-seen order.
func DistinctIDsByTeam(events []*Event) map[int64][]string {
	out := make(map[int64][]string)
	seen := make(map[int64]map[string]bool)
	for _, e := range events {
		if seen[e.TeamID] == nil {
			seen[e.TeamID] = make(map[string]bool)
		}
		if seen[e.TeamID][e.DistinctID] {
			continue
		}
		seen[e.TeamID][e.DistinctID] = true
		out[e.TeamID] = append(out[e.TeamID], e.DistinctID)
	}
	return out
}
