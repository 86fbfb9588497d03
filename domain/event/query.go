package event

import (
	"sort"
	"time"

	"github.com/goccy/go-json"
)

const DefaultPageSize = 100

// PropertyFilter is an equality predicate on one property. Values compare by
// their JSON encoding, so "US" only matches the JSON string "US".
type PropertyFilter struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

func (f PropertyFilter) JSONValue() string {
	data, err := json.Marshal(f.Value)
	if err != nil {
		return `""`
	}
	return string(data)
}

// Matches reports whether the event carries the property with an equal JSON encoding.
func (f PropertyFilter) Matches(e *Event) bool {
	v, ok := e.Property(f.Key)
	if !ok {
		return false
	}
	data, err := json.Marshal(v)
	if err != nil {
		return false
	}
	return string(data) == f.JSONValue()
}

// FiltersFromParams turns query parameters into filters sorted by key, skipping reserved keys.
func FiltersFromParams(params map[string]string, reserved map[string]bool) []PropertyFilter {
	filters := make([]PropertyFilter, 0, len(params))
	for key, value := range params {
		if reserved[key] {
			continue
		}
		filters = append(filters, PropertyFilter{Key: key, Value: value})
	}
	sort.Slice(filters, func(i, j int) bool { return filters[i].Key < filters[j].Key })
	return filters
}

type ListQuery struct {
	TeamID      int64
	After       *time.Time
	Before      *time.Time
	DistinctIDs []string
	Filters     []PropertyFilter
	Limit       int
}

type NameCount struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}
