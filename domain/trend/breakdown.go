package trend

import (
	"sort"

	"github.com/goccy/go-json"
	"github.com/product-analytics/domain/event"
)

const Undefined = "undefined"

type BreakdownEntry struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

// Breakdown counts events per value of property, most frequent first. Events
// without the property are grouped under "undefined"; equal counts keep the
// order in which their value was first seen.
func Breakdown(events []*event.Event, property string) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0)
	index := make(map[string]int)

	for _, e := range events {
		name := breakdownName(e, property)
		if i, ok := index[name]; ok {
			entries[i].Count++
			continue
		}
		index[name] = len(entries)
		entries = append(entries, BreakdownEntry{Name: name, Count: 1})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func breakdownName(e *event.Event, property string) string {
	v, ok := e.Property(property)
	if !ok {
		return Undefined
	}
	return valueName(v)
}

func valueName(v any) string {
	if v == nil {
		return Undefined
	}
	if s, ok := v.(string); ok {
		return s
	}
	data, err := json.Marshal(v)
	if err != nil {
		return Undefined
	}
	return string(data)
}

// RawCount is the number of events sharing one stored JSON value of a
// property. Raw is empty when the property is absent.
type RawCount struct {
	Raw   string
	Count int64
}

// BreakdownFromRaw names grouped raw values the way Breakdown names event
// properties and merges values that end up with the same name. Among equal
// counts the input order is kept.
func BreakdownFromRaw(rows []RawCount) []BreakdownEntry {
	entries := make([]BreakdownEntry, 0, len(rows))
	index := make(map[string]int, len(rows))

	for _, r := range rows {
		name := rawName(r.Raw)
		if i, ok := index[name]; ok {
			entries[i].Count += r.Count
			continue
		}
		index[name] = len(entries)
		entries = append(entries, BreakdownEntry{Name: name, Count: r.Count})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Count > entries[j].Count
	})
	return entries
}

func rawName(raw string) string {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		if raw == "" {
			return Undefined
		}
		return raw
	}
	return valueName(v)
}
