package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/goccy/go-json"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/domain/event"
)

const (
	maxBatchSize = 500000

	maxPropertyValues = 50
)

type EventRepository struct {
	conn     Conn
	database string
}

func NewEventRepository(conn Conn, database string) *EventRepository {
	return &EventRepository{conn: conn, database: database}
}

func (r *EventRepository) InsertBatch(ctx context.Context, events []*event.Event) error {
	if len(events) == 0 {
		return nil
	}

	for start := 0; start < len(events); start += maxBatchSize {
		end := min(start+maxBatchSize, len(events))
		if err := r.insertChunk(ctx, events[start:end]); err != nil {
			return err
		}
	}
	return nil
}

func (r *EventRepository) insertChunk(ctx context.Context, events []*event.Event) error {
	batch, err := r.conn.PrepareBatch(ctx, fmt.Sprintf(`INSERT INTO %s.events (%s)`, r.database, eventColumns))
	if err != nil {
		slog.Error("Failed to prepare ClickHouse batch", "error", err)
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, e := range events {
		if err := batch.Append(eventValues(e)...); err != nil {
			_ = batch.Abort()
			slog.Error("Failed to append event to batch", "eventID", e.ID, "error", err)
			return fmt.Errorf("failed to append to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		slog.Error("Failed to send batch to ClickHouse", "batchSize", len(events), "error", err)
		return fmt.Errorf("failed to send batch: %w", err)
	}

	slog.Debug("Batch inserted to ClickHouse", "count", len(events))
	return nil
}

func eventValues(e *event.Event) []any {
	n := len(e.Elements)
	texts := make([]string, n)
	tags := make([]string, n)
	hrefs := make([]string, n)
	attrIDs := make([]string, n)
	classes := make([][]string, n)
	nthChild := make([]int32, n)
	nthOfType := make([]int32, n)
	order := make([]int32, n)
	for i, el := range e.Elements {
		texts[i] = el.Text
		tags[i] = el.TagName
		hrefs[i] = el.Href
		attrIDs[i] = el.AttrID
		classes[i] = el.AttrClass
		if classes[i] == nil {
			classes[i] = []string{}
		}
		nthChild[i] = el.NthChild
		nthOfType[i] = el.NthOfType
		order[i] = el.Order
	}
	return []any{
		e.ID, e.TeamID, e.Event, e.DistinctID, e.PropertiesJSON(),
		texts, tags, hrefs, attrIDs,
		classes, nthChild, nthOfType, order,
		e.IP, e.Timestamp,
	}
}

type scanner interface {
	Scan(dest ...any) error
}

func scanEvent(s scanner) (*event.Event, error) {
	var (
		e          event.Event
		properties string
		texts      []string
		tags       []string
		hrefs      []string
		attrIDs    []string
		classes    [][]string
		nthChild   []int32
		nthOfType  []int32
		order      []int32
	)
	if err := s.Scan(
		&e.ID, &e.TeamID, &e.Event, &e.DistinctID, &properties,
		&texts, &tags, &hrefs, &attrIDs,
		&classes, &nthChild, &nthOfType, &order,
		&e.IP, &e.Timestamp,
	); err != nil {
		return nil, err
	}

	if properties != "" {
		if err := json.Unmarshal([]byte(properties), &e.Properties); err != nil {
			return nil, fmt.Errorf("failed to decode properties of event %s: %w", e.ID, err)
		}
	}
	if e.Properties == nil {
		e.Properties = map[string]any{}
	}

	e.Elements = make([]event.Element, len(order))
	for i := range order {
		e.Elements[i] = event.Element{
			Text:      at(texts, i),
			TagName:   at(tags, i),
			Href:      at(hrefs, i),
			AttrID:    at(attrIDs, i),
			AttrClass: at(classes, i),
			NthChild:  at(nthChild, i),
			NthOfType: at(nthOfType, i),
			Order:     order[i],
		}
	}
	e.Timestamp = e.Timestamp.UTC()
	return &e, nil
}

func at[T any](s []T, i int) T {
	var zero T
	if i < len(s) {
		return s[i]
	}
	return zero
}

func (r *EventRepository) queryEvents(ctx context.Context, query string, args ...any) ([]*event.Event, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := make([]*event.Event, 0)
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return events, nil
}

func (r *EventRepository) List(ctx context.Context, q *event.ListQuery) ([]*event.Event, error) {
	w := listWhere(q)
	limit := q.Limit
	if limit <= 0 {
		limit = event.DefaultPageSize
	}
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.events FINAL
		WHERE %s
		ORDER BY timestamp DESC, event_id DESC
		LIMIT %d
	`, eventColumns, r.database, w.String(), limit)

	events, err := r.queryEvents(ctx, query, w.args...)
	if err != nil {
		slog.Error("Failed to list events from ClickHouse", "teamID", q.TeamID, "error", err)
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	return events, nil
}

func (r *EventRepository) Get(ctx context.Context, teamID int64, id string) (*event.Event, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.events FINAL
		WHERE team_id = ? AND event_id = ?
		LIMIT 1
	`, eventColumns, r.database)

	events, err := r.queryEvents(ctx, query, teamID, id)
	if err != nil {
		slog.Error("Failed to get event from ClickHouse", "teamID", teamID, "eventID", id, "error", err)
		return nil, fmt.Errorf("failed to get event: %w", err)
	}
	if len(events) == 0 {
		return nil, apperror.ErrNotFound
	}
	return events[0], nil
}

func (r *EventRepository) queryNameCounts(ctx context.Context, query string, args ...any) ([]event.NameCount, error) {
	rows, err := r.conn.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := make([]event.NameCount, 0)
	for rows.Next() {
		var (
			name  string
			count uint64
		)
		if err := rows.Scan(&name, &count); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}
		result = append(result, event.NameCount{Name: name, Count: int64(count)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Names reads the daily rollup, which the materialized view keeps current.
func (r *EventRepository) Names(ctx context.Context, teamID int64) ([]event.NameCount, error) {
	query := fmt.Sprintf(`
		SELECT event, sum(count) AS total
		FROM %s.events_daily
		WHERE team_id = ?
		GROUP BY event
		ORDER BY total DESC, event ASC
	`, r.database)

	names, err := r.queryNameCounts(ctx, query, teamID)
	if err != nil {
		slog.Error("Failed to query event names from ClickHouse", "teamID", teamID, "error", err)
		return nil, fmt.Errorf("failed to get event names: %w", err)
	}
	return names, nil
}

func (r *EventRepository) PropertyKeys(ctx context.Context, teamID int64) ([]event.NameCount, error) {
	query := fmt.Sprintf(`
		SELECT arrayJoin(JSONExtractKeys(properties)) AS key, count() AS total
		FROM %s.events
		WHERE team_id = ?
		GROUP BY key
		ORDER BY total DESC, key ASC
	`, r.database)

	keys, err := r.queryNameCounts(ctx, query, teamID)
	if err != nil {
		slog.Error("Failed to query property keys from ClickHouse", "teamID", teamID, "error", err)
		return nil, fmt.Errorf("failed to get property keys: %w", err)
	}
	return keys, nil
}

// PropertyValues returns the most frequent values of key. String values are
// unquoted; other JSON values keep their raw encoding.
func (r *EventRepository) PropertyValues(ctx context.Context, teamID int64, key, contains string) ([]event.NameCount, error) {
	w := &whereClause{}
	w.add("team_id = ?", teamID)
	w.add("JSONHas(properties, ?)", key)
	valueArgs := []any{key, key, key}
	if contains != "" {
		w.add("positionCaseInsensitive(value, ?) > 0", contains)
	}

	query := fmt.Sprintf(`
		SELECT
			if(JSONType(properties, ?) = 'String', JSONExtractString(properties, ?), JSONExtractRaw(properties, ?)) AS value,
			count() AS total
		FROM %s.events
		WHERE %s
		GROUP BY value
		ORDER BY total DESC, value ASC
		LIMIT %d
	`, r.database, w.String(), maxPropertyValues)

	values, err := r.queryNameCounts(ctx, query, append(valueArgs, w.args...)...)
	if err != nil {
		slog.Error("Failed to query property values from ClickHouse", "teamID", teamID, "key", key, "error", err)
		return nil, fmt.Errorf("failed to get property values: %w", err)
	}
	return values, nil
}

// LastSeen returns the newest event timestamp of the given distinct ids, or
// nil when none of them has events.
func (r *EventRepository) LastSeen(ctx context.Context, teamID int64, distinctIDs []string) (*time.Time, error) {
	if len(distinctIDs) == 0 {
		return nil, nil
	}
	query := fmt.Sprintf(`
		SELECT max(timestamp), count()
		FROM %s.events
		WHERE team_id = ? AND has(?, distinct_id)
	`, r.database)

	var (
		last  time.Time
		count uint64
	)
	row := r.conn.QueryRow(ctx, query, teamID, distinctIDs)
	if err := row.Scan(&last, &count); err != nil {
		slog.Error("Failed to query last event from ClickHouse", "teamID", teamID, "error", err)
		return nil, fmt.Errorf("failed to get last event: %w", err)
	}
	if count == 0 {
		return nil, nil
	}
	last = last.UTC()
	return &last, nil
}
