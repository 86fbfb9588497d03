package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/product-analytics/domain/action"
	"github.com/product-analytics/domain/event"
	"github.com/product-analytics/domain/trend"
)

// ActionMatcher evaluates action steps as SQL over the events table.
type ActionMatcher struct {
	events   *EventRepository
	conn     Conn
	database string
}

func NewActionMatcher(events *EventRepository) *ActionMatcher {
	return &ActionMatcher{events: events, conn: events.conn, database: events.database}
}

func (m *ActionMatcher) Count(ctx context.Context, a *action.Action, opts action.MatchOptions) (int64, error) {
	w := matchWhere(a, opts)
	query := fmt.Sprintf(`
		SELECT count()
		FROM %s.events FINAL
		WHERE %s
	`, m.database, w.String())

	var count uint64
	if err := m.conn.QueryRow(ctx, query, w.args...).Scan(&count); err != nil {
		slog.Error("Failed to count action events", "actionID", a.ID, "error", err)
		return 0, fmt.Errorf("failed to count events for action %d: %w", a.ID, err)
	}
	return int64(count), nil
}

// CountByDay returns one entry per UTC day with at least one matching event,
// ordered by day.
func (m *ActionMatcher) CountByDay(ctx context.Context, a *action.Action, opts action.MatchOptions) ([]trend.DailyCount, error) {
	w := matchWhere(a, opts)
	query := fmt.Sprintf(`
		SELECT toDate(timestamp) AS day, count() AS total
		FROM %s.events FINAL
		WHERE %s
		GROUP BY day
		ORDER BY day
	`, m.database, w.String())

	rows, err := m.conn.Query(ctx, query, w.args...)
	if err != nil {
		slog.Error("Failed to count action events by day", "actionID", a.ID, "error", err)
		return nil, fmt.Errorf("failed to count events by day for action %d: %w", a.ID, err)
	}
	defer rows.Close()

	result := make([]trend.DailyCount, 0)
	for rows.Next() {
		var (
			day   time.Time
			total uint64
		)
		if err := rows.Scan(&day, &total); err != nil {
			return nil, fmt.Errorf("failed to scan daily count: %w", err)
		}
		result = append(result, trend.DailyCount{Day: trend.Day(day), Count: float64(total)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return result, nil
}

// Events returns matching events, newest first. A zero Limit means no limit.
func (m *ActionMatcher) Events(ctx context.Context, a *action.Action, opts action.MatchOptions) ([]*event.Event, error) {
	w := matchWhere(a, opts)
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s.events FINAL
		WHERE %s
		ORDER BY timestamp DESC, event_id DESC
	`, eventColumns, m.database, w.String())
	if opts.Limit > 0 {
		query += fmt.Sprintf("LIMIT %d\n", opts.Limit)
	}

	events, err := m.events.queryEvents(ctx, query, w.args...)
	if err != nil {
		slog.Error("Failed to load action events", "actionID", a.ID, "error", err)
		return nil, fmt.Errorf("failed to load events for action %d: %w", a.ID, err)
	}
	return events, nil
}

// CountByProperty groups matching events by the raw value of property and
// counts each group, largest first.
func (m *ActionMatcher) CountByProperty(ctx context.Context, a *action.Action, opts action.MatchOptions, property string) ([]trend.BreakdownEntry, error) {
	w := matchWhere(a, opts)
	query := fmt.Sprintf(`
		SELECT JSONExtractRaw(properties, ?) AS value, count() AS total
		FROM %s.events FINAL
		WHERE %s
		GROUP BY value
		ORDER BY total DESC, max(timestamp) DESC
	`, m.database, w.String())
	args := append([]any{property}, w.args...)

	rows, err := m.conn.Query(ctx, query, args...)
	if err != nil {
		slog.Error("Failed to count action events by property", "actionID", a.ID, "property", property, "error", err)
		return nil, fmt.Errorf("failed to count events by %q for action %d: %w", property, a.ID, err)
	}
	defer rows.Close()

	raw := make([]trend.RawCount, 0)
	for rows.Next() {
		var (
			value string
			total uint64
		)
		if err := rows.Scan(&value, &total); err != nil {
			return nil, fmt.Errorf("failed to scan property count: %w", err)
		}
		raw = append(raw, trend.RawCount{Raw: value, Count: int64(total)})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating rows: %w", err)
	}
	return trend.BreakdownFromRaw(raw), nil
}
