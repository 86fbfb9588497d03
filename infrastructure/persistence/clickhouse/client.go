package clickhouse

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/ClickHouse/clickhouse-go/v2"
	"github.com/ClickHouse/clickhouse-go/v2/lib/driver"
	"github.com/product-analytics/infrastructure/config"
)

type Client struct {
	conn     driver.Conn
	database string
}

func NewClient(cfg config.ClickHouseConfig) (*Client, error) {
	addr := fmt.Sprintf("%s:%d", cfg.Host, cfg.Port)
	conn, err := clickhouse.Open(&clickhouse.Options{
		Addr: []string{addr},
		Auth: clickhouse.Auth{
			Database: cfg.Database,
			Username: cfg.Username,
			Password: cfg.Password,
		},
		Settings: clickhouse.Settings{
			"max_execution_time": 60,
		},
		DialTimeout:      5 * time.Second,
		MaxOpenConns:     20,
		MaxIdleConns:     10,
		ConnMaxLifetime:  time.Hour,
		ConnOpenStrategy: clickhouse.ConnOpenInOrder,
		Compression: &clickhouse.Compression{
			Method: clickhouse.CompressionLZ4,
		},
	})
	if err != nil {
		slog.Error("Failed to connect to ClickHouse", "addr", addr, "error", err)
		return nil, fmt.Errorf("failed to connect to clickhouse: %w", err)
	}

	if err := conn.Ping(context.Background()); err != nil {
		slog.Error("Failed to ping ClickHouse", "addr", addr, "error", err)
		return nil, fmt.Errorf("failed to ping clickhouse: %w", err)
	}

	slog.Info("Connected to ClickHouse", "addr", addr, "database", cfg.Database)
	return &Client{conn: conn, database: cfg.Database}, nil
}

func (c *Client) Conn() Conn {
	return WrapConn(c.conn)
}

func (c *Client) Database() string {
	return c.database
}

func (c *Client) Ping(ctx context.Context) error {
	return c.conn.Ping(ctx)
}

func (c *Client) Close() error {
	return c.conn.Close()
}

// SchemaQueries returns the DDL for the events table and its daily rollup.
// Elements are stored as parallel arrays, one entry per element.
func SchemaQueries(database string) []string {
	return []string{
		fmt.Sprintf(`CREATE DATABASE IF NOT EXISTS %s`, database),
		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.events (
			event_id String,
			team_id Int64,
			event String,
			distinct_id String,
			properties String,
			elements_text Array(String),
			elements_tag_name Array(String),
			elements_href Array(String),
			elements_attr_id Array(String),
			elements_attr_class Array(Array(String)),
			elements_nth_child Array(Int32),
			elements_nth_of_type Array(Int32),
			elements_order Array(Int32),
			ip String,
			timestamp DateTime64(3, 'UTC'),
			created_at DateTime DEFAULT now(),
			INDEX idx_event event TYPE bloom_filter GRANULARITY 4,
			INDEX idx_distinct_id distinct_id TYPE bloom_filter GRANULARITY 4
		) ENGINE = ReplacingMergeTree(created_at)
		PARTITION BY toYYYYMM(timestamp)
		ORDER BY (team_id, toDate(timestamp), event, event_id)`, database),

		fmt.Sprintf(`CREATE TABLE IF NOT EXISTS %s.events_daily (
			team_id Int64,
			event String,
			day Date,
			count UInt64
		) ENGINE = SummingMergeTree(count)
		PARTITION BY toYYYYMM(day)
		ORDER BY (team_id, event, day)`, database),

		fmt.Sprintf(`CREATE MATERIALIZED VIEW IF NOT EXISTS %s.events_daily_mv
		TO %s.events_daily AS
		SELECT
			team_id,
			event,
			toDate(timestamp) AS day,
			count() AS count
		FROM %s.events
		GROUP BY team_id, event, day`, database, database, database),
	}
}

func (c *Client) InitSchema(ctx context.Context) error {
	for i, query := range SchemaQueries(c.database) {
		if err := c.conn.Exec(ctx, query); err != nil {
			slog.Error("Failed to execute schema query", "queryIndex", i, "error", err)
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	slog.Info("ClickHouse schema initialized", "database", c.database, "tables", []string{"events", "events_daily", "events_daily_mv"})
	return nil
}
