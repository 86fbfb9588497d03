package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/product-analytics/infrastructure/config"
)

const uniqueViolation = "23505"

// DB is satisfied by *pgxpool.Pool and by pgxmock pools.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

func NewPool(ctx context.Context, cfg config.PostgresConfig) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres config: %w", err)
	}

	poolConfig.MaxConns = cfg.MaxConns
	poolConfig.MinConns = 2
	poolConfig.MaxConnLifetime = time.Hour
	poolConfig.MaxConnIdleTime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		slog.Error("Failed to ping Postgres", "host", poolConfig.ConnConfig.Host, "error", err)
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}

	slog.Info("Connected to Postgres", "host", poolConfig.ConnConfig.Host, "database", poolConfig.ConnConfig.Database)
	return pool, nil
}

var schemaQueries = []string{
	`CREATE TABLE IF NOT EXISTS teams (
		id BIGSERIAL PRIMARY KEY,
		name TEXT NOT NULL,
		api_token TEXT NOT NULL UNIQUE,
		app_url TEXT NOT NULL DEFAULT '',
		opt_out_capture BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS users (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams(id),
		email TEXT NOT NULL UNIQUE,
		first_name TEXT NOT NULL DEFAULT '',
		password_hash TEXT NOT NULL,
		temporary_token TEXT UNIQUE,
		distinct_id TEXT NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE TABLE IF NOT EXISTS actions (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams(id),
		name TEXT NOT NULL,
		created_by_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		deleted BOOLEAN NOT NULL DEFAULT FALSE,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS actions_team_name_live_idx
		ON actions (team_id, name) WHERE NOT deleted`,
	`CREATE TABLE IF NOT EXISTS action_steps (
		id BIGSERIAL PRIMARY KEY,
		action_id BIGINT NOT NULL REFERENCES actions(id) ON DELETE CASCADE,
		event TEXT NOT NULL DEFAULT '',
		tag_name TEXT NOT NULL DEFAULT '',
		text TEXT NOT NULL DEFAULT '',
		href TEXT NOT NULL DEFAULT '',
		selector TEXT NOT NULL DEFAULT '',
		url TEXT NOT NULL DEFAULT '',
		name TEXT NOT NULL DEFAULT ''
	)`,
	`CREATE INDEX IF NOT EXISTS action_steps_action_idx ON action_steps (action_id)`,
	`CREATE TABLE IF NOT EXISTS persons (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams(id),
		properties JSONB NOT NULL DEFAULT '{}',
		is_user_id BIGINT REFERENCES users(id) ON DELETE SET NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS persons_team_idx ON persons (team_id, id DESC)`,
	`CREATE TABLE IF NOT EXISTS person_distinct_ids (
		id BIGSERIAL PRIMARY KEY,
		team_id BIGINT NOT NULL REFERENCES teams(id),
		person_id BIGINT NOT NULL REFERENCES persons(id) ON DELETE CASCADE,
		distinct_id TEXT NOT NULL,
		UNIQUE (team_id, distinct_id)
	)`,
	`CREATE INDEX IF NOT EXISTS person_distinct_ids_person_idx ON person_distinct_ids (person_id)`,
}

func InitSchema(ctx context.Context, db DB) error {
	for i, query := range schemaQueries {
		if _, err := db.Exec(ctx, query); err != nil {
			slog.Error("Failed to execute schema query", "queryIndex", i, "error", err)
			return fmt.Errorf("failed to execute schema query: %w", err)
		}
	}

	slog.Info("Postgres schema initialized", "tables", []string{"teams", "users", "actions", "action_steps", "persons", "person_distinct_ids"})
	return nil
}

// withTx runs fn in a transaction, committing when fn returns nil.
func withTx(ctx context.Context, db DB, fn func(tx pgx.Tx) error) (err error) {
	tx, err := db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback(ctx)
			panic(p)
		}
		if err != nil {
			_ = tx.Rollback(ctx)
			return
		}
		if err = tx.Commit(ctx); err != nil {
			err = fmt.Errorf("failed to commit transaction: %w", err)
		}
	}()

	return fn(tx)
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == uniqueViolation
}
