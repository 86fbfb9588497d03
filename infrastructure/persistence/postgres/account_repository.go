package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/apperror"
)

const (
	teamColumns = `id, name, api_token, app_url, opt_out_capture, created_at`
	userColumns = `id, team_id, email, first_name, password_hash, COALESCE(temporary_token, ''), distinct_id`
)

type AccountRepository struct {
	db DB
}

func NewAccountRepository(db DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) TeamByAPIToken(ctx context.Context, token string) (*account.Team, error) {
	return r.team(ctx, `SELECT `+teamColumns+` FROM teams WHERE api_token = $1`, token)
}

func (r *AccountRepository) Team(ctx context.Context, id int64) (*account.Team, error) {
	return r.team(ctx, `SELECT `+teamColumns+` FROM teams WHERE id = $1`, id)
}

func (r *AccountRepository) team(ctx context.Context, query string, arg any) (*account.Team, error) {
	var t account.Team
	err := r.db.QueryRow(ctx, query, arg).Scan(&t.ID, &t.Name, &t.APIToken, &t.AppURL, &t.OptOutCapture, &t.CreatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		slog.Error("Failed to load team", "error", err)
		return nil, fmt.Errorf("failed to load team: %w", err)
	}
	return &t, nil
}

func (r *AccountRepository) UserByTemporaryToken(ctx context.Context, token string) (*account.User, error) {
	return r.user(ctx, `SELECT `+userColumns+` FROM users WHERE temporary_token = $1`, token)
}

func (r *AccountRepository) UserByEmail(ctx context.Context, email string) (*account.User, error) {
	return r.user(ctx, `SELECT `+userColumns+` FROM users WHERE lower(email) = lower($1)`, email)
}

func (r *AccountRepository) user(ctx context.Context, query string, arg any) (*account.User, error) {
	var u account.User
	err := r.db.QueryRow(ctx, query, arg).Scan(&u.ID, &u.TeamID, &u.Email, &u.FirstName, &u.PasswordHash, &u.TemporaryToken, &u.DistinctID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperror.ErrNotFound
	}
	if err != nil {
		slog.Error("Failed to load user", "error", err)
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	return &u, nil
}

func (r *AccountRepository) CountUsers(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.QueryRow(ctx, `SELECT count(*) FROM users`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return count, nil
}

func (r *AccountRepository) CreateTeamWithUser(ctx context.Context, team *account.Team, user *account.User) error {
	err := withTx(ctx, r.db, func(tx pgx.Tx) error {
		if err := tx.QueryRow(ctx,
			`INSERT INTO teams (name, api_token, app_url, opt_out_capture) VALUES ($1, $2, $3, $4) RETURNING id, created_at`,
			team.Name, team.APIToken, team.AppURL, team.OptOutCapture,
		).Scan(&team.ID, &team.CreatedAt); err != nil {
			return err
		}

		user.TeamID = team.ID
		return tx.QueryRow(ctx,
			`INSERT INTO users (team_id, email, first_name, password_hash, temporary_token, distinct_id)
			VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6) RETURNING id`,
			user.TeamID, user.Email, user.FirstName, user.PasswordHash, user.TemporaryToken, user.DistinctID,
		).Scan(&user.ID)
	})
	if isUniqueViolation(err) {
		return &apperror.ConflictError{Detail: "user-exists"}
	}
	if err != nil {
		slog.Error("Failed to create team", "team", team.Name, "error", err)
		return fmt.Errorf("failed to create team: %w", err)
	}
	return nil
}
