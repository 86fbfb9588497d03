package application

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/infrastructure/telemetry"
)

type AuthService interface {
	AuthenticateToken(ctx context.Context, token string) (*account.User, error)
	AuthenticateBasic(ctx context.Context, email, password string) (*account.User, error)
	// Bootstrap creates the first team and its admin user when no user exists.
	Bootstrap(ctx context.Context, email, password, teamName string) (*account.User, error)
}

type authService struct {
	accounts  account.AccountRepository
	telemetry telemetry.Capturer
}

func NewAuthService(accounts account.AccountRepository, capturer telemetry.Capturer) AuthService {
	return &authService{
		accounts:  accounts,
		telemetry: capturer,
	}
}

func (s *authService) AuthenticateToken(ctx context.Context, token string) (*account.User, error) {
	user, err := s.accounts.UserByTemporaryToken(ctx, token)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up token: %w", err)
	}
	return user, nil
}

func (s *authService) AuthenticateBasic(ctx context.Context, email, password string) (*account.User, error) {
	user, err := s.accounts.UserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, apperror.ErrNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, fmt.Errorf("failed to look up user: %w", err)
	}
	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return user, nil
}

func (s *authService) Bootstrap(ctx context.Context, email, password, teamName string) (*account.User, error) {
	count, err := s.accounts.CountUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count users: %w", err)
	}
	if count > 0 {
		return nil, nil
	}

	apiToken, err := account.GenerateToken()
	if err != nil {
		return nil, err
	}
	tempToken, err := account.GenerateToken()
	if err != nil {
		return nil, err
	}
	distinctID, err := account.GenerateToken()
	if err != nil {
		return nil, err
	}

	team := &account.Team{Name: teamName, APIToken: apiToken}
	user := &account.User{
		Email:          email,
		TemporaryToken: tempToken,
		DistinctID:     distinctID,
	}
	if err := user.SetPassword(password); err != nil {
		return nil, err
	}

	if err := s.accounts.CreateTeamWithUser(ctx, team, user); err != nil {
		return nil, fmt.Errorf("failed to create team: %w", err)
	}

	s.telemetry.Capture(user.DistinctID, "user signed up", map[string]any{"is_first_user": true})
	slog.Info("Bootstrapped team", "team_id", team.ID, "email", email)
	return user, nil
}
