package application

import (
	"context"
	"errors"
	"testing"

	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newAuthFixture() (*mocks.MockAccountRepository, *mocks.MockCapturer, AuthService) {
	accounts := new(mocks.MockAccountRepository)
	capturer := new(mocks.MockCapturer)
	return accounts, capturer, NewAuthService(accounts, capturer)
}

func TestAuthService_AuthenticateToken(t *testing.T) {
	t.Run("known token", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByTemporaryToken", mock.Anything, "tok").Return(&account.User{ID: 1, TeamID: 2}, nil)

		user, err := service.AuthenticateToken(context.Background(), "tok")

		require.NoError(t, err)
		assert.Equal(t, int64(2), user.TeamID)
	})

	t.Run("unknown token", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByTemporaryToken", mock.Anything, "nope").Return(nil, apperror.ErrNotFound)

		_, err := service.AuthenticateToken(context.Background(), "nope")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("repository error", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByTemporaryToken", mock.Anything, "tok").Return(nil, errors.New("postgres down"))

		_, err := service.AuthenticateToken(context.Background(), "tok")

		assert.NotErrorIs(t, err, ErrInvalidCredentials)
		assert.ErrorContains(t, err, "failed to look up token")
	})
}

func TestAuthService_AuthenticateBasic(t *testing.T) {
	user := &account.User{ID: 1, TeamID: 2, Email: "admin@example.com"}
	require.NoError(t, user.SetPassword("s3cret"))

	t.Run("valid password", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByEmail", mock.Anything, "admin@example.com").Return(user, nil)

		got, err := service.AuthenticateBasic(context.Background(), "admin@example.com", "s3cret")

		require.NoError(t, err)
		assert.Equal(t, user, got)
	})

	t.Run("wrong password", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByEmail", mock.Anything, "admin@example.com").Return(user, nil)

		_, err := service.AuthenticateBasic(context.Background(), "admin@example.com", "guess")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})

	t.Run("unknown email", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("UserByEmail", mock.Anything, "who@example.com").Return(nil, apperror.ErrNotFound)

		_, err := service.AuthenticateBasic(context.Background(), "who@example.com", "x")

		assert.ErrorIs(t, err, ErrInvalidCredentials)
	})
}

func TestAuthService_Bootstrap(t *testing.T) {
	t.Run("creates first team and user", func(t *testing.T) {
		accounts, capturer, service := newAuthFixture()
		accounts.On("CountUsers", mock.Anything).Return(int64(0), nil)
		accounts.On("CreateTeamWithUser", mock.Anything,
			mock.MatchedBy(func(team *account.Team) bool { return team.Name == "Acme" && team.APIToken != "" }),
			mock.MatchedBy(func(u *account.User) bool { return u.Email == "admin@example.com" && u.TemporaryToken != "" }),
		).Run(func(args mock.Arguments) {
			args.Get(1).(*account.Team).ID = 1
			u := args.Get(2).(*account.User)
			u.ID = 1
			u.TeamID = 1
		}).Return(nil)
		capturer.On("Capture", mock.Anything, "user signed up", map[string]any{"is_first_user": true}).Return()

		user, err := service.Bootstrap(context.Background(), "admin@example.com", "s3cret", "Acme")

		require.NoError(t, err)
		require.NotNil(t, user)
		assert.Equal(t, int64(1), user.TeamID)
		assert.True(t, user.CheckPassword("s3cret"))
		capturer.AssertExpectations(t)
	})

	t.Run("noop when users exist", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("CountUsers", mock.Anything).Return(int64(3), nil)

		user, err := service.Bootstrap(context.Background(), "admin@example.com", "s3cret", "Acme")

		require.NoError(t, err)
		assert.Nil(t, user)
		accounts.AssertNotCalled(t, "CreateTeamWithUser", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("create failure", func(t *testing.T) {
		accounts, _, service := newAuthFixture()
		accounts.On("CountUsers", mock.Anything).Return(int64(0), nil)
		accounts.On("CreateTeamWithUser", mock.Anything, mock.Anything, mock.Anything).
			Return(&apperror.ConflictError{Detail: "user-exists"})

		_, err := service.Bootstrap(context.Background(), "admin@example.com", "s3cret", "Acme")

		var conflict *apperror.ConflictError
		assert.ErrorAs(t, err, &conflict)
	})
}
