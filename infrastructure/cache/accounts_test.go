package cache

import (
	"context"
	"testing"
	"time"
	"unsafe"

	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/domain/apperror"
	"github.com/product-analytics/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccounts_TeamByAPIToken(t *testing.T) {
	t.Run("second lookup is served from cache", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		c := NewAccounts(repo, time.Minute)

		team := &account.Team{ID: 1, APIToken: "tok"}
		repo.On("TeamByAPIToken", context.Background(), "tok").Return(team, nil).Once()

		first, err := c.TeamByAPIToken(context.Background(), "tok")
		require.NoError(t, err)
		second, err := c.TeamByAPIToken(context.Background(), "tok")
		require.NoError(t, err)

		assert.Same(t, team, first)
		assert.Same(t, team, second)
		repo.AssertNumberOfCalls(t, "TeamByAPIToken", 1)
	})

	t.Run("misses are not cached", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		c := NewAccounts(repo, time.Minute)

		repo.On("TeamByAPIToken", context.Background(), "nope").Return(nil, apperror.ErrNotFound).Twice()

		_, err := c.TeamByAPIToken(context.Background(), "nope")
		assert.ErrorIs(t, err, apperror.ErrNotFound)
		_, err = c.TeamByAPIToken(context.Background(), "nope")
		assert.ErrorIs(t, err, apperror.ErrNotFound)

		repo.AssertExpectations(t)
	})

	t.Run("entries expire", func(t *testing.T) {
		repo := new(mocks.MockAccountRepository)
		c := NewAccounts(repo, 10*time.Millisecond)

		repo.On("TeamByAPIToken", context.Background(), "tok").Return(&account.Team{ID: 1}, nil).Twice()

		_, err := c.TeamByAPIToken(context.Background(), "tok")
		require.NoError(t, err)
		time.Sleep(30 * time.Millisecond)
		_, err = c.TeamByAPIToken(context.Background(), "tok")
		require.NoError(t, err)

		repo.AssertExpectations(t)
	})
}

func TestAccounts_UserByTemporaryToken(t *testing.T) {
	repo := new(mocks.MockAccountRepository)
	c := NewAccounts(repo, time.Minute)
	c.Start()
	defer c.Stop()

	user := &account.User{ID: 7, Email: "a@b.com"}
	repo.On("UserByTemporaryToken", context.Background(), "temp").Return(user, nil).Once()
	repo.On("UserByEmail", context.Background(), "a@b.com").Return(user, nil).Once()

	for i := 0; i < 3; i++ {
		got, err := c.UserByTemporaryToken(context.Background(), "temp")
		require.NoError(t, err)
		assert.Equal(t, int64(7), got.ID)
	}

	got, err := c.UserByEmail(context.Background(), "a@b.com")
	require.NoError(t, err)
	assert.Same(t, user, got)

	repo.AssertExpectations(t)
}

func TestAccounts_KeysSurviveReusedBuffers(t *testing.T) {
	repo := new(mocks.MockAccountRepository)
	c := NewAccounts(repo, time.Minute)

	user := &account.User{ID: 42, TemporaryToken: "token-aaaa"}
	team := &account.Team{ID: 7, APIToken: "token-aaaa"}
	repo.On("UserByTemporaryToken", context.Background(), "token-aaaa").Return(user, nil).Once()
	repo.On("UserByTemporaryToken", context.Background(), "token-bbbb").Return(nil, apperror.ErrNotFound).Once()
	repo.On("TeamByAPIToken", context.Background(), "token-aaaa").Return(team, nil).Once()
	repo.On("TeamByAPIToken", context.Background(), "token-bbbb").Return(nil, apperror.ErrNotFound).Once()

	// Key strings share memory with buf, the way request parameters do.
	buf := []byte("token-aaaa")
	key := unsafe.String(&buf[0], len(buf))

	_, err := c.UserByTemporaryToken(context.Background(), key)
	require.NoError(t, err)
	_, err = c.TeamByAPIToken(context.Background(), key)
	require.NoError(t, err)

	copy(buf, "token-bbbb")

	_, err = c.UserByTemporaryToken(context.Background(), "token-bbbb")
	assert.ErrorIs(t, err, apperror.ErrNotFound)
	_, err = c.TeamByAPIToken(context.Background(), "token-bbbb")
	assert.ErrorIs(t, err, apperror.ErrNotFound)

	gotUser, err := c.UserByTemporaryToken(context.Background(), "token-aaaa")
	require.NoError(t, err)
	assert.Same(t, user, gotUser)
	gotTeam, err := c.TeamByAPIToken(context.Background(), "token-aaaa")
	require.NoError(t, err)
	assert.Same(t, team, gotTeam)

	repo.AssertExpectations(t)
}
