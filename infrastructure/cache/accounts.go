package cache

import (
	"context"
	"strings"
	"time"

	"github.com/jellydator/ttlcache/v3"
	"github.com/product-analytics/domain/account"
	"github.com/product-analytics/infrastructure/metrics"
)

// Accounts caches the token lookups made on every authenticated or captured
// request. Misses are not cached, so a newly created token works immediately.
// Keys are cloned before they are stored since callers may pass strings
// backed by a reused request buffer.
type Accounts struct {
	account.AccountRepository

	teams *ttlcache.Cache[string, *account.Team]
	users *ttlcache.Cache[string, *account.User]
}

func NewAccounts(repo account.AccountRepository, ttl time.Duration) *Accounts {
	return &Accounts{
		AccountRepository: repo,
		teams: ttlcache.New(
			ttlcache.WithTTL[string, *account.Team](ttl),
			ttlcache.WithDisableTouchOnHit[string, *account.Team](),
		),
		users: ttlcache.New(
			ttlcache.WithTTL[string, *account.User](ttl),
			ttlcache.WithDisableTouchOnHit[string, *account.User](),
		),
	}
}

// Start runs expired item cleanup until Stop is called.
func (c *Accounts) Start() {
	go c.teams.Start()
	go c.users.Start()
}

func (c *Accounts) Stop() {
	c.teams.Stop()
	c.users.Stop()
}

func (c *Accounts) TeamByAPIToken(ctx context.Context, token string) (*account.Team, error) {
	if item := c.teams.Get(token); item != nil {
		metrics.TokenCacheLookups.WithLabelValues("team", "hit").Inc()
		return item.Value(), nil
	}
	metrics.TokenCacheLookups.WithLabelValues("team", "miss").Inc()

	team, err := c.AccountRepository.TeamByAPIToken(ctx, token)
	if err != nil {
		return nil, err
	}
	c.teams.Set(strings.Clone(token), team, ttlcache.DefaultTTL)
	return team, nil
}

func (c *Accounts) UserByTemporaryToken(ctx context.Context, token string) (*account.User, error) {
	if item := c.users.Get(token); item != nil {
		metrics.TokenCacheLookups.WithLabelValues("user", "hit").Inc()
		return item.Value(), nil
	}
	metrics.TokenCacheLookups.WithLabelValues("user", "miss").Inc()

	user, err := c.AccountRepository.UserByTemporaryToken(ctx, token)
	if err != nil {
		return nil, err
	}
	c.users.Set(strings.Clone(token), user, ttlcache.DefaultTTL)
	return user, nil
}
