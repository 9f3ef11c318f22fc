// Package cache holds the resolved-identity cache used by token resolution.
//
// Token validation is stateless but the account lookup behind it is not;
// caching the resolved identity for a short TTL keeps per-request resolution
// off the users table. Deactivation takes effect within the TTL window, so
// keep it short.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"trafficwatch/internal/identity/models"
	id "trafficwatch/pkg/domain"
)

const identityKeyPrefix = "identity:user:"

// ErrMiss is returned when the identity is not cached.
var ErrMiss = errors.New("identity cache miss")

// RedisIdentityCache is a Redis-backed identity cache for distributed
// deployments where multiple instances resolve the same tokens.
type RedisIdentityCache struct {
	client *redis.Client
	ttl    time.Duration
}

// RedisIdentityCacheOption configures a RedisIdentityCache instance.
type RedisIdentityCacheOption func(*RedisIdentityCache)

// WithTTL overrides the default cache entry lifetime.
func WithTTL(ttl time.Duration) RedisIdentityCacheOption {
	return func(c *RedisIdentityCache) {
		if ttl > 0 {
			c.ttl = ttl
		}
	}
}

// NewRedisIdentityCache constructs a Redis-backed identity cache.
func NewRedisIdentityCache(client *redis.Client, opts ...RedisIdentityCacheOption) *RedisIdentityCache {
	c := &RedisIdentityCache{
		client: client,
		ttl:    30 * time.Second,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

// Get returns the cached identity or ErrMiss.
func (c *RedisIdentityCache) Get(ctx context.Context, userID id.UserID) (*models.Identity, error) {
	raw, err := c.client.Get(ctx, identityKeyPrefix+userID.String()).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrMiss
	}
	if err != nil {
		return nil, err
	}
	var ident models.Identity
	if err := json.Unmarshal(raw, &ident); err != nil {
		// A corrupt entry behaves like a miss; the caller re-resolves.
		return nil, ErrMiss
	}
	return &ident, nil
}

// Set caches the identity with the configured TTL.
func (c *RedisIdentityCache) Set(ctx context.Context, ident *models.Identity) error {
	raw, err := json.Marshal(ident)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, identityKeyPrefix+ident.ID.String(), raw, c.ttl).Err()
}

// Invalidate drops the cached identity, used when an account changes state.
func (c *RedisIdentityCache) Invalidate(ctx context.Context, userID id.UserID) error {
	return c.client.Del(ctx, identityKeyPrefix+userID.String()).Err()
}
