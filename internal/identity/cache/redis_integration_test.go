//go:build integration

package cache_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"trafficwatch/internal/identity/cache"
	"trafficwatch/internal/identity/models"
	"trafficwatch/internal/platform/config"
	platformredis "trafficwatch/internal/platform/redis"
	id "trafficwatch/pkg/domain"
	"trafficwatch/pkg/testutil/containers"
)

type RedisIdentityCacheSuite struct {
	suite.Suite
	rc    *containers.RedisContainer
	cache *cache.RedisIdentityCache
	ctx   context.Context
}

func TestRedisIdentityCacheSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisIdentityCacheSuite))
}

func (s *RedisIdentityCacheSuite) SetupSuite() {
	s.rc = containers.NewRedisContainer(s.T())
	s.cache = cache.NewRedisIdentityCache(s.rc.Client)
	s.ctx = context.Background()
}

func (s *RedisIdentityCacheSuite) SetupTest() {
	s.Require().NoError(s.rc.FlushAll(s.ctx))
}

func (s *RedisIdentityCacheSuite) TestSetGetRoundTrip() {
	ident := models.Identity{ID: id.UserID(uuid.New()), Role: models.RoleOfficer, Active: true}

	s.Require().NoError(s.cache.Set(s.ctx, &ident))

	got, err := s.cache.Get(s.ctx, ident.ID)
	s.Require().NoError(err)
	s.Equal(ident, *got)
}

func (s *RedisIdentityCacheSuite) TestGetMissingIsMiss() {
	_, err := s.cache.Get(s.ctx, id.UserID(uuid.New()))
	s.Require().ErrorIs(err, cache.ErrMiss)
}

func (s *RedisIdentityCacheSuite) TestInvalidateDropsEntry() {
	ident := models.Identity{ID: id.UserID(uuid.New()), Role: models.RoleCitizen, Active: true}
	s.Require().NoError(s.cache.Set(s.ctx, &ident))

	s.Require().NoError(s.cache.Invalidate(s.ctx, ident.ID))

	_, err := s.cache.Get(s.ctx, ident.ID)
	s.Require().ErrorIs(err, cache.ErrMiss)
}

func (s *RedisIdentityCacheSuite) TestEntriesExpire() {
	short := cache.NewRedisIdentityCache(s.rc.Client, cache.WithTTL(100*time.Millisecond))
	ident := models.Identity{ID: id.UserID(uuid.New()), Role: models.RoleAuthority, Active: true}
	s.Require().NoError(short.Set(s.ctx, &ident))

	s.Require().Eventually(func() bool {
		_, err := short.Get(s.ctx, ident.ID)
		return err == cache.ErrMiss
	}, 2*time.Second, 50*time.Millisecond)
}

func (s *RedisIdentityCacheSuite) TestCorruptEntryBehavesLikeMiss() {
	userID := id.UserID(uuid.New())
	s.Require().NoError(s.rc.Client.Set(s.ctx, "identity:user:"+userID.String(), "{not json", 0).Err())

	_, err := s.cache.Get(s.ctx, userID)
	s.Require().ErrorIs(err, cache.ErrMiss)
}

func TestPlatformClientFromConfig(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	rc := containers.NewRedisContainer(t)

	client, err := platformredis.New(config.RedisConfig{
		URL:          rc.Addr,
		PoolSize:     5,
		MinIdleConns: 1,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})
	require.NoError(t, err)
	require.NotNil(t, client)
	defer client.Close()

	require.NoError(t, client.Health(context.Background()))

	disabled, err := platformredis.New(config.RedisConfig{})
	require.NoError(t, err)
	require.Nil(t, disabled)
}
