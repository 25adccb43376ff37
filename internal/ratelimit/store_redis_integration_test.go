//go:build integration

package ratelimit_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"darksecrets/internal/ratelimit"
	"darksecrets/pkg/testutil/containers"
)

type RedisStoreSuite struct {
	suite.Suite
	redis *containers.RedisContainer
	store *ratelimit.RedisStore
}

func TestRedisStoreSuite(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	suite.Run(t, new(RedisStoreSuite))
}

func (s *RedisStoreSuite) SetupSuite() {
	mgr := containers.GetManager()
	s.redis = mgr.GetRedis(s.T())
	s.store = ratelimit.NewRedisStore(s.redis.Client)
}

func (s *RedisStoreSuite) SetupTest() {
	s.Require().NoError(s.redis.FlushAll(context.Background()))
}

func (s *RedisStoreSuite) TestIncrCountsPerKey() {
	ctx := context.Background()

	for want := int64(1); want <= 3; want++ {
		got, err := s.store.Incr(ctx, "origin-a", time.Minute)
		s.Require().NoError(err)
		s.Equal(want, got)
	}

	got, err := s.store.Incr(ctx, "origin-b", time.Minute)
	s.Require().NoError(err)
	s.Equal(int64(1), got, "keys count independently")
}

func (s *RedisStoreSuite) TestWindowRollover() {
	ctx := context.Background()
	window := 500 * time.Millisecond

	first, err := s.store.Incr(ctx, "origin-a", window)
	s.Require().NoError(err)
	s.Equal(int64(1), first)

	// Crossing the bucket boundary starts a fresh count.
	time.Sleep(window + 100*time.Millisecond)

	second, err := s.store.Incr(ctx, "origin-a", window)
	s.Require().NoError(err)
	s.Equal(int64(1), second)
}

func (s *RedisStoreSuite) TestLimiterOverRedis() {
	ctx := context.Background()
	limiter := ratelimit.New(s.store, 2, time.Minute)

	for i := 0; i < 2; i++ {
		allowed, err := limiter.Allow(ctx, "origin-a")
		s.Require().NoError(err)
		s.True(allowed)
	}

	allowed, err := limiter.Allow(ctx, "origin-a")
	s.Require().NoError(err)
	s.False(allowed)
}
