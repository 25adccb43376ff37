package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "rl:origin:"

// RedisStore implements Store on Redis so the budget holds across instances.
// Each fixed window is its own key: INCR plus a first-write EXPIRE, batched
// in one pipeline round trip.
type RedisStore struct {
	client *redis.Client
}

// NewRedisStore creates a Redis-backed limiter store.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{client: client}
}

func (s *RedisStore) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	bucket := time.Now().UnixNano() / int64(window)
	redisKey := fmt.Sprintf("%s%s:%d", redisKeyPrefix, key, bucket)

	pipe := s.client.TxPipeline()
	incr := pipe.Incr(ctx, redisKey)
	// Expire a bit after the window ends so slow readers still observe it.
	pipe.Expire(ctx, redisKey, window+time.Second)
	if _, err := pipe.Exec(ctx); err != nil {
		return 0, fmt.Errorf("rate limit incr: %w", err)
	}
	return incr.Val(), nil
}
