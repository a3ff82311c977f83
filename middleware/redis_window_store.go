// middleware/redis_window_store.go
package middleware

import (
	"context"
	"time"

	"github.com/go-redis/redis/v8"
)

// RedisWindowStore backs fixed windows with Redis so counts are shared
// across replicas. INCR creates the key at 1; the first hit attaches the
// window TTL, making expiry the window reset.
type RedisWindowStore struct {
	client *redis.Client
	prefix string
}

// NewRedisWindowStore creates a store over the given client
func NewRedisWindowStore(client *redis.Client) *RedisWindowStore {
	return &RedisWindowStore{client: client, prefix: "ratelimit:"}
}

func (s *RedisWindowStore) Hit(ctx context.Context, key string, window time.Duration) (int, time.Time, error) {
	redisKey := s.prefix + key

	count, err := s.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return 0, time.Time{}, err
	}

	if count == 1 {
		if err := s.client.PExpire(ctx, redisKey, window).Err(); err != nil {
			return int(count), time.Now().Add(window), err
		}
		return int(count), time.Now().Add(window), nil
	}

	ttl, err := s.client.PTTL(ctx, redisKey).Result()
	if err != nil || ttl < 0 {
		// Key lost its TTL (or PTTL failed): re-arm so it cannot live forever.
		s.client.PExpire(ctx, redisKey, window)
		ttl = window
	}
	return int(count), time.Now().Add(ttl), nil
}
