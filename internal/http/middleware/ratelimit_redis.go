package middleware

import (
	"context"
	"fmt"
	"time"

	"taskflow/internal/logger"

	redis "github.com/redis/go-redis/v9"
)

// NewRedisClient connects and pings Redis. Callers fall back to the in-memory
// limiter when it returns an error.
func NewRedisClient(addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{Addr: addr, Password: password, DB: db})
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis %s: %w", addr, err)
	}
	return client, nil
}

// NewRedisRateLimiter shares the fixed window across every API replica
// using INCR and EXPIRE NX.
func NewRedisRateLimiter(client *redis.Client, limit int, window time.Duration) *RateLimiter {
	return &RateLimiter{
		counter: redisCounter{client: client},
		limit:   limit,
		window:  window,
	}
}

type redisCounter struct {
	client *redis.Client
}

// Incr counts a hit and arms the window TTL in one round trip. EXPIRE NX is
// sent on every hit, so a key that lost its TTL is re-armed by the next one.
func (r redisCounter) Incr(ctx context.Context, key string, window time.Duration) (int64, error) {
	var incr *redis.IntCmd
	var expire *redis.BoolCmd
	_, _ = r.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, key)
		expire = pipe.ExpireNX(ctx, key, window)
		return nil
	})
	if err := incr.Err(); err != nil {
		return 0, err
	}
	if expire.Err() != nil {
		logger.Warn("rate limit expire failed", "key", key, "error", expire.Err())
	}
	return incr.Val(), nil
}
