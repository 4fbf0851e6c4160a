package middleware

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// RedisRateLimiter is a fixed-window limiter backed by Redis, for sites
// running more than one server process. Redis errors fail open so a
// cache outage never takes the contact form down with it.
type RedisRateLimiter struct {
	rdb    *redis.Client
	prefix string
	limit  int
	window time.Duration
	logger *zap.Logger
}

var _ Limiter = (*RedisRateLimiter)(nil)

// NewRedisRateLimiter creates a Redis-backed rate limiter
func NewRedisRateLimiter(rdb *redis.Client, prefix string, limit int, window time.Duration, logger *zap.Logger) *RedisRateLimiter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &RedisRateLimiter{
		rdb:    rdb,
		prefix: prefix,
		limit:  limit,
		window: window,
		logger: logger,
	}
}

func (rl *RedisRateLimiter) key(key string) string {
	return "ratelimit:" + rl.prefix + ":" + key
}

// Allow checks if a request from the given key should be allowed
func (rl *RedisRateLimiter) Allow(key string) bool {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	k := rl.key(key)

	pipe := rl.rdb.TxPipeline()
	incr := pipe.Incr(ctx, k)
	pipe.ExpireNX(ctx, k, rl.window)
	if _, err := pipe.Exec(ctx); err != nil {
		rl.logger.Warn("Rate limit check failed, allowing request", zap.Error(err))
		return true
	}

	return incr.Val() <= int64(rl.limit)
}

// Remaining returns the number of remaining requests for the given key
func (rl *RedisRateLimiter) Remaining(key string) int {
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	count, err := rl.rdb.Get(ctx, rl.key(key)).Int()
	if err != nil {
		return rl.limit
	}

	remaining := rl.limit - count
	if remaining < 0 {
		return 0
	}
	return remaining
}

// Limit returns the configured request limit per window
func (rl *RedisRateLimiter) Limit() int {
	return rl.limit
}
