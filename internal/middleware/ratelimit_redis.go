package middleware

import (
	"context"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

type counter interface {
	Incr(ctx context.Context, key string) *goredis.IntCmd
	ExpireNX(ctx context.Context, key string, expiration time.Duration) *goredis.BoolCmd
	PTTL(ctx context.Context, key string) *goredis.DurationCmd
}

// RedisLimiter is a fixed-window Limiter shared by every instance pointed
// at the same Redis.
type RedisLimiter struct {
	rdb    counter
	prefix string
	limit  int
	window time.Duration
}

func NewRedisLimiter(rdb counter, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{rdb: rdb, prefix: prefix + "rl:", limit: limit, window: window}
}

func (l *RedisLimiter) Allow(ctx context.Context, client string) (bool, time.Duration, error) {
	key := l.prefix + client

	count, err := l.rdb.Incr(ctx, key).Result()
	if err != nil {
		return false, 0, err
	}
	// First hit opens the window
	if count == 1 {
		if err := l.rdb.ExpireNX(ctx, key, l.window).Err(); err != nil {
			return false, 0, err
		}
	}
	if count <= int64(l.limit) {
		return true, 0, nil
	}

	ttl, err := l.rdb.PTTL(ctx, key).Result()
	if err != nil || ttl <= 0 {
		return false, l.window, nil
	}
	return false, ttl, nil
}
