package redis

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

const (
	maxRetries     = 5
	initialBackoff = 1 * time.Second
	maxBackoff     = 30 * time.Second
)

// NewClient parses a redis:// URL and pings until the server answers.
func NewClient(ctx context.Context, url string) (*goredis.Client, error) {
	opt, err := goredis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse REDIS_URL: %w", err)
	}
	client := goredis.NewClient(opt)

	backoff := initialBackoff
	for attempt := 1; ; attempt++ {
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		err := client.Ping(pingCtx).Err()
		cancel()
		if err == nil {
			return client, nil
		}
		if attempt == maxRetries {
			_ = client.Close()
			return nil, fmt.Errorf("redis ping failed after %d attempts: %w", maxRetries, err)
		}
		slog.Warn("redis ping failed, retrying",
			"attempt", attempt,
			"backoff", backoff,
			"err", err)
		time.Sleep(backoff)
		backoff = min(backoff*2, maxBackoff)
	}
}
