package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Result of a single Allow call.
type Result struct {
	Allowed    bool
	Remaining  int
	RetryAfter time.Duration // only meaningful when !Allowed
}

// Limiter is a fixed-window counter per key, shared by every replica
// through Redis.
type Limiter struct {
	client *redis.Client
	limit  int
	window time.Duration
	prefix string
}

func New(client *redis.Client, limit int, window time.Duration) *Limiter {
	return &Limiter{client: client, limit: limit, window: window, prefix: "ratelimit:"}
}

// NewClient parses a redis:// URL and checks the server answers.
func NewClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return client, nil
}

func (l *Limiter) Allow(ctx context.Context, key string) (Result, error) {
	key = l.prefix + key

	n, err := l.client.Incr(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("incr %s: %w", key, err)
	}
	// first hit opens the window
	if n == 1 {
		if err := l.client.Expire(ctx, key, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("expire %s: %w", key, err)
		}
	}

	if n <= int64(l.limit) {
		return Result{Allowed: true, Remaining: l.limit - int(n)}, nil
	}

	ttl, err := l.client.PTTL(ctx, key).Result()
	if err != nil {
		return Result{}, fmt.Errorf("pttl %s: %w", key, err)
	}
	if ttl < 0 {
		// the key lost its expiry; restart the window so it cannot block forever
		_ = l.client.Expire(ctx, key, l.window).Err()
		ttl = l.window
	}
	return Result{Allowed: false, RetryAfter: ttl}, nil
}
