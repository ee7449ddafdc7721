package ratelimit

import (
	"context"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// Result describes the outcome of a single Allow call
type Result struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetIn   time.Duration
}

// RedisLimiter is a fixed-window counter stored in Redis, shared by every server instance
type RedisLimiter struct {
	client *goredis.Client
	prefix string
	limit  int
	window time.Duration
}

// NewRedisLimiter allows limit hits per key within each window
func NewRedisLimiter(client *goredis.Client, prefix string, limit int, window time.Duration) *RedisLimiter {
	return &RedisLimiter{client: client, prefix: prefix, limit: limit, window: window}
}

// Allow counts one hit for key
func (l *RedisLimiter) Allow(ctx context.Context, key string) (Result, error) {
	redisKey := fmt.Sprintf("ratelimit:%s:%s", l.prefix, key)

	count, err := l.client.Incr(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to increment rate counter: %w", err)
	}
	if count == 1 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("failed to set rate window: %w", err)
		}
	}

	ttl, err := l.client.TTL(ctx, redisKey).Result()
	if err != nil {
		return Result{}, fmt.Errorf("failed to read rate window: %w", err)
	}
	// a counter without expiry would block the key forever
	if ttl < 0 {
		if err := l.client.Expire(ctx, redisKey, l.window).Err(); err != nil {
			return Result{}, fmt.Errorf("failed to set rate window: %w", err)
		}
		ttl = l.window
	}

	remaining := l.limit - int(count)
	if remaining < 0 {
		remaining = 0
	}
	return Result{
		Allowed:   int(count) <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetIn:   ttl,
	}, nil
}

// NewRedisClient creates and pings a Redis client
func NewRedisClient(ctx context.Context, addr, password string, db int) (*goredis.Client, error) {
	rdb := goredis.NewClient(&goredis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return rdb, nil
}
