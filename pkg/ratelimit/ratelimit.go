// Package ratelimit counts requests per key in a sliding window kept in Redis,
// so every instance of the API shares the same budget.
package ratelimit

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

// AuthPrefix namespaces the budget shared by the authentication routes.
const AuthPrefix = "auth"

// Limiter decides whether a request identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (*Result, error)
}

// Result is the outcome of one Allow call.
type Result struct {
	Allowed    bool
	Limit      int
	Remaining  int
	RetryAfter time.Duration
}

// RedisLimiter is a sliding-window limiter over a sorted set per key.
type RedisLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	prefix string
	now    func() time.Time
}

// NewRedisLimiter allows limit requests per window for each key.
func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration, prefix string) *RedisLimiter {
	if prefix == "" {
		prefix = "ratelimit"
	}
	return &RedisLimiter{
		client: client,
		limit:  limit,
		window: window,
		prefix: prefix,
		now:    time.Now,
	}
}

func (l *RedisLimiter) key(id string) string {
	return fmt.Sprintf("%s:%s:%s", l.prefix, id, l.window)
}

// Allow records the request and reports whether it fits in the window.
// Rejected requests are recorded too, so a client hammering the endpoint
// stays blocked until it backs off.
func (l *RedisLimiter) Allow(ctx context.Context, id string) (*Result, error) {
	now := l.now()
	key := l.key(id)
	windowStart := now.Add(-l.window).UnixNano()
	member := strconv.FormatInt(now.UnixNano(), 10)

	pipe := l.client.TxPipeline()
	pipe.ZRemRangeByScore(ctx, key, "0", strconv.FormatInt(windowStart, 10))
	count := pipe.ZCard(ctx, key)
	pipe.ZAdd(ctx, key, redis.Z{Score: float64(now.UnixNano()), Member: member})
	oldest := pipe.ZRangeWithScores(ctx, key, 0, 0)
	pipe.Expire(ctx, key, l.window+time.Minute)
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to execute rate limit pipeline: %w", err)
	}

	seen := int(count.Val())
	res := &Result{
		Allowed:   seen < l.limit,
		Limit:     l.limit,
		Remaining: max(l.limit-seen-1, 0),
	}
	if !res.Allowed {
		res.RetryAfter = l.window
		if zs := oldest.Val(); len(zs) > 0 {
			first := time.Unix(0, int64(zs[0].Score))
			res.RetryAfter = max(first.Add(l.window).Sub(now), time.Second)
		}
	}
	return res, nil
}

// Reset forgets all requests recorded for id.
func (l *RedisLimiter) Reset(ctx context.Context, id string) error {
	if err := l.client.Del(ctx, l.key(id)).Err(); err != nil {
		return fmt.Errorf("failed to reset rate limit: %w", err)
	}
	return nil
}
