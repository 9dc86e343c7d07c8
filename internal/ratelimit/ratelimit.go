// Package ratelimit implements a fixed-window request limiter backed by Redis.
package ratelimit

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Decision is the verdict for one request.
type Decision struct {
	Allowed   bool
	Limit     int
	Remaining int
	ResetAt   time.Time
}

// Limiter decides whether a caller identified by key may proceed.
type Limiter interface {
	Allow(ctx context.Context, key string) (Decision, error)
}

type redisLimiter struct {
	client redis.Cmdable
	limit  int
	window time.Duration
	now    func() time.Time
	logger zerolog.Logger
}

// NewRedisLimiter allows limit requests per key in each window.
func NewRedisLimiter(client redis.Cmdable, limit int, window time.Duration, logger zerolog.Logger) Limiter {
	return &redisLimiter{
		client: client,
		limit:  limit,
		window: window,
		now:    time.Now,
		logger: logger.With().Str("component", "rate-limiter").Logger(),
	}
}

// Allow increments the counter of the current window. The key expires with
// the window, so no cleanup is needed.
func (l *redisLimiter) Allow(ctx context.Context, key string) (Decision, error) {
	windowStart := l.now().Truncate(l.window)
	redisKey := fmt.Sprintf("ratelimit:%s:%d", key, windowStart.Unix())

	var incr *redis.IntCmd
	_, err := l.client.TxPipelined(ctx, func(p redis.Pipeliner) error {
		incr = p.Incr(ctx, redisKey)
		p.ExpireNX(ctx, redisKey, l.window)
		return nil
	})
	if err != nil {
		return Decision{}, fmt.Errorf("failed to increment rate limit counter: %w", err)
	}

	count := int(incr.Val())
	remaining := l.limit - count
	if remaining < 0 {
		remaining = 0
	}

	decision := Decision{
		Allowed:   count <= l.limit,
		Limit:     l.limit,
		Remaining: remaining,
		ResetAt:   windowStart.Add(l.window),
	}

	if !decision.Allowed {
		l.logger.Debug().Str("key", key).Int("count", count).Msg("rate limit exceeded")
	}

	return decision, nil
}

// noopLimiter allows everything. Used when Redis is disabled.
type noopLimiter struct{}

// NewNoopLimiter returns a Limiter that never limits.
func NewNoopLimiter() Limiter {
	return noopLimiter{}
}

func (noopLimiter) Allow(context.Context, string) (Decision, error) {
	return Decision{Allowed: true}, nil
}
