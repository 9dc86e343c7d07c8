// Package cache invalidates rendered dashboard views after writes.
package cache

import (
	"context"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// keyPrefix namespaces rendered view entries.
const keyPrefix = "view:"

// Invalidator drops cached views so the next read renders fresh data.
type Invalidator interface {
	// Invalidate is fire-and-forget: failures are logged, never returned.
	Invalidate(ctx context.Context, paths ...string)
}

// ShopViews returns the view paths that change when a shop gains an invoice.
func ShopViews(shopID string) []string {
	base := "/dashboard/" + shopID
	return []string{
		base + "/invoices",
		base,
		base + "/customers",
		base + "/loyalty",
	}
}

// Key returns the cache key of a view path.
func Key(path string) string {
	return keyPrefix + path
}

// Connect initialises a Redis client from a redis:// URL or host:port.
func Connect(redisURL string) (*redis.Client, error) {
	if strings.HasPrefix(redisURL, "redis://") || strings.HasPrefix(redisURL, "rediss://") {
		opt, err := redis.ParseURL(redisURL)
		if err != nil {
			return nil, fmt.Errorf("parse redis url: %w", err)
		}
		return redis.NewClient(opt), nil
	}
	return redis.NewClient(&redis.Options{Addr: redisURL}), nil
}

type redisInvalidator struct {
	client redis.Cmdable
	logger zerolog.Logger
}

// NewRedisInvalidator creates an Invalidator that deletes view keys in Redis.
func NewRedisInvalidator(client redis.Cmdable, logger zerolog.Logger) Invalidator {
	return &redisInvalidator{
		client: client,
		logger: logger.With().Str("component", "cache-invalidator").Logger(),
	}
}

func (i *redisInvalidator) Invalidate(ctx context.Context, paths ...string) {
	if len(paths) == 0 {
		return
	}

	keys := make([]string, len(paths))
	for n, p := range paths {
		keys[n] = Key(p)
	}

	deleted, err := i.client.Del(ctx, keys...).Result()
	if err != nil {
		i.logger.Error().Err(err).Strs("paths", paths).Msg("failed to invalidate cached views")
		return
	}

	i.logger.Debug().Strs("paths", paths).Int64("deleted", deleted).Msg("cached views invalidated")
}

type noopInvalidator struct{}

// NewNoopInvalidator returns an Invalidator that does nothing.
func NewNoopInvalidator() Invalidator {
	return noopInvalidator{}
}

func (noopInvalidator) Invalidate(context.Context, ...string) {}
