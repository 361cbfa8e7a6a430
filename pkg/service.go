package pkg

import (
	"cmp"
	"context"
	"github.com/BarushevEA/fifo_ttl_cache/internal/src"
	"github.com/BarushevEA/fifo_ttl_cache/internal/utils"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"go.uber.org/zap"
)

// ErrSweeperFault is wrapped by Close when the background sweeper did not exit cleanly.
var ErrSweeperFault = src.ErrSweeperFault

// Clock is the time source a cache uses for timestamps and age checks.
type Clock = utils.Clock

// Option configures collaborators of a cache at construction time.
type Option = src.Option

// WithLogger sets the zap logger used by the sweeper and the shutdown path.
func WithLogger(logger *zap.Logger) Option {
	return src.WithLogger(logger)
}

// WithClock replaces the time source of the cache.
func WithClock(clock Clock) Option {
	return src.WithClock(clock)
}

// NewCache creates an empty cache with no size bound and no TTL.
// ctx controls the lifetime of the background sweeper started by WithTTL.
// Configure it with WithMaxSize, WithSweepInterval and WithTTL before sharing it.
func NewCache[K cmp.Ordered, V any](ctx context.Context, opts ...Option) types.ICacheInMemory[K, V] {
	return src.NewFifoCacheWithTTL[K, V](ctx, opts...)
}

// NewCacheFromConfig creates a cache configured by cfg.
// The sweep interval is applied before the TTL so the first sweep already uses it.
func NewCacheFromConfig[K cmp.Ordered, V any](ctx context.Context, cfg types.Config, opts ...Option) (types.ICacheInMemory[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cache := NewCache[K, V](ctx, opts...)
	if cfg.MaxSize != nil {
		cache.WithMaxSize(*cfg.MaxSize)
	}
	cache.WithSweepInterval(cfg.SweepInterval)
	if cfg.TTL > 0 {
		cache.WithTTL(cfg.TTL)
	}
	return cache, nil
}
