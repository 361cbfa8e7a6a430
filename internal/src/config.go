package src

import (
	"github.com/BarushevEA/fifo_ttl_cache/internal/utils"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"go.uber.org/zap"
	"sync"
	"time"
)

// cacheConfig holds the eviction settings; it has its own lock, independent of the store.
type cacheConfig struct {
	sync.RWMutex
	maxSize       int
	bounded       bool
	ttl           time.Duration
	sweepInterval time.Duration
}

func newCacheConfig() *cacheConfig {
	return &cacheConfig{sweepInterval: types.DefaultSweepInterval}
}

func (cfg *cacheConfig) capacity() (int, bool) {
	cfg.RLock()
	defer cfg.RUnlock()
	return cfg.maxSize, cfg.bounded
}

// setCapacity bounds the store to size entries; a negative size removes the bound.
func (cfg *cacheConfig) setCapacity(size int) {
	cfg.Lock()
	defer cfg.Unlock()
	cfg.maxSize = max(size, 0)
	cfg.bounded = size >= 0
}

func (cfg *cacheConfig) getTTL() time.Duration {
	cfg.RLock()
	defer cfg.RUnlock()
	return cfg.ttl
}

func (cfg *cacheConfig) setTTL(ttl time.Duration) {
	cfg.Lock()
	defer cfg.Unlock()
	cfg.ttl = max(ttl, 0)
}

func (cfg *cacheConfig) getSweepInterval() time.Duration {
	cfg.RLock()
	defer cfg.RUnlock()
	return cfg.sweepInterval
}

func (cfg *cacheConfig) setSweepInterval(interval time.Duration) {
	cfg.Lock()
	defer cfg.Unlock()
	if interval <= 0 {
		interval = types.DefaultSweepInterval
	}
	cfg.sweepInterval = interval
}

// settings are construction-time collaborators.
type settings struct {
	logger *zap.Logger
	clock  utils.Clock
}

// Option configures collaborators of a cache at construction time.
type Option func(*settings)

// WithLogger sets the logger used by the sweeper and the shutdown path.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithClock replaces the time source used for timestamps and age checks.
func WithClock(clock utils.Clock) Option {
	return func(s *settings) {
		if clock != nil {
			s.clock = clock
		}
	}
}

func newSettings(opts []Option) settings {
	s := settings{
		logger: zap.NewNop(),
		clock:  utils.SystemClock{},
	}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
