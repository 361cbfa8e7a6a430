package types

import (
	"errors"
	"fmt"
	"time"
)

// DefaultSweepInterval is the pause between two background sweeps when none is configured.
const DefaultSweepInterval = 50 * time.Millisecond

// ErrInvalidConfig is returned when a Config carries values the cache cannot honor.
var ErrInvalidConfig = errors.New("invalid cache config")

// BatchNode represents a node used in batch operations with key, value, and existence flag.
type BatchNode[K any, V any] struct {
	Key    K
	Value  V
	Exists bool
}

// Config describes the eviction setup of a cache.
// MaxSize nil means unbounded, a zero MaxSize evicts the previous entry on every new key.
// TTL <= 0 disables expiration. SweepInterval <= 0 falls back to DefaultSweepInterval.
type Config struct {
	MaxSize       *int
	TTL           time.Duration
	SweepInterval time.Duration
}

// DefaultConfig returns an unbounded cache config without expiration.
func DefaultConfig() Config {
	return Config{SweepInterval: DefaultSweepInterval}
}

// WithMaxSize returns a copy of the config bounded to size entries.
func (cfg Config) WithMaxSize(size int) Config {
	cfg.MaxSize = &size
	return cfg
}

// Validate reports the first field that cannot be applied.
func (cfg Config) Validate() error {
	if cfg.MaxSize != nil && *cfg.MaxSize < 0 {
		return fmt.Errorf("Config.Validate ERROR: max size %d is negative: %w", *cfg.MaxSize, ErrInvalidConfig)
	}
	if cfg.TTL < 0 {
		return fmt.Errorf("Config.Validate ERROR: ttl %s is negative: %w", cfg.TTL, ErrInvalidConfig)
	}
	if cfg.SweepInterval < 0 {
		return fmt.Errorf("Config.Validate ERROR: sweep interval %s is negative: %w", cfg.SweepInterval, ErrInvalidConfig)
	}
	return nil
}

// SweeperState is the lifecycle stage of the background sweeper.
type SweeperState int32

const (
	SweeperNotStarted SweeperState = iota
	SweeperRunning
	SweeperStopRequested
	SweeperStopped
)

func (s SweeperState) String() string {
	switch s {
	case SweeperNotStarted:
		return "not_started"
	case SweeperRunning:
		return "running"
	case SweeperStopRequested:
		return "stop_requested"
	case SweeperStopped:
		return "stopped"
	default:
		return fmt.Sprintf("SweeperState(%d)", int32(s))
	}
}
