package src

import (
	"cmp"
	"context"
	"github.com/BarushevEA/fifo_ttl_cache/internal/utils"
	"github.com/BarushevEA/fifo_ttl_cache/types"
	"go.uber.org/zap"
	"maps"
	"slices"
	"sync"
	"sync/atomic"
	"time"
)

// FifoCacheWithTTL is a concurrent key-value cache with an optional size bound,
// enforced by evicting the oldest put key, and an optional TTL, enforced on every
// read and by a background sweeper.
//
// The store, the insertion ledger and the config each have their own lock. Every
// mutation takes the store write lock first and updates the ledger under it, so
// the ledger holds exactly the stored keys once a call returns.
type FifoCacheWithTTL[K cmp.Ordered, V any] struct {
	ctx     context.Context
	config  *cacheConfig
	store   *entryStore[K, V]
	ledger  ILedger[K]
	sweeper *sweeper

	logger *zap.Logger
	clock  utils.Clock

	isClosed  atomic.Bool
	closeOnce sync.Once
	closeErr  error
}

// NewFifoCacheWithTTL creates an empty, unbounded cache without TTL.
// ctx bounds the lifetime of the background sweeper.
func NewFifoCacheWithTTL[K cmp.Ordered, V any](ctx context.Context, opts ...Option) *FifoCacheWithTTL[K, V] {
	if ctx == nil {
		ctx = context.Background()
	}
	s := newSettings(opts)

	return &FifoCacheWithTTL[K, V]{
		ctx:     ctx,
		config:  newCacheConfig(),
		store:   newEntryStore[K, V](),
		ledger:  NewInsertionLedger[K](),
		sweeper: &sweeper{},
		logger:  s.logger,
		clock:   s.clock,
	}
}

// WithMaxSize bounds the cache to size entries. A negative size removes the bound.
func (cache *FifoCacheWithTTL[K, V]) WithMaxSize(size int) types.ICacheInMemory[K, V] {
	cache.config.setCapacity(size)
	return cache
}

// WithTTL sets the time-to-live of every entry and starts the sweeper on first use.
// A non-positive ttl disables expiration.
func (cache *FifoCacheWithTTL[K, V]) WithTTL(ttl time.Duration) types.ICacheInMemory[K, V] {
	cache.config.setTTL(ttl)
	if ttl > 0 && !cache.isClosed.Load() {
		cache.sweeper.start(cache.ctx, cache.sweepLoop)
	}
	return cache
}

// WithSweepInterval sets the pause between sweeps; a non-positive interval restores the default.
func (cache *FifoCacheWithTTL[K, V]) WithSweepInterval(interval time.Duration) types.ICacheInMemory[K, V] {
	cache.config.setSweepInterval(interval)
	return cache
}

// Put stores value under key and returns the value it replaced, if any.
// When a size bound is set and the cache is full, the oldest put key is evicted first.
func (cache *FifoCacheWithTTL[K, V]) Put(key K, value V) (V, bool) {
	maxSize, bounded := cache.config.capacity()
	now := cache.clock.Now()

	cache.store.Lock()
	defer cache.store.Unlock()

	if cache.isClosed.Load() {
		return *new(V), false
	}

	var previous V
	var existed bool
	if bounded {
		previous, existed = cache.evictLocked(key, maxSize)
	}
	if replaced, ok := cache.store.upsertLocked(key, value, now); ok {
		previous, existed = replaced, true
	}
	cache.ledger.PushBack(key)
	return previous, existed
}

// evictLocked drops the oldest present key while the store is at maxSize or above.
// Ledger keys already gone from the store are skipped, and an empty ledger ends the
// attempt so the insert always proceeds. When the victim is key itself its value is
// returned as the replaced one.
func (cache *FifoCacheWithTTL[K, V]) evictLocked(key K, maxSize int) (V, bool) {
	if cache.store.lenLocked() < maxSize {
		return *new(V), false
	}

	for {
		victim, ok := cache.ledger.PopFront()
		if !ok {
			return *new(V), false
		}
		value, removed := cache.store.deleteLocked(victim)
		if !removed {
			continue
		}
		if victim == key {
			return value, true
		}
		return *new(V), false
	}
}

// Get returns the value for key unless it is missing or expired.
func (cache *FifoCacheWithTTL[K, V]) Get(key K) (V, bool) {
	ttl := cache.config.getTTL()
	return cache.store.lookup(key, cache.clock.Now(), ttl)
}

// Exists reports whether Get would find key.
func (cache *FifoCacheWithTTL[K, V]) Exists(key K) bool {
	_, ok := cache.Get(key)
	return ok
}

// Remove deletes key even if it has expired and returns the stored value.
func (cache *FifoCacheWithTTL[K, V]) Remove(key K) (V, bool) {
	cache.store.Lock()
	defer cache.store.Unlock()

	cache.ledger.Remove(key)
	return cache.store.deleteLocked(key)
}

// Keys returns the live keys in ascending order. The slice is a snapshot.
func (cache *FifoCacheWithTTL[K, V]) Keys() []K {
	ttl := cache.config.getTTL()
	keys, _ := cache.store.snapshot(cache.clock.Now(), ttl, true, false)
	return keys
}

// Values returns the live values in ascending key order. The slice is a snapshot.
func (cache *FifoCacheWithTTL[K, V]) Values() []V {
	ttl := cache.config.getTTL()
	_, values := cache.store.snapshot(cache.clock.Now(), ttl, false, true)
	return values
}

// PutBatch puts every item, in ascending key order.
func (cache *FifoCacheWithTTL[K, V]) PutBatch(items map[K]V) {
	for _, key := range slices.Sorted(maps.Keys(items)) {
		cache.Put(key, items[key])
	}
}

// GetBatch looks up every key and reports the result in request order.
func (cache *FifoCacheWithTTL[K, V]) GetBatch(keys []K) []types.BatchNode[K, V] {
	nodes := make([]types.BatchNode[K, V], 0, len(keys))
	for _, key := range keys {
		value, ok := cache.Get(key)
		nodes = append(nodes, types.BatchNode[K, V]{Key: key, Value: value, Exists: ok})
	}
	return nodes
}

// Len returns the number of stored entries, including expired ones not yet swept.
func (cache *FifoCacheWithTTL[K, V]) Len() int {
	return cache.store.len()
}

// Clear drops every entry.
func (cache *FifoCacheWithTTL[K, V]) Clear() {
	cache.store.Lock()
	defer cache.store.Unlock()

	cache.store.clearLocked()
	cache.ledger.Clear()
}

// SweeperState reports where the background sweeper is in its lifecycle.
func (cache *FifoCacheWithTTL[K, V]) SweeperState() types.SweeperState {
	return cache.sweeper.getState()
}

// Close stops the sweeper, waits for it to exit and releases the entries.
// It returns an error wrapping ErrSweeperFault if the sweeper did not exit cleanly.
// Close is idempotent.
func (cache *FifoCacheWithTTL[K, V]) Close() error {
	cache.closeOnce.Do(func() {
		cache.isClosed.Store(true)

		cache.closeErr = cache.sweeper.stop()
		if cache.closeErr != nil {
			cache.logger.Error("sweeper did not exit cleanly", zap.Error(cache.closeErr))
		} else {
			cache.logger.Debug("sweeper stopped")
		}

		cache.Clear()
	})
	return cache.closeErr
}
