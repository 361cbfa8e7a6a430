package types

import (
	"cmp"
	"time"
)

// ICacheInMemory defines a generic in-memory cache bounded by insertion order and expiring by TTL.
// WithMaxSize bounds the number of entries; the oldest inserted entry is evicted first.
// WithTTL sets the time-to-live for every entry and starts the background sweeper.
// WithSweepInterval sets the pause between two background sweeps.
// Put stores a value and returns the previous one, if the key was present.
// Get, Exists, Keys and Values never expose expired entries.
// Remove deletes a key whether or not it has expired.
// Close stops the sweeper, waits for it and releases the stored entries.
type ICacheInMemory[K cmp.Ordered, V any] interface {
	WithMaxSize(size int) ICacheInMemory[K, V]
	WithTTL(ttl time.Duration) ICacheInMemory[K, V]
	WithSweepInterval(interval time.Duration) ICacheInMemory[K, V]

	Put(key K, value V) (V, bool)
	Get(key K) (V, bool)
	Exists(key K) bool
	Remove(key K) (V, bool)
	Keys() []K
	Values() []V

	PutBatch(items map[K]V)
	GetBatch(keys []K) []BatchNode[K, V]

	Len() int
	Clear()
	SweeperState() SweeperState
	Close() error
}
