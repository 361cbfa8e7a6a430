package src

import (
	"cmp"
	"github.com/google/btree"
	"sync"
	"time"
)

const storeDegree = 32

// entryStore is the ordered key -> node mapping guarded by a single reader/writer lock.
// Methods ending in Locked expect the caller to hold the write lock.
type entryStore[K cmp.Ordered, V any] struct {
	sync.RWMutex
	tree *btree.BTreeG[IEntryNode[K, V]]
}

func newEntryStore[K cmp.Ordered, V any]() *entryStore[K, V] {
	return &entryStore[K, V]{
		tree: btree.NewG[IEntryNode[K, V]](storeDegree, lessEntryNode[K, V]),
	}
}

func searchNode[K cmp.Ordered, V any](key K) IEntryNode[K, V] {
	return &EntryNode[K, V]{key: key}
}

// lookup returns the node value if it is present and live.
func (store *entryStore[K, V]) lookup(key K, now time.Time, ttl time.Duration) (V, bool) {
	store.RLock()
	defer store.RUnlock()

	node, ok := store.tree.Get(searchNode[K, V](key))
	if !ok || !node.IsLive(now, ttl) {
		return *new(V), false
	}
	return node.GetData(), true
}

func (store *entryStore[K, V]) len() int {
	store.RLock()
	defer store.RUnlock()
	return store.tree.Len()
}

// upsertLocked writes value at now and returns the previous stored value, expired or not.
func (store *entryStore[K, V]) upsertLocked(key K, value V, now time.Time) (V, bool) {
	if node, ok := store.tree.Get(searchNode[K, V](key)); ok {
		previous := node.GetData()
		node.SetData(value, now)
		return previous, true
	}

	store.tree.ReplaceOrInsert(NewEntryNode(key, value, now))
	return *new(V), false
}

// deleteLocked removes key regardless of its age.
func (store *entryStore[K, V]) deleteLocked(key K) (V, bool) {
	node, ok := store.tree.Delete(searchNode[K, V](key))
	if !ok {
		return *new(V), false
	}
	data := node.GetData()
	node.Clear()
	return data, true
}

// snapshot copies live keys and values in ascending key order.
func (store *entryStore[K, V]) snapshot(now time.Time, ttl time.Duration, withKeys, withValues bool) ([]K, []V) {
	store.RLock()
	defer store.RUnlock()

	var keys []K
	var values []V
	if withKeys {
		keys = make([]K, 0, store.tree.Len())
	}
	if withValues {
		values = make([]V, 0, store.tree.Len())
	}

	store.tree.Ascend(func(node IEntryNode[K, V]) bool {
		if !node.IsLive(now, ttl) {
			return true
		}
		if withKeys {
			keys = append(keys, node.GetKey())
		}
		if withValues {
			values = append(values, node.GetData())
		}
		return true
	})
	return keys, values
}

func (store *entryStore[K, V]) lenLocked() int {
	return store.tree.Len()
}

func (store *entryStore[K, V]) hasLocked(key K) bool {
	return store.tree.Has(searchNode[K, V](key))
}

// deleteExpiredLocked drops every node that is no longer live and returns how many went.
func (store *entryStore[K, V]) deleteExpiredLocked(now time.Time, ttl time.Duration) int {
	if ttl <= 0 {
		return 0
	}

	var expired []IEntryNode[K, V]
	store.tree.Ascend(func(node IEntryNode[K, V]) bool {
		if !node.IsLive(now, ttl) {
			expired = append(expired, node)
		}
		return true
	})

	for _, node := range expired {
		store.tree.Delete(node)
		node.Clear()
	}
	return len(expired)
}

func (store *entryStore[K, V]) clearLocked() {
	store.tree.Clear(false)
}
