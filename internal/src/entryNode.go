package src

import (
	"cmp"
	"time"
)

// EntryNode is a stored value stamped with the time it was put.
type EntryNode[K cmp.Ordered, V any] struct {
	key       K
	data      V
	createdAt time.Time
}

// NewEntryNode creates a node for key holding data written at now.
func NewEntryNode[K cmp.Ordered, V any](key K, data V, now time.Time) IEntryNode[K, V] {
	return &EntryNode[K, V]{
		key:       key,
		data:      data,
		createdAt: now,
	}
}

func (node *EntryNode[K, V]) GetKey() K {
	return node.key
}

func (node *EntryNode[K, V]) GetData() V {
	return node.data
}

// SetData overwrites the value and restarts the TTL window.
func (node *EntryNode[K, V]) SetData(data V, now time.Time) {
	node.data = data
	node.createdAt = now
}

func (node *EntryNode[K, V]) GetCreatedAt() time.Time {
	return node.createdAt
}

// IsLive is true while now - createdAt < ttl.
func (node *EntryNode[K, V]) IsLive(now time.Time, ttl time.Duration) bool {
	if ttl <= 0 {
		return true
	}
	return now.Sub(node.createdAt) < ttl
}

func (node *EntryNode[K, V]) Clear() {
	node.data = *new(V)
	node.createdAt = time.Time{}
}

func lessEntryNode[K cmp.Ordered, V any](a, b IEntryNode[K, V]) bool {
	return cmp.Less(a.GetKey(), b.GetKey())
}
