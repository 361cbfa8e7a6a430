package src

import (
	"cmp"
	"time"
)

// IEntryNode defines an interface for a stored value together with the moment it was written.
// GetKey returns the key the node is ordered by.
// GetData returns the stored value.
// SetData replaces the stored value and restarts its age at now.
// GetCreatedAt returns the moment of the last write.
// IsLive reports whether the node is younger than ttl at now; a non-positive ttl keeps every node live.
// Clear resets the node's state, removing data and timestamp.
type IEntryNode[K cmp.Ordered, V any] interface {
	GetKey() K
	GetData() V
	SetData(data V, now time.Time)
	GetCreatedAt() time.Time
	IsLive(now time.Time, ttl time.Duration) bool
	Clear()
}

// ILedger defines the insertion-order record used to pick eviction victims.
// PushBack records a write of key; a key already present moves to the back.
// PopFront removes and returns the oldest recorded key.
// Remove drops key from the record and reports whether it was there.
// Retain keeps only the keys for which keep returns true and returns how many were dropped.
// Len returns the number of recorded keys.
// Keys returns the recorded keys from oldest to newest.
// Clear drops every recorded key.
type ILedger[K comparable] interface {
	PushBack(key K)
	PopFront() (K, bool)
	Remove(key K) bool
	Retain(keep func(key K) bool) int
	Len() int
	Keys() []K
	Clear()
}
