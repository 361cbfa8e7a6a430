package src

import (
	"container/list"
	"sync"
)

// InsertionLedger records keys in the order they were last put, oldest at the front.
// Every key appears at most once; writing a recorded key moves it to the back.
type InsertionLedger[K comparable] struct {
	sync.RWMutex
	order *list.List
	index map[K]*list.Element
}

func NewInsertionLedger[K comparable]() ILedger[K] {
	return &InsertionLedger[K]{
		order: list.New(),
		index: make(map[K]*list.Element),
	}
}

func (ledger *InsertionLedger[K]) PushBack(key K) {
	ledger.Lock()
	defer ledger.Unlock()

	if element, ok := ledger.index[key]; ok {
		ledger.order.MoveToBack(element)
		return
	}
	ledger.index[key] = ledger.order.PushBack(key)
}

func (ledger *InsertionLedger[K]) PopFront() (K, bool) {
	ledger.Lock()
	defer ledger.Unlock()

	front := ledger.order.Front()
	if front == nil {
		return *new(K), false
	}
	key := ledger.order.Remove(front).(K)
	delete(ledger.index, key)
	return key, true
}

func (ledger *InsertionLedger[K]) Remove(key K) bool {
	ledger.Lock()
	defer ledger.Unlock()

	element, ok := ledger.index[key]
	if !ok {
		return false
	}
	ledger.order.Remove(element)
	delete(ledger.index, key)
	return true
}

func (ledger *InsertionLedger[K]) Retain(keep func(key K) bool) int {
	ledger.Lock()
	defer ledger.Unlock()

	dropped := 0
	for element := ledger.order.Front(); element != nil; {
		next := element.Next()
		key := element.Value.(K)
		if !keep(key) {
			ledger.order.Remove(element)
			delete(ledger.index, key)
			dropped++
		}
		element = next
	}
	return dropped
}

func (ledger *InsertionLedger[K]) Len() int {
	ledger.RLock()
	defer ledger.RUnlock()
	return ledger.order.Len()
}

func (ledger *InsertionLedger[K]) Keys() []K {
	ledger.RLock()
	defer ledger.RUnlock()

	keys := make([]K, 0, ledger.order.Len())
	for element := ledger.order.Front(); element != nil; element = element.Next() {
		keys = append(keys, element.Value.(K))
	}
	return keys
}

func (ledger *InsertionLedger[K]) Clear() {
	ledger.Lock()
	defer ledger.Unlock()

	ledger.order.Init()
	clear(ledger.index)
}
