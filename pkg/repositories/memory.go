package repositories

import (
	"sync"

	"github.com/google/uuid"
)

// memoryCollection is a mutex-guarded, id-keyed record set that
// preserves insertion order for listing. Every in-memory repository
// is a thin wrapper around one of these; records are stored and
// returned by value so callers never alias store state.
type memoryCollection[T any] struct {
	mu      sync.RWMutex
	records map[uuid.UUID]T
	order   []uuid.UUID
}

func newMemoryCollection[T any]() *memoryCollection[T] {
	return &memoryCollection[T]{records: make(map[uuid.UUID]T)}
}

// insert stores a copy of the record under id.
func (c *memoryCollection[T]) insert(id uuid.UUID, record T) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.records[id]; !exists {
		c.order = append(c.order, id)
	}
	c.records[id] = record
}

// get returns a copy of the record under id.
func (c *memoryCollection[T]) get(id uuid.UUID) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	record, ok := c.records[id]
	return record, ok
}

// update applies mutate to the record under id while holding the
// write lock, so concurrent updates cannot interleave. Returns the
// updated record, or false if the id is absent (the collection is
// left unchanged).
func (c *memoryCollection[T]) update(id uuid.UUID, mutate func(*T)) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	record, ok := c.records[id]
	if !ok {
		var zero T
		return zero, false
	}
	mutate(&record)
	c.records[id] = record
	return record, true
}

// list returns copies of the records matching keep, in insertion
// order.
func (c *memoryCollection[T]) list(keep func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var out []T
	for _, id := range c.order {
		if record := c.records[id]; keep(record) {
			out = append(out, record)
		}
	}
	return out
}

// find returns the first record matching pred, in insertion order.
func (c *memoryCollection[T]) find(pred func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for _, id := range c.order {
		if record := c.records[id]; pred(record) {
			return record, true
		}
	}
	var zero T
	return zero, false
}

// ownedBy matches records whose owner pointer equals userID. Records
// without an owner are never listed.
func ownedBy[T any](userID uuid.UUID, owner func(T) *uuid.UUID) func(T) bool {
	return func(record T) bool {
		id := owner(record)
		return id != nil && *id == userID
	}
}
