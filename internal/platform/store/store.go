// Package store provides the in-memory collection primitive backing the
// record graph. Each Collection guards its items and id counter with a single
// lock, so id assignment and append are atomic with respect to concurrent
// writers. State is volatile by design: a process restart loses all data.
package store

import "sync"

const (
	defaultPage  = 1
	defaultLimit = 10
)

// Collection is a concurrency-safe, append-ordered set of records of one
// entity type. Ids are per-collection, monotonically increasing and never
// reused, even after a removal.
type Collection[T any] struct {
	mu     sync.RWMutex
	nextID int64
	byID   map[int64]int
	items  []T
}

// NewCollection returns an empty collection whose first id will be 1.
func NewCollection[T any]() *Collection[T] {
	return &Collection[T]{byID: make(map[int64]int)}
}

// Create assigns the next id, builds the record under the write lock and
// appends it. The build callback must be pure; it receives the assigned id
// and returns the full record to store.
func (c *Collection[T]) Create(build func(id int64) T) T {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	id := c.nextID
	item := build(id)
	c.byID[id] = len(c.items)
	c.items = append(c.items, item)
	return item
}

// Get returns a copy of the record with the given id.
func (c *Collection[T]) Get(id int64) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	idx, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	return c.items[idx], true
}

// Update replaces the record with the given id by apply(current) and returns
// the new value. The apply callback runs under the write lock and must not
// block.
func (c *Collection[T]) Update(id int64, apply func(T) T) (T, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byID[id]
	if !ok {
		var zero T
		return zero, false
	}
	updated := apply(c.items[idx])
	c.items[idx] = updated
	return updated, true
}

// List returns the requested page of records matching filter, plus the total
// match count computed before pagination. A nil filter matches everything.
// Non-positive page/limit fall back to 1/10.
func (c *Collection[T]) List(filter func(T) bool, page, limit int) ([]T, int) {
	if page <= 0 {
		page = defaultPage
	}
	if limit <= 0 {
		limit = defaultLimit
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	matched := make([]T, 0, len(c.items))
	for _, item := range c.items {
		if filter == nil || filter(item) {
			matched = append(matched, item)
		}
	}

	total := len(matched)
	start := (page - 1) * limit
	if start > total {
		start = total
	}
	end := start + limit
	if end > total {
		end = total
	}
	return matched[start:end], total
}

// All returns a snapshot copy of every record in insertion order.
func (c *Collection[T]) All() []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]T, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of stored records.
func (c *Collection[T]) Len() int {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return len(c.items)
}

// Remove deletes the record with the given id. The id is not reissued to
// later records. Only attachment catalogs use this; clinical collections are
// append-and-amend only.
func (c *Collection[T]) Remove(id int64) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	idx, ok := c.byID[id]
	if !ok {
		return false
	}
	c.items = append(c.items[:idx], c.items[idx+1:]...)
	delete(c.byID, id)
	for other, i := range c.byID {
		if i > idx {
			c.byID[other] = i - 1
		}
	}
	return true
}

// Where returns copies of every record matching filter, in insertion order.
// The result is never nil.
func (c *Collection[T]) Where(filter func(T) bool) []T {
	c.mu.RLock()
	defer c.mu.RUnlock()

	out := []T{}
	for _, item := range c.items {
		if filter(item) {
			out = append(out, item)
		}
	}
	return out
}

// Find returns a copy of the first record matching filter.
func (c *Collection[T]) Find(filter func(T) bool) (T, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, item := range c.items {
		if filter(item) {
			return item, true
		}
	}
	var zero T
	return zero, false
}
