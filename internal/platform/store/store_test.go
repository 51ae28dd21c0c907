package store

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type widget struct {
	ID    int64
	Name  string
	Owner int64
}

func newWidget(name string, owner int64) func(int64) widget {
	return func(id int64) widget {
		return widget{ID: id, Name: name, Owner: owner}
	}
}

func TestCreateAssignsMonotonicIDs(t *testing.T) {
	c := NewCollection[widget]()

	for i := 1; i <= 5; i++ {
		w := c.Create(newWidget("w", 0))
		assert.Equal(t, int64(i), w.ID)
	}
}

func TestIDsNeverReusedAfterRemove(t *testing.T) {
	c := NewCollection[widget]()
	first := c.Create(newWidget("a", 0))
	second := c.Create(newWidget("b", 0))

	require.True(t, c.Remove(first.ID))
	require.True(t, c.Remove(second.ID))

	third := c.Create(newWidget("c", 0))
	assert.Equal(t, int64(3), third.ID, "removed ids must not be reissued")
}

func TestGetAndUpdate(t *testing.T) {
	c := NewCollection[widget]()
	w := c.Create(newWidget("original", 7))

	got, ok := c.Get(w.ID)
	require.True(t, ok)
	assert.Equal(t, "original", got.Name)

	updated, ok := c.Update(w.ID, func(cur widget) widget {
		cur.Name = "renamed"
		return cur
	})
	require.True(t, ok)
	assert.Equal(t, "renamed", updated.Name)
	assert.Equal(t, int64(7), updated.Owner, "untouched fields survive update")

	_, ok = c.Get(999)
	assert.False(t, ok)
	_, ok = c.Update(999, func(cur widget) widget { return cur })
	assert.False(t, ok)
}

func TestListFiltersBeforePaginating(t *testing.T) {
	c := NewCollection[widget]()
	for i := 0; i < 25; i++ {
		owner := int64(i % 2) // 13 with owner 0, 12 with owner 1
		c.Create(newWidget("w", owner))
	}

	byOwner := func(w widget) bool { return w.Owner == 0 }

	items, total := c.List(byOwner, 1, 10)
	assert.Equal(t, 13, total, "total counts matches before pagination")
	assert.Len(t, items, 10)

	items, total = c.List(byOwner, 2, 10)
	assert.Equal(t, 13, total)
	assert.Len(t, items, 3)

	items, total = c.List(byOwner, 3, 10)
	assert.Equal(t, 13, total)
	assert.Empty(t, items)
}

func TestListDefaults(t *testing.T) {
	c := NewCollection[widget]()
	for i := 0; i < 15; i++ {
		c.Create(newWidget("w", 0))
	}

	items, total := c.List(nil, 0, 0)
	assert.Equal(t, 15, total)
	assert.Len(t, items, 10, "page/limit default to 1/10")
}

func TestRemoveKeepsIndexConsistent(t *testing.T) {
	c := NewCollection[widget]()
	a := c.Create(newWidget("a", 0))
	b := c.Create(newWidget("b", 0))
	d := c.Create(newWidget("d", 0))

	require.True(t, c.Remove(b.ID))
	assert.False(t, c.Remove(b.ID), "second remove of same id fails")

	got, ok := c.Get(a.ID)
	require.True(t, ok)
	assert.Equal(t, "a", got.Name)

	got, ok = c.Get(d.ID)
	require.True(t, ok)
	assert.Equal(t, "d", got.Name)

	assert.Equal(t, 2, c.Len())
}

func TestConcurrentCreatesYieldUniqueIDs(t *testing.T) {
	c := NewCollection[widget]()

	const goroutines = 16
	const perGoroutine = 200

	var wg sync.WaitGroup
	ids := make(chan int64, goroutines*perGoroutine)
	for g := 0; g < goroutines; g++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perGoroutine; i++ {
				w := c.Create(newWidget("w", 0))
				ids <- w.ID
			}
		}()
	}
	wg.Wait()
	close(ids)

	seen := make(map[int64]bool)
	for id := range ids {
		assert.False(t, seen[id], "duplicate id %d", id)
		seen[id] = true
	}
	assert.Len(t, seen, goroutines*perGoroutine)
	assert.Equal(t, goroutines*perGoroutine, c.Len(), "no appends dropped")
}

func TestAllReturnsSnapshotCopy(t *testing.T) {
	c := NewCollection[widget]()
	c.Create(newWidget("a", 0))

	snap := c.All()
	snap[0].Name = "mutated"

	got, _ := c.Get(1)
	assert.Equal(t, "a", got.Name, "mutating a snapshot must not touch the store")
}

func TestFind(t *testing.T) {
	c := NewCollection[widget]()
	c.Create(newWidget("a", 1))
	c.Create(newWidget("b", 2))

	w, ok := c.Find(func(w widget) bool { return w.Owner == 2 })
	require.True(t, ok)
	assert.Equal(t, "b", w.Name)

	_, ok = c.Find(func(w widget) bool { return w.Owner == 9 })
	assert.False(t, ok)
}

func TestWhere(t *testing.T) {
	c := NewCollection[widget]()
	c.Create(newWidget("a", 1))
	c.Create(newWidget("b", 2))
	c.Create(newWidget("c", 1))

	got := c.Where(func(w widget) bool { return w.Owner == 1 })
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].Name)
	assert.Equal(t, "c", got[1].Name)

	none := c.Where(func(w widget) bool { return w.Owner == 9 })
	assert.NotNil(t, none)
	assert.Empty(t, none)
}
