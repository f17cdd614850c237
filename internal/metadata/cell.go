package metadata

import "sync/atomic"

// Cell is a single-assignment lazy value. Concurrent first readers may each
// run compute; the first stored result wins and the others are discarded.
// compute must be pure and deterministic.
type Cell[T any] struct {
	p atomic.Pointer[T]
}

// Get returns the stored value, computing and publishing it if needed.
func (c *Cell[T]) Get(compute func() T) T {
	if v := c.p.Load(); v != nil {
		return *v
	}
	v := compute()
	if c.p.CompareAndSwap(nil, &v) {
		return v
	}
	return *c.p.Load()
}

// Loaded reports whether a value has been published.
func (c *Cell[T]) Loaded() bool {
	return c.p.Load() != nil
}
