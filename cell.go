package bstr

import "sync/atomic"

// Ownership tags a storage cell as engine-owned or caller-borrowed.
type Ownership uint8

const (
	// Owned cells hold engine-allocated memory, recycled when the last
	// reference is released.
	Owned Ownership = iota
	// Borrowed cells wrap external memory the engine never frees. The
	// caller guarantees the memory outlives every handle derived from it
	// and is never modified while handles exist.
	Borrowed
)

// cell is the unit of ownership: a block of immutable bytes plus an atomic
// reference count. Many handles may view one cell concurrently; the count is
// the only mutable state.
type cell struct {
	data []byte
	refs atomic.Int32
	kind Ownership
}

// newCell wraps data in a cell with one reference.
func newCell(data []byte, kind Ownership) *cell {
	c := &cell{data: data, kind: kind}
	c.refs.Store(1)
	return c
}

// acquire adds one reference. Every acquire must be paired with a release.
func (c *cell) acquire() {
	c.refs.Add(1)
}

// release drops one reference. When the count of an Owned cell reaches zero
// the backing array goes back to the pool; any later access through a stale
// handle copy is a caller bug. Borrowed memory is never recycled.
func (c *cell) release() {
	n := c.refs.Add(-1)
	switch {
	case n == 0:
		if c.kind == Owned {
			data := c.data
			c.data = nil
			poolFree(data)
		}
	case n < 0:
		// A handle value was duplicated and released through both copies.
		panic("bstr: release of dead storage cell")
	}
}
