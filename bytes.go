package bstr

import "bytes"

// Bytes is an immutable view into a shared storage cell: a cell reference
// plus an offset and length. The zero value is the canonical empty buffer;
// it holds no storage and needs no Release.
type Bytes struct {
	cell *cell
	off  int
	n    int
}

// NewBytes returns the canonical empty buffer.
func NewBytes() Bytes {
	return Bytes{}
}

// Alloc returns an owned buffer of length n with unspecified contents. The
// creator may fill it through Data before sharing the handle; once shared,
// contents are immutable.
func Alloc(n int) Bytes {
	if n <= 0 {
		return Bytes{}
	}
	return Bytes{cell: newCell(poolAlloc(n), Owned), n: n}
}

// Zalloc returns an owned, zero-filled buffer of length n.
func Zalloc(n int) Bytes {
	b := Alloc(n)
	if b.cell != nil {
		clear(b.cell.data[:b.n])
	}
	return b
}

// BytesFromStatic wraps data in a borrowed cell without copying. The caller
// guarantees data stays alive and unmodified for as long as any handle
// derived from the result exists; Release never frees it.
func BytesFromStatic(data []byte) Bytes {
	if len(data) == 0 {
		return Bytes{}
	}
	return Bytes{cell: newCell(data, Borrowed), n: len(data)}
}

// CopyFromSlice copies data into a fresh owned cell, decoupling the result
// from the source's lifetime and mutability.
func CopyFromSlice(data []byte) Bytes {
	if len(data) == 0 {
		return Bytes{}
	}
	b := Alloc(len(data))
	copy(b.cell.data[:b.n], data)
	return b
}

// BytesFromString returns a byte-buffer view of s. No bytes are copied; the
// storage cell gains one reference.
func BytesFromString(s String) Bytes {
	return s.Bytes()
}

// bytesFromOwned adopts an engine-allocated slice as an owned cell without
// copying. The caller must not retain data.
func bytesFromOwned(data []byte) Bytes {
	if len(data) == 0 {
		return Bytes{}
	}
	return Bytes{cell: newCell(data, Owned), n: len(data)}
}

// Data returns the viewed bytes. The slice is valid until the handle is
// released; callers must not write through it once the handle is shared.
func (b Bytes) Data() []byte {
	if b.cell == nil {
		return nil
	}
	return b.cell.data[b.off : b.off+b.n : b.off+b.n]
}

// Len returns the number of bytes in the view.
func (b Bytes) Len() int {
	return b.n
}

// IsEmpty reports whether the view has zero length.
func (b Bytes) IsEmpty() bool {
	return b.n == 0
}

// Clone returns a second handle to the same bytes. No payload is copied;
// the storage cell gains one reference. The clone must be released
// independently.
func (b Bytes) Clone() Bytes {
	if b.cell != nil {
		b.cell.acquire()
	}
	return b
}

// Slice returns a view of [start, stop). Both bounds are clamped into
// [0, Len()]; stop == NPOS means through the end. The result shares the
// parent's storage cell and must be released independently. Safe to call
// concurrently with other reads of b.
func (b Bytes) Slice(start, stop int) Bytes {
	if stop > b.n {
		stop = b.n
	}
	if stop < 0 {
		stop = 0
	}
	if start > stop {
		start = stop
	}
	if start < 0 {
		start = 0
	}
	if start == stop || b.cell == nil {
		return Bytes{}
	}
	b.cell.acquire()
	return Bytes{cell: b.cell, off: b.off + start, n: stop - start}
}

// Release drops this handle's reference and resets the handle to the
// canonical empty buffer. Releasing an empty or already-released handle is
// a no-op.
func (b *Bytes) Release() {
	c := b.cell
	*b = Bytes{}
	if c != nil {
		c.release()
	}
}

// Swap exchanges the contents of two handles in O(1). Total ownership is
// conserved, so no reference counts change. Swapping a handle with itself
// is a no-op.
func (b *Bytes) Swap(other *Bytes) {
	if b != other {
		*b, *other = *other, *b
	}
}

// Equal reports value equality: same length and identical bytes. Handles
// over different cells with equal content compare equal.
func (b Bytes) Equal(other Bytes) bool {
	if b.n != other.n {
		return false
	}
	if b.cell == other.cell && b.off == other.off {
		return true
	}
	return bytes.Equal(b.Data(), other.Data())
}
