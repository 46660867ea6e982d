package bstr

import "testing"

func TestPool_AllocSizes(t *testing.T) {
	for _, size := range []int{1, 63, 64, 65, 1024, 16384, 1 << 18, 1 << 22, 1<<22 + 1} {
		buf := poolAlloc(size)
		if len(buf) != size {
			t.Fatalf("poolAlloc(%d) length = %d", size, len(buf))
		}
		poolFree(buf)
	}
}

func TestPool_ReleaseRecyclesOwnedCell(t *testing.T) {
	// An owned cell's memory must return to the pool on the final release
	// and be handed out again.
	b := Alloc(poolSize1K)
	data := b.Data()
	data[0] = 0x42
	b.Release()

	// The next same-class allocation may observe recycled memory. Either
	// way it must be usable at full length.
	c := Alloc(poolSize1K)
	defer c.Release()
	if c.Len() != poolSize1K {
		t.Fatalf("recycled alloc length = %d", c.Len())
	}
}

func TestPool_BorrowedNeverRecycled(t *testing.T) {
	ext := make([]byte, poolSize64)
	ext[0] = 0x7F

	b := BytesFromStatic(ext)
	b.Release()

	if ext[0] != 0x7F {
		t.Fatal("borrowed memory modified by release")
	}
}
