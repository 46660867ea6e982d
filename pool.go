package bstr

import "sync"

// Pool size classes for owned cell backing arrays. Allocations above the
// largest class fall through to the heap and are left to the GC on release.
const (
	poolSize64   = 1 << 6  // 64 bytes
	poolSize1K   = 1 << 10 // 1 KB
	poolSize16K  = 1 << 14 // 16 KB
	poolSize256K = 1 << 18 // 256 KB
	poolSize4M   = 1 << 22 // 4 MB
)

var (
	pool64   = sync.Pool{New: func() any { return make([]byte, poolSize64) }}
	pool1K   = sync.Pool{New: func() any { return make([]byte, poolSize1K) }}
	pool16K  = sync.Pool{New: func() any { return make([]byte, poolSize16K) }}
	pool256K = sync.Pool{New: func() any { return make([]byte, poolSize256K) }}
	pool4M   = sync.Pool{New: func() any { return make([]byte, poolSize4M) }}
)

// poolAlloc returns a slice of length size backed by the smallest fitting
// pool class. Contents are unspecified; callers that need zeroed memory must
// clear it.
func poolAlloc(size int) []byte {
	switch {
	case size <= poolSize64:
		return pool64.Get().([]byte)[:size]
	case size <= poolSize1K:
		return pool1K.Get().([]byte)[:size]
	case size <= poolSize16K:
		return pool16K.Get().([]byte)[:size]
	case size <= poolSize256K:
		return pool256K.Get().([]byte)[:size]
	case size <= poolSize4M:
		return pool4M.Get().([]byte)[:size]
	default:
		return make([]byte, size)
	}
}

// poolFree returns a slice to its pool by capacity. Slices that did not come
// from a pool are left to the GC.
func poolFree(buf []byte) {
	if buf == nil {
		return
	}

	switch cap(buf) {
	case poolSize64:
		pool64.Put(buf[:cap(buf)])
	case poolSize1K:
		pool1K.Put(buf[:cap(buf)])
	case poolSize16K:
		pool16K.Put(buf[:cap(buf)])
	case poolSize256K:
		pool256K.Put(buf[:cap(buf)])
	case poolSize4M:
		pool4M.Put(buf[:cap(buf)])
	}
}
