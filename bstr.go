package bstr

// NPOS is the "no position" sentinel. As a slice bound it means "through the
// end of the buffer". On boundary operations that accept a length it means
// "unspecified; scan for a zero terminator".
const NPOS = int(^uint(0) >> 1)

// Memory is the byte-addressed view of an external caller's memory, such as
// WASM linear memory. Payload bytes cross the boundary surface through it.
type Memory interface {
	Read(offset uint32, length uint32) ([]byte, error)
	Write(offset uint32, data []byte) error
}

// Allocator allocates memory inside an external caller's address space.
// Used by duplicate-out operations that transfer ownership to the caller.
type Allocator interface {
	Alloc(size, align uint32) (uint32, error)
	Free(ptr, size, align uint32)
}
