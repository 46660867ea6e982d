// Package bstr provides immutable, reference-counted byte buffers and UTF-8
// strings that can be shared across a stable binary interface.
//
// The two container types, Bytes and String, are cheap value handles over a
// shared storage cell. Cloning and slicing never copy payload bytes; they
// bump an atomic reference count on the underlying cell. Owned cells draw
// their backing memory from a size-classed pool and return it when the last
// handle is released; borrowed cells wrap caller-supplied memory that the
// engine never reclaims.
//
// # Architecture Overview
//
// The library is organized into several packages with distinct responsibilities:
//
//	bstr/              Root package: Bytes, String, storage cells, base64 codec
//	├── transcode/     Stateless UTF-16/UTF-32/wide-character conversion
//	├── errors/        Structured error types for debugging
//	├── boundary/      Flat handle-table surface for external callers
//	└── wasmbind/      wazero host-module binding of the boundary surface
//
// # Quick Start
//
// Build, share, and slice a buffer:
//
//	buf := bstr.CopyFromSlice([]byte{1, 2, 3, 4, 5})
//	defer buf.Release()
//
//	mid := buf.Slice(1, 4) // [2 3 4], no copy
//	defer mid.Release()
//
//	s, err := bstr.FromUTF8([]byte("héllo"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer s.Release()
//
// # Ownership Model
//
// Every constructor documents whether the result is owned or borrowed.
// Owned handles must eventually be released, once per handle value; Release
// on an already-released or empty handle is a no-op. Borrowed handles wrap
// external memory whose lifetime and immutability are the caller's
// obligation; releasing them never frees anything.
//
// # Thread Safety
//
// Content is immutable after a handle is published, so concurrent reads
// through independent handles need no synchronization. Clone, Slice, and
// Release are safe to call from any goroutine; the reference count is the
// only shared mutable state. A single handle variable is NOT safe for
// concurrent mutation (Release/Swap) from multiple goroutines, exactly like
// any other Go value.
package bstr
