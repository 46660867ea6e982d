// Package boundary exposes the bstr engine as a flat surface of operations
// over opaque uint32 handles, the shape required by callers on the far side
// of a stable binary interface.
//
// # Handle Table
//
// A Surface maps integer handles to live Bytes and String values:
//
//	s := boundary.NewSurface()
//	defer s.Close()
//
//	h := s.BytesCopyFromSlice([]byte{1, 2, 3, 4, 5})
//	mid := s.BytesSlice(h, 1, 4)
//
//	s.BytesRelease(mid)
//	s.BytesRelease(h)
//
// Handle 0 is never valid. Handles are typed: passing a string handle to a
// bytes operation (or vice versa) is rejected, not coerced.
//
// # Error Policy
//
// The surface preserves the degrade-to-empty contract of the binary
// interface: malformed UTF-8/UTF-16/UTF-32 or base64 input yields a handle
// to the canonical empty value of the appropriate type, never an error.
// Callers that need to distinguish empty from invalid should use the
// fallible constructors in the root bstr package instead. Degraded
// conversions are reported to the package logger at debug level.
//
// # Observers
//
// Register observers to track handle lifecycle events, for example to find
// leaks in an embedder:
//
//	s.Subscribe(boundary.ObserverFunc(func(e boundary.Event) {
//	    log.Printf("%v handle=%d", e.Type, e.Handle)
//	}))
//
// # Memory Management
//
// Handles are not garbage collected. The external caller must release every
// handle it was given; failure to do so leaks the underlying storage cells
// until Close. Close releases everything still live.
package boundary
