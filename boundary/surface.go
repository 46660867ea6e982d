package boundary

import (
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bstr"
	"github.com/wippyai/bstr/errors"
)

// MaxAlloc caps a single boundary allocation at 1 GB. Lengths arrive from
// across a trust boundary; anything larger is treated as corrupt and yields
// handle 0.
const MaxAlloc = 1 << 30

// Surface is the flat operation set over opaque handles. All methods are
// safe for concurrent use.
//
// Value-producing operations follow the degrade-to-empty policy: malformed
// input and dead source handles yield a live handle to the canonical empty
// value, never an error. Only a closed surface or an oversized allocation
// yields handle 0.
type Surface struct {
	table     table
	observers []Observer
	obsMu     sync.RWMutex
}

// NewSurface returns an empty surface.
func NewSurface() *Surface {
	return &Surface{}
}

// Close releases every live handle and rejects further inserts. Readers
// that won the race against drain hold their own counted share, so these
// releases cannot free storage out from under them.
func (s *Surface) Close() error {
	for _, e := range s.table.drain() {
		e.bytes.Release()
		e.str.Release()
	}
	return nil
}

// HandleCount returns the number of live handles, for leak diagnostics.
func (s *Surface) HandleCount() int {
	return s.table.count()
}

// Subscribe adds an observer for handle lifecycle events.
func (s *Surface) Subscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	s.observers = append(s.observers, o)
}

// Unsubscribe removes an observer.
func (s *Surface) Unsubscribe(o Observer) {
	s.obsMu.Lock()
	defer s.obsMu.Unlock()
	for i, obs := range s.observers {
		if obs == o {
			s.observers = append(s.observers[:i], s.observers[i+1:]...)
			return
		}
	}
}

func (s *Surface) notify(e Event) {
	s.obsMu.RLock()
	defer s.obsMu.RUnlock()
	for _, o := range s.observers {
		o.OnHandleEvent(e)
	}
}

func (s *Surface) insertBytes(b bstr.Bytes) Handle {
	h := s.table.insert(entry{bytes: b, kind: ContainerBytes})
	if h == 0 {
		b.Release()
		return 0
	}
	s.notify(Event{Type: EventCreated, Handle: h, Kind: ContainerBytes, Size: b.Len()})
	return h
}

func (s *Surface) insertString(v bstr.String) Handle {
	h := s.table.insert(entry{str: v, kind: ContainerString})
	if h == 0 {
		v.Release()
		return 0
	}
	s.notify(Event{Type: EventCreated, Handle: h, Kind: ContainerString, Size: v.Len()})
	return h
}

// degradeBytes reports a degraded conversion and returns an empty buffer
// handle.
func (s *Surface) degradeBytes(op string, err error) Handle {
	Logger().Debug("conversion degraded to empty", zap.String("op", op), zap.Error(err))
	return s.insertBytes(bstr.NewBytes())
}

func (s *Surface) degradeString(op string, err error) Handle {
	Logger().Debug("conversion degraded to empty", zap.String("op", op), zap.Error(err))
	return s.insertString(bstr.NewString())
}

// Bytes operations

// BytesNew returns a handle to the canonical empty buffer.
func (s *Surface) BytesNew() Handle {
	return s.insertBytes(bstr.NewBytes())
}

// BytesAlloc returns a handle to an owned buffer of length n with
// unspecified contents.
func (s *Surface) BytesAlloc(n uint32) Handle {
	if n > MaxAlloc {
		Logger().Warn("allocation over limit rejected", zap.Uint32("size", n))
		return 0
	}
	return s.insertBytes(bstr.Alloc(int(n)))
}

// BytesZalloc returns a handle to an owned, zero-filled buffer of length n.
func (s *Surface) BytesZalloc(n uint32) Handle {
	if n > MaxAlloc {
		Logger().Warn("allocation over limit rejected", zap.Uint32("size", n))
		return 0
	}
	return s.insertBytes(bstr.Zalloc(int(n)))
}

// BytesFromStatic wraps data without copying. The caller guarantees data
// outlives every handle derived from the result.
func (s *Surface) BytesFromStatic(data []byte) Handle {
	return s.insertBytes(bstr.BytesFromStatic(data))
}

// BytesCopyFromSlice copies data into a fresh owned buffer.
func (s *Surface) BytesCopyFromSlice(data []byte) Handle {
	return s.insertBytes(bstr.CopyFromSlice(data))
}

// BytesFromString returns a byte-buffer view of a string handle's content.
func (s *Surface) BytesFromString(h Handle) Handle {
	v, ok := s.table.getString(h)
	if !ok {
		return s.degradeBytes("bytes-from-string", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	defer v.Release()
	return s.insertBytes(v.Bytes())
}

// BytesSlice returns a zero-copy slice [start, stop) of a buffer handle.
// stop == NPOS32 means through the end; bounds are clamped.
func (s *Surface) BytesSlice(h Handle, start, stop uint32) Handle {
	b, ok := s.table.getBytes(h)
	if !ok {
		return s.degradeBytes("bytes-slice", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	defer b.Release()
	stopN := bstr.NPOS
	if stop != NPOS32 {
		stopN = int(stop)
	}
	return s.insertBytes(b.Slice(int(start), stopN))
}

// BytesClone returns a second handle to the same buffer without copying.
func (s *Surface) BytesClone(h Handle) Handle {
	b, ok := s.table.getBytes(h)
	if !ok {
		return s.degradeBytes("bytes-clone", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	// The table share is already counted; hand it to the new entry.
	return s.insertBytes(b)
}

// BytesRelease releases a buffer handle. Releasing a dead handle is a no-op.
func (s *Surface) BytesRelease(h Handle) {
	e, ok := s.table.remove(h, ContainerBytes)
	if !ok {
		return
	}
	size := e.size()
	e.bytes.Release()
	s.notify(Event{Type: EventReleased, Handle: h, Kind: ContainerBytes, Size: size})
}

// BytesSwap exchanges the contents of two buffer handles.
func (s *Surface) BytesSwap(a, b Handle) {
	s.table.swap(a, b, ContainerBytes)
}

// BytesSize returns the buffer length, or 0 for a dead handle.
func (s *Surface) BytesSize(h Handle) uint32 {
	b, ok := s.table.getBytes(h)
	if !ok {
		return 0
	}
	n := uint32(b.Len())
	b.Release()
	return n
}

// BytesData returns the buffer contents. The slice is valid only while the
// handle is live; callers must not write through it.
func (s *Surface) BytesData(h Handle) []byte {
	b, ok := s.table.getBytes(h)
	if !ok {
		return nil
	}
	data := b.Data()
	b.Release()
	return data
}

// Base64Encode encodes a buffer handle into a new string handle.
func (s *Surface) Base64Encode(h Handle) Handle {
	b, ok := s.table.getBytes(h)
	if !ok {
		return s.degradeString("base64-encode", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	defer b.Release()
	return s.insertString(bstr.Base64Encode(b))
}

// Base64Decode decodes a base64 string handle into a new buffer handle.
// Malformed input degrades to an empty buffer.
func (s *Surface) Base64Decode(h Handle) Handle {
	v, ok := s.table.getString(h)
	if !ok {
		return s.degradeBytes("base64-decode", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	defer v.Release()
	out, err := bstr.Base64Decode(v)
	if err != nil {
		return s.degradeBytes("base64-decode", err)
	}
	return s.insertBytes(out)
}

// String operations

// StringNew returns a handle to the canonical empty string.
func (s *Surface) StringNew() Handle {
	return s.insertString(bstr.NewString())
}

// StringFromStatic wraps a Go string without copying.
func (s *Surface) StringFromStatic(str string) Handle {
	return s.insertString(bstr.StringFromStatic(str))
}

// StringFromBytes validates a buffer handle as UTF-8 and shares it as a
// string. Invalid UTF-8 degrades to the empty string.
func (s *Surface) StringFromBytes(h Handle) Handle {
	b, ok := s.table.getBytes(h)
	if !ok {
		return s.degradeString("string-from-bytes", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	defer b.Release()
	v, err := bstr.StringFromBytes(b)
	if err != nil {
		return s.degradeString("string-from-bytes", err)
	}
	return s.insertString(v)
}

// StringFromUTF8 validates and copies UTF-8 bytes. Invalid input degrades
// to the empty string.
func (s *Surface) StringFromUTF8(data []byte) Handle {
	v, err := bstr.FromUTF8(data)
	if err != nil {
		return s.degradeString("string-from-utf8", err)
	}
	return s.insertString(v)
}

// StringFromUTF16 transcodes UTF-16 code units. Unpaired surrogates degrade
// to the empty string.
func (s *Surface) StringFromUTF16(units []uint16) Handle {
	v, err := bstr.FromUTF16(units)
	if err != nil {
		return s.degradeString("string-from-utf16", err)
	}
	return s.insertString(v)
}

// StringFromUTF32 transcodes UTF-32 code units. Non-scalar values degrade
// to the empty string.
func (s *Surface) StringFromUTF32(units []uint32) Handle {
	v, err := bstr.FromUTF32(units)
	if err != nil {
		return s.degradeString("string-from-utf32", err)
	}
	return s.insertString(v)
}

// StringFromWide transcodes native-endian wide characters, selecting the
// UTF-16 or UTF-32 path by the platform wide width.
func (s *Surface) StringFromWide(raw []byte) Handle {
	v, err := bstr.FromWide(raw)
	if err != nil {
		return s.degradeString("string-from-wide", err)
	}
	return s.insertString(v)
}

// StringClone returns a second handle to the same string without copying.
func (s *Surface) StringClone(h Handle) Handle {
	v, ok := s.table.getString(h)
	if !ok {
		return s.degradeString("string-clone", errors.InvalidHandle(errors.PhaseBoundary, uint32(h)))
	}
	// The table share is already counted; hand it to the new entry.
	return s.insertString(v)
}

// StringRelease releases a string handle. Releasing a dead handle is a
// no-op.
func (s *Surface) StringRelease(h Handle) {
	e, ok := s.table.remove(h, ContainerString)
	if !ok {
		return
	}
	size := e.size()
	e.str.Release()
	s.notify(Event{Type: EventReleased, Handle: h, Kind: ContainerString, Size: size})
}

// StringSwap exchanges the contents of two string handles.
func (s *Surface) StringSwap(a, b Handle) {
	s.table.swap(a, b, ContainerString)
}

// StringSize returns the string length in bytes, or 0 for a dead handle.
func (s *Surface) StringSize(h Handle) uint32 {
	v, ok := s.table.getString(h)
	if !ok {
		return 0
	}
	n := uint32(v.Len())
	v.Release()
	return n
}

// StringData returns the string's UTF-8 bytes. The slice is valid only
// while the handle is live.
func (s *Surface) StringData(h Handle) []byte {
	v, ok := s.table.getString(h)
	if !ok {
		return nil
	}
	data := v.Data()
	v.Release()
	return data
}

// DupUTF8 returns an independently owned, nul-terminated UTF-8 copy of a
// string handle's content, or nil for a dead handle.
func (s *Surface) DupUTF8(h Handle) []byte {
	v, ok := s.table.getString(h)
	if !ok {
		return nil
	}
	defer v.Release()
	return v.DupUTF8()
}

// DupUTF16 returns an independently owned, nul-terminated UTF-16 encoding,
// or nil for a dead handle.
func (s *Surface) DupUTF16(h Handle) []uint16 {
	v, ok := s.table.getString(h)
	if !ok {
		return nil
	}
	defer v.Release()
	return v.DupUTF16()
}

// DupUTF32 returns an independently owned, nul-terminated UTF-32 encoding,
// or nil for a dead handle.
func (s *Surface) DupUTF32(h Handle) []uint32 {
	v, ok := s.table.getString(h)
	if !ok {
		return nil
	}
	defer v.Release()
	return v.DupUTF32()
}
