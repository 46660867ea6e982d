package wasmbind

import (
	"encoding/binary"
	"sync"

	"go.uber.org/zap"

	"github.com/wippyai/bstr"
	"github.com/wippyai/bstr/boundary"
	"github.com/wippyai/bstr/errors"
)

// NPOS32 is the guest-facing "no position" sentinel; see boundary.NPOS32.
const NPOS32 = boundary.NPOS32

type allocRec struct {
	size  uint32
	align uint32
}

// Binding connects one guest module to a Surface. It tracks guest-side
// allocations made by the dup operations so bstr-mem-free can return them
// with the right size and alignment.
type Binding struct {
	surface *boundary.Surface
	allocs  map[uint32]allocRec
	mu      sync.Mutex
}

// New creates a binding over surface.
func New(surface *boundary.Surface) *Binding {
	return &Binding{
		surface: surface,
		allocs:  make(map[uint32]allocRec),
	}
}

// Surface returns the bound surface.
func (b *Binding) Surface() *boundary.Surface {
	return b.surface
}

// readIn copies input from guest memory. length == NPOS32 means the input
// is terminated by a zero unit; the length is found by scanning.
func readIn(mem bstr.Memory, memSize, ptr, length, unit uint32) ([]byte, error) {
	if length == NPOS32 {
		if ptr > memSize {
			return nil, errors.OutOfBounds(errors.PhaseBoundary, int(ptr), 0)
		}
		tail, err := mem.Read(ptr, memSize-ptr)
		if err != nil {
			return nil, err
		}
		return tail[:terminatedBytes(tail, unit)], nil
	}

	byteLen := uint64(length) * uint64(unit)
	if byteLen > boundary.MaxAlloc {
		return nil, errors.InvalidInput(errors.PhaseBoundary, "input length over limit")
	}
	return mem.Read(ptr, uint32(byteLen))
}

// terminatedBytes returns the byte length before the first all-zero unit,
// or the largest whole-unit length when no terminator is present.
func terminatedBytes(data []byte, unit uint32) int {
	u := int(unit)
	for i := 0; i+u <= len(data); i += u {
		zero := true
		for k := 0; k < u; k++ {
			if data[i+k] != 0 {
				zero = false
				break
			}
		}
		if zero {
			return i
		}
	}
	return len(data) / u * u
}

// WASM linear memory is little-endian by specification.

func decodeU16(data []byte) []uint16 {
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(data[i*2:])
	}
	return units
}

func decodeU32(data []byte) []uint32 {
	units := make([]uint32, len(data)/4)
	for i := range units {
		units[i] = binary.LittleEndian.Uint32(data[i*4:])
	}
	return units
}

func encodeU16(units []uint16) []byte {
	out := make([]byte, len(units)*2)
	for i, u := range units {
		binary.LittleEndian.PutUint16(out[i*2:], u)
	}
	return out
}

func encodeU32(units []uint32) []byte {
	out := make([]byte, len(units)*4)
	for i, u := range units {
		binary.LittleEndian.PutUint32(out[i*4:], u)
	}
	return out
}

// degrade reports an unreadable input range and returns an empty handle of
// the kind produced by op.
func (b *Binding) degrade(op string, err error, kind boundary.ContainerKind) boundary.Handle {
	Logger().Debug("guest input degraded to empty", zap.String("op", op), zap.Error(err))
	if kind == boundary.ContainerString {
		return b.surface.StringNew()
	}
	return b.surface.BytesNew()
}

// BytesCopyFromSlice copies [ptr, ptr+length) from guest memory into a new
// owned buffer handle.
func (b *Binding) BytesCopyFromSlice(mem bstr.Memory, memSize, ptr, length uint32) boundary.Handle {
	data, err := readIn(mem, memSize, ptr, length, 1)
	if err != nil {
		return b.degrade("bytes-copy-from-slice", err, boundary.ContainerBytes)
	}
	return b.surface.BytesCopyFromSlice(data)
}

// BytesRead writes a buffer handle's content to dst in guest memory.
// Returns 1 on success, 0 on a dead handle or out-of-bounds destination.
func (b *Binding) BytesRead(mem bstr.Memory, h boundary.Handle, dst uint32) uint32 {
	data := b.surface.BytesData(h)
	if data == nil {
		return 0
	}
	if err := mem.Write(dst, data); err != nil {
		Logger().Debug("bytes-read destination out of bounds", zap.Error(err))
		return 0
	}
	return 1
}

// StringFromUTF8 validates [ptr, ptr+length) as UTF-8 and copies it into a
// new string handle.
func (b *Binding) StringFromUTF8(mem bstr.Memory, memSize, ptr, length uint32) boundary.Handle {
	data, err := readIn(mem, memSize, ptr, length, 1)
	if err != nil {
		return b.degrade("bstr-from-utf8", err, boundary.ContainerString)
	}
	return b.surface.StringFromUTF8(data)
}

// StringFromUTF16 transcodes length UTF-16 code units from guest memory.
func (b *Binding) StringFromUTF16(mem bstr.Memory, memSize, ptr, length uint32) boundary.Handle {
	data, err := readIn(mem, memSize, ptr, length, 2)
	if err != nil {
		return b.degrade("bstr-from-utf16", err, boundary.ContainerString)
	}
	return b.surface.StringFromUTF16(decodeU16(data))
}

// StringFromUTF32 transcodes length UTF-32 code units from guest memory.
func (b *Binding) StringFromUTF32(mem bstr.Memory, memSize, ptr, length uint32) boundary.Handle {
	data, err := readIn(mem, memSize, ptr, length, 4)
	if err != nil {
		return b.degrade("bstr-from-utf32", err, boundary.ContainerString)
	}
	return b.surface.StringFromUTF32(decodeU32(data))
}

// StringRead writes a string handle's UTF-8 bytes to dst in guest memory.
// Returns 1 on success.
func (b *Binding) StringRead(mem bstr.Memory, h boundary.Handle, dst uint32) uint32 {
	data := b.surface.StringData(h)
	if data == nil {
		return 0
	}
	if err := mem.Write(dst, data); err != nil {
		Logger().Debug("bstr-read destination out of bounds", zap.Error(err))
		return 0
	}
	return 1
}

// DupUTF8 copies a string handle into guest memory as nul-terminated UTF-8.
// The guest owns the returned pointer and must release it with MemFree.
func (b *Binding) DupUTF8(mem bstr.Memory, alloc bstr.Allocator, h boundary.Handle) uint32 {
	data := b.surface.DupUTF8(h)
	if data == nil {
		return 0
	}
	return b.writeOut(mem, alloc, data, 1)
}

// DupUTF16 copies a string handle into guest memory as nul-terminated
// little-endian UTF-16.
func (b *Binding) DupUTF16(mem bstr.Memory, alloc bstr.Allocator, h boundary.Handle) uint32 {
	units := b.surface.DupUTF16(h)
	if units == nil {
		return 0
	}
	return b.writeOut(mem, alloc, encodeU16(units), 2)
}

// DupUTF32 copies a string handle into guest memory as nul-terminated
// little-endian UTF-32.
func (b *Binding) DupUTF32(mem bstr.Memory, alloc bstr.Allocator, h boundary.Handle) uint32 {
	units := b.surface.DupUTF32(h)
	if units == nil {
		return 0
	}
	return b.writeOut(mem, alloc, encodeU32(units), 4)
}

func (b *Binding) writeOut(mem bstr.Memory, alloc bstr.Allocator, data []byte, align uint32) uint32 {
	size := uint32(len(data))
	ptr, err := alloc.Alloc(size, align)
	if err != nil {
		Logger().Warn("guest allocation failed", zap.Uint32("size", size), zap.Error(err))
		return 0
	}
	if err := mem.Write(ptr, data); err != nil {
		alloc.Free(ptr, size, align)
		Logger().Warn("guest write failed", zap.Uint32("ptr", ptr), zap.Error(err))
		return 0
	}

	b.mu.Lock()
	b.allocs[ptr] = allocRec{size: size, align: align}
	b.mu.Unlock()
	return ptr
}

// MemFree returns a dup allocation to the guest allocator. Unknown pointers
// are ignored.
func (b *Binding) MemFree(alloc bstr.Allocator, ptr uint32) {
	b.mu.Lock()
	rec, ok := b.allocs[ptr]
	if ok {
		delete(b.allocs, ptr)
	}
	b.mu.Unlock()

	if ok {
		alloc.Free(ptr, rec.size, rec.align)
	}
}
