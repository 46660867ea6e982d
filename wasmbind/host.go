package wasmbind

import (
	"context"

	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
	"go.uber.org/zap"

	"github.com/wippyai/bstr/boundary"
)

// ModuleName is the host module name guests import the surface under.
const ModuleName = "wippy:bstr/surface"

// Register instantiates the surface as a wazero host module. The returned
// module should be closed together with the runtime.
func (b *Binding) Register(ctx context.Context, rt wazero.Runtime) (api.Module, error) {
	s := b.surface
	hb := rt.NewHostModuleBuilder(ModuleName)

	// Memory-free operations close directly over the surface.
	hb.NewFunctionBuilder().WithFunc(func(context.Context) uint32 {
		return uint32(s.BytesNew())
	}).Export("bytes-new")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, n uint32) uint32 {
		return uint32(s.BytesAlloc(n))
	}).Export("bytes-alloc")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, n uint32) uint32 {
		return uint32(s.BytesZalloc(n))
	}).Export("bytes-zalloc")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.BytesFromString(boundary.Handle(h)))
	}).Export("bytes-from-bstr")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h, start, stop uint32) uint32 {
		return uint32(s.BytesSlice(boundary.Handle(h), start, stop))
	}).Export("bytes-slice")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.BytesClone(boundary.Handle(h)))
	}).Export("bytes-clone")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) {
		s.BytesRelease(boundary.Handle(h))
	}).Export("bytes-release")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, a, c uint32) {
		s.BytesSwap(boundary.Handle(a), boundary.Handle(c))
	}).Export("bytes-swap")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return s.BytesSize(boundary.Handle(h))
	}).Export("bytes-size")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.Base64Encode(boundary.Handle(h)))
	}).Export("base64-encode")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.Base64Decode(boundary.Handle(h)))
	}).Export("base64-decode")

	hb.NewFunctionBuilder().WithFunc(func(context.Context) uint32 {
		return uint32(s.StringNew())
	}).Export("bstr-new")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.StringFromBytes(boundary.Handle(h)))
	}).Export("bstr-from-bytes")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return uint32(s.StringClone(boundary.Handle(h)))
	}).Export("bstr-clone")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) {
		s.StringRelease(boundary.Handle(h))
	}).Export("bstr-release")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, a, c uint32) {
		s.StringSwap(boundary.Handle(a), boundary.Handle(c))
	}).Export("bstr-swap")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, h uint32) uint32 {
		return s.StringSize(boundary.Handle(h))
	}).Export("bstr-size")

	// Payload-carrying operations go through the caller's linear memory.
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) uint32 {
		mem := WrapMemory(mod.Memory())
		return uint32(b.BytesCopyFromSlice(mem, mem.Size(), ptr, length))
	}).Export("bytes-copy-from-slice")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, h, dst uint32) uint32 {
		return b.BytesRead(WrapMemory(mod.Memory()), boundary.Handle(h), dst)
	}).Export("bytes-read")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) uint32 {
		mem := WrapMemory(mod.Memory())
		return uint32(b.StringFromUTF8(mem, mem.Size(), ptr, length))
	}).Export("bstr-from-utf8")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) uint32 {
		mem := WrapMemory(mod.Memory())
		return uint32(b.StringFromUTF16(mem, mem.Size(), ptr, length))
	}).Export("bstr-from-utf16")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr, length uint32) uint32 {
		mem := WrapMemory(mod.Memory())
		return uint32(b.StringFromUTF32(mem, mem.Size(), ptr, length))
	}).Export("bstr-from-utf32")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, h, dst uint32) uint32 {
		return b.StringRead(WrapMemory(mod.Memory()), boundary.Handle(h), dst)
	}).Export("bstr-read")

	// Dup operations allocate inside the guest.
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, h uint32) uint32 {
		alloc, err := NewGuestAllocator(mod)
		if err != nil {
			Logger().Warn("dup without guest allocator", zap.Error(err))
			return 0
		}
		return b.DupUTF8(WrapMemory(mod.Memory()), alloc, boundary.Handle(h))
	}).Export("bstr-dup-utf8")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, h uint32) uint32 {
		alloc, err := NewGuestAllocator(mod)
		if err != nil {
			Logger().Warn("dup without guest allocator", zap.Error(err))
			return 0
		}
		return b.DupUTF16(WrapMemory(mod.Memory()), alloc, boundary.Handle(h))
	}).Export("bstr-dup-utf16")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, h uint32) uint32 {
		alloc, err := NewGuestAllocator(mod)
		if err != nil {
			Logger().Warn("dup without guest allocator", zap.Error(err))
			return 0
		}
		return b.DupUTF32(WrapMemory(mod.Memory()), alloc, boundary.Handle(h))
	}).Export("bstr-dup-utf32")
	hb.NewFunctionBuilder().WithFunc(func(_ context.Context, mod api.Module, ptr uint32) {
		alloc, err := NewGuestAllocator(mod)
		if err != nil {
			return
		}
		b.MemFree(alloc, ptr)
	}).Export("bstr-mem-free")

	return hb.Instantiate(ctx)
}
