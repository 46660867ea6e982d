package wasmbind

import (
	"context"

	"github.com/tetratelabs/wazero/api"

	"github.com/wippyai/bstr/errors"
)

// Guest allocator entry points, in preference order. cabi_realloc is the
// Component Model canonical allocator; malloc/free is the libc fallback.
const (
	exportCabiRealloc = "cabi_realloc"
	exportMalloc      = "malloc"
	exportFree        = "free"
)

// GuestAllocator allocates inside a guest module through its exported
// allocator functions. Implements bstr.Allocator.
type GuestAllocator struct {
	realloc api.Function // cabi_realloc(old, oldSize, align, newSize) -> ptr
	malloc  api.Function
	free    api.Function
}

// NewGuestAllocator resolves the guest's allocator exports. The guest must
// export either cabi_realloc or malloc.
func NewGuestAllocator(mod api.Module) (*GuestAllocator, error) {
	a := &GuestAllocator{
		realloc: mod.ExportedFunction(exportCabiRealloc),
		malloc:  mod.ExportedFunction(exportMalloc),
		free:    mod.ExportedFunction(exportFree),
	}
	if a.realloc == nil && a.malloc == nil {
		return nil, errors.InvalidInput(errors.PhaseBoundary,
			"guest exports neither cabi_realloc nor malloc")
	}
	return a, nil
}

// Alloc allocates size bytes in guest memory.
func (a *GuestAllocator) Alloc(size, align uint32) (uint32, error) {
	var (
		res []uint64
		err error
	)
	if a.realloc != nil {
		res, err = a.realloc.Call(context.Background(), 0, 0, uint64(align), uint64(size))
	} else {
		res, err = a.malloc.Call(context.Background(), uint64(size))
	}
	if err != nil {
		return 0, errors.Wrap(errors.PhaseBoundary, errors.KindAllocation, err, "guest allocation failed")
	}
	ptr := uint32(res[0])
	if ptr == 0 && size > 0 {
		return 0, errors.AllocationFailed(errors.PhaseBoundary, size)
	}
	return ptr, nil
}

// Free returns memory to the guest allocator. With cabi_realloc, freeing is
// a reallocation to size zero.
func (a *GuestAllocator) Free(ptr, size, align uint32) {
	if ptr == 0 {
		return
	}
	if a.realloc != nil {
		_, _ = a.realloc.Call(context.Background(), uint64(ptr), uint64(size), uint64(align), 0)
		return
	}
	if a.free != nil {
		_, _ = a.free.Call(context.Background(), uint64(ptr))
	}
}
