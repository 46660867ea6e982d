// Package wasmbind exposes the boundary surface to WebAssembly guests as a
// wazero host module.
//
// Guests address buffers and strings by uint32 handle; payload bytes cross
// the boundary through guest linear memory. The host module is named
// "wippy:bstr/surface" and exports the flat operation set with kebab-case
// names (bytes-alloc, bstr-from-utf8, ...).
//
//	rt := wazero.NewRuntime(ctx)
//	defer rt.Close(ctx)
//
//	binding := wasmbind.New(boundary.NewSurface())
//	closer, err := binding.Register(ctx, rt)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer closer.Close(ctx)
//
// Length parameters accept the NPOS32 sentinel, meaning the input in guest
// memory is terminated by a zero code unit and its length is found by
// scanning.
//
// The dup operations allocate inside the guest through its exported
// cabi_realloc (or malloc) and transfer ownership to the guest, which must
// return the memory through bstr-mem-free to keep allocator symmetry. The
// binding tracks those allocations; one Binding serves one guest module.
package wasmbind
