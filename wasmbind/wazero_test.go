package wasmbind

import (
	"bytes"
	"context"
	"testing"

	"github.com/tetratelabs/wazero"

	"github.com/wippyai/bstr/boundary"
)

// minimalGuest is a wasm module with a single exported one-page memory and
// no code. Enough to exercise the memory adapter against a real guest.
var minimalGuest = []byte{
	0x00, 0x61, 0x73, 0x6d, 0x01, 0x00, 0x00, 0x00, // magic + version
	0x05, 0x03, 0x01, 0x00, 0x01, // memory section: 1 memory, min 1 page
	0x07, 0x0a, 0x01, 0x06, 'm', 'e', 'm', 'o', 'r', 'y', 0x02, 0x00, // export "memory"
}

func newRuntime(t *testing.T) (context.Context, wazero.Runtime) {
	t.Helper()
	ctx := context.Background()
	rt := wazero.NewRuntime(ctx)
	t.Cleanup(func() { rt.Close(ctx) })
	return ctx, rt
}

func TestWrapMemory(t *testing.T) {
	ctx, rt := newRuntime(t)

	mod, err := rt.Instantiate(ctx, minimalGuest)
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}

	mem := WrapMemory(mod.Memory())
	if mem.Size() != 65536 {
		t.Fatalf("size = %d, want one page", mem.Size())
	}

	if err := mem.Write(128, []byte("guest data")); err != nil {
		t.Fatalf("write failed: %v", err)
	}
	got, err := mem.Read(128, 10)
	if err != nil {
		t.Fatalf("read failed: %v", err)
	}
	if !bytes.Equal(got, []byte("guest data")) {
		t.Fatalf("read = %q", got)
	}

	if _, err := mem.Read(65530, 100); err == nil {
		t.Fatal("expected out-of-bounds read error")
	}
	if err := mem.Write(65530, make([]byte, 100)); err == nil {
		t.Fatal("expected out-of-bounds write error")
	}
}

func TestBinding_AgainstGuestMemory(t *testing.T) {
	ctx, rt := newRuntime(t)

	mod, err := rt.Instantiate(ctx, minimalGuest)
	if err != nil {
		t.Fatalf("instantiate failed: %v", err)
	}

	b := New(boundary.NewSurface())
	defer b.Surface().Close()

	mem := WrapMemory(mod.Memory())
	if !mod.Memory().Write(0, []byte("héllo\x00")) {
		t.Fatal("staging write failed")
	}

	h := b.StringFromUTF8(mem, mem.Size(), 0, NPOS32)
	if string(b.Surface().StringData(h)) != "héllo" {
		t.Fatalf("data = %q", b.Surface().StringData(h))
	}

	if ok := b.StringRead(mem, h, 256); ok != 1 {
		t.Fatal("read back failed")
	}
	got, _ := mod.Memory().Read(256, 6)
	if !bytes.Equal(got, []byte("héllo")) {
		t.Fatalf("guest memory = %q", got)
	}
}

func TestRegister(t *testing.T) {
	ctx, rt := newRuntime(t)

	b := New(boundary.NewSurface())
	defer b.Surface().Close()

	host, err := b.Register(ctx, rt)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}
	defer host.Close(ctx)

	for _, name := range []string{
		"bytes-new", "bytes-alloc", "bytes-zalloc", "bytes-slice",
		"bytes-clone", "bytes-release", "bytes-swap", "bytes-size",
		"base64-encode", "base64-decode",
		"bstr-new", "bstr-from-bytes", "bytes-from-bstr",
		"bstr-clone", "bstr-release", "bstr-swap", "bstr-size",
		"bytes-copy-from-slice", "bytes-read",
		"bstr-from-utf8", "bstr-from-utf16", "bstr-from-utf32", "bstr-read",
		"bstr-dup-utf8", "bstr-dup-utf16", "bstr-dup-utf32", "bstr-mem-free",
	} {
		if host.ExportedFunction(name) == nil {
			t.Fatalf("export %q missing", name)
		}
	}
}

func TestRegister_ScalarOperations(t *testing.T) {
	ctx, rt := newRuntime(t)

	b := New(boundary.NewSurface())
	defer b.Surface().Close()

	host, err := b.Register(ctx, rt)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	res, err := host.ExportedFunction("bytes-alloc").Call(ctx, 32)
	if err != nil {
		t.Fatalf("bytes-alloc failed: %v", err)
	}
	h := res[0]
	if h == 0 {
		t.Fatal("expected live handle")
	}

	res, err = host.ExportedFunction("bytes-size").Call(ctx, h)
	if err != nil {
		t.Fatalf("bytes-size failed: %v", err)
	}
	if res[0] != 32 {
		t.Fatalf("size = %d, want 32", res[0])
	}

	res, err = host.ExportedFunction("bytes-slice").Call(ctx, h, 8, 16)
	if err != nil {
		t.Fatalf("bytes-slice failed: %v", err)
	}
	sub := res[0]
	if res, _ = host.ExportedFunction("bytes-size").Call(ctx, sub); res[0] != 8 {
		t.Fatalf("slice size = %d, want 8", res[0])
	}

	if _, err = host.ExportedFunction("bytes-release").Call(ctx, sub); err != nil {
		t.Fatalf("bytes-release failed: %v", err)
	}
	if _, err = host.ExportedFunction("bytes-release").Call(ctx, h); err != nil {
		t.Fatalf("bytes-release failed: %v", err)
	}
	if n := b.Surface().HandleCount(); n != 0 {
		t.Fatalf("live handles = %d, want 0", n)
	}
}

func TestRegister_Base64ThroughHost(t *testing.T) {
	ctx, rt := newRuntime(t)

	b := New(boundary.NewSurface())
	defer b.Surface().Close()

	host, err := b.Register(ctx, rt)
	if err != nil {
		t.Fatalf("register failed: %v", err)
	}

	// Stage a buffer host-side, run the codec through the exported surface.
	bh := b.Surface().BytesCopyFromSlice([]byte{0x00, 0x01, 0x02})

	res, err := host.ExportedFunction("base64-encode").Call(ctx, uint64(bh))
	if err != nil {
		t.Fatalf("base64-encode failed: %v", err)
	}
	sh := boundary.Handle(res[0])
	if string(b.Surface().StringData(sh)) != "AAEC" {
		t.Fatalf("encode = %q", b.Surface().StringData(sh))
	}

	res, err = host.ExportedFunction("base64-decode").Call(ctx, res[0])
	if err != nil {
		t.Fatalf("base64-decode failed: %v", err)
	}
	if !bytes.Equal(b.Surface().BytesData(boundary.Handle(res[0])), []byte{0x00, 0x01, 0x02}) {
		t.Fatalf("decode = %v", b.Surface().BytesData(boundary.Handle(res[0])))
	}
}
