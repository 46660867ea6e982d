package errors

import (
	"errors"
	"fmt"
	"strings"
	"testing"
)

func TestError_Message(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		want string
	}{
		{
			name: "phase_and_kind",
			err:  &Error{Phase: PhaseValidate, Kind: KindInvalidUTF8, Offset: -1},
			want: "[validate] invalid_utf8",
		},
		{
			name: "with_offset",
			err:  &Error{Phase: PhaseTranscode, Kind: KindUnpairedSurrogate, Offset: 3},
			want: "[transcode] unpaired_surrogate at offset 3",
		},
		{
			name: "with_detail",
			err:  &Error{Phase: PhaseDecode, Kind: KindInvalidBase64, Offset: -1, Detail: "length not a multiple of 4"},
			want: "[decode] invalid_base64: length not a multiple of 4",
		},
		{
			name: "with_cause",
			err:  &Error{Phase: PhaseBoundary, Kind: KindOutOfBounds, Offset: -1, Cause: errors.New("short read")},
			want: "[boundary] out_of_bounds (caused by: short read)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("message = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestError_Is(t *testing.T) {
	err := InvalidBase64(7, "bad character")

	if !errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidBase64}) {
		t.Fatal("expected match on phase and kind")
	}
	if errors.Is(err, &Error{Phase: PhaseDecode, Kind: KindInvalidUTF8}) {
		t.Fatal("unexpected match on different kind")
	}
	if errors.Is(err, &Error{Phase: PhaseValidate, Kind: KindInvalidBase64}) {
		t.Fatal("unexpected match on different phase")
	}
	if errors.Is(err, errors.New("bad character")) {
		t.Fatal("unexpected match on plain error")
	}
}

func TestError_Unwrap(t *testing.T) {
	cause := fmt.Errorf("guest allocator trap")
	err := Wrap(PhaseBoundary, KindAllocation, cause, "cabi_realloc failed")

	if !errors.Is(err, cause) {
		t.Fatal("expected wrapped cause to be found")
	}
	if errors.Unwrap(err) != cause {
		t.Fatal("Unwrap did not return the cause")
	}
}

func TestBuilder(t *testing.T) {
	err := New(PhaseTranscode, KindInvalidScalar).
		Offset(4).
		Value(uint32(0x110000)).
		Detail("unit 0x%X above the scalar range", 0x110000).
		Build()

	if err.Phase != PhaseTranscode || err.Kind != KindInvalidScalar {
		t.Fatalf("phase/kind = %s/%s", err.Phase, err.Kind)
	}
	if err.Offset != 4 {
		t.Fatalf("offset = %d, want 4", err.Offset)
	}
	if err.Value != uint32(0x110000) {
		t.Fatalf("value = %v", err.Value)
	}
	if !strings.Contains(err.Detail, "0x110000") {
		t.Fatalf("detail = %q", err.Detail)
	}
}

func TestBuilder_DefaultOffset(t *testing.T) {
	err := New(PhaseAlloc, KindAllocation).Build()
	if err.Offset != -1 {
		t.Fatalf("default offset = %d, want -1", err.Offset)
	}
	if strings.Contains(err.Error(), "offset") {
		t.Fatalf("non-positional error mentions an offset: %q", err.Error())
	}
}

func TestInvalidUTF8_PreviewBounded(t *testing.T) {
	data := make([]byte, 100)
	for i := range data {
		data[i] = 0xFF
	}

	err := InvalidUTF8(PhaseValidate, data)
	// 32 preview bytes render as 64 hex characters.
	if strings.Count(err.Detail, "ff") > 32 {
		t.Fatalf("preview not bounded: %q", err.Detail)
	}
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name string
		err  *Error
		kind Kind
	}{
		{"unpaired_surrogate", UnpairedSurrogate(2, 0xD800), KindUnpairedSurrogate},
		{"invalid_scalar", InvalidScalar(0, 0xD800), KindInvalidScalar},
		{"invalid_handle", InvalidHandle(PhaseBoundary, 42), KindInvalidHandle},
		{"type_mismatch", TypeMismatch(PhaseBoundary, 7, "bytes", "string"), KindTypeMismatch},
		{"out_of_bounds", OutOfBounds(PhaseBoundary, 16, 8), KindOutOfBounds},
		{"allocation", AllocationFailed(PhaseBoundary, 1024), KindAllocation},
		{"invalid_input", InvalidInput(PhaseTranscode, "ragged input"), KindInvalidInput},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.err.Kind != tt.kind {
				t.Fatalf("kind = %s, want %s", tt.err.Kind, tt.kind)
			}
			if tt.err.Error() == "" {
				t.Fatal("empty message")
			}
		})
	}
}
