package errors

import (
	"fmt"
	"strings"
)

// Phase indicates where in processing the error occurred
type Phase string

const (
	PhaseAlloc     Phase = "alloc"     // storage allocation
	PhaseValidate  Phase = "validate"  // UTF-8 validation
	PhaseTranscode Phase = "transcode" // UTF-16/UTF-32/wide conversion
	PhaseDecode    Phase = "decode"    // base64 decoding
	PhaseBoundary  Phase = "boundary"  // flat surface / guest memory access
)

// Kind categorizes the error
type Kind string

const (
	KindInvalidUTF8       Kind = "invalid_utf8"
	KindUnpairedSurrogate Kind = "unpaired_surrogate"
	KindInvalidScalar     Kind = "invalid_scalar"
	KindInvalidBase64     Kind = "invalid_base64"
	KindOutOfBounds       Kind = "out_of_bounds"
	KindAllocation        Kind = "allocation"
	KindInvalidHandle     Kind = "invalid_handle"
	KindTypeMismatch      Kind = "type_mismatch"
	KindInvalidInput      Kind = "invalid_input"
)

// Error is the structured error type used throughout the library
type Error struct {
	Value  any
	Cause  error
	Phase  Phase
	Kind   Kind
	Offset int // byte or code-unit position of the offending input, -1 when not positional
	Detail string
}

// Error implements the error interface
func (e *Error) Error() string {
	var b strings.Builder

	b.WriteByte('[')
	b.WriteString(string(e.Phase))
	b.WriteString("] ")
	b.WriteString(string(e.Kind))

	if e.Offset >= 0 {
		fmt.Fprintf(&b, " at offset %d", e.Offset)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	if e.Cause != nil {
		b.WriteString(" (caused by: ")
		b.WriteString(e.Cause.Error())
		b.WriteByte(')')
	}

	return b.String()
}

// Unwrap returns the underlying error
func (e *Error) Unwrap() error {
	return e.Cause
}

// Is reports whether target matches this error
func (e *Error) Is(target error) bool {
	if t, ok := target.(*Error); ok {
		return e.Phase == t.Phase && e.Kind == t.Kind
	}
	return false
}

// Builder provides structured error construction
type Builder struct {
	err Error
}

// New creates a new error builder
func New(phase Phase, kind Kind) *Builder {
	return &Builder{
		err: Error{
			Phase:  phase,
			Kind:   kind,
			Offset: -1,
		},
	}
}

// Offset sets the position of the offending byte or code unit
func (b *Builder) Offset(off int) *Builder {
	b.err.Offset = off
	return b
}

// Value sets the offending value
func (b *Builder) Value(v any) *Builder {
	b.err.Value = v
	return b
}

// Cause sets the underlying error
func (b *Builder) Cause(err error) *Builder {
	b.err.Cause = err
	return b
}

// Detail sets the human-readable detail message
func (b *Builder) Detail(msg string, args ...any) *Builder {
	if len(args) > 0 {
		b.err.Detail = fmt.Sprintf(msg, args...)
	} else {
		b.err.Detail = msg
	}
	return b
}

// Build returns the constructed error
func (b *Builder) Build() *Error {
	return &b.err
}

// Convenience constructors for common error patterns

// InvalidUTF8 creates an invalid UTF-8 error with a bounded input preview
func InvalidUTF8(phase Phase, data []byte) *Error {
	preview := data
	if len(preview) > 32 {
		preview = preview[:32]
	}
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidUTF8,
		Offset: -1,
		Detail: fmt.Sprintf("invalid UTF-8 sequence: %x", preview),
	}
}

// UnpairedSurrogate creates an error for a lone or truncated UTF-16 surrogate
func UnpairedSurrogate(offset int, unit uint16) *Error {
	return &Error{
		Phase:  PhaseTranscode,
		Kind:   KindUnpairedSurrogate,
		Offset: offset,
		Detail: fmt.Sprintf("unpaired surrogate 0x%04X", unit),
		Value:  unit,
	}
}

// InvalidScalar creates an error for a UTF-32 unit that is not a Unicode
// scalar value
func InvalidScalar(offset int, value uint32) *Error {
	return &Error{
		Phase:  PhaseTranscode,
		Kind:   KindInvalidScalar,
		Offset: offset,
		Detail: fmt.Sprintf("0x%08X is not a Unicode scalar value", value),
		Value:  value,
	}
}

// InvalidBase64 creates a base64 decode error
func InvalidBase64(offset int, detail string) *Error {
	return &Error{
		Phase:  PhaseDecode,
		Kind:   KindInvalidBase64,
		Offset: offset,
		Detail: detail,
	}
}

// InvalidHandle creates an error for an unknown or released handle
func InvalidHandle(phase Phase, handle uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidHandle,
		Offset: -1,
		Detail: fmt.Sprintf("handle %d is not live", handle),
		Value:  handle,
	}
}

// TypeMismatch creates an error for a handle of the wrong container type
func TypeMismatch(phase Phase, handle uint32, want, got string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindTypeMismatch,
		Offset: -1,
		Detail: fmt.Sprintf("handle %d holds a %s, want a %s", handle, got, want),
		Value:  handle,
	}
}

// OutOfBounds creates an error for an out-of-range memory access
func OutOfBounds(phase Phase, offset, length int) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindOutOfBounds,
		Offset: offset,
		Detail: fmt.Sprintf("range [%d, %d) out of bounds", offset, offset+length),
	}
}

// AllocationFailed creates an allocation failure error
func AllocationFailed(phase Phase, size uint32) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindAllocation,
		Offset: -1,
		Detail: fmt.Sprintf("failed to allocate %d bytes", size),
	}
}

// InvalidInput creates an invalid input error
func InvalidInput(phase Phase, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   KindInvalidInput,
		Offset: -1,
		Detail: detail,
	}
}

// Wrap wraps an existing error with additional context
func Wrap(phase Phase, kind Kind, cause error, detail string) *Error {
	return &Error{
		Phase:  phase,
		Kind:   kind,
		Offset: -1,
		Detail: detail,
		Cause:  cause,
	}
}
