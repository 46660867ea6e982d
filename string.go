package bstr

import (
	"unicode/utf8"
	"unsafe"

	"github.com/wippyai/bstr/errors"
	"github.com/wippyai/bstr/transcode"
)

// String is an immutable UTF-8 string backed by the same storage machinery
// as Bytes. The viewed range is always a complete, valid UTF-8 sequence.
// The zero value is the canonical empty string.
type String struct {
	b Bytes
}

// NewString returns the canonical empty string.
func NewString() String {
	return String{}
}

// StringFromStatic wraps a Go string in a borrowed cell without copying.
// Go strings are immutable, so the borrowed-cell contract holds by
// construction. s must be valid UTF-8; string literals from Go source are.
func StringFromStatic(s string) String {
	if len(s) == 0 {
		return String{}
	}
	data := unsafe.Slice(unsafe.StringData(s), len(s))
	return String{b: Bytes{cell: newCell(data, Borrowed), n: len(data)}}
}

// StringFromBytes validates buf as UTF-8 and, on success, shares its storage
// as a string without copying. The source handle is not consumed.
func StringFromBytes(buf Bytes) (String, error) {
	if buf.n == 0 {
		return String{}, nil
	}
	if !utf8.Valid(buf.Data()) {
		return String{}, errors.InvalidUTF8(errors.PhaseValidate, buf.Data())
	}
	return String{b: buf.Clone()}, nil
}

// FromUTF8 validates data as UTF-8 and copies it into an owned string.
func FromUTF8(data []byte) (String, error) {
	if len(data) == 0 {
		return String{}, nil
	}
	if !utf8.Valid(data) {
		return String{}, errors.InvalidUTF8(errors.PhaseValidate, data)
	}
	return String{b: CopyFromSlice(data)}, nil
}

// FromUTF16 transcodes UTF-16 code units into an owned string. Unpaired or
// truncated surrogates fail the whole conversion.
func FromUTF16(units []uint16) (String, error) {
	out, err := transcode.UTF16ToUTF8(units)
	if err != nil {
		return String{}, err
	}
	return String{b: bytesFromOwned(out)}, nil
}

// FromUTF32 transcodes UTF-32 code units into an owned string. Units that
// are not Unicode scalar values fail the whole conversion.
func FromUTF32(units []uint32) (String, error) {
	out, err := transcode.UTF32ToUTF8(units)
	if err != nil {
		return String{}, err
	}
	return String{b: bytesFromOwned(out)}, nil
}

// FromWide transcodes native-endian wide characters into an owned string,
// selecting the UTF-16 or UTF-32 code path by transcode.WideSize.
func FromWide(raw []byte) (String, error) {
	out, err := transcode.WideToUTF8(raw)
	if err != nil {
		return String{}, err
	}
	return String{b: bytesFromOwned(out)}, nil
}

// Data returns the UTF-8 bytes of the string. The slice is valid until the
// handle is released; callers must not write through it.
func (s String) Data() []byte {
	return s.b.Data()
}

// Len returns the length of the string in bytes.
func (s String) Len() int {
	return s.b.n
}

// IsEmpty reports whether the string has zero length.
func (s String) IsEmpty() bool {
	return s.b.n == 0
}

// Str returns the content as a native Go string. The bytes are copied, so
// the result outlives the handle.
func (s String) Str() string {
	return string(s.b.Data())
}

// Bytes returns a byte-buffer view of the string. No bytes are copied; the
// storage cell gains one reference and the view must be released
// independently.
func (s String) Bytes() Bytes {
	return s.b.Clone()
}

// Clone returns a second handle to the same string. No payload is copied.
func (s String) Clone() String {
	return String{b: s.b.Clone()}
}

// Release drops this handle's reference and resets the handle to the
// canonical empty string. Releasing an empty or already-released handle is
// a no-op.
func (s *String) Release() {
	s.b.Release()
}

// Swap exchanges the contents of two handles in O(1) without touching
// reference counts.
func (s *String) Swap(other *String) {
	if s != other {
		s.b.Swap(&other.b)
	}
}

// Equal reports value equality with another string.
func (s String) Equal(other String) bool {
	return s.b.Equal(other.b)
}

// EqualStr reports value equality with a native Go string.
func (s String) EqualStr(other string) bool {
	return s.Len() == len(other) && string(s.b.Data()) == other
}

// DupUTF8 returns an independently owned, nul-terminated UTF-8 copy of the
// string. Ownership transfers fully to the caller.
func (s String) DupUTF8() []byte {
	out := make([]byte, s.Len()+1)
	copy(out, s.b.Data())
	return out
}

// DupUTF16 returns an independently owned, nul-terminated UTF-16 encoding
// of the string.
func (s String) DupUTF16() []uint16 {
	units := transcode.UTF8ToUTF16(s.b.Data())
	return append(units, 0)
}

// DupUTF32 returns an independently owned, nul-terminated UTF-32 encoding
// of the string.
func (s String) DupUTF32() []uint32 {
	units := transcode.UTF8ToUTF32(s.b.Data())
	return append(units, 0)
}

// DupWide returns an independently owned, nul-terminated native-endian
// wide-character encoding of the string. The terminator is one wide unit of
// zeros.
func (s String) DupWide() []byte {
	out := transcode.UTF8ToWide(s.b.Data())
	return append(out, make([]byte, transcode.WideSize)...)
}
