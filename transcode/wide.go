package transcode

import (
	"encoding/binary"

	"github.com/wippyai/bstr/errors"
)

// WideToUTF8 interprets raw as native-endian wide characters of WideSize
// bytes each and transcodes them to UTF-8. Trailing bytes that do not form a
// whole unit fail the conversion, as do the usual surrogate and scalar-value
// violations of the selected code path.
func WideToUTF8(raw []byte) ([]byte, error) {
	if len(raw)%WideSize != 0 {
		return nil, errors.InvalidInput(errors.PhaseTranscode,
			"wide input length is not a multiple of the unit size")
	}
	if WideSize == 2 {
		units := make([]uint16, len(raw)/2)
		for i := range units {
			units[i] = binary.NativeEndian.Uint16(raw[i*2:])
		}
		return UTF16ToUTF8(units)
	}
	units := make([]uint32, len(raw)/4)
	for i := range units {
		units[i] = binary.NativeEndian.Uint32(raw[i*4:])
	}
	return UTF32ToUTF8(units)
}

// UTF8ToWide encodes valid UTF-8 into native-endian wide characters of
// WideSize bytes each, without a terminator.
func UTF8ToWide(data []byte) []byte {
	if WideSize == 2 {
		units := UTF8ToUTF16(data)
		out := make([]byte, len(units)*2)
		for i, u := range units {
			binary.NativeEndian.PutUint16(out[i*2:], u)
		}
		return out
	}
	units := UTF8ToUTF32(data)
	out := make([]byte, len(units)*4)
	for i, u := range units {
		binary.NativeEndian.PutUint32(out[i*4:], u)
	}
	return out
}
