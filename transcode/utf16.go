package transcode

import (
	"unicode/utf16"
	"unicode/utf8"

	"github.com/wippyai/bstr/errors"
)

// Surrogate block and scalar-value limits per Unicode 15.0 §3.8/§3.9.
const (
	surrHighMin = 0xD800
	surrHighMax = 0xDBFF
	surrLowMin  = 0xDC00
	surrLowMax  = 0xDFFF
	maxScalar   = 0x10FFFF
)

// UTF16ToUTF8 decodes UTF-16 code units into freshly allocated UTF-8 bytes.
// A high surrogate must be immediately followed by a low surrogate to form a
// code point >= 0x10000; any unpaired or truncated surrogate fails the whole
// conversion.
func UTF16ToUTF8(units []uint16) ([]byte, error) {
	if len(units) == 0 {
		return nil, nil
	}
	out := make([]byte, 0, len(units)*3)
	for i := 0; i < len(units); i++ {
		u := units[i]
		switch {
		case u < surrHighMin || u > surrLowMax:
			out = utf8.AppendRune(out, rune(u))
		case u <= surrHighMax:
			if i+1 == len(units) {
				return nil, errors.UnpairedSurrogate(i, u)
			}
			lo := units[i+1]
			if lo < surrLowMin || lo > surrLowMax {
				return nil, errors.UnpairedSurrogate(i, u)
			}
			out = utf8.AppendRune(out, utf16.DecodeRune(rune(u), rune(lo)))
			i++
		default:
			// Low surrogate with no preceding high surrogate.
			return nil, errors.UnpairedSurrogate(i, u)
		}
	}
	return out, nil
}

// UTF8ToUTF16 encodes UTF-8 bytes into UTF-16 code units without a
// terminator. Input is expected to be valid UTF-8; invalid bytes encode the
// replacement character, matching Go's rune iteration.
func UTF8ToUTF16(data []byte) []uint16 {
	if len(data) == 0 {
		return nil
	}
	out := make([]uint16, 0, len(data))
	for _, r := range string(data) {
		out = utf16.AppendRune(out, r)
	}
	return out
}

// TerminatedLength16 returns the number of code units before the first zero
// unit, or len(units) when no terminator is present.
func TerminatedLength16(units []uint16) int {
	for i, u := range units {
		if u == 0 {
			return i
		}
	}
	return len(units)
}
