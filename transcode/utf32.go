package transcode

import (
	"unicode/utf8"

	"github.com/wippyai/bstr/errors"
)

// UTF32ToUTF8 decodes UTF-32 code units into freshly allocated UTF-8 bytes.
// Every unit must be a Unicode scalar value: at most 0x10FFFF and not a
// surrogate. Any other value fails the whole conversion.
func UTF32ToUTF8(units []uint32) ([]byte, error) {
	if len(units) == 0 {
		return nil, nil
	}
	out := make([]byte, 0, len(units)*2)
	for i, u := range units {
		if u > maxScalar || (u >= surrHighMin && u <= surrLowMax) {
			return nil, errors.InvalidScalar(i, u)
		}
		out = utf8.AppendRune(out, rune(u))
	}
	return out, nil
}

// UTF8ToUTF32 encodes UTF-8 bytes into UTF-32 code units without a
// terminator. Input is expected to be valid UTF-8; invalid bytes encode the
// replacement character, matching Go's rune iteration.
func UTF8ToUTF32(data []byte) []uint32 {
	if len(data) == 0 {
		return nil
	}
	out := make([]uint32, 0, utf8.RuneCount(data))
	for _, r := range string(data) {
		out = append(out, uint32(r))
	}
	return out
}

// TerminatedLength32 returns the number of code units before the first zero
// unit, or len(units) when no terminator is present.
func TerminatedLength32(units []uint32) int {
	for i, u := range units {
		if u == 0 {
			return i
		}
	}
	return len(units)
}
