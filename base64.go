package bstr

import "github.com/wippyai/bstr/errors"

// Standard RFC 4648 alphabet, non-URL variant.
const (
	base64Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789+/"
	base64Pad      = '='
)

var base64Rev = buildBase64Rev()

func buildBase64Rev() [256]int8 {
	var rev [256]int8
	for i := range rev {
		rev[i] = -1
	}
	for i := 0; i < len(base64Alphabet); i++ {
		rev[base64Alphabet[i]] = int8(i)
	}
	return rev
}

// Base64Encode encodes buf with the standard base64 alphabet, padding with
// '=' when the input length is not a multiple of three. Output is written
// directly into a freshly allocated owned cell; it is pure ASCII and
// therefore a valid String.
func Base64Encode(buf Bytes) String {
	n := buf.Len()
	if n == 0 {
		return String{}
	}
	src := buf.Data()
	out := Alloc((n + 2) / 3 * 4)
	dst := out.cell.data[:out.n]

	di, si := 0, 0
	for ; si+3 <= n; si += 3 {
		v := uint32(src[si])<<16 | uint32(src[si+1])<<8 | uint32(src[si+2])
		dst[di+0] = base64Alphabet[v>>18&0x3F]
		dst[di+1] = base64Alphabet[v>>12&0x3F]
		dst[di+2] = base64Alphabet[v>>6&0x3F]
		dst[di+3] = base64Alphabet[v&0x3F]
		di += 4
	}
	switch n - si {
	case 1:
		v := uint32(src[si]) << 16
		dst[di+0] = base64Alphabet[v>>18&0x3F]
		dst[di+1] = base64Alphabet[v>>12&0x3F]
		dst[di+2] = base64Pad
		dst[di+3] = base64Pad
	case 2:
		v := uint32(src[si])<<16 | uint32(src[si+1])<<8
		dst[di+0] = base64Alphabet[v>>18&0x3F]
		dst[di+1] = base64Alphabet[v>>12&0x3F]
		dst[di+2] = base64Alphabet[v>>6&0x3F]
		dst[di+3] = base64Pad
	}
	return String{b: out}
}

// Base64Decode decodes a standard-alphabet base64 string into an owned
// buffer. The input length must be a multiple of four with at most two
// trailing pad characters; any character outside the alphabet, interior
// padding, or a bad length fails the decode.
func Base64Decode(s String) (Bytes, error) {
	n := s.Len()
	if n == 0 {
		return Bytes{}, nil
	}
	if n%4 != 0 {
		return Bytes{}, errors.InvalidBase64(n, "input length is not a multiple of 4")
	}
	src := s.Data()

	pad := 0
	if src[n-1] == base64Pad {
		pad++
		if src[n-2] == base64Pad {
			pad++
		}
	}

	out := Alloc(n/4*3 - pad)
	dst := out.cell.data[:out.n]

	di := 0
	for si := 0; si < n; si += 4 {
		quantum := 4
		if si+4 == n {
			quantum = 4 - pad
		}

		var v uint32
		for k := 0; k < quantum; k++ {
			c := base64Rev[src[si+k]]
			if c < 0 {
				out.Release()
				return Bytes{}, errors.InvalidBase64(si+k, "character outside base64 alphabet")
			}
			v |= uint32(c) << (18 - 6*k)
		}
		// Pad characters may only appear in the positions implied by the
		// trailing pad count.
		for k := quantum; k < 4; k++ {
			if src[si+k] != base64Pad {
				out.Release()
				return Bytes{}, errors.InvalidBase64(si+k, "malformed padding")
			}
		}

		switch quantum {
		case 4:
			dst[di+0] = byte(v >> 16)
			dst[di+1] = byte(v >> 8)
			dst[di+2] = byte(v)
			di += 3
		case 3:
			dst[di+0] = byte(v >> 16)
			dst[di+1] = byte(v >> 8)
			di += 2
		case 2:
			dst[di+0] = byte(v >> 16)
			di++
		}
	}
	return out, nil
}
