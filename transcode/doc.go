// Package transcode provides stateless conversion between UTF-8 and the
// UTF-16, UTF-32, and platform wide-character encodings.
//
// The "from" direction (UTF-16/32 to UTF-8) is fallible: unpaired
// surrogates, truncated pairs, and non-scalar values fail the whole
// conversion with a structured error. The "dup" direction (UTF-8 to
// UTF-16/32) is infallible for valid UTF-8 input, which the bstr.String
// invariant guarantees.
//
// Wide-character helpers pick the UTF-16 or UTF-32 code path from the
// compile-time WideSize constant (2 bytes on Windows, 4 elsewhere), matching
// the platform's wchar_t width.
package transcode
