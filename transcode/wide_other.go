//go:build !windows

package transcode

// WideSize is the width in bytes of the platform wide character. Everywhere
// except Windows, wchar_t is UTF-32.
const WideSize = 4
