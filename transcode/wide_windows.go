//go:build windows

package transcode

// WideSize is the width in bytes of the platform wide character. Windows
// wchar_t is UTF-16.
const WideSize = 2
