package bstr

import (
	"bytes"
	"errors"
	"testing"

	bstrerrors "github.com/wippyai/bstr/errors"
	"github.com/wippyai/bstr/transcode"
)

func TestString_Empty(t *testing.T) {
	s := NewString()
	if s.Len() != 0 || !s.IsEmpty() {
		t.Fatal("expected empty string")
	}
	if s.Str() != "" {
		t.Fatalf("expected empty Str, got %q", s.Str())
	}
	s.Release()
	s.Release()
}

func TestString_FromUTF8(t *testing.T) {
	tests := []struct {
		name    string
		input   []byte
		wantErr bool
	}{
		{"ascii", []byte("hello"), false},
		{"multibyte", []byte("héllo"), false},
		{"emoji", []byte("a\xF0\x9F\x98\x80b"), false},
		{"empty", nil, false},
		{"invalid_bytes", []byte{0xFF, 0xFE}, true},
		{"truncated_sequence", []byte{0xC3}, true},
		{"overlong", []byte{0xC0, 0x80}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromUTF8(tt.input)
			defer s.Release()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				proto := &bstrerrors.Error{Phase: bstrerrors.PhaseValidate, Kind: bstrerrors.KindInvalidUTF8}
				if !errors.Is(err, proto) {
					t.Fatalf("error %v is not invalid_utf8", err)
				}
				if s.Len() != 0 {
					t.Fatalf("degraded string should be empty, got length %d", s.Len())
				}
				return
			}
			if err != nil {
				t.Fatalf("FromUTF8 failed: %v", err)
			}
			if !bytes.Equal(s.Data(), tt.input) && len(tt.input) > 0 {
				t.Fatalf("content = %q, want %q", s.Data(), tt.input)
			}
		})
	}
}

func TestString_FromUTF8CopiesInput(t *testing.T) {
	src := []byte("hello")
	s, err := FromUTF8(src)
	if err != nil {
		t.Fatalf("FromUTF8 failed: %v", err)
	}
	defer s.Release()

	src[0] = 'X'
	if s.Str() != "hello" {
		t.Fatalf("string changed with source: %q", s.Str())
	}
}

func TestString_FromBytes(t *testing.T) {
	b := CopyFromSlice([]byte("héllo"))
	defer b.Release()

	s, err := StringFromBytes(b)
	if err != nil {
		t.Fatalf("StringFromBytes failed: %v", err)
	}
	if s.Str() != "héllo" {
		t.Fatalf("content = %q, want héllo", s.Str())
	}
	s.Release()

	// Source still valid: conversion shares, never consumes.
	if string(b.Data()) != "héllo" {
		t.Fatalf("source consumed by conversion: %q", b.Data())
	}

	bad := CopyFromSlice([]byte{0xFF, 0xFE})
	defer bad.Release()
	s2, err := StringFromBytes(bad)
	if err == nil {
		t.Fatal("expected error for invalid UTF-8 buffer")
	}
	if s2.Len() != 0 {
		t.Fatalf("degraded string should be empty, got %d", s2.Len())
	}
}

func TestString_FromStatic(t *testing.T) {
	s := StringFromStatic("static content")
	if s.Str() != "static content" {
		t.Fatalf("content = %q", s.Str())
	}

	c := s.Clone()
	s.Release()
	if c.Str() != "static content" {
		t.Fatalf("clone invalid after source release: %q", c.Str())
	}
	c.Release()
}

func TestString_BytesView(t *testing.T) {
	s := StringFromStatic("view")
	defer s.Release()

	b := s.Bytes()
	if string(b.Data()) != "view" {
		t.Fatalf("view content = %q", b.Data())
	}
	b.Release()

	if s.Str() != "view" {
		t.Fatal("string affected by view release")
	}
}

func TestString_UTF16RoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"ascii", "hello"},
		{"accented", "héllo"},
		{"cjk", "日本語"},
		{"astral", "a\U0001F600b"},
		{"empty", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := FromUTF8([]byte(tt.input))
			if err != nil {
				t.Fatalf("FromUTF8 failed: %v", err)
			}
			defer s.Release()

			units := s.DupUTF16()
			if units[len(units)-1] != 0 {
				t.Fatal("dup output missing terminator")
			}

			n := transcode.TerminatedLength16(units)
			back, err := FromUTF16(units[:n])
			if err != nil {
				t.Fatalf("FromUTF16 failed: %v", err)
			}
			defer back.Release()

			if !back.Equal(s) {
				t.Fatalf("round trip = %q, want %q", back.Str(), tt.input)
			}
		})
	}
}

func TestString_UTF32RoundTrip(t *testing.T) {
	for _, input := range []string{"hello", "héllo", "日本語", "a\U0001F600b"} {
		s, err := FromUTF8([]byte(input))
		if err != nil {
			t.Fatalf("FromUTF8 failed: %v", err)
		}

		units := s.DupUTF32()
		if units[len(units)-1] != 0 {
			t.Fatal("dup output missing terminator")
		}

		n := transcode.TerminatedLength32(units)
		back, err := FromUTF32(units[:n])
		if err != nil {
			t.Fatalf("FromUTF32 failed: %v", err)
		}

		if !back.Equal(s) {
			t.Fatalf("round trip = %q, want %q", back.Str(), input)
		}
		back.Release()
		s.Release()
	}
}

func TestString_ScenarioHelloUTF16(t *testing.T) {
	src := []byte("héllo") // 6 bytes of UTF-8
	if len(src) != 6 {
		t.Fatalf("fixture is %d bytes, want 6", len(src))
	}

	s, err := FromUTF8(src)
	if err != nil {
		t.Fatalf("FromUTF8 failed: %v", err)
	}
	defer s.Release()

	units := s.DupUTF16()
	back, err := FromUTF16(units[:transcode.TerminatedLength16(units)])
	if err != nil {
		t.Fatalf("FromUTF16 failed: %v", err)
	}
	defer back.Release()

	if back.Len() != 6 || !bytes.Equal(back.Data(), src) {
		t.Fatalf("round trip = %q (len %d), want %q (len 6)", back.Data(), back.Len(), src)
	}
}

func TestString_FromUTF16Invalid(t *testing.T) {
	// Lone high surrogate.
	s, err := FromUTF16([]uint16{0x0041, 0xD800, 0x0042})
	if err == nil {
		t.Fatal("expected error for unpaired surrogate")
	}
	if s.Len() != 0 {
		t.Fatalf("degraded string should be empty, got %d", s.Len())
	}
}

func TestString_DupUTF8(t *testing.T) {
	s := StringFromStatic("dup")
	defer s.Release()

	out := s.DupUTF8()
	want := []byte{'d', 'u', 'p', 0}
	if !bytes.Equal(out, want) {
		t.Fatalf("dup = %v, want %v", out, want)
	}

	// Output is independently owned.
	out[0] = 'X'
	if s.Str() != "dup" {
		t.Fatal("dup output aliases string storage")
	}
}

func TestString_DupWideRoundTrip(t *testing.T) {
	s := StringFromStatic("wide héllo")
	defer s.Release()

	raw := s.DupWide()
	if len(raw)%transcode.WideSize != 0 {
		t.Fatalf("dup length %d not a multiple of the wide size", len(raw))
	}
	// Strip the wide nul terminator before converting back.
	back, err := FromWide(raw[:len(raw)-transcode.WideSize])
	if err != nil {
		t.Fatalf("FromWide failed: %v", err)
	}
	defer back.Release()

	if !back.Equal(s) {
		t.Fatalf("round trip = %q, want %q", back.Str(), s.Str())
	}
}

func TestString_EqualStr(t *testing.T) {
	s := StringFromStatic("abc")
	defer s.Release()

	if !s.EqualStr("abc") {
		t.Fatal("expected equality with identical Go string")
	}
	if s.EqualStr("abd") || s.EqualStr("ab") || s.EqualStr("abcd") {
		t.Fatal("unexpected equality")
	}
}

func TestString_Swap(t *testing.T) {
	a := StringFromStatic("first")
	b := StringFromStatic("second")
	defer a.Release()
	defer b.Release()

	a.Swap(&b)
	if a.Str() != "second" || b.Str() != "first" {
		t.Fatalf("swap failed: a=%q b=%q", a.Str(), b.Str())
	}
}
