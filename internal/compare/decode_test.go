package compare

import (
	"strings"
	"testing"
)

func TestNormalizeLineEndings(t *testing.T) {
	cases := []struct{ in, want string }{
		{"a\r\nb\rc\nd", "a\nb\nc\nd"},
		{"\r\n\r\n", "\n\n"},
		{"no endings", "no endings"},
		{"trailing\r", "trailing\n"},
	}
	for _, tc := range cases {
		if got := Normalize(tc.in); got != tc.want {
			t.Fatalf("Normalize(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestDecodeUTF8Passthrough(t *testing.T) {
	got, err := Decode([]byte("héllo\n"))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "héllo\n" {
		t.Fatalf("Decode = %q", got)
	}
}

func TestDecodeStripsUTF8BOM(t *testing.T) {
	got, err := Decode([]byte{0xEF, 0xBB, 0xBF, 'h', 'i'})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hi" {
		t.Fatalf("Decode = %q, want bom stripped", got)
	}
}

func TestDecodeSubstitutesInvalidBytes(t *testing.T) {
	got, err := Decode([]byte{'a', 0xFF, 'b'})
	if err != nil {
		t.Fatalf("Decode must not fail on malformed input: %v", err)
	}
	if !strings.Contains(got, "�") {
		t.Fatalf("Decode = %q, want replacement rune", got)
	}
	if got[0] != 'a' || got[len(got)-1] != 'b' {
		t.Fatalf("Decode = %q, surrounding bytes lost", got)
	}
}

func TestDecodeUTF16LittleEndian(t *testing.T) {
	// "hi" with a little-endian BOM.
	raw := []byte{0xFF, 0xFE, 'h', 0x00, 'i', 0x00}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hi" {
		t.Fatalf("Decode = %q, want \"hi\"", got)
	}
}

func TestDecodeUTF16BigEndian(t *testing.T) {
	raw := []byte{0xFE, 0xFF, 0x00, 'h', 0x00, 'i'}
	got, err := Decode(raw)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if got != "hi" {
		t.Fatalf("Decode = %q, want \"hi\"", got)
	}
}
