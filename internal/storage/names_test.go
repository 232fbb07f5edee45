package storage

import (
	"strings"
	"testing"
	"unicode/utf8"
)

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "photo.jpg", "photo.jpg"},
		{"unicode kept", "Müller family", "Müller family"},
		{"slashes", "../../etc/passwd", "_.._etc_passwd"},
		{"backslashes", `a\b\c.txt`, "a_b_c.txt"},
		{"null byte", "a\x00b.png", "ab.png"},
		{"leading and trailing dots and spaces", "  .hidden. ", "hidden"},
		{"empty", "", "unnamed"},
		{"only dots", "...", "unnamed"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SanitizeName(tt.in); got != tt.want {
				t.Fatalf("SanitizeName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCleanName(t *testing.T) {
	for _, in := range []string{"", "...", " . ", "\x00", " \x00. "} {
		if got := CleanName(in); got != "" {
			t.Fatalf("CleanName(%q) = %q, want empty", in, got)
		}
	}
	if got := CleanName("unnamed"); got != "unnamed" {
		t.Fatalf("CleanName(unnamed) = %q", got)
	}
	if got := CleanName(" Smith/Jones. "); got != "Smith_Jones" {
		t.Fatalf("CleanName = %q, want Smith_Jones", got)
	}
}

func TestSanitizeName_TruncatesKeepingExtension(t *testing.T) {
	in := strings.Repeat("é", 200) + ".jpeg"
	got := SanitizeName(in)

	if len(got) > maxNameBytes {
		t.Fatalf("len = %d, want <= %d", len(got), maxNameBytes)
	}
	if !strings.HasSuffix(got, ".jpeg") {
		t.Fatalf("extension lost: %q", got)
	}
	if !utf8.ValidString(got) {
		t.Fatalf("truncation split a rune: %q", got)
	}
}

func TestContentTypeFor(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		declared string
		want     string
	}{
		{"declared wins", "photo.jpg", "image/png", "image/png"},
		{"empty uses extension", "photo.jpg", "", "image/jpeg"},
		{"generic uses extension", "doc.pdf", "application/octet-stream", "application/pdf"},
		{"upper case extension", "PHOTO.PNG", "", "image/png"},
		{"unknown extension", "blob.zzzunknown", "", "application/octet-stream"},
		{"no extension", "README", " ", "application/octet-stream"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ContentTypeFor(tt.file, tt.declared); got != tt.want {
				t.Fatalf("ContentTypeFor(%q, %q) = %q, want %q", tt.file, tt.declared, got, tt.want)
			}
		})
	}
}
