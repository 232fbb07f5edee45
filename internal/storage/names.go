package storage

import (
	"mime"
	"path/filepath"
	"strings"
)

const (
	maxNameBytes       = 255
	defaultContentType = "application/octet-stream"
)

// SanitizeName makes a user-supplied file name safe to use as a single path
// element at any provider. Names with nothing usable become "unnamed".
func SanitizeName(name string) string {
	if name = CleanName(name); name == "" {
		return "unnamed"
	}
	return name
}

// CleanName is SanitizeName without the fallback: it returns "" when no
// usable characters remain.
func CleanName(name string) string {
	// Remove path separators
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")

	// Remove null bytes
	name = strings.ReplaceAll(name, "\x00", "")

	// Trim spaces and dots from start/end
	name = strings.Trim(name, " .")

	if len(name) > maxNameBytes {
		ext := filepath.Ext(name)
		if len(ext) >= maxNameBytes {
			ext = ""
		}
		name = truncateUTF8(name[:len(name)-len(ext)], maxNameBytes-len(ext)) + ext
	}

	return name
}

// truncateUTF8 cuts s to at most n bytes without splitting a rune.
func truncateUTF8(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !isRuneStart(s[n]) {
		n--
	}
	return s[:n]
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// ContentTypeFor returns the declared content type, or one derived from the
// file extension when the client sent none or only the generic binary type.
func ContentTypeFor(name, declared string) string {
	declared = strings.TrimSpace(declared)
	if declared != "" && declared != defaultContentType {
		return declared
	}

	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return defaultContentType
}
