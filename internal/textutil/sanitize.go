package textutil

import (
	"strings"
	"unicode"
)

// SanitizeFileName makes a track title safe to use as a filename. Path
// separators, colons, and asterisks become dashes so the title stays
// readable; the remaining reserved characters are dropped.
func SanitizeFileName(name string) string {
	var b strings.Builder
	b.Grow(len(name))
	for _, r := range name {
		switch r {
		case '/', '\\', ':', '*':
			b.WriteByte('-')
		case '?', '"', '<', '>', '|':
		default:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(b.String())
}

// SanitizeToken lowers a title into a filesystem-safe directory token made
// of ASCII letters, digits, dashes, and underscores. Runs of any other
// characters collapse to a single underscore. Empty or fully unsafe input
// yields "unknown".
func SanitizeToken(value string) string {
	var b strings.Builder
	b.Grow(len(value))
	pendingSep := false
	for _, r := range strings.TrimSpace(value) {
		switch {
		case r == '-' || r == '_',
			unicode.IsDigit(r) && r < unicode.MaxASCII,
			unicode.IsLetter(r) && r < unicode.MaxASCII:
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(unicode.ToLower(r))
		default:
			pendingSep = true
		}
	}
	out := strings.Trim(b.String(), "_-")
	if out == "" {
		return "unknown"
	}
	return out
}
