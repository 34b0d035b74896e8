// Package normalize cleans sentences before they enter a training set.
package normalize

import (
	"strings"
	"unicode"
)

// Text lowercases s, drops every rune outside the allowed set and
// collapses whitespace runs into single spaces. The result is trimmed.
// Normalizing an already normalized string returns it unchanged.
func Text(s string) string {
	s = strings.ToLower(s)

	var sb strings.Builder
	sb.Grow(len(s))
	for _, r := range s {
		if Allowed(r) {
			sb.WriteRune(r)
		}
	}

	return strings.Join(strings.FieldsFunc(sb.String(), isSpace), " ")
}

// Allowed reports whether r survives normalization: lowercase ASCII
// letters, ASCII digits, whitespace and . , ! ? - '
func Allowed(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
		return true
	case isSpace(r):
		return true
	}
	switch r {
	case '.', ',', '!', '?', '-', '\'':
		return true
	}
	return false
}

// isSpace also treats the ASCII information separators (0x1c-0x1f) as
// whitespace so "a\x1fb" becomes "a b" rather than "ab".
func isSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
