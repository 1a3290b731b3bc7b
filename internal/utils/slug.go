package utils

import (
	"strings"
	"unicode"
)

// Slugify converts a project name into a lowercase kebab-case token.
//   - kept: [a-z0-9], '.', '_'
//   - whitespace and '-' become a hyphen, repeated hyphens collapse
//   - path separators and everything else are dropped
//   - leading/trailing hyphens and dots are trimmed
//
// The result is empty when nothing usable remains.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '_', r == '.':
			b.WriteRune(r)
		case unicode.IsSpace(r) || r == '-':
			b.WriteRune('-')
		}
	}
	out := collapseHyphens(b.String())
	return strings.Trim(out, "-.")
}

func collapseHyphens(s string) string {
	var b strings.Builder
	prev := false
	for _, r := range s {
		if r == '-' {
			if !prev {
				b.WriteRune(r)
			}
			prev = true
			continue
		}
		b.WriteRune(r)
		prev = false
	}
	return b.String()
}
