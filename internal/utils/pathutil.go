package utils

import (
	"path"
	"strings"
	"unicode"
)

// SanitizePath removes control characters and the characters < > : " | ? *
// from p and trims surrounding whitespace. An empty result means the entry
// should be skipped.
func SanitizePath(p string) string {
	if p == "" {
		return ""
	}
	var b strings.Builder
	b.Grow(len(p))
	for _, r := range p {
		switch r {
		case '<', '>', ':', '"', '|', '?', '*':
			continue
		}
		if unicode.IsControl(r) {
			continue
		}
		b.WriteRune(r)
	}
	return strings.TrimSpace(b.String())
}

// CleanRelative turns a sanitized path into a slash-separated relative path.
// Backslashes are treated as separators and leading separators are dropped.
// It returns false when nothing usable remains or the path would climb out of
// its root.
func CleanRelative(p string) (string, bool) {
	p = strings.ReplaceAll(p, `\`, "/")
	p = strings.TrimLeft(p, "/")
	if p == "" {
		return "", false
	}
	clean := path.Clean(p)
	if clean == "." || clean == ".." || strings.HasPrefix(clean, "../") {
		return "", false
	}
	return clean, true
}

// HasSidePrefix reports whether p starts with side followed by a separator.
func HasSidePrefix(p, side string) bool {
	if side == "" || len(p) <= len(side) || !strings.HasPrefix(p, side) {
		return false
	}
	sep := p[len(side)]
	return sep == '/' || sep == '\\'
}

// StripSidePrefix drops every entry literally prefixed with side plus a
// separator. All other entries are kept in order.
func StripSidePrefix(entries []string, side string) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		if HasSidePrefix(e, side) {
			continue
		}
		out = append(out, e)
	}
	return out
}

// UniqueStrings returns values without duplicates, keeping first occurrences.
func UniqueStrings(values ...string) []string {
	out := make([]string, 0, len(values))
	seen := make(map[string]struct{}, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

// extensionless files that are still legitimate project files.
var knownBareFiles = map[string]bool{
	"Dockerfile": true,
	"Makefile":   true,
	"Procfile":   true,
	"LICENSE":    true,
}

// HasExtension reports whether the last element of p carries a file
// extension. Dotfiles such as .env and .gitignore count as extensions.
func HasExtension(p string) bool {
	base := path.Base(p)
	if knownBareFiles[base] {
		return true
	}
	return path.Ext(base) != ""
}
