package architecture

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"merngen/internal/types"
)

var (
	frontendOnlyKeywords = byLength(
		"frontend only", "frontend-only", "only frontend",
		"client side", "client-side", "client side only",
		"static site", "static website", "landing page",
		"portfolio site", "portfolio website", "personal website",
		"react app", "vue app", "svelte app", "next.js app",
		"spa", "single page application", "ui only", "ui-only",
	)
	backendOnlyKeywords = byLength(
		"backend only", "backend-only", "only backend",
		"server only", "server-only", "api only", "api-only",
		"rest api", "graphql api", "express api", "fastify api",
		"microservice", "serverless", "lambda function",
	)
	fullstackKeywords = byLength(
		"fullstack", "full stack", "full-stack",
		"mern", "mean", "mevn", "full stack app",
		"web application", "web app", "complete app",
		"with database", "with api", "with backend",
	)
)

// byLength orders keywords longest first so the reported match is the most
// specific one.
func byLength(keywords ...string) []string {
	sort.SliceStable(keywords, func(i, j int) bool { return len(keywords[i]) > len(keywords[j]) })
	return keywords
}

// Classify maps a free-text prompt to a project type. The result is advisory:
// it never rejects a prompt.
func Classify(prompt string) types.ProjectType {
	pt, _ := ClassifyMatch(prompt)
	return pt
}

// ClassifyMatch is Classify that also returns the keyword that decided the
// result, or "" when a fallback heuristic or the default applied.
//
// Keyword sets are scanned in priority order frontend-only, backend-only,
// fullstack. Keywords match on word boundaries so "spa" does not fire on
// "workspace".
func ClassifyMatch(prompt string) (types.ProjectType, string) {
	lower := strings.ToLower(prompt)

	sets := []struct {
		pt       types.ProjectType
		keywords []string
	}{
		{types.ProjectFrontend, frontendOnlyKeywords},
		{types.ProjectBackend, backendOnlyKeywords},
		{types.ProjectFullstack, fullstackKeywords},
	}
	for _, set := range sets {
		for _, kw := range set.keywords {
			if containsWord(lower, kw) {
				return set.pt, kw
			}
		}
	}

	has := func(s string) bool { return strings.Contains(lower, s) }
	if has("frontend") && !has("backend") && !has("api") {
		return types.ProjectFrontend, ""
	}
	if (has("backend") || has("api") || has("server")) && !has("frontend") && !has("client") {
		return types.ProjectBackend, ""
	}
	return types.ProjectFullstack, ""
}

// containsWord reports whether kw occurs in s with no letter or digit
// directly before or after it.
func containsWord(s, kw string) bool {
	if kw == "" {
		return false
	}
	for from := 0; from <= len(s)-len(kw); {
		i := strings.Index(s[from:], kw)
		if i < 0 {
			return false
		}
		i += from
		end := i + len(kw)
		if boundaryBefore(s, i) && boundaryAfter(s, end) {
			return true
		}
		from = i + 1
	}
	return false
}

func boundaryBefore(s string, i int) bool {
	if i == 0 {
		return true
	}
	r, _ := utf8.DecodeLastRuneInString(s[:i])
	return !isWordRune(r)
}

func boundaryAfter(s string, end int) bool {
	if end >= len(s) {
		return true
	}
	r, _ := utf8.DecodeRuneInString(s[end:])
	return !isWordRune(r)
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}
