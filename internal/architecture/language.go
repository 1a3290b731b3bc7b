package architecture

import (
	"strings"

	"merngen/internal/types"
)

// DetectLanguage infers the project language from the document: TypeScript
// when any side declares a typescript dev dependency or a .ts/.tsx file.
func DetectLanguage(doc *types.ArchitectureDocument) types.Language {
	if doc == nil {
		return types.LangJavaScript
	}
	for _, side := range []types.ProjectSide{doc.Frontend, doc.Backend} {
		for _, d := range side.DevDependencies {
			if strings.Contains(d, "typescript") {
				return types.LangTypeScript
			}
		}
		for _, f := range side.Files {
			if strings.HasSuffix(f, ".ts") || strings.HasSuffix(f, ".tsx") {
				return types.LangTypeScript
			}
		}
	}
	return types.LangJavaScript
}

// LanguageFromPrompt reads an explicit language preference from a prompt.
func LanguageFromPrompt(prompt string) types.Language {
	lower := strings.ToLower(prompt)
	if containsWord(lower, "typescript") || containsWord(lower, "ts") {
		return types.LangTypeScript
	}
	return types.LangJavaScript
}

// typed packages whose @types companion is added for TypeScript backends.
var typedPackages = []struct {
	match string
	types string
}{
	{"express", "@types/express"},
	{"cors", "@types/cors"},
	{"mongoose", "@types/mongoose"},
	{"morgan", "@types/morgan"},
	{"jsonwebtoken", "@types/jsonwebtoken"},
	{"bcrypt", "@types/bcryptjs"},
}

// BackendDevDependencies returns the dev dependencies to install for a
// backend side. For TypeScript the runtime toolchain and @types packages for
// well-known dependencies are appended unless already declared. The side is
// not modified.
func BackendDevDependencies(side types.ProjectSide, lang types.Language) types.StringSet {
	out := append(types.StringSet{}, side.DevDependencies...)
	if lang != types.LangTypeScript {
		return out
	}
	required := []string{"typescript", "tsx", "@types/node"}
	all := append(append([]string{}, side.Dependencies...), side.DevDependencies...)
	for _, tp := range typedPackages {
		for _, d := range all {
			if strings.Contains(d, tp.match) {
				required = append(required, tp.types)
				break
			}
		}
	}
	for _, req := range required {
		if !containsSubstring(out, req) {
			out = append(out, req)
		}
	}
	return out
}

func containsSubstring(set []string, s string) bool {
	for _, v := range set {
		if strings.Contains(v, s) {
			return true
		}
	}
	return false
}
