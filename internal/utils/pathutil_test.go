package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePath(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"src/index.js", "src/index.js"},
		{"  src/App.jsx \n", "src/App.jsx"},
		{`src/<bad>:name?.js`, "src/badname.js"},
		{"a\x00b\x1fc.js", "abc.js"},
		{`"quoted|pipe*".md`, "quotedpipe.md"},
		{"<>:\"|?*", ""},
		{"", ""},
		{"\t\r\n", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizePath(tt.in), "input %q", tt.in)
	}
}

func TestSanitizePathNeverReturnsForbiddenCharacters(t *testing.T) {
	var all strings.Builder
	for r := rune(0); r < 256; r++ {
		all.WriteRune(r)
	}
	inputs := []string{all.String(), "x<y>z:\"w|v?u*t", "\x7fdel.js", "\u0085next-line"}
	for _, in := range inputs {
		out := SanitizePath(in)
		assert.NotContains(t, out, "<")
		assert.False(t, strings.ContainsAny(out, `<>:"|?*`), "got %q", out)
		for _, r := range out {
			assert.False(t, r < 0x20 || r == 0x7f, "control rune %U in %q", r, out)
		}
	}
}

func TestCleanRelative(t *testing.T) {
	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"src/index.js", "src/index.js", true},
		{"/src/index.js", "src/index.js", true},
		{`src\components\App.jsx`, "src/components/App.jsx", true},
		{"./src//a.js", "src/a.js", true},
		{"src/../index.js", "index.js", true},
		{"../etc/passwd", "", false},
		{"src/../../up.js", "", false},
		{"..", "", false},
		{".", "", false},
		{"", "", false},
		{"///", "", false},
	}
	for _, tt := range tests {
		got, ok := CleanRelative(tt.in)
		assert.Equal(t, tt.wantOK, ok, "input %q", tt.in)
		assert.Equal(t, tt.want, got, "input %q", tt.in)
	}
}

func TestStripSidePrefix(t *testing.T) {
	in := []string{
		"frontend/src/App.jsx",
		`frontend\index.html`,
		"src/main.jsx",
		"frontend",
		"frontendish/x.js",
		"backend/server.js",
	}
	got := StripSidePrefix(in, "frontend")
	assert.Equal(t, []string{"src/main.jsx", "frontend", "frontendish/x.js", "backend/server.js"}, got)

	got = StripSidePrefix(in, "backend")
	assert.Len(t, got, len(in)-1)
	assert.NotContains(t, got, "backend/server.js")
}

func TestUniqueStringsKeepsFirstOccurrence(t *testing.T) {
	assert.Equal(t, []string{"b", "a", "c"}, UniqueStrings("b", "a", "b", "c", "a"))
	assert.Empty(t, UniqueStrings())
}

func TestHasExtension(t *testing.T) {
	assert.True(t, HasExtension("src/index.js"))
	assert.True(t, HasExtension(".env"))
	assert.True(t, HasExtension(".gitignore"))
	assert.True(t, HasExtension("Dockerfile"))
	assert.False(t, HasExtension("src/components"))
	assert.False(t, HasExtension("README"))
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"my-app", "my-app"},
		{"My Cool App", "my-cool-app"},
		{"  Shop__API  ", "shop__api"},
		{"../../etc", "etc"},
		{"a/b\\c", "abc"},
		{"gym--pro   fitness", "gym-pro-fitness"},
		{"???", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Slugify(tt.in), "input %q", tt.in)
	}
	// idempotent
	assert.Equal(t, Slugify("My Cool App"), Slugify(Slugify("My Cool App")))
}
