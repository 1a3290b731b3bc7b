package jsonutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractObject(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    string
		wantErr bool
	}{
		{"bare", `{"a":1}`, `{"a":1}`, false},
		{"prose", "Here you go:\n{\"a\":{\"b\":2}}\nEnjoy!", `{"a":{"b":2}}`, false},
		{"fenced", "```json\n{\"a\":1}\n```", `{"a":1}`, false},
		{"none", "no json here", "", true},
		{"reversed", "} {", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ExtractObject(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrNoObject)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMarshalNoEscapeIndentKeepsShellOperators(t *testing.T) {
	out, err := MarshalNoEscapeIndent(map[string]string{"build": "tsc && node dist/index.js"}, "", "  ")
	require.NoError(t, err)
	assert.Equal(t, "{\n  \"build\": \"tsc && node dist/index.js\"\n}", string(out))
}

func TestUnmarshalFlexDoubleEncoded(t *testing.T) {
	var v struct {
		Name string `json:"name"`
	}
	require.NoError(t, UnmarshalFlex([]byte(`"{\"name\":\"shop\"}"`), &v))
	assert.Equal(t, "shop", v.Name)

	require.Error(t, UnmarshalFlex([]byte(`not json`), &v))
}
