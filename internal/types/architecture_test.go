package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStringSetUnmarshalShapes(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want StringSet
	}{
		{"array", `["express","cors"]`, StringSet{"express", "cors"}},
		{"mixed array", `["express",1,null,"cors"]`, StringSet{"express", "cors"}},
		{"object", `{"react":"^19.0.0","axios":"^1.7.0"}`, StringSet{"axios", "react"}},
		{"string", `"express"`, StringSet{"express"}},
		{"blank string", `"  "`, StringSet{}},
		{"null", `null`, StringSet{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got StringSet
			require.NoError(t, json.Unmarshal([]byte(tt.in), &got))
			assert.Equal(t, tt.want, got)
		})
	}

	var bad StringSet
	require.Error(t, json.Unmarshal([]byte(`42`), &bad))
}

func TestEmptySideMarshalsAllFourSets(t *testing.T) {
	raw, err := json.Marshal(EmptySide())
	require.NoError(t, err)
	assert.JSONEq(t, `{"dependencies":[],"devDependencies":[],"folders":[],"files":[]}`, string(raw))

	var zero ProjectSide
	raw, err = json.Marshal(zero)
	require.NoError(t, err)
	assert.JSONEq(t, `{"dependencies":[],"devDependencies":[],"folders":[],"files":[]}`, string(raw))
}

func TestProjectSidePresent(t *testing.T) {
	assert.False(t, EmptySide().Present())
	assert.False(t, ProjectSide{Dependencies: StringSet{"express"}}.Present())
	assert.True(t, ProjectSide{Files: StringSet{"index.js"}}.Present())
	assert.True(t, ProjectSide{Folders: StringSet{"src"}}.Present())
	assert.True(t, ProjectSide{Framework: "react"}.Present())
	assert.False(t, ProjectSide{Framework: "  "}.Present())
}

func TestDocumentSideAccessor(t *testing.T) {
	doc := ArchitectureDocument{}
	doc.Side(SideBackend).Framework = "express"
	doc.Side(SideFrontend).Framework = "react"
	assert.Equal(t, "express", doc.Backend.Framework)
	assert.Equal(t, "react", doc.Frontend.Framework)
}
