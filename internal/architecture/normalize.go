// Package architecture turns untrusted model output into a strict
// ArchitectureDocument and classifies prompts.
package architecture

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"merngen/internal/types"
	"merngen/internal/util/jsonutil"
	"merngen/internal/utils"
)

var (
	ErrMalformedResponse  = errors.New("architecture: failed to extract valid JSON from response")
	ErrMissingProjectName = errors.New("architecture: missing projectName")
)

// DefaultProjectName is used when a declared name sanitizes to nothing.
const DefaultProjectName = "my-project"

// rawDocument mirrors the wire shape; side objects are pointers so absence
// can be told apart from an empty object.
type rawDocument struct {
	ProjectName json.RawMessage    `json:"projectName"`
	Description string             `json:"description"`
	TechStack   json.RawMessage    `json:"techStack"`
	Frontend    *types.ProjectSide `json:"frontend"`
	Backend     *types.ProjectSide `json:"backend"`
	RootFiles   types.StringSet    `json:"rootFiles"`
	Scripts     json.RawMessage    `json:"scripts"`
}

// ExtractJSON locates the outermost {...} span of text and returns it when
// it is valid JSON. Otherwise the whole trimmed text is tried verbatim.
func ExtractJSON(text string) (json.RawMessage, error) {
	if span, err := jsonutil.ExtractObject(text); err == nil && json.Valid([]byte(span)) {
		return json.RawMessage(span), nil
	}
	trimmed := strings.TrimSpace(text)
	if trimmed != "" && json.Valid([]byte(trimmed)) {
		return json.RawMessage(trimmed), nil
	}
	return nil, ErrMalformedResponse
}

func decode(text string) (*rawDocument, error) {
	payload, err := ExtractJSON(text)
	if err != nil {
		return nil, err
	}
	var doc rawDocument
	if err := jsonutil.UnmarshalFlex(payload, &doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return &doc, nil
}

// Normalize validates and canonicalizes a raw backend response.
//
// Steps: extraction, required projectName, defaulting of missing sides,
// forcing the opposite side empty for single-sided project types, path
// sanitization with side-prefix stripping, and deduplication.
func Normalize(rawText string, projectType types.ProjectType) (*types.ArchitectureDocument, error) {
	raw, err := decode(rawText)
	if err != nil {
		return nil, err
	}
	name, ok := declaredName(raw.ProjectName)
	if !ok {
		return nil, ErrMissingProjectName
	}

	doc := &types.ArchitectureDocument{
		ProjectName: projectName(name),
		Description: raw.Description,
		TechStack:   passThrough(raw.TechStack),
		RootFiles:   raw.RootFiles,
		Scripts:     passThrough(raw.Scripts),
	}
	doc.Frontend = defaultSide(raw.Frontend)
	doc.Backend = defaultSide(raw.Backend)

	switch projectType {
	case types.ProjectFrontend:
		doc.Backend = types.EmptySide()
	case types.ProjectBackend:
		doc.Frontend = types.EmptySide()
	}

	normalizeSide(&doc.Frontend, types.SideFrontend)
	normalizeSide(&doc.Backend, types.SideBackend)
	// Side folders only come into existence through their side object.
	doc.RootFiles = cleanPaths(doc.RootFiles, true, string(types.SideFrontend), string(types.SideBackend))
	return doc, nil
}

// NormalizeDocument re-runs normalization over an already decoded document.
// Normalizing a normalized document yields an identical document.
func NormalizeDocument(doc *types.ArchitectureDocument, projectType types.ProjectType) (*types.ArchitectureDocument, error) {
	if doc == nil {
		return nil, ErrMissingProjectName
	}
	raw, err := json.Marshal(doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return Normalize(string(raw), projectType)
}

// declaredName accepts only a non-blank JSON string. Numbers, objects and
// null count as no name at all.
func declaredName(raw json.RawMessage) (string, bool) {
	var name string
	if len(raw) == 0 || json.Unmarshal(raw, &name) != nil {
		return "", false
	}
	if strings.TrimSpace(name) == "" {
		return "", false
	}
	return name, true
}

func projectName(name string) string {
	if slug := utils.Slugify(utils.SanitizePath(name)); slug != "" {
		return slug
	}
	return DefaultProjectName
}

func defaultSide(s *types.ProjectSide) types.ProjectSide {
	if s == nil {
		return types.EmptySide()
	}
	return *s
}

func normalizeSide(s *types.ProjectSide, side types.Side) {
	s.Framework = strings.ToLower(strings.TrimSpace(s.Framework))
	s.Dependencies = cleanPackages(s.Dependencies)
	s.DevDependencies = cleanPackages(s.DevDependencies)
	s.Folders = cleanPaths(s.Folders, false, string(side))
	s.Files = cleanPaths(s.Files, true, string(side))
}

// cleanPaths sanitizes, drops traversal and entries prefixed with any of
// sides, and deduplicates. Files must carry an extension. Prefixes are
// checked both before and after cleaning so "frontend/../x" is dropped too.
func cleanPaths(in types.StringSet, files bool, sides ...string) types.StringSet {
	sanitized := make([]string, 0, len(in))
	for _, p := range in {
		if p = utils.SanitizePath(p); p != "" {
			sanitized = append(sanitized, p)
		}
	}
	sanitized = stripSides(sanitized, sides)

	out := make([]string, 0, len(sanitized))
	for _, p := range sanitized {
		clean, ok := utils.CleanRelative(p)
		if !ok {
			continue
		}
		if files && !utils.HasExtension(clean) {
			continue
		}
		out = append(out, clean)
	}
	return types.StringSet(utils.UniqueStrings(stripSides(out, sides)...))
}

func stripSides(entries, sides []string) []string {
	for _, side := range sides {
		entries = utils.StripSidePrefix(entries, side)
	}
	return entries
}

func cleanPackages(in types.StringSet) types.StringSet {
	out := make([]string, 0, len(in))
	for _, p := range in {
		p = strings.TrimSpace(p)
		if p == "" || strings.ContainsAny(p, " \t\n;&|`$") {
			continue
		}
		out = append(out, p)
	}
	return types.StringSet(utils.UniqueStrings(out...))
}

// passThrough keeps uninterpreted metadata in compact form so that
// re-normalizing never changes it.
func passThrough(raw json.RawMessage) json.RawMessage {
	trimmed := strings.TrimSpace(string(raw))
	if trimmed == "" || trimmed == "null" {
		return nil
	}
	var buf bytes.Buffer
	if err := json.Compact(&buf, []byte(trimmed)); err != nil {
		return nil
	}
	return json.RawMessage(buf.Bytes())
}
