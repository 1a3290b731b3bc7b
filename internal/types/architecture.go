package types

import (
	"encoding/json"
	"sort"
	"strings"
)

// Side names a subtree of the generated project.
type Side string

const (
	SideFrontend Side = "frontend"
	SideBackend  Side = "backend"
)

// ProjectType biases which side the backend is asked to fill.
type ProjectType string

const (
	ProjectFrontend  ProjectType = "frontend"
	ProjectBackend   ProjectType = "backend"
	ProjectFullstack ProjectType = "fullstack"
)

// Label is the human form used in console output.
func (p ProjectType) Label() string {
	switch p {
	case ProjectFrontend:
		return "Frontend-only"
	case ProjectBackend:
		return "Backend-only"
	default:
		return "Fullstack"
	}
}

// Language selects script commands and boilerplate flavour.
type Language string

const (
	LangJavaScript Language = "javascript"
	LangTypeScript Language = "typescript"
)

// Label is the human form used in console output.
func (l Language) Label() string {
	if l == LangTypeScript {
		return "TypeScript"
	}
	return "JavaScript"
}

// ProjectSide describes one side of the project.
type ProjectSide struct {
	Framework       string    `json:"framework,omitempty"`
	Dependencies    StringSet `json:"dependencies"`
	DevDependencies StringSet `json:"devDependencies"`
	Folders         StringSet `json:"folders"`
	Files           StringSet `json:"files"`
}

// EmptySide is the record used for absent or forced-empty sides: all four
// sets present and empty, no framework.
func EmptySide() ProjectSide {
	return ProjectSide{
		Dependencies:    StringSet{},
		DevDependencies: StringSet{},
		Folders:         StringSet{},
		Files:           StringSet{},
	}
}

// Present reports whether the side needs any filesystem or install work.
func (s ProjectSide) Present() bool {
	return len(s.Files) > 0 || len(s.Folders) > 0 || strings.TrimSpace(s.Framework) != ""
}

// HasDependencies reports whether the side declared any package.
func (s ProjectSide) HasDependencies() bool {
	return len(s.Dependencies) > 0 || len(s.DevDependencies) > 0
}

// ArchitectureDocument is the normalized project description.
// TechStack, Description and Scripts are passed through uninterpreted.
type ArchitectureDocument struct {
	ProjectName string          `json:"projectName"`
	Description string          `json:"description,omitempty"`
	TechStack   json.RawMessage `json:"techStack,omitempty"`
	Frontend    ProjectSide     `json:"frontend"`
	Backend     ProjectSide     `json:"backend"`
	RootFiles   StringSet       `json:"rootFiles"`
	Scripts     json.RawMessage `json:"scripts,omitempty"`
}

// Side returns the record for s.
func (d *ArchitectureDocument) Side(s Side) *ProjectSide {
	if s == SideBackend {
		return &d.Backend
	}
	return &d.Frontend
}

// StringSet is an ordered, duplicate-free list of strings. Order is kept for
// display only.
type StringSet []string

// UnmarshalJSON accepts the shapes models tend to produce:
//  1. array: ["express", "cors"] (non-string items are skipped)
//  2. object: {"express": "^4.0.0"} (keys, sorted)
//  3. string: "express"
//  4. null
func (s *StringSet) UnmarshalJSON(data []byte) error {
	var arr []any
	if err := json.Unmarshal(data, &arr); err == nil {
		out := make(StringSet, 0, len(arr))
		for _, v := range arr {
			if str, ok := v.(string); ok {
				out = append(out, str)
			}
		}
		*s = out
		return nil
	}

	var obj map[string]any
	if err := json.Unmarshal(data, &obj); err == nil {
		keys := make([]string, 0, len(obj))
		for k := range obj {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		*s = StringSet(keys)
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err != nil {
		return err
	}
	if strings.TrimSpace(str) == "" {
		*s = StringSet{}
		return nil
	}
	*s = StringSet{str}
	return nil
}

// MarshalJSON always emits an array, never null.
func (s StringSet) MarshalJSON() ([]byte, error) {
	if s == nil {
		return []byte("[]"), nil
	}
	return json.Marshal([]string(s))
}
