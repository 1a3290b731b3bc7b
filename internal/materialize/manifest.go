package materialize

import (
	"encoding/json"
	"errors"
	"io/fs"

	"merngen/internal/errs"
	"merngen/internal/safeio"
	"merngen/internal/synth"
	"merngen/internal/types"
	"merngen/internal/util/jsonutil"
	"merngen/internal/utils"
)

const (
	nodemonVersion = "^3.1.11"
	tsxVersion     = "^4.10.0"
)

// backendManifest fixes the key order of the rewritten package.json.
type backendManifest struct {
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	Description     string                     `json:"description"`
	Type            string                     `json:"type"`
	Main            string                     `json:"main"`
	Scripts         map[string]string          `json:"scripts"`
	Keywords        json.RawMessage            `json:"keywords"`
	Author          json.RawMessage            `json:"author"`
	License         string                     `json:"license"`
	Dependencies    map[string]json.RawMessage `json:"dependencies"`
	DevDependencies map[string]json.RawMessage `json:"devDependencies"`
}

// installerManifest is the subset of an existing package.json that survives a
// merge.
type installerManifest struct {
	Name            string                     `json:"name"`
	Version         string                     `json:"version"`
	Description     string                     `json:"description"`
	Main            string                     `json:"main"`
	Keywords        json.RawMessage            `json:"keywords"`
	Author          json.RawMessage            `json:"author"`
	License         string                     `json:"license"`
	Dependencies    map[string]json.RawMessage `json:"dependencies"`
	DevDependencies map[string]json.RawMessage `json:"devDependencies"`
}

// MergeManifest rewrites the backend package.json at rel. Installer-assigned
// identity and dependencies are kept; type is forced to module and the
// start/dev scripts are replaced with the ones for lang. A missing manifest
// is created from scratch.
func MergeManifest(fsys *safeio.SafeFS, rel, projectName string, lang types.Language) error {
	var existing installerManifest
	raw, err := fsys.SafeReadFile(rel)
	switch {
	case err == nil:
		if err := jsonutil.UnmarshalFlex(raw, &existing); err != nil {
			return errs.Wrap(errs.EManifest, "parse "+rel, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return errs.Wrap(errs.EManifest, "read "+rel, err)
	}

	start, dev := synth.Scripts(types.SideBackend, lang)
	out := backendManifest{
		Name:            orDefault(existing.Name, fallbackName(projectName)),
		Version:         orDefault(existing.Version, "1.0.0"),
		Description:     existing.Description,
		Type:            "module",
		Main:            orDefault(existing.Main, "index.js"),
		Scripts:         map[string]string{"start": start, "dev": dev},
		Keywords:        orRaw(existing.Keywords, "[]"),
		Author:          orRaw(existing.Author, `""`),
		License:         orDefault(existing.License, "ISC"),
		Dependencies:    existing.Dependencies,
		DevDependencies: existing.DevDependencies,
	}
	if out.Dependencies == nil {
		out.Dependencies = map[string]json.RawMessage{}
	}
	if out.DevDependencies == nil {
		out.DevDependencies = map[string]json.RawMessage{}
	}
	out.DevDependencies["nodemon"] = quoted(nodemonVersion)
	if lang == types.LangTypeScript {
		out.DevDependencies["tsx"] = quoted(tsxVersion)
	}

	data, err := jsonutil.MarshalNoEscapeIndent(out, "", "  ")
	if err != nil {
		return errs.Wrap(errs.EManifest, "encode "+rel, err)
	}
	if err := fsys.SafeWriteFile(rel, append(data, '\n'), 0o644); err != nil {
		return errs.Wrap(errs.EManifest, "write "+rel, err)
	}
	return nil
}

func fallbackName(projectName string) string {
	if s := utils.Slugify(projectName); s != "" {
		return s
	}
	return "my-project"
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}

func orRaw(v json.RawMessage, def string) json.RawMessage {
	if len(v) == 0 || string(v) == "null" {
		return json.RawMessage(def)
	}
	return v
}

func quoted(s string) json.RawMessage {
	b, _ := json.Marshal(s)
	return b
}
