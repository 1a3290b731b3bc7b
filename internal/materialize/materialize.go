// Package materialize turns a normalized architecture document into a project
// tree on disk.
package materialize

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"

	"merngen/internal/architecture"
	"merngen/internal/errs"
	"merngen/internal/safeio"
	"merngen/internal/synth"
	"merngen/internal/types"
	"merngen/internal/ui"
	"merngen/internal/utils"
)

// Installer is the package manager collaborator.
type Installer interface {
	Init(ctx context.Context, dir string) error
	Install(ctx context.Context, dir string, pkgs []string, dev bool) error
}

// Scaffolder runs a framework generator inside a side directory. It reports
// false when it has no generator for the framework.
type Scaffolder interface {
	Scaffold(ctx context.Context, dir, framework string, lang types.Language) (bool, error)
}

// Materializer writes projects. Installer and Scaffolder are optional; when
// nil the corresponding steps are skipped.
type Materializer struct {
	Installer  Installer
	Scaffolder Scaffolder
	// SkipStyles disables the Tailwind wiring pass on the frontend.
	SkipStyles bool
}

// Outcome summarizes a materialization.
type Outcome struct {
	Root     string
	Sides    []types.Side
	Warnings []string
}

// run carries the state of one Materialize call.
type run struct {
	m    *Materializer
	ctx  context.Context
	fsys *safeio.SafeFS
	doc  *types.ArchitectureDocument
	lang types.Language
	out  *Outcome
}

func (r *run) warn(err error) {
	msg := errs.Message(err)
	r.out.Warnings = append(r.out.Warnings, msg)
	ui.Warnf(r.ctx, "%s", msg)
}

// Materialize creates root and populates it from doc. An existing root is a
// precondition failure and nothing is touched. Per-file, install, scaffold
// and style failures become warnings in the outcome. The only other error
// returned is a failed manifest rewrite for a backend that declared
// dependencies.
func (m *Materializer) Materialize(ctx context.Context, root string, doc *types.ArchitectureDocument, lang types.Language) (*Outcome, error) {
	if doc == nil {
		return nil, errs.New(errs.EInput, "architecture document is nil")
	}
	if err := createRoot(root); err != nil {
		return nil, err
	}
	fsys, err := safeio.NewSafeFS(root)
	if err != nil {
		return nil, errs.Wrap(errs.EPrecondition, "open project directory", err)
	}

	r := &run{m: m, ctx: ctx, fsys: fsys, doc: doc, lang: lang, out: &Outcome{Root: fsys.Root()}}
	ui.Stepf(ctx, "Creating project: %s", doc.ProjectName)

	rootFiles := utils.UniqueStrings(append(append([]string{}, doc.RootFiles...), "README.md", ".gitignore")...)
	for _, f := range rootFiles {
		r.writeFile(f)
	}

	for _, side := range []types.Side{types.SideFrontend, types.SideBackend} {
		if !doc.Side(side).Present() {
			continue
		}
		if err := r.side(side); err != nil {
			return r.out, err
		}
		r.out.Sides = append(r.out.Sides, side)
	}
	return r.out, nil
}

func createRoot(root string) error {
	if root == "" {
		return errs.New(errs.EInput, "empty project directory")
	}
	if _, err := os.Lstat(root); err == nil {
		return errs.Newf(errs.EPrecondition, "directory %q already exists", filepath.Base(root))
	}
	if err := os.MkdirAll(filepath.Dir(root), 0o755); err != nil {
		return errs.Wrap(errs.EPrecondition, "create parent directory", err)
	}
	if err := os.Mkdir(root, 0o755); err != nil {
		if errors.Is(err, fs.ErrExist) {
			return errs.Newf(errs.EPrecondition, "directory %q already exists", filepath.Base(root))
		}
		return errs.Wrap(errs.EPrecondition, "create project directory", err)
	}
	return nil
}

// writeFile creates rel (relative to the project root) with synthesized
// content unless it already exists.
func (r *run) writeFile(rel string) {
	clean, ok := utils.CleanRelative(utils.SanitizePath(rel))
	if !ok {
		return
	}
	content := synth.Synthesize(clean, r.doc, r.doc.ProjectName, r.lang)
	if _, err := r.fsys.SafeCreateFile(clean, []byte(content), 0o644); err != nil {
		r.warn(errs.Wrap(errs.EFSWrite, "could not create file "+clean, err))
	}
}

func (r *run) mkdir(rel string) bool {
	if err := r.fsys.SafeMkdirAll(rel, 0o755); err != nil {
		r.warn(errs.Wrap(errs.EFSWrite, "could not create directory "+rel, err))
		return false
	}
	return true
}

func (r *run) side(side types.Side) error {
	spec := r.doc.Side(side)
	name := string(side)
	ui.Stepf(r.ctx, "Setting up %s...", name)
	if !r.mkdir(name) {
		return nil
	}
	dir, err := r.fsys.Join(name)
	if err != nil {
		r.warn(errs.Wrap(errs.EFSWrite, "resolve "+name, err))
		return nil
	}

	if spec.Framework != "" && r.m.Scaffolder != nil {
		r.scaffold(dir, spec.Framework)
	}

	manifest := path.Join(name, "package.json")
	if r.m.Installer != nil && !r.fsys.Exists(manifest) {
		if err := r.m.Installer.Init(r.ctx, dir); err != nil {
			r.warn(err)
		}
	}

	for _, folder := range spec.Folders {
		r.mkdir(path.Join(name, folder))
	}
	for _, file := range spec.Files {
		r.writeFile(path.Join(name, file))
	}

	devDeps := []string(spec.DevDependencies)
	if side == types.SideBackend {
		devDeps = architecture.BackendDevDependencies(*spec, r.lang)
	}
	if r.m.Installer != nil && (len(spec.Dependencies) > 0 || len(devDeps) > 0) {
		ui.Stepf(r.ctx, "Installing %s dependencies...", name)
		if err := r.m.Installer.Install(r.ctx, dir, spec.Dependencies, false); err != nil {
			r.warn(err)
		}
		if err := r.m.Installer.Install(r.ctx, dir, devDeps, true); err != nil {
			r.warn(err)
		}
	}

	switch side {
	case types.SideFrontend:
		if !r.m.SkipStyles {
			for _, w := range WireTailwind(r.ctx, r.fsys, name, r.m.Installer) {
				r.warn(w)
			}
		}
	case types.SideBackend:
		if err := MergeManifest(r.fsys, manifest, r.doc.ProjectName, r.lang); err != nil {
			if spec.HasDependencies() {
				return err
			}
			r.warn(err)
		} else {
			ui.Successf(r.ctx, "Backend package.json configured with proper scripts")
		}
	}
	return nil
}

func (r *run) scaffold(dir, framework string) {
	ran, err := r.m.Scaffolder.Scaffold(r.ctx, dir, framework, r.lang)
	if err != nil {
		r.warn(err)
	}
	if !ran {
		ui.Infof(r.ctx, "No scaffolding tool for framework %q", framework)
		return
	}
	if err := FlattenNested(dir); err != nil {
		r.warn(errs.Wrap(errs.EScaffoldTool, fmt.Sprintf("fix nested folders in %s", filepath.Base(dir)), err))
	}
}
