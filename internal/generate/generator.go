// Package generate orchestrates one project generation: classify the prompt,
// obtain a normalized architecture, detect the language and materialize the
// tree.
package generate

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"merngen/internal/architecture"
	"merngen/internal/errs"
	"merngen/internal/materialize"
	"merngen/internal/types"
	"merngen/internal/ui"
)

// Phase names a step of Run.
type Phase string

const (
	PhaseClassify    Phase = "classify"
	PhaseGenerate    Phase = "generate"
	PhaseDetect      Phase = "detect"
	PhaseMaterialize Phase = "materialize"
	PhaseDone        Phase = "done"
)

// DocumentSource yields a normalized architecture for a prompt. *Architect
// implements it.
type DocumentSource interface {
	Generate(ctx context.Context, prompt string, pt types.ProjectType) (*types.ArchitectureDocument, error)
}

// Generator runs the whole pipeline. Dir is the parent of the project root
// and defaults to the working directory.
type Generator struct {
	Source       DocumentSource
	Materializer *materialize.Materializer
	Dir          string
}

// Result describes a finished run.
type Result struct {
	// Phase is the last phase reached; PhaseDone on success.
	Phase       Phase
	ProjectName string
	Root        string
	ProjectType types.ProjectType
	Language    types.Language
	Sides       []types.Side
	Warnings    []string
	NextSteps   []string
}

// Run executes classify -> generate -> detect -> materialize. The returned
// Result is non-nil even on error and reports the phase that failed.
func (g *Generator) Run(ctx context.Context, prompt string) (*Result, error) {
	res := &Result{Phase: PhaseClassify}
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return res, errs.New(errs.EInput, "please provide a project description")
	}
	if g.Source == nil {
		return res, errs.New(errs.EInput, "no architecture source configured")
	}

	ui.Stepf(ctx, "Analyzing prompt...")
	res.ProjectType = architecture.Classify(prompt)
	ui.Infof(ctx, "Detected project type: %s", res.ProjectType.Label())

	res.Phase = PhaseGenerate
	ui.Stepf(ctx, "Generating architecture...")
	doc, err := g.Source.Generate(ctx, prompt, res.ProjectType)
	if err != nil {
		return res, err
	}
	res.ProjectName = doc.ProjectName
	ui.Successf(ctx, "Architecture generated: %s", doc.ProjectName)

	res.Phase = PhaseDetect
	res.Language = architecture.DetectLanguage(doc)
	ui.Infof(ctx, "Language: %s", res.Language.Label())
	if hint := architecture.LanguageFromPrompt(prompt); hint == types.LangTypeScript && res.Language != hint {
		ui.Warnf(ctx, "TypeScript was requested but the architecture uses %s", res.Language.Label())
	}

	res.Phase = PhaseMaterialize
	dir := g.Dir
	if dir == "" {
		if dir, err = os.Getwd(); err != nil {
			return res, errs.Wrap(errs.EPrecondition, "resolve working directory", err)
		}
	}
	res.Root = filepath.Join(dir, doc.ProjectName)
	ui.Stepf(ctx, "Creating project structure in %s...", res.Root)

	m := g.Materializer
	if m == nil {
		m = &materialize.Materializer{}
	}
	out, err := m.Materialize(ctx, res.Root, doc, res.Language)
	if out != nil {
		res.Sides = out.Sides
		res.Warnings = out.Warnings
	}
	if err != nil {
		return res, fmt.Errorf("materialize %s: %w", doc.ProjectName, err)
	}

	res.Phase = PhaseDone
	res.NextSteps = NextSteps(doc.ProjectName, res.Sides)
	ui.Successf(ctx, "Project %s created", doc.ProjectName)
	return res, nil
}

// NextSteps lists the commands that start each materialized side.
func NextSteps(projectName string, sides []types.Side) []string {
	var out []string
	for _, s := range sides {
		switch s {
		case types.SideFrontend:
			out = append(out, fmt.Sprintf("cd %s/frontend && npm run dev", projectName))
		case types.SideBackend:
			out = append(out, fmt.Sprintf("cd %s/backend && npm start", projectName))
		}
	}
	return out
}
