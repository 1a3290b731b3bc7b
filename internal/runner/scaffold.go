package runner

import (
	"context"
	"fmt"
	"strings"

	"merngen/internal/errs"
	"merngen/internal/types"
)

// ScaffoldCommand is one scaffolding tool invocation.
type ScaffoldCommand struct {
	Name string
	Args []string
	Env  map[string]string
}

func (c ScaffoldCommand) String() string {
	return c.Name + " " + strings.Join(c.Args, " ")
}

// ScaffoldCommandFor returns the generator for framework, or false when no
// tool is known for it.
func ScaffoldCommandFor(framework string, lang types.Language) (ScaffoldCommand, bool) {
	ts := lang == types.LangTypeScript
	switch strings.ToLower(strings.TrimSpace(framework)) {
	case "react", "vite":
		template := "react"
		if ts {
			template = "react-ts"
		}
		return ScaffoldCommand{
			Name: "npm",
			Args: []string{"create", "vite@latest", ".", "--", "--template", template},
			Env:  map[string]string{"CI": "true"},
		}, true
	case "next", "nextjs", "next.js":
		tsFlag := "--typescript=false"
		if ts {
			tsFlag = "--typescript"
		}
		return ScaffoldCommand{
			Name: "npx",
			Args: []string{"create-next-app@latest", ".", "--yes", tsFlag, "--eslint=false", "--tailwind=false", "--app=false"},
		}, true
	case "vue":
		return ScaffoldCommand{
			Name: "npm",
			Args: []string{"create", "vue@latest", ".", "--", "--default"},
			Env:  map[string]string{"CI": "true"},
		}, true
	}
	return ScaffoldCommand{}, false
}

// FrameworkScaffolder populates a side directory with a framework starter.
type FrameworkScaffolder struct {
	Runner CommandRunner
}

func NewFrameworkScaffolder(r CommandRunner) *FrameworkScaffolder {
	return &FrameworkScaffolder{Runner: r}
}

// Scaffold runs the generator for framework inside dir. It reports false
// with no error when no generator is known for the framework.
func (f *FrameworkScaffolder) Scaffold(ctx context.Context, dir, framework string, lang types.Language) (bool, error) {
	cmd, ok := ScaffoldCommandFor(framework, lang)
	if !ok {
		return false, nil
	}
	res, err := f.Runner.Run(ctx, cmd.Name, cmd.Args, RunOpts{Dir: dir, Env: cmd.Env})
	if err != nil {
		return true, errs.Wrap(errs.EScaffoldTool, cmd.String(), err)
	}
	if res.ExitCode != 0 {
		return true, errs.New(errs.EScaffoldTool, fmt.Sprintf("%s: exit %d: %s", cmd, res.ExitCode, tail(res)))
	}
	return true, nil
}
