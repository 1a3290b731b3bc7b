// Package cli is the merngen command line front-end.
package cli

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"merngen/internal/errs"
	"merngen/internal/generate"
	"merngen/internal/llm"
	"merngen/internal/materialize"
	"merngen/internal/runner"
	"merngen/internal/ui"
)

// BackendFactory builds the generation backend from the resolved config.
type BackendFactory func(ctx context.Context, cfg *generate.Config, logger *log.Logger) (llm.ArchitectureBackend, error)

func defaultBackend(ctx context.Context, cfg *generate.Config, logger *log.Logger) (llm.ArchitectureBackend, error) {
	return cfg.NewBackend(ctx, logger)
}

// Options wires the command to its collaborators. Zero values select the
// real implementations.
type Options struct {
	Stdout     io.Writer
	Stderr     io.Writer
	Styles     *Styles
	NewBackend BackendFactory
	Runner     runner.CommandRunner
}

type flags struct {
	dir          string
	backend      string
	proxyURL     string
	models       []string
	retries      int
	policy       string
	skipInstall  bool
	skipScaffold bool
	skipStyles   bool
	verbose      bool
}

func NewRootCmd(opts Options) *cobra.Command {
	if opts.Stdout == nil {
		opts.Stdout = os.Stdout
	}
	if opts.Stderr == nil {
		opts.Stderr = os.Stderr
	}
	if opts.Styles == nil {
		s := NewStyles()
		opts.Styles = &s
	}
	if opts.NewBackend == nil {
		opts.NewBackend = defaultBackend
	}
	if opts.Runner == nil {
		opts.Runner = runner.NewRealRunner()
	}

	var f flags
	cmd := &cobra.Command{
		Use:   `merngen "<project description>"`,
		Short: "Generate a MERN project skeleton from a plain-language description",
		Long: `merngen asks a generative model for a project architecture, then creates
the directory tree, boilerplate files and package manifests for it.

Examples:
  merngen "a todo app with auth and a REST api"
  merngen --backend proxy "a typescript landing page"`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, f, strings.Join(args, " "))
		},
	}

	fl := cmd.Flags()
	fl.StringVarP(&f.dir, "dir", "C", "", "parent directory of the new project (default: working directory)")
	fl.StringVar(&f.backend, "backend", "", "generation backend: gemini or proxy (env MERNGEN_BACKEND)")
	fl.StringVar(&f.proxyURL, "proxy-url", "", "generation proxy endpoint (env MERN_GEN_PROXY_URL)")
	fl.StringSliceVar(&f.models, "models", nil, "model rotation list (env MERNGEN_MODELS)")
	fl.IntVar(&f.retries, "retries", 0, "generation attempts (env MERNGEN_RETRIES)")
	fl.StringVar(&f.policy, "policy", "", "YAML retry/model policy file (env MERNGEN_POLICY_FILE)")
	fl.BoolVar(&f.skipInstall, "skip-install", false, "do not run npm")
	fl.BoolVar(&f.skipScaffold, "skip-scaffold", false, "do not run framework generators")
	fl.BoolVar(&f.skipStyles, "skip-styles", false, "do not wire Tailwind into the frontend")
	fl.BoolVarP(&f.verbose, "verbose", "v", false, "log backend requests and tool output")
	return cmd
}

func run(cmd *cobra.Command, opts Options, f flags, prompt string) error {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return errs.New(errs.EInput, `please provide a project description, e.g. merngen "a todo app with auth"`)
	}
	cfg, err := resolveConfig(cmd, f)
	if err != nil {
		return err
	}

	logger := log.New(io.Discard, "", 0)
	var toolOutput io.Writer
	if f.verbose {
		logger = log.New(opts.Stderr, "", log.LstdFlags)
		toolOutput = opts.Stderr
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	ctx = ui.WithReporter(ctx, NewConsoleReporter(opts.Stdout, *opts.Styles))

	backend, err := opts.NewBackend(ctx, cfg, logger)
	if err != nil {
		return err
	}

	m := &materialize.Materializer{SkipStyles: f.skipStyles}
	if !f.skipInstall {
		m.Installer = runner.NewNPMInstaller(opts.Runner, toolOutput)
	}
	if !f.skipScaffold {
		m.Scaffolder = runner.NewFrameworkScaffolder(opts.Runner)
	}
	g := &generate.Generator{
		Source:       generate.NewArchitect(backend, cfg),
		Materializer: m,
		Dir:          f.dir,
	}

	st := opts.Styles
	fmt.Fprintln(opts.Stdout, st.Title.Render("merngen"))
	ui.Infof(ctx, "Backend: %s", backend.Name())
	res, err := g.Run(ctx, prompt)
	if err != nil {
		return err
	}
	printSummary(opts.Stdout, *st, res)
	return nil
}

// resolveConfig layers explicit flags over the environment and policy file.
func resolveConfig(cmd *cobra.Command, f flags) (*generate.Config, error) {
	cfg, err := generate.LoadConfig()
	if err != nil {
		return nil, err
	}
	if f.policy != "" {
		p, err := generate.LoadPolicy(f.policy)
		if err != nil {
			return nil, err
		}
		if err := cfg.ApplyPolicy(p); err != nil {
			return nil, err
		}
	}
	fl := cmd.Flags()
	if fl.Changed("proxy-url") {
		cfg.ProxyURL = f.proxyURL
		cfg.Backend = generate.BackendProxy
	}
	if fl.Changed("backend") {
		switch b := strings.ToLower(strings.TrimSpace(f.backend)); b {
		case generate.BackendGemini, generate.BackendProxy:
			cfg.Backend = b
		default:
			return nil, errs.Newf(errs.EInput, "--backend must be %q or %q, got %q", generate.BackendGemini, generate.BackendProxy, f.backend)
		}
	}
	if cfg.Backend == generate.BackendProxy && cfg.ProxyURL == "" {
		cfg.ProxyURL = llm.DefaultProxyURL
	}
	if fl.Changed("models") && len(f.models) > 0 {
		cfg.Models = f.models
	}
	if fl.Changed("retries") {
		if f.retries < 1 {
			return nil, errs.Newf(errs.EInput, "--retries must be at least 1, got %d", f.retries)
		}
		cfg.Retries = f.retries
	}
	return cfg, nil
}

func printSummary(w io.Writer, st Styles, res *generate.Result) {
	fmt.Fprintln(w)
	fmt.Fprintln(w, st.Success.Render(fmt.Sprintf("✔ %s is ready (%s, %s)", res.ProjectName, res.ProjectType.Label(), res.Language.Label())))
	fmt.Fprintln(w, st.Subtle.Render("  "+res.Root))
	if n := len(res.Warnings); n > 0 {
		fmt.Fprintln(w, st.Warn.Render(fmt.Sprintf("⚠ finished with %d warning(s)", n)))
	}
	if len(res.NextSteps) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintln(w, st.Title.Render("Next steps:"))
		for _, s := range res.NextSteps {
			fmt.Fprintln(w, st.Command.Render(s))
		}
	}
}

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, opts Options) int {
	cmd := NewRootCmd(opts)
	cmd.SetArgs(args)
	cmd.SetOut(opts.Stdout)
	cmd.SetErr(opts.Stderr)
	err := cmd.ExecuteContext(ctx)
	if err != nil {
		st := NewStyles()
		if opts.Styles != nil {
			st = *opts.Styles
		}
		stderr := opts.Stderr
		if stderr == nil {
			stderr = os.Stderr
		}
		fmt.Fprintln(stderr, st.Error.Render("✖ "+errs.Message(err)))
	}
	return errs.ExitCode(err)
}
