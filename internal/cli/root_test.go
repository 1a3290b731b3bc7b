package cli

import (
	"bytes"
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merngen/internal/generate"
	"merngen/internal/llm"
	"merngen/internal/runner"
	"merngen/internal/ui"
)

const todoResponse = `{
  "projectName": "todo-app",
  "frontend": {"framework": "react", "dependencies": ["axios"], "files": ["src/App.jsx", "src/main.jsx"]},
  "backend": {"framework": "express", "dependencies": ["express", "cors"], "devDependencies": ["nodemon"], "files": ["index.js"], "folders": ["routes"]}
}`

type recordingRunner struct {
	mu    sync.Mutex
	calls []string
}

func (r *recordingRunner) Run(_ context.Context, name string, args []string, opts runner.RunOpts) (runner.CmdResult, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, filepath.Base(opts.Dir)+": "+name+" "+strings.Join(args, " "))
	return runner.CmdResult{}, nil
}

type harness struct {
	stdout, stderr bytes.Buffer
	runner         *recordingRunner
	fake           *llm.FakeClient
	cfg            *generate.Config
}

func newHarness(responses ...string) *harness {
	return &harness{runner: &recordingRunner{}, fake: llm.NewFakeClient(responses...)}
}

func (h *harness) options() Options {
	st := PlainStyles()
	return Options{
		Stdout: &h.stdout,
		Stderr: &h.stderr,
		Styles: &st,
		Runner: h.runner,
		NewBackend: func(_ context.Context, cfg *generate.Config, _ *log.Logger) (llm.ArchitectureBackend, error) {
			h.cfg = cfg
			return h.fake, nil
		},
	}
}

func TestExecuteGeneratesProject(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(todoResponse)

	code := Execute(context.Background(), []string{"--dir", dir, "a", "MERN", "todo", "app"}, h.options())
	require.Equal(t, 0, code, h.stderr.String())

	root := filepath.Join(dir, "todo-app")
	for _, rel := range []string{"README.md", "frontend/src/App.jsx", "backend/index.js", "backend/package.json"} {
		assert.FileExists(t, filepath.Join(root, rel))
	}
	assert.DirExists(t, filepath.Join(root, "backend", "routes"))

	assert.Contains(t, h.runner.calls, "frontend: npm create vite@latest . -- --template react")
	assert.Contains(t, h.runner.calls, "backend: npm install express cors")
	assert.Contains(t, h.runner.calls, "backend: npm install -D nodemon")

	out := h.stdout.String()
	assert.Contains(t, out, "Detected project type: Fullstack")
	assert.Contains(t, out, "Backend: FakeLLM")
	assert.Contains(t, out, "todo-app is ready (Fullstack, JavaScript)")
	assert.Contains(t, out, "  cd todo-app/frontend && npm run dev")
	assert.Contains(t, out, "  cd todo-app/backend && npm start")
	assert.Equal(t, "a MERN todo app", h.fake.Calls()[0].UserPrompt)
}

func TestExecuteSkipFlags(t *testing.T) {
	dir := t.TempDir()
	h := newHarness(todoResponse)

	code := Execute(context.Background(), []string{"-C", dir, "--skip-install", "--skip-scaffold", "--skip-styles", "a mern todo app"}, h.options())
	require.Equal(t, 0, code, h.stderr.String())
	assert.Empty(t, h.runner.calls)
	assert.NoFileExists(t, filepath.Join(dir, "todo-app", "frontend", "vite.config.ts"))
}

func TestExecuteRequiresPrompt(t *testing.T) {
	h := newHarness(todoResponse)
	assert.Equal(t, 1, Execute(context.Background(), []string{}, h.options()))
	assert.Contains(t, h.stderr.String(), "please provide a project description")
	assert.Empty(t, h.fake.Calls())

	h = newHarness(todoResponse)
	assert.Equal(t, 1, Execute(context.Background(), []string{"  "}, h.options()))
}

func TestExecuteExistingProjectFails(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(dir, "todo-app"), 0o755))
	h := newHarness(todoResponse)

	code := Execute(context.Background(), []string{"--dir", dir, "--skip-install", "todo app"}, h.options())
	assert.Equal(t, 1, code)
	assert.Contains(t, h.stderr.String(), `directory "todo-app" already exists`)
	entries, err := os.ReadDir(filepath.Join(dir, "todo-app"))
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestFlagsOverrideConfig(t *testing.T) {
	t.Setenv("MERNGEN_BACKEND", "")
	t.Setenv("MERN_GEN_PROXY_URL", "")
	policy := filepath.Join(t.TempDir(), "policy.yaml")
	require.NoError(t, os.WriteFile(policy, []byte("retries: 5\nbackoff: 10ms\n"), 0o644))

	h := newHarness(todoResponse)
	code := Execute(context.Background(), []string{
		"--dir", t.TempDir(), "--skip-install", "--skip-scaffold",
		"--backend", "proxy", "--models", "m1,m2", "--retries", "2", "--policy", policy,
		"todo app",
	}, h.options())
	require.Equal(t, 0, code, h.stderr.String())
	require.NotNil(t, h.cfg)
	assert.Equal(t, generate.BackendProxy, h.cfg.Backend)
	assert.Equal(t, llm.DefaultProxyURL, h.cfg.ProxyURL)
	assert.Equal(t, []string{"m1", "m2"}, h.cfg.Models)
	assert.Equal(t, 2, h.cfg.Retries)
	assert.Equal(t, "m1", h.fake.Calls()[0].Model)

	h = newHarness(todoResponse)
	assert.Equal(t, 1, Execute(context.Background(), []string{"--backend", "openai", "x"}, h.options()))
	assert.Contains(t, h.stderr.String(), "--backend must be")
}

func TestConsoleReporter(t *testing.T) {
	var buf bytes.Buffer
	r := NewConsoleReporter(&buf, PlainStyles())
	ctx := ui.WithReporter(context.Background(), r)
	ui.Stepf(ctx, "step")
	ui.Successf(ctx, "done")
	ui.Warnf(ctx, "careful")
	ui.Errorf(ctx, "broken")
	ui.Infof(ctx, "note")
	assert.Equal(t, "→ step\n✔ done\n⚠ careful\n✖ broken\n  note\n", buf.String())
}
