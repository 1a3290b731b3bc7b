package generate

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"merngen/internal/errs"
	"merngen/internal/llm"
	"merngen/internal/materialize"
	"merngen/internal/types"
	"merngen/internal/ui"
)

const shopResponse = "Here you go:\n```json\n" + `{
  "projectName": "Shop App",
  "frontend": {"framework": "vanilla", "files": ["index.html", "src/main.js", "frontend/src/dup.js"], "folders": ["src"]},
  "backend": {"framework": "express", "dependencies": ["express"], "files": ["index.js", "routes/items.js"], "folders": ["routes"]},
  "rootFiles": ["README.md"]
}` + "\n```"

func recordSleeps(t *testing.T) *[]time.Duration {
	t.Helper()
	var waits []time.Duration
	orig := llm.Sleep
	llm.Sleep = func(ctx context.Context, d time.Duration) error {
		waits = append(waits, d)
		return ctx.Err()
	}
	t.Cleanup(func() { llm.Sleep = orig })
	return &waits
}

func TestArchitectRetriesWithModelRotation(t *testing.T) {
	waits := recordSleeps(t)
	fake := &llm.FakeClient{
		Errors:    []error{errs.New(errs.EBackendTransport, "503"), nil, nil},
		Responses: []string{"", "no json here", shopResponse},
	}
	a := &Architect{Backend: fake, Models: []string{"m1", "m2"}, Retries: 3, Backoff: time.Second}

	rec := &ui.Recorder{}
	ctx := ui.WithReporter(context.Background(), rec)
	doc, err := a.Generate(ctx, "  an online shop  ", types.ProjectFullstack)
	require.NoError(t, err)
	assert.Equal(t, "shop-app", doc.ProjectName)
	assert.Equal(t, types.StringSet{"index.html", "src/main.js"}, doc.Frontend.Files)

	calls := fake.Calls()
	require.Len(t, calls, 3)
	assert.Equal(t, []string{"m1", "m2", "m1"}, []string{calls[0].Model, calls[1].Model, calls[2].Model})
	assert.Equal(t, "an online shop", calls[0].UserPrompt)
	assert.Contains(t, calls[0].Prompt, `User Request: "an online shop"`)
	assert.Equal(t, []time.Duration{time.Second, 2 * time.Second}, *waits)
	assert.Len(t, rec.Messages(ui.LevelWarn), 2)
}

func TestArchitectExhaustion(t *testing.T) {
	recordSleeps(t)
	fake := &llm.FakeClient{Responses: []string{"not json"}}
	a := &Architect{Backend: fake, Retries: 3}

	_, err := a.Generate(context.Background(), "a blog", types.ProjectFullstack)
	assert.Equal(t, errs.EGenerationFailed, errs.GetCode(err))
	assert.Len(t, fake.Calls(), 3)
}

func TestArchitectMissingProjectNameIsImmediate(t *testing.T) {
	recordSleeps(t)
	fake := llm.NewFakeClient(`{"frontend": {"files": ["a.js"]}}`)
	a := &Architect{Backend: fake, Retries: 3}

	_, err := a.Generate(context.Background(), "a blog", types.ProjectFullstack)
	assert.Equal(t, errs.EMissingProjectName, errs.GetCode(err))
	assert.Len(t, fake.Calls(), 1)
}

func TestArchitectInputErrors(t *testing.T) {
	a := &Architect{Backend: llm.NewFakeClient(shopResponse)}
	_, err := a.Generate(context.Background(), "   ", types.ProjectFullstack)
	assert.Equal(t, errs.EInput, errs.GetCode(err))

	recordSleeps(t)
	fake := &llm.FakeClient{Errors: []error{errs.New(errs.EInput, "no key")}}
	_, err = (&Architect{Backend: fake, Retries: 3}).Generate(context.Background(), "x", types.ProjectFullstack)
	assert.Equal(t, errs.EInput, errs.GetCode(err))
	assert.Len(t, fake.Calls(), 1)
}

func TestArchitectCancelled(t *testing.T) {
	recordSleeps(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := (&Architect{Backend: llm.NewFakeClient(shopResponse), Retries: 2}).Generate(ctx, "x", types.ProjectFullstack)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestGeneratorRun(t *testing.T) {
	dir := t.TempDir()
	g := &Generator{
		Source:       &Architect{Backend: llm.NewFakeClient(shopResponse), Retries: 1},
		Materializer: &materialize.Materializer{},
		Dir:          dir,
	}
	rec := &ui.Recorder{}
	res, err := g.Run(ui.WithReporter(context.Background(), rec), "a MERN online shop")
	require.NoError(t, err)

	root := filepath.Join(dir, "shop-app")
	assert.Equal(t, PhaseDone, res.Phase)
	assert.Equal(t, root, res.Root)
	assert.Equal(t, types.LangJavaScript, res.Language)
	assert.Equal(t, []types.Side{types.SideFrontend, types.SideBackend}, res.Sides)
	assert.Equal(t, []string{"cd shop-app/frontend && npm run dev", "cd shop-app/backend && npm start"}, res.NextSteps)

	for _, rel := range []string{"README.md", ".gitignore", "frontend/index.html", "frontend/src/main.js", "backend/index.js", "backend/routes/items.js", "backend/package.json"} {
		assert.FileExists(t, filepath.Join(root, rel))
	}
	assert.NoFileExists(t, filepath.Join(root, "frontend", "src", "dup.js"))
	assert.NotEmpty(t, rec.Messages(ui.LevelStep))

	// a second run targets the same root and must not touch it
	before, err := os.ReadFile(filepath.Join(root, "backend", "index.js"))
	require.NoError(t, err)
	res, err = g.Run(context.Background(), "a MERN online shop")
	assert.Equal(t, errs.EPrecondition, errs.GetCode(err))
	assert.Equal(t, PhaseMaterialize, res.Phase)
	after, err := os.ReadFile(filepath.Join(root, "backend", "index.js"))
	require.NoError(t, err)
	assert.Equal(t, before, after)
}

func TestGeneratorRunFailures(t *testing.T) {
	res, err := (&Generator{}).Run(context.Background(), " ")
	assert.Equal(t, errs.EInput, errs.GetCode(err))
	assert.Equal(t, PhaseClassify, res.Phase)

	recordSleeps(t)
	g := &Generator{Source: &Architect{Backend: llm.NewFakeClient("garbage"), Retries: 2}, Dir: t.TempDir()}
	res, err = g.Run(context.Background(), "a landing page")
	assert.Equal(t, errs.EGenerationFailed, errs.GetCode(err))
	assert.Equal(t, PhaseGenerate, res.Phase)
	assert.Equal(t, types.ProjectFrontend, res.ProjectType)
}

func TestNextSteps(t *testing.T) {
	assert.Equal(t, []string{"cd api/backend && npm start"}, NextSteps("api", []types.Side{types.SideBackend}))
	assert.Empty(t, NextSteps("x", nil))
}
