package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	cachearch "merngen/internal/cache/architecture"
	"merngen/internal/errs"
	"merngen/internal/types"
)

type stubSource struct {
	doc     *types.ArchitectureDocument
	err     error
	prompts []string
	kinds   []types.ProjectType
}

func (s *stubSource) Generate(_ context.Context, prompt string, pt types.ProjectType) (*types.ArchitectureDocument, error) {
	s.prompts = append(s.prompts, prompt)
	s.kinds = append(s.kinds, pt)
	return s.doc, s.err
}

func newHandler(src *stubSource) *GenerateHandler {
	return NewGenerateHandler(src, cachearch.New(8, time.Minute), log.New(io.Discard, "", 0))
}

func post(t *testing.T, h http.HandlerFunc, body string) (*httptest.ResponseRecorder, map[string]any) {
	t.Helper()
	rec := httptest.NewRecorder()
	h(rec, httptest.NewRequest(http.MethodPost, "/generate", strings.NewReader(body)))
	var out map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &out))
	return rec, out
}

func TestHandleGenerateSuccessAndCache(t *testing.T) {
	doc := &types.ArchitectureDocument{ProjectName: "blog", Frontend: types.EmptySide(), Backend: types.EmptySide()}
	src := &stubSource{doc: doc}
	h := newHandler(src)

	rec, out := post(t, h.HandleGenerate, `{"prompt":"  a static site blog "}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, true, out["success"])
	assert.Equal(t, "frontend", out["projectType"])
	assert.Equal(t, "blog", out["data"].(map[string]any)["projectName"])
	assert.Equal(t, []string{"a static site blog"}, src.prompts)
	assert.Equal(t, []types.ProjectType{types.ProjectFrontend}, src.kinds)

	rec, out = post(t, h.HandleGenerate, `{"prompt":"a static site blog"}`)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, true, out["success"])
	assert.Len(t, src.prompts, 1)
}

func TestHandleGenerateBadRequests(t *testing.T) {
	tests := []struct {
		name string
		body string
		want string
	}{
		{"missing prompt", `{}`, "Prompt is required"},
		{"blank prompt", `{"prompt":"   "}`, "Prompt is required"},
		{"empty body", ``, "Prompt is required"},
		{"invalid json", `{"prompt":`, "invalid json body"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src := &stubSource{}
			rec, out := post(t, newHandler(src).HandleGenerate, tt.body)
			assert.Equal(t, http.StatusBadRequest, rec.Code)
			assert.Equal(t, false, out["success"])
			assert.Equal(t, tt.want, out["error"])
			assert.Empty(t, src.prompts)
		})
	}
}

func TestHandleGenerateFailures(t *testing.T) {
	tests := []struct {
		err    error
		status int
	}{
		{errs.New(errs.EGenerationFailed, "retries exhausted"), http.StatusBadGateway},
		{errs.New(errs.EMissingProjectName, "no name"), http.StatusBadGateway},
		{errs.New(errs.EInput, "bad"), http.StatusBadRequest},
		{context.DeadlineExceeded, http.StatusInternalServerError},
	}
	for _, tt := range tests {
		src := &stubSource{err: tt.err}
		h := newHandler(src)
		rec, out := post(t, h.HandleGenerate, `{"prompt":"an api"}`)
		assert.Equal(t, tt.status, rec.Code, "%v", tt.err)
		assert.Equal(t, false, out["success"])
		assert.Equal(t, errs.Message(tt.err), out["error"])

		// failures are not cached
		post(t, h.HandleGenerate, `{"prompt":"an api"}`)
		assert.Len(t, src.prompts, 2)
	}
}

func TestHandleGenerateLogsFailure(t *testing.T) {
	var buf bytes.Buffer
	h := NewGenerateHandler(&stubSource{err: errs.New(errs.EGenerationFailed, "retries exhausted")},
		cachearch.New(8, time.Minute), log.New(&buf, "", 0))
	post(t, h.HandleGenerate, `{"prompt":"an api"}`)
	assert.Contains(t, buf.String(), "error: generate failed: E_GENERATION_FAILED: retries exhausted")
}

func TestHandleGenerateMethod(t *testing.T) {
	rec := httptest.NewRecorder()
	newHandler(&stubSource{}).HandleGenerate(rec, httptest.NewRequest(http.MethodGet, "/generate", nil))
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
	assert.Equal(t, http.MethodPost, rec.Header().Get("Allow"))
}

func TestHandleStatus(t *testing.T) {
	h := newHandler(&stubSource{})
	rec := httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, StatusText, rec.Body.String())

	rec = httptest.NewRecorder()
	h.HandleStatus(rec, httptest.NewRequest(http.MethodGet, "/missing", nil))
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
