package handler

import (
	"encoding/json"
	"io"
	"log"
	"net/http"
	"strings"

	"merngen/internal/architecture"
	cachearch "merngen/internal/cache/architecture"
	"merngen/internal/errs"
	"merngen/internal/gateway/middleware"
	"merngen/internal/generate"
	"merngen/internal/types"
	"merngen/internal/ui"
)

const (
	StatusText   = "Mern Gen Proxy is Running"
	maxBodyBytes = 1 << 20
)

type generateRequest struct {
	Prompt string `json:"prompt"`
}

type generateResponse struct {
	Success     bool                        `json:"success"`
	Data        *types.ArchitectureDocument `json:"data,omitempty"`
	ProjectType types.ProjectType           `json:"projectType,omitempty"`
	Error       string                      `json:"error,omitempty"`
}

// GenerateHandler serves the generation proxy used by the CLI's proxy
// backend. Cache may be nil.
type GenerateHandler struct {
	source generate.DocumentSource
	cache  *cachearch.Store
	log    *log.Logger
}

func NewGenerateHandler(source generate.DocumentSource, cache *cachearch.Store, logger *log.Logger) *GenerateHandler {
	if logger == nil {
		logger = log.Default()
	}
	return &GenerateHandler{source: source, cache: cache, log: logger}
}

func (h *GenerateHandler) HandleStatus(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, StatusText)
}

func (h *GenerateHandler) HandleGenerate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeJSON(w, http.StatusMethodNotAllowed, generateResponse{Error: "method not allowed"})
		return
	}
	var in generateRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes)).Decode(&in); err != nil && err != io.EOF {
		writeJSON(w, http.StatusBadRequest, generateResponse{Error: "invalid json body"})
		return
	}
	prompt := strings.TrimSpace(in.Prompt)
	if prompt == "" {
		writeJSON(w, http.StatusBadRequest, generateResponse{Error: "Prompt is required"})
		return
	}

	if hit, ok := h.cache.Get(prompt); ok {
		h.log.Printf("generate cache hit id=%s", middleware.RequestIDFrom(r.Context()))
		writeJSON(w, http.StatusOK, generateResponse{Success: true, Data: hit.Doc, ProjectType: hit.ProjectType})
		return
	}

	id := middleware.RequestIDFrom(r.Context())
	ctx := ui.WithReporter(r.Context(), ui.LogReporter{Logger: h.log, Prefix: "[" + id + "] "})
	pt := architecture.Classify(prompt)
	doc, err := h.source.Generate(ctx, prompt, pt)
	if err != nil {
		ui.Errorf(ctx, "generate failed: %v", err)
		writeJSON(w, statusFor(err), generateResponse{Error: errs.Message(err)})
		return
	}
	h.cache.Put(prompt, cachearch.Entry{Doc: doc, ProjectType: pt})
	writeJSON(w, http.StatusOK, generateResponse{Success: true, Data: doc, ProjectType: pt})
}

func statusFor(err error) int {
	switch errs.GetCode(err) {
	case errs.EInput:
		return http.StatusBadRequest
	case errs.EMissingProjectName, errs.EGenerationFailed:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
