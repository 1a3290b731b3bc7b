package llm

import (
	"context"
	"strings"

	genai "google.golang.org/genai"

	"merngen/internal/errs"
)

// DefaultGeminiModel is used when neither the client nor the request names
// a model.
const DefaultGeminiModel = "gemini-3-flash-preview"

// GeminiClient is a thin wrapper around the official genai client.
// It only focuses on the API call itself. Retries and logging are applied
// by the caller and via Middleware.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, apiKey, model string) (*GeminiClient, error) {
	apiKey = strings.TrimSpace(apiKey)
	if apiKey == "" {
		return nil, errs.New(errs.EInput, "GEMINI_API_KEY is not set")
	}
	cli, err := genai.NewClient(ctx, &genai.ClientConfig{APIKey: apiKey, Backend: genai.BackendGeminiAPI})
	if err != nil {
		return nil, errs.Wrap(errs.EBackendTransport, "create gemini client", err)
	}
	if strings.TrimSpace(model) == "" {
		model = DefaultGeminiModel
	}
	return &GeminiClient{cli: cli, model: model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }

// Request sends the prompt as a single user turn and returns the text of the
// first candidate.
func (g *GeminiClient) Request(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = g.model
	}
	resp, err := g.cli.Models.GenerateContent(ctx, model,
		[]*genai.Content{{Role: "user", Parts: []*genai.Part{{Text: req.Prompt}}}},
		&genai.GenerateContentConfig{ResponseMIMEType: "application/json"},
	)
	if err != nil {
		return "", errs.Wrap(errs.EBackendTransport, "gemini "+model, err)
	}
	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return "", errs.Wrap(errs.EMalformedResponse, "gemini "+model, ErrEmptyResponse)
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	if strings.TrimSpace(b.String()) == "" {
		return "", errs.Wrap(errs.EMalformedResponse, "gemini "+model, ErrEmptyResponse)
	}
	return b.String(), nil
}
