package generate

import (
	"context"
	"errors"
	"strings"
	"time"

	"merngen/internal/architecture"
	"merngen/internal/errs"
	"merngen/internal/llm"
	"merngen/internal/types"
	"merngen/internal/ui"
)

// Architect runs the request -> normalize cycle against a backend with
// bounded retries, linear backoff and model rotation.
type Architect struct {
	Backend llm.ArchitectureBackend
	Models  []string
	Retries int
	Backoff time.Duration
}

func NewArchitect(backend llm.ArchitectureBackend, cfg *Config) *Architect {
	a := &Architect{Backend: backend, Retries: DefaultRetries, Backoff: DefaultBackoff}
	if cfg != nil {
		a.Models = cfg.Models
		a.Retries = cfg.Retries
		a.Backoff = cfg.Backoff
	}
	return a
}

func (a *Architect) model(attempt int) string {
	if len(a.Models) == 0 {
		return ""
	}
	return a.Models[attempt%len(a.Models)]
}

// Generate returns a normalized document for prompt. A missing projectName
// fails without further attempts; transport and malformed responses are
// retried and surface as E_GENERATION_FAILED once attempts run out.
func (a *Architect) Generate(ctx context.Context, prompt string, pt types.ProjectType) (*types.ArchitectureDocument, error) {
	prompt = strings.TrimSpace(prompt)
	if prompt == "" {
		return nil, errs.New(errs.EInput, "prompt is required")
	}
	if a.Backend == nil {
		return nil, errs.New(errs.EInput, "no generation backend configured")
	}
	full := architecture.BuildPrompt(prompt, pt)

	var doc *types.ArchitectureDocument
	attempts := a.Retries
	if attempts < 1 {
		attempts = DefaultRetries
	}
	err := llm.Retry(ctx, attempts, a.Backoff, func(attempt int) error {
		text, err := a.Backend.Request(ctx, llm.Request{
			UserPrompt:  prompt,
			Prompt:      full,
			ProjectType: pt,
			Model:       a.model(attempt),
		})
		if err != nil {
			if errs.GetCode(err) == errs.EInput {
				return llm.NewPermanentError(err)
			}
			return err
		}
		d, err := architecture.Normalize(text, pt)
		switch {
		case errors.Is(err, architecture.ErrMissingProjectName):
			return llm.NewPermanentError(errs.Wrap(errs.EMissingProjectName, "architecture has no project name", err))
		case err != nil:
			return errs.Wrap(errs.EMalformedResponse, "normalize response", err)
		}
		doc = d
		return nil
	}, func(attempt int, err error, wait time.Duration) {
		ui.Warnf(ctx, "Attempt %d failed: %s. Retrying in %s...", attempt+1, errs.Message(err), wait)
	})
	if err == nil {
		return doc, nil
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, ctxErr
	}
	if llm.IsPermanent(err) {
		return nil, err
	}
	return nil, errs.Wrap(errs.EGenerationFailed, "failed to generate architecture after retries", err)
}
