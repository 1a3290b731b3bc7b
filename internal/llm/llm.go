package llm

import (
	"context"
	"errors"

	"merngen/internal/types"
)

var ErrEmptyResponse = errors.New("empty response from backend")

// Request is one attempt at generating an architecture.
type Request struct {
	// UserPrompt is the text the user typed.
	UserPrompt string
	// Prompt is the full instruction text built from UserPrompt.
	Prompt      string
	ProjectType types.ProjectType
	// Model overrides the backend's default model when set.
	Model string
}

// ArchitectureBackend returns the raw text of a generated architecture. The
// text is untrusted and may wrap the JSON object in prose.
type ArchitectureBackend interface {
	Name() string
	Request(ctx context.Context, req Request) (string, error)
}

// PermanentError indicates an error that will not resolve with retries.
type PermanentError struct {
	Err error
}

func (e *PermanentError) Error() string { return e.Err.Error() }
func (e *PermanentError) Unwrap() error { return e.Err }

func NewPermanentError(err error) error {
	return &PermanentError{Err: err}
}

// IsPermanent reports whether err is or wraps a PermanentError.
func IsPermanent(err error) bool {
	var p *PermanentError
	return errors.As(err, &p)
}
