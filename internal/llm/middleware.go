package llm

import (
	"context"
	"log"
	"time"
)

// Middleware decorates an ArchitectureBackend to inject cross-cutting
// concerns.
type Middleware func(ArchitectureBackend) ArchitectureBackend

// Wrap applies middlewares in left-to-right order.
// Example: Wrap(inner, A, B) => A(B(inner))
func Wrap(inner ArchitectureBackend, mws ...Middleware) ArchitectureBackend {
	out := inner
	for i := len(mws) - 1; i >= 0; i-- {
		out = mws[i](out)
	}
	return out
}

// WithLogging logs request size, model, latency and errors. Provide a custom
// logger or nil to use log.Default().
func WithLogging(logger *log.Logger) Middleware {
	if logger == nil {
		logger = log.Default()
	}
	return func(next ArchitectureBackend) ArchitectureBackend {
		return &logging{next: next, log: logger}
	}
}

type logging struct {
	next ArchitectureBackend
	log  *log.Logger
}

func (l *logging) Name() string { return l.next.Name() }

func (l *logging) Request(ctx context.Context, req Request) (string, error) {
	model := req.Model
	if model == "" {
		model = "default"
	}
	l.log.Printf("architecture request (%s, %s, %s): %d bytes", l.next.Name(), model, req.ProjectType, len(req.Prompt))
	start := time.Now()
	text, err := l.next.Request(ctx, req)
	if err != nil {
		l.log.Printf("architecture error (%s, %s): %v", l.next.Name(), model, err)
		return text, err
	}
	l.log.Printf("architecture response (%s, %s): %d bytes in %s", l.next.Name(), model, len(text), time.Since(start).Round(time.Millisecond))
	return text, nil
}
