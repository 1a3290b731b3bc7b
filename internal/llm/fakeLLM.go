package llm

import (
	"context"
	"sync"
)

// FakeClient replays scripted responses for offline runs and tests. Each
// call consumes the next entry of Responses and Errors; once exhausted the
// last entry repeats. An empty script yields ErrEmptyResponse.
type FakeClient struct {
	Responses []string
	Errors    []error

	mu    sync.Mutex
	calls []Request
}

func NewFakeClient(responses ...string) *FakeClient {
	return &FakeClient{Responses: responses}
}

func (f *FakeClient) Name() string { return "FakeLLM" }

func (f *FakeClient) Request(ctx context.Context, req Request) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	i := len(f.calls)
	f.calls = append(f.calls, req)
	if err := pick(f.Errors, i); err != nil {
		return "", err
	}
	if len(f.Responses) == 0 {
		return "", ErrEmptyResponse
	}
	return pick(f.Responses, i), nil
}

// Calls returns a copy of the requests seen so far.
func (f *FakeClient) Calls() []Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]Request(nil), f.calls...)
}

func pick[T any](xs []T, i int) T {
	var zero T
	if len(xs) == 0 {
		return zero
	}
	if i >= len(xs) {
		i = len(xs) - 1
	}
	return xs[i]
}
