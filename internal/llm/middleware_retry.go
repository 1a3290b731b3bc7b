package llm

import (
	"context"
	"time"
)

// Sleep waits for d or until ctx is done. Tests replace it.
var Sleep = func(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Retry calls fn up to attempts times with linear backoff: base after the
// first failure, 2*base after the second, and so on. It stops at the first
// success, at a PermanentError, or when ctx is cancelled, and returns the
// last error otherwise. onRetry, when set, is called before each wait.
func Retry(ctx context.Context, attempts int, base time.Duration, fn func(attempt int) error, onRetry func(attempt int, err error, wait time.Duration)) error {
	if attempts < 1 {
		attempts = 1
	}
	var last error
	for i := 0; i < attempts; i++ {
		err := fn(i)
		if err == nil {
			return nil
		}
		last = err
		if IsPermanent(err) || i == attempts-1 {
			break
		}
		wait := base * time.Duration(i+1)
		if onRetry != nil {
			onRetry(i, err, wait)
		}
		if err := Sleep(ctx, wait); err != nil {
			return err
		}
	}
	return last
}
