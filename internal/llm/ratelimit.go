package llm

import (
	"context"
	"sync"
	"time"
)

// Limiter is a lightweight token-bucket limiter that throttles to at most
// R requests per second with an optional burst capacity.
type Limiter struct {
	tokens   chan struct{}
	stopCh   chan struct{}
	stopOnce sync.Once
}

// NewLimiter creates a limiter that allows up to rps events per second
// with a burst capacity of 'burst'. If rps <= 0, it returns nil and
// Acquire on the nil Limiter is a no-op.
func NewLimiter(rps float64, burst int) *Limiter {
	if rps <= 0 {
		return nil
	}
	if burst <= 0 {
		burst = 1
	}

	l := &Limiter{
		tokens: make(chan struct{}, burst),
		stopCh: make(chan struct{}),
	}

	// Pre-fill bucket to allow an initial burst.
	for i := 0; i < burst; i++ {
		l.tokens <- struct{}{}
	}

	period := time.Duration(float64(time.Second) / rps)
	if period <= 0 {
		period = time.Millisecond
	}
	ticker := time.NewTicker(period)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				select {
				case l.tokens <- struct{}{}:
				default:
					// bucket full; drop token
				}
			case <-l.stopCh:
				return
			}
		}
	}()

	return l
}

// Acquire blocks until a token is available or the context is canceled.
func (l *Limiter) Acquire(ctx context.Context) error {
	if l == nil {
		return nil
	}
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-l.stopCh:
		return context.Canceled
	case <-l.tokens:
		return nil
	}
}

// Stop terminates the refill goroutine. Pending and later Acquire calls
// fail with context.Canceled.
func (l *Limiter) Stop() {
	if l == nil {
		return
	}
	l.stopOnce.Do(func() { close(l.stopCh) })
}

// WithRateLimit makes every request wait for a token from l. A nil limiter
// disables throttling.
func WithRateLimit(l *Limiter) Middleware {
	return func(next ArchitectureBackend) ArchitectureBackend {
		if l == nil {
			return next
		}
		return &rateLimited{next: next, lim: l}
	}
}

type rateLimited struct {
	next ArchitectureBackend
	lim  *Limiter
}

func (r *rateLimited) Name() string { return r.next.Name() }

func (r *rateLimited) Request(ctx context.Context, req Request) (string, error) {
	if err := r.lim.Acquire(ctx); err != nil {
		return "", err
	}
	return r.next.Request(ctx, req)
}
