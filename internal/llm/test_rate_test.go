package llm

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimiterBurstThenBlocks(t *testing.T) {
	l := NewLimiter(0.5, 2)
	defer l.Stop()

	require.NoError(t, l.Acquire(context.Background()))
	require.NoError(t, l.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Millisecond)
	defer cancel()
	assert.ErrorIs(t, l.Acquire(ctx), context.DeadlineExceeded)
}

func TestLimiterRefills(t *testing.T) {
	l := NewLimiter(100, 1)
	defer l.Stop()

	start := time.Now()
	for i := 0; i < 3; i++ {
		require.NoError(t, l.Acquire(context.Background()))
	}
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestLimiterStop(t *testing.T) {
	l := NewLimiter(0.1, 1)
	require.NoError(t, l.Acquire(context.Background()))
	l.Stop()
	l.Stop()
	assert.ErrorIs(t, l.Acquire(context.Background()), context.Canceled)
}

func TestNilLimiterIsNoop(t *testing.T) {
	var l *Limiter
	assert.Nil(t, NewLimiter(0, 5))
	assert.NoError(t, l.Acquire(context.Background()))
	l.Stop()

	fake := NewFakeClient("x")
	assert.Same(t, ArchitectureBackend(fake), WithRateLimit(nil)(fake))
}

func TestWithRateLimit(t *testing.T) {
	l := NewLimiter(0.1, 1)
	defer l.Stop()
	c := Wrap(NewFakeClient(`{}`), WithRateLimit(l))

	_, err := c.Request(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Request(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, "FakeLLM", c.Name())
}
