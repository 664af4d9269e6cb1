package circuitbreaker

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var errBoom = errors.New("boom")

func failingBreaker(t *testing.T, openTimeout time.Duration) *CircuitBreaker {
	t.Helper()
	return New("test", Config{
		FailureThreshold: 2,
		SuccessThreshold: 1,
		OpenTimeout:      openTimeout,
	})
}

func TestBreakerOpensAfterThreshold(t *testing.T) {
	cb := failingBreaker(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		require.ErrorIs(t, cb.Execute(ctx, func() error { return errBoom }), errBoom)
	}
	assert.Equal(t, StateOpen, cb.State())

	err := cb.Execute(ctx, func() error {
		t.Fatal("call must be shed while open")
		return nil
	})
	assert.ErrorIs(t, err, ErrCircuitOpen)
}

func TestBreakerRecoversThroughHalfOpen(t *testing.T) {
	cb := failingBreaker(t, 10*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func() error { return errBoom })
	}
	require.Equal(t, StateOpen, cb.State())

	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerReopensOnHalfOpenFailure(t *testing.T) {
	cb := failingBreaker(t, 10*time.Millisecond)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		cb.Execute(ctx, func() error { return errBoom })
	}
	time.Sleep(15 * time.Millisecond)
	require.Equal(t, StateHalfOpen, cb.State())

	cb.Execute(ctx, func() error { return errBoom })
	assert.Equal(t, StateOpen, cb.State())
}

func TestBreakerSuccessResetsFailureCount(t *testing.T) {
	cb := failingBreaker(t, time.Minute)
	ctx := context.Background()

	cb.Execute(ctx, func() error { return errBoom })
	require.NoError(t, cb.Execute(ctx, func() error { return nil }))
	cb.Execute(ctx, func() error { return errBoom })

	assert.Equal(t, StateClosed, cb.State())
}

func TestBreakerPanicCountsAsFailure(t *testing.T) {
	cb := failingBreaker(t, time.Minute)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		assert.Panics(t, func() {
			cb.Execute(ctx, func() error { panic("kaboom") })
		})
	}
	assert.Equal(t, StateOpen, cb.State())
}
