package notion

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDoSucceedsFirstAttempt(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3}, func() error {
		calls++
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 1, calls)
}

func TestDoRetriesTransientErrors(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3}, func() error {
		calls++
		if calls < 3 {
			return ErrRateLimited
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestDoStopsOnStructuralError(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 3}, func() error {
		calls++
		return ErrObjectNotFound
	})
	require.ErrorIs(t, err, ErrObjectNotFound)
	assert.Equal(t, 1, calls)
}

func TestDoWrapsExhaustion(t *testing.T) {
	calls := 0
	err := Do(context.Background(), Policy{MaxAttempts: 2}, func() error {
		calls++
		return ErrServerError
	})
	require.ErrorIs(t, err, ErrRetryExhausted)
	assert.ErrorIs(t, err, ErrServerError)
	assert.Equal(t, 2, calls)
}

func TestDoHonorsContextCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	calls := 0
	err := Do(ctx, Policy{MaxAttempts: 3}, func() error {
		calls++
		return ErrServerError
	})
	require.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, calls)
}

func TestDoSleepsBetweenAttempts(t *testing.T) {
	start := time.Now()
	_ = Do(context.Background(), Policy{MaxAttempts: 3, Delay: 20 * time.Millisecond}, func() error {
		return ErrServerError
	})
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
}

func TestThrottleSpacesCalls(t *testing.T) {
	th := newThrottle(30 * time.Millisecond)
	ctx := context.Background()

	start := time.Now()
	require.NoError(t, th.Wait(ctx))
	require.NoError(t, th.Wait(ctx))
	require.NoError(t, th.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 60*time.Millisecond)
}

func TestThrottleZeroIntervalNeverBlocks(t *testing.T) {
	th := newThrottle(0)
	start := time.Now()
	for i := 0; i < 100; i++ {
		require.NoError(t, th.Wait(context.Background()))
	}
	assert.Less(t, time.Since(start), 100*time.Millisecond)
}

func TestIsStructuralAndTransient(t *testing.T) {
	assert.True(t, IsStructural(ErrUnauthorized))
	assert.True(t, IsStructural(ErrObjectNotFound))
	assert.True(t, IsStructural(ErrInvalidRequest))
	assert.False(t, IsStructural(ErrRateLimited))

	assert.True(t, IsTransient(ErrRateLimited))
	assert.True(t, IsTransient(ErrServerError))
	assert.False(t, IsTransient(ErrUnauthorized))

	wrapped := errors.Join(ErrObjectNotFound)
	assert.True(t, IsStructural(wrapped))
}
