package notion

import (
	"context"
	"time"
)

// Policy controls how a failed call is retried. Delay is fixed between
// attempts; Retryable decides which errors are worth another attempt.
type Policy struct {
	MaxAttempts int
	Delay       time.Duration
	Retryable   func(error) bool
}

// Do runs fn up to MaxAttempts times, sleeping Delay between attempts. It
// stops early on success, on a non-retryable error, or when the context is
// done. The last error is wrapped in ErrRetryExhausted only when the final
// retryable attempt also failed.
func Do(ctx context.Context, p Policy, fn func() error) error {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	retryable := p.Retryable
	if retryable == nil {
		retryable = IsTransient
	}

	var lastErr error
	for i := 0; i < attempts; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		lastErr = fn()
		if lastErr == nil {
			return nil
		}
		if !retryable(lastErr) {
			return lastErr
		}
		if i < attempts-1 {
			if err := sleep(ctx, p.Delay); err != nil {
				return err
			}
		}
	}
	return &retryExhaustedError{last: lastErr}
}

type retryExhaustedError struct {
	last error
}

func (e *retryExhaustedError) Error() string {
	return ErrRetryExhausted.Error() + ": " + e.last.Error()
}

func (e *retryExhaustedError) Is(target error) bool {
	return target == ErrRetryExhausted
}

func (e *retryExhaustedError) Unwrap() error {
	return e.last
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
