// Package retry provides a single retry-with-cooldown helper shared by every outbound call.
package retry

import (
	"context"
	"errors"
	"time"
)

// SleepFunc blocks for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Sleep waits for d, returning ctx.Err() if the context ends first.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

// Policy describes how an operation is retried.
type Policy struct {
	// Attempts is the total number of tries, including the first. Values below 1 mean 1.
	Attempts int
	// Cooldown is the fixed wait between attempts.
	Cooldown time.Duration
	// ShouldRetry decides whether an error is worth another attempt. Nil retries every
	// error except context cancellation.
	ShouldRetry func(error) bool
	// OnRetry is called before each cooldown with the attempt number that failed.
	OnRetry func(attempt int, err error)
	// Sleep overrides the cooldown wait (tests).
	Sleep SleepFunc
}

// Once returns a policy with exactly one retry after cooldown.
func Once(cooldown time.Duration) Policy {
	return Policy{Attempts: 2, Cooldown: cooldown}
}

// Do runs op until it succeeds, the policy is exhausted, or the error is not retryable.
// The last error is returned unchanged so callers can still errors.Is/As it.
func Do(ctx context.Context, p Policy, op func(ctx context.Context) error) error {
	_, err := Value(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	attempts := max(p.Attempts, 1)
	sleep := p.Sleep
	if sleep == nil {
		sleep = Sleep
	}

	var zero T
	var lastErr error
	for attempt := 1; attempt <= attempts; attempt++ {
		result, err := op(ctx)
		if err == nil {
			return result, nil
		}
		lastErr = err

		if attempt == attempts || !p.retryable(err) {
			break
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt, err)
		}
		if sleepErr := sleep(ctx, p.Cooldown); sleepErr != nil {
			return zero, sleepErr
		}
	}
	return zero, lastErr
}

func (p Policy) retryable(err error) bool {
	if errors.Is(err, context.Canceled) {
		return false
	}
	if p.ShouldRetry != nil {
		return p.ShouldRetry(err)
	}
	return true
}
