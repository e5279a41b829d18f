// Package retry holds the bounded retry policy shared by the catalog
// build and the live price fetch.
package retry

import (
	"context"
	"time"

	apperrors "cryptoboard/internal/errors"
)

// Policy retries transient failures up to MaxRetries times, waiting
// Backoff between attempts. Fatal failures are returned at once.
type Policy struct {
	MaxRetries int
	Backoff    time.Duration

	// OnRetry, when set, is called before each wait.
	OnRetry func(attempt int, err error)
}

// None never retries.
var None = Policy{}

// Do runs op until it succeeds, fails fatally, or the retry budget is spent.
func (p Policy) Do(ctx context.Context, op func(ctx context.Context) error) error {
	_, err := Value(ctx, p, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, op(ctx)
	})
	return err
}

// Value is Do for operations that produce a result.
func Value[T any](ctx context.Context, p Policy, op func(ctx context.Context) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := op(ctx)
		if err == nil {
			return v, nil
		}
		if !apperrors.IsTransient(err) || attempt >= p.MaxRetries {
			return v, err
		}
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, err)
		}
		if werr := wait(ctx, p.Backoff); werr != nil {
			return v, apperrors.Fatal(apperrors.Canceled, "retry aborted", err)
		}
	}
}

func wait(ctx context.Context, d time.Duration) error {
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
