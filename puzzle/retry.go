package puzzle

import (
	"context"
	"errors"
)

// errExhausted is the internal marker attemptUntil returns when the budget
// runs out; call sites wrap it into a stage-specific *ErrRetryExhausted.
var errExhausted = errors.New("attempts exhausted")

// attemptUntil runs body up to maxAttempts times and returns the first
// successful value along with the number of attempts spent. body reports
// success through its second return; a non-nil error aborts immediately.
// The context is checked between attempts, never mid-attempt.
func attemptUntil[T any](ctx context.Context, maxAttempts int, body func(attempt int) (T, bool, error)) (T, int, error) {
	var zero T
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return zero, attempt - 1, err
		}
		v, ok, err := body(attempt)
		if err != nil {
			return zero, attempt, err
		}
		if ok {
			return v, attempt, nil
		}
	}
	return zero, maxAttempts, errExhausted
}
