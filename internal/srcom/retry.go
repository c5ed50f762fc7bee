package srcom

import (
	"context"
	"errors"
	"log/slog"
	"time"
)

// RetryPolicy bounds how often and how patiently a network call is
// retried before its error is surfaced.
//
// Design decision: The policy is data, not behavior. A small struct
// passed to Do keeps every call site on the same rules and makes them
// trivial to tighten in tests (1 attempt, no delay).
type RetryPolicy struct {
	// MaxAttempts is the total number of tries, including the first.
	MaxAttempts int

	// Delay is the fixed pause between ordinary retries.
	Delay time.Duration

	// RateLimitWait replaces Delay when the failure was a rate-limit
	// response. speedrun.com enforces a one-minute penalty window, so
	// retrying sooner just burns an attempt.
	RateLimitWait time.Duration

	// Verbose emits a warn-level log line for every failed attempt.
	// Maps to the print-retry-info configuration toggle.
	Verbose bool
}

// DefaultRetryPolicy returns the policy used against the live API.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{
		MaxAttempts:   4,
		Delay:         2 * time.Second,
		RateLimitWait: 60 * time.Second,
	}
}

// Do runs op under the retry policy and returns its result.
// A lookup that fails and then succeeds within the attempt budget is
// indistinguishable from one that succeeds immediately. Permanent
// failures (404, context cancellation, non-5xx status errors) are
// returned without further attempts.
func Do[T any](ctx context.Context, policy RetryPolicy, logger *slog.Logger, what string, op func(context.Context) (T, error)) (T, error) {
	var zero T
	if logger == nil {
		logger = slog.Default()
	}

	attempts := policy.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for attempt := 1; attempt <= attempts; attempt++ {
		var result T
		result, err = op(ctx)
		if err == nil {
			return result, nil
		}

		if isPermanent(err) {
			return zero, err
		}

		if attempt == attempts {
			break
		}

		delay := policy.Delay
		if errors.Is(err, ErrRateLimited) {
			delay = policy.RateLimitWait
		}

		if policy.Verbose {
			logger.Warn("request failed, retrying",
				"operation", what,
				"attempt", attempt,
				"maxAttempts", attempts,
				"delay", delay,
				"error", err,
			)
		}

		if sleepErr := sleepContext(ctx, delay); sleepErr != nil {
			return zero, sleepErr
		}
	}

	if policy.Verbose {
		logger.Warn("retries exhausted",
			"operation", what,
			"attempts", attempts,
			"error", err,
		)
	}
	return zero, err
}

// isPermanent reports whether retrying err can never help.
func isPermanent(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var statusErr *StatusError
	if errors.As(err, &statusErr) {
		return !statusErr.Temporary()
	}
	return false
}

// sleepContext pauses for d unless the context is cancelled first.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
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
