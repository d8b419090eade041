package fetch

import (
	"context"
	"time"

	"github.com/oshokin/llc-launcher/internal/logger"
)

// Attempt fetches one value from one endpoint.
type Attempt[T any] func(ctx context.Context, endpoint Endpoint) (T, error)

// outcome is the completion of one attempt, tagged with its endpoint index.
type outcome[T any] struct {
	index int
	value T
	err   error
}

// Race runs attempt against every endpoint of set concurrently and settles on:
//   - the first success, whatever its index; pending attempts are cancelled;
//   - the failure of the last endpoint, which ends the race even if earlier
//     endpoints are still running.
//
// Failures of other endpoints are logged and dropped. When every endpoint
// fails the caller therefore receives the last endpoint's error. A set with a
// single endpoint is a plain request. timeout bounds each attempt separately.
func Race[T any](ctx context.Context, set SourceSet, timeout time.Duration, attempt Attempt[T]) (T, Endpoint, error) {
	var zero T

	endpoints := set.endpoints
	if len(endpoints) == 0 {
		return zero, Endpoint{}, ErrEmptySourceSet
	}

	if len(endpoints) == 1 {
		value, err := runAttempt(ctx, timeout, endpoints[0], attempt)

		return value, endpoints[0], err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	// Buffered so losers can finish after the race is decided.
	outcomes := make(chan outcome[T], len(endpoints))

	for i, endpoint := range endpoints {
		go func() {
			value, err := runAttempt(ctx, timeout, endpoint, attempt)
			outcomes <- outcome[T]{index: i, value: value, err: err}
		}()
	}

	last := len(endpoints) - 1

	for {
		result := <-outcomes
		endpoint := endpoints[result.index]

		if result.err == nil {
			logger.DebugKV(ctx, "Source won the race", "endpoint", endpoint, "index", result.index)

			return result.value, endpoint, nil
		}

		if result.index == last {
			return zero, endpoint, result.err
		}

		logger.WarnKV(ctx, "Source attempt failed, waiting for other mirrors",
			"endpoint", endpoint,
			"index", result.index,
			"error", result.err)
	}
}

// runAttempt calls attempt with its own deadline when timeout is positive.
func runAttempt[T any](ctx context.Context, timeout time.Duration, endpoint Endpoint, attempt Attempt[T]) (T, error) {
	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	return attempt(ctx, endpoint)
}
