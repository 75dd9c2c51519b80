// Retry-with-backoff shared by the remote providers.
//
// Only errors the taxonomy marks retryable are retried; non-retryable
// failures surface immediately without consuming an attempt. Retries are
// sequential, never parallel-fanned.

package llm

import (
	"context"
	"math/rand"
	"time"
)

const (
	defaultMaxRetries = 3
	backoffBase       = time.Second
	backoffJitter     = time.Second
	backoffCap        = 30 * time.Second
)

// backoffDelay computes the delay before retry attempt k:
// min(1s * 2^k + random(0,1s), 30s).
func backoffDelay(attempt int) time.Duration {
	if attempt > 30 {
		return backoffCap
	}
	d := backoffBase*(1<<uint(attempt)) + time.Duration(rand.Int63n(int64(backoffJitter)))
	if d > backoffCap {
		d = backoffCap
	}
	return d
}

// withRetries runs one generation attempt via fn, retrying retryable
// failures up to maxRetries times with exponential backoff and jitter.
// fn returns an already-classified error. The last error is returned
// after retries are exhausted.
func withRetries(ctx context.Context, maxRetries int, fn func(context.Context) (GenerationResult, *GenerationError)) (GenerationResult, error) {
	if maxRetries < 0 {
		maxRetries = defaultMaxRetries
	}

	var lastErr *GenerationError
	for attempt := 0; attempt <= maxRetries; attempt++ {
		result, gerr := fn(ctx)
		if gerr == nil {
			return result, nil
		}
		if !gerr.Retryable() {
			return GenerationResult{}, gerr
		}
		lastErr = gerr
		if attempt == maxRetries {
			break
		}

		delay := backoffDelay(attempt)
		if gerr.RetryAfter > delay {
			delay = gerr.RetryAfter
		}
		select {
		case <-ctx.Done():
			return GenerationResult{}, Classify(gerr.Provider, ctx.Err())
		case <-time.After(delay):
		}
	}
	return GenerationResult{}, lastErr
}
