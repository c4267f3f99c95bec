package service

import (
	"fmt"
	"time"
)

var retryBaseDelay = 500 * time.Millisecond

// retry runs fn up to attempts times with a linear backoff. Used for
// transient storage failures only; model calls are never retried here.
func retry[T any](attempts int, fn func() (T, error)) (T, error) {
	var zero T
	var lastErr error

	for i := 0; i < attempts; i++ {
		result, err := fn()
		if err == nil {
			return result, nil
		}
		lastErr = err
		time.Sleep(time.Duration(i+1) * retryBaseDelay)
	}
	return zero, fmt.Errorf("after %d attempts: %w", attempts, lastErr)
}
