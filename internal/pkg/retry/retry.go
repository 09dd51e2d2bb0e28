package retry

import (
	"context"
	"time"
)

// Do runs op up to attempts times, sleeping delay between tries. It stops
// early when op succeeds, when shouldRetry rejects the error, or when the
// context is done. The last error seen is returned.
func Do(ctx context.Context, attempts int, delay time.Duration, shouldRetry func(error) bool, op func() error) error {
	if attempts < 1 {
		attempts = 1
	}

	var err error
	for i := 0; i < attempts; i++ {
		if err = op(); err == nil {
			return nil
		}
		if shouldRetry != nil && !shouldRetry(err) {
			return err
		}
		if i == attempts-1 {
			break
		}

		select {
		case <-ctx.Done():
			return err
		case <-time.After(delay):
		}
	}

	return err
}
