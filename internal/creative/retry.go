package creative

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"
)

var retryBackoffs = []time.Duration{1 * time.Second, 2 * time.Second, 4 * time.Second}

// RetryWithBackoff runs fn up to maxRetries times with exponential backoff.
// Client errors (4xx) are returned at once since repeating them cannot help.
func RetryWithBackoff(ctx context.Context, fn func() error, maxRetries int) error {
	return retry(ctx, fn, maxRetries, retryBackoffs)
}

func retry(ctx context.Context, fn func() error, maxRetries int, backoffs []time.Duration) error {
	var lastErr error
	for i := 0; i < maxRetries; i++ {
		err := fn()
		if err == nil {
			return nil
		}
		if !retryable(err) {
			return err
		}
		lastErr = err

		if i == maxRetries-1 || i >= len(backoffs) {
			continue
		}
		timer := time.NewTimer(backoffs[i])
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}

	return fmt.Errorf("failed after %d retries: %w", maxRetries, lastErr)
}

func retryable(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, ErrMissingID) {
		return false
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode >= http.StatusInternalServerError || apiErr.StatusCode == http.StatusTooManyRequests
	}
	return true
}
