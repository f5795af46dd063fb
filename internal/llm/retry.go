package llm

import (
	"context"
	"errors"
	"math/rand"
	"time"
)

// MaxRetries bounds the attempts made for a single question.
const MaxRetries = 5

// IsRetryable checks if an error is worth retrying.
func IsRetryable(err error) bool {
	var retryErr *RetryableError
	return errors.As(err, &retryErr)
}

// Backoff returns a duration for attempt n (0-indexed) with jitter.
func Backoff(attempt int) time.Duration {
	base := time.Duration(1<<uint(attempt)) * time.Second
	if base > 30*time.Second {
		base = 30 * time.Second
	}
	jitter := time.Duration(rand.Int63n(int64(base) / 2))
	return base + jitter
}

// AnswerWithRetry wraps Answer with backoff on transient failures. The
// context deadline still applies across all attempts.
func (c *Client) AnswerWithRetry(ctx context.Context, system, user string) (string, error) {
	var lastErr error
	for attempt := 0; attempt < MaxRetries; attempt++ {
		answer, err := c.Answer(ctx, system, user)
		if err == nil {
			return answer, nil
		}
		lastErr = err
		if !IsRetryable(err) {
			return "", err
		}

		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case <-time.After(Backoff(attempt)):
		}
	}
	return "", lastErr
}
