package retry

import (
	"context"
	"strings"
	"time"
)

// Policy controls how Do retries a failing call
type Policy struct {
	// MaxRetries is the number of attempts after the first one
	MaxRetries int
	// BaseDelay is the wait before the first retry; each later wait doubles
	BaseDelay time.Duration
	// Retryable decides whether an error is worth another attempt. Nil
	// retries nothing.
	Retryable func(error) bool
	// OnRetry is called before each wait
	OnRetry func(attempt int, delay time.Duration, err error)
}

// DefaultPolicy retries rate-limit failures three times starting at two
// seconds
func DefaultPolicy() Policy {
	return Policy{
		MaxRetries: 3,
		BaseDelay:  2 * time.Second,
		Retryable:  IsRateLimited,
	}
}

// Delay is the wait before retry number attempt (1-based)
func (p Policy) Delay(attempt int) time.Duration {
	if attempt < 1 {
		return 0
	}
	return p.BaseDelay << (attempt - 1)
}

// Do calls fn until it succeeds, returns an error the policy does not
// retry, or runs out of retries. The last error is returned as is.
func Do[T any](ctx context.Context, p Policy, fn func(ctx context.Context) (T, error)) (T, error) {
	for attempt := 0; ; attempt++ {
		v, err := fn(ctx)
		if err == nil {
			return v, nil
		}
		if attempt >= p.MaxRetries || p.Retryable == nil || !p.Retryable(err) {
			return v, err
		}

		delay := p.Delay(attempt + 1)
		if p.OnRetry != nil {
			p.OnRetry(attempt+1, delay, err)
		}

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			var zero T
			return zero, ctx.Err()
		case <-timer.C:
		}
	}
}

// IsRateLimited reports whether err looks like a quota or rate-limit
// rejection from the AI service
func IsRateLimited(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	return strings.Contains(msg, "429") ||
		strings.Contains(msg, "RESOURCE_EXHAUSTED") ||
		strings.Contains(strings.ToLower(msg), "quota")
}
