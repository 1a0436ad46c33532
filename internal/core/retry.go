package core

import (
	"context"
	"time"
)

// RetryPolicy describes exponential backoff between attempts. The first
// retry waits BaseDelay; each later retry multiplies the previous delay by
// Multiplier.
type RetryPolicy struct {
	MaxAttempts int
	BaseDelay   time.Duration
	Multiplier  float64
	// Sleep waits for d or until ctx is done. Nil uses a timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// NewRetryPolicy builds a doubling policy for the given number of retries
// after the first attempt.
func NewRetryPolicy(retries uint, baseDelay time.Duration) RetryPolicy {
	return RetryPolicy{
		MaxAttempts: int(retries) + 1,
		BaseDelay:   baseDelay,
		Multiplier:  2,
	}
}

// Delay returns the wait before the given zero-based attempt.
func (p RetryPolicy) Delay(attempt int) time.Duration {
	if attempt <= 0 {
		return 0
	}
	multiplier := p.Multiplier
	if multiplier < 1 {
		multiplier = 1
	}
	delay := float64(p.BaseDelay)
	for i := 1; i < attempt; i++ {
		delay *= multiplier
	}
	return time.Duration(delay)
}

// Do runs fn until it succeeds or attempts are exhausted. It returns the
// number of attempts made and the last error.
func (p RetryPolicy) Do(ctx context.Context, fn func(ctx context.Context, attempt int) error) (int, error) {
	attempts := p.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}
	var lastErr error
	for attempt := 0; attempt < attempts; attempt++ {
		if attempt > 0 {
			if err := p.sleep(ctx, p.Delay(attempt)); err != nil {
				return attempt, err
			}
		}
		lastErr = fn(ctx, attempt)
		if lastErr == nil {
			return attempt + 1, nil
		}
	}
	return attempts, lastErr
}

func (p RetryPolicy) sleep(ctx context.Context, d time.Duration) error {
	if p.Sleep != nil {
		return p.Sleep(ctx, d)
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
