package requestspro

import (
	"time"

	"github.com/cirleamihai/requests-pro/internal/backoff"
)

// BackoffPolicy shapes the delay between retry attempts. The middleware runs
// without one by default, retrying immediately the way the format's other
// implementations do.
type BackoffPolicy struct {
	initial    time.Duration
	max        time.Duration
	multiplier float64
	jitter     float64
}

// NewBackoffPolicy builds an exponential-jitter policy.
func NewBackoffPolicy(initial, max time.Duration, multiplier, jitter float64) *BackoffPolicy {
	if multiplier <= 0 {
		multiplier = 2.0
	}
	if max <= 0 {
		max = 10 * time.Second
	}
	return &BackoffPolicy{initial: initial, max: max, multiplier: multiplier, jitter: jitter}
}

// Delay returns the wait before the given 0-based retry attempt.
func (p *BackoffPolicy) Delay(attempt int) time.Duration {
	if p == nil || p.initial <= 0 {
		return 0
	}
	return backoff.Delay(attempt, p.initial, p.max, p.multiplier, p.jitter)
}
