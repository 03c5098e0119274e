// Package backoff computes retry delays with exponential growth and uniform
// jitter.
package backoff

import (
	"math/rand"
	"time"
)

// Delay returns the wait before retry number attempt (0-based). The result
// grows as initial*multiplier^attempt, capped at max, with up to
// jitter*delay of random slack added.
func Delay(attempt int, initial, max time.Duration, multiplier, jitter float64) time.Duration {
	if attempt < 0 {
		attempt = 0
	}
	if attempt > 30 {
		attempt = 30
	}

	delay := float64(initial)
	for i := 0; i < attempt; i++ {
		delay *= multiplier
		if delay >= float64(max) {
			delay = float64(max)
			break
		}
	}
	d := time.Duration(delay)
	if d < 0 || d > max {
		d = max
	}

	if jitter < 0 {
		jitter = 0
	}
	if jitter > 1 {
		jitter = 1
	}
	if jitter > 0 {
		slack := time.Duration(float64(d) * jitter * rand.Float64())
		if d+slack > max {
			d = max
		} else {
			d += slack
		}
	}
	return d
}
