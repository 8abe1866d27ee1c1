// Package retry retries transient storage operations such as opening the
// connection pool and the startup health check.
package retry

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"strings"
	"time"
)

// Retryer runs a function until it succeeds, the attempts are exhausted or
// the context ends.
type Retryer struct {
	config Config
}

// NewRetryer validates config and creates a Retryer.
func NewRetryer(config Config) (*Retryer, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid retry config: %w", err)
	}
	return &Retryer{config: config}, nil
}

// Do runs fn with retries. The returned error wraps the last failure.
func (r *Retryer) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if !r.config.Enabled {
		return fn(ctx)
	}

	for attempt := 1; ; attempt++ {
		err := fn(ctx)
		if err == nil {
			return nil
		}
		if !r.retryable(err) {
			return fmt.Errorf("non-retryable error: %w", err)
		}
		if r.config.MaxAttempts > 0 && attempt >= r.config.MaxAttempts {
			return fmt.Errorf("max retry attempts (%d) exceeded: %w", r.config.MaxAttempts, err)
		}

		delay := r.delay(attempt)
		if r.config.OnRetry != nil {
			r.config.OnRetry(attempt, err, delay)
		}

		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return fmt.Errorf("retry cancelled after %d attempts: %w (last error: %v)", attempt, ctx.Err(), err)
		}
	}
}

func (r *Retryer) delay(attempt int) time.Duration {
	var d time.Duration
	switch r.config.Backoff {
	case BackoffLinear:
		d = r.config.InitialDelay * time.Duration(attempt)
	case BackoffExponential:
		d = time.Duration(float64(r.config.InitialDelay) * math.Pow(r.config.Multiplier, float64(attempt-1)))
	default:
		d = r.config.InitialDelay
	}
	if d > r.config.MaxDelay {
		d = r.config.MaxDelay
	}

	if r.config.Jitter > 0 {
		d += time.Duration(float64(d) * r.config.Jitter * (rand.Float64()*2 - 1))
		if d < 0 {
			d = r.config.InitialDelay
		}
	}
	return d
}

func (r *Retryer) retryable(err error) bool {
	if len(r.config.RetryableErrors) == 0 {
		return true
	}
	msg := err.Error()
	for _, pattern := range r.config.RetryableErrors {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
