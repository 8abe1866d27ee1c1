package retry

import (
	"fmt"
	"time"
)

// BackoffStrategy selects how the delay grows between attempts.
type BackoffStrategy string

const (
	BackoffConstant    BackoffStrategy = "constant"
	BackoffLinear      BackoffStrategy = "linear"
	BackoffExponential BackoffStrategy = "exponential"
)

// Config configures a Retryer.
type Config struct {
	Enabled bool `yaml:"enabled" koanf:"enabled"`

	// MaxAttempts counts the first attempt. 0 retries until the context ends.
	MaxAttempts int `yaml:"max_attempts" koanf:"max_attempts"`

	InitialDelay time.Duration `yaml:"initial_delay" koanf:"initial_delay"`
	MaxDelay     time.Duration `yaml:"max_delay" koanf:"max_delay"`

	Backoff    BackoffStrategy `yaml:"backoff" koanf:"backoff"`
	Multiplier float64         `yaml:"multiplier" koanf:"multiplier"`

	// Jitter randomizes each delay by up to ±Jitter of its value (0.0 - 1.0).
	Jitter float64 `yaml:"jitter" koanf:"jitter"`

	// RetryableErrors are substrings of error messages worth retrying.
	// Empty retries every error.
	RetryableErrors []string `yaml:"retryable_errors" koanf:"retryable_errors"`

	// OnRetry is called before sleeping between attempts.
	OnRetry func(attempt int, err error, delay time.Duration) `yaml:"-" koanf:"-"`
}

// Validate checks c and fills defaults.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxAttempts < 0 {
		return fmt.Errorf("max_attempts must be >= 0, got %d", c.MaxAttempts)
	}
	if c.InitialDelay < 0 {
		return fmt.Errorf("initial_delay must be >= 0")
	}
	if c.MaxDelay == 0 {
		c.MaxDelay = c.InitialDelay
	}
	if c.MaxDelay < c.InitialDelay {
		return fmt.Errorf("max_delay (%v) must be >= initial_delay (%v)", c.MaxDelay, c.InitialDelay)
	}
	switch c.Backoff {
	case "":
		c.Backoff = BackoffExponential
	case BackoffConstant, BackoffLinear, BackoffExponential:
	default:
		return fmt.Errorf("invalid backoff strategy: %s", c.Backoff)
	}
	if c.Multiplier <= 0 {
		c.Multiplier = 2.0
	}
	if c.Jitter < 0 || c.Jitter > 1.0 {
		return fmt.Errorf("jitter must be between 0.0 and 1.0, got %f", c.Jitter)
	}
	return nil
}

// DefaultConfig is used for connecting to storage: three attempts, one
// second apart and doubling, capped at ten seconds.
func DefaultConfig() Config {
	return Config{
		Enabled:      true,
		MaxAttempts:  3,
		InitialDelay: time.Second,
		MaxDelay:     10 * time.Second,
		Backoff:      BackoffExponential,
		Multiplier:   2.0,
		Jitter:       0.1,
	}
}

// Attempts returns a Config with maxAttempts constant-delay attempts.
func Attempts(maxAttempts int, delay time.Duration) Config {
	return Config{
		Enabled:      true,
		MaxAttempts:  maxAttempts,
		InitialDelay: delay,
		MaxDelay:     delay,
		Backoff:      BackoffConstant,
	}
}
