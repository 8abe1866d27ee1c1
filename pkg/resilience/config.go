package resilience

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// Config configures a CircuitBreaker.
type Config struct {
	// Enabled turns the breaker on. A disabled breaker runs every call.
	Enabled bool `yaml:"enabled" koanf:"enabled"`

	// Name identifies the breaker in logs, usually the database type.
	Name string `yaml:"name" koanf:"name"`

	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures uint32 `yaml:"max_failures" koanf:"max_failures"`

	// Timeout is how long the circuit stays open before a trial call is let through.
	Timeout time.Duration `yaml:"timeout" koanf:"timeout"`

	// SuccessThreshold is the number of consecutive successful trial calls
	// that closes the circuit again.
	SuccessThreshold uint32 `yaml:"success_threshold" koanf:"success_threshold"`

	// OnStateChange is called after every transition, outside the lock.
	OnStateChange func(name string, from, to State) `yaml:"-" koanf:"-"`

	// IsFailure decides whether an error counts against the circuit.
	// nil counts every error except caller cancellation.
	IsFailure func(err error) bool `yaml:"-" koanf:"-"`
}

// Validate checks c and fills defaults.
func (c *Config) Validate() error {
	if !c.Enabled {
		return nil
	}
	if c.MaxFailures == 0 {
		return fmt.Errorf("max_failures must be greater than 0")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	if c.SuccessThreshold == 0 {
		c.SuccessThreshold = 1
	}
	if c.Name == "" {
		c.Name = "storage"
	}
	return nil
}

// DefaultConfig returns an enabled breaker that opens after 5 consecutive
// failures and probes again after 30 seconds.
func DefaultConfig(name string) Config {
	return Config{
		Enabled:          true,
		Name:             name,
		MaxFailures:      5,
		Timeout:          30 * time.Second,
		SuccessThreshold: 1,
	}
}

func countsAsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}
