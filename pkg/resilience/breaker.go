// Package resilience protects the storage connection from being hammered
// while it is down.
//
// After Config.MaxFailures consecutive failures the circuit opens and calls
// fail fast with ErrCircuitOpen. Once Config.Timeout has elapsed a trial call
// is let through (half-open); enough successful trials close the circuit, a
// failed one opens it again.
package resilience

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned while the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State of a CircuitBreaker.
type State int

const (
	StateClosed State = iota
	StateHalfOpen
	StateOpen
)

func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return fmt.Sprintf("unknown(%d)", s)
	}
}

// Counts are the request counters of the current state.
type Counts struct {
	Requests             uint32
	ConsecutiveSuccesses uint32
	ConsecutiveFailures  uint32
}

// CircuitBreaker guards calls to storage. It is safe for concurrent use.
type CircuitBreaker struct {
	config Config

	mu         sync.Mutex
	state      State
	generation uint64 // bumped on every transition; stale results are ignored
	counts     Counts
	expiry     time.Time
	now        func() time.Time
}

// New creates a CircuitBreaker.
func New(config Config) (*CircuitBreaker, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid circuit breaker config: %w", err)
	}
	if config.IsFailure == nil {
		config.IsFailure = countsAsFailure
	}
	return &CircuitBreaker{config: config, now: time.Now}, nil
}

// Execute runs fn unless the circuit is open.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func(ctx context.Context) error) error {
	if !cb.config.Enabled {
		return fn(ctx)
	}

	generation, err := cb.before()
	if err != nil {
		return err
	}

	err = fn(ctx)
	cb.after(generation, err == nil || !cb.config.IsFailure(err))
	return err
}

// State returns the current state.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.state == StateOpen && !cb.now().Before(cb.expiry) {
		return StateHalfOpen
	}
	return cb.state
}

// Counts returns the counters of the current state.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.counts
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string { return cb.config.Name }

// Reset closes the circuit.
func (cb *CircuitBreaker) Reset() {
	cb.mu.Lock()
	notify := cb.transition(StateClosed)
	cb.mu.Unlock()
	notify()
}

func (cb *CircuitBreaker) before() (uint64, error) {
	cb.mu.Lock()
	notify := func() {}
	if cb.state == StateOpen && !cb.now().Before(cb.expiry) {
		notify = cb.transition(StateHalfOpen)
	}
	state, generation := cb.state, cb.generation
	cb.mu.Unlock()
	notify()

	if state == StateOpen {
		return generation, ErrCircuitOpen
	}
	return generation, nil
}

func (cb *CircuitBreaker) after(generation uint64, success bool) {
	cb.mu.Lock()
	if generation != cb.generation {
		cb.mu.Unlock()
		return
	}

	cb.counts.Requests++
	notify := func() {}
	if success {
		cb.counts.ConsecutiveSuccesses++
		cb.counts.ConsecutiveFailures = 0
		if cb.state == StateHalfOpen && cb.counts.ConsecutiveSuccesses >= cb.config.SuccessThreshold {
			notify = cb.transition(StateClosed)
		}
	} else {
		cb.counts.ConsecutiveFailures++
		cb.counts.ConsecutiveSuccesses = 0
		if cb.state == StateHalfOpen || cb.counts.ConsecutiveFailures >= cb.config.MaxFailures {
			notify = cb.transition(StateOpen)
		}
	}
	cb.mu.Unlock()
	notify()
}

// transition must be called with mu held. The returned func fires the
// callback and must be called after unlocking.
func (cb *CircuitBreaker) transition(to State) func() {
	from := cb.state
	if from == to {
		return func() {}
	}

	cb.state = to
	cb.generation++
	cb.counts = Counts{}
	if to == StateOpen {
		cb.expiry = cb.now().Add(cb.config.Timeout)
	}

	if cb.config.OnStateChange == nil {
		return func() {}
	}
	name := cb.config.Name
	return func() { cb.config.OnStateChange(name, from, to) }
}

func (cb *CircuitBreaker) String() string {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return fmt.Sprintf("CircuitBreaker(%s state=%s failures=%d/%d)",
		cb.config.Name, cb.state, cb.counts.ConsecutiveFailures, cb.config.MaxFailures)
}
