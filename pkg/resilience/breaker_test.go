package resilience

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errStorage = errors.New("connection reset by peer")

func newTestBreaker(t *testing.T) (*CircuitBreaker, *time.Time) {
	t.Helper()
	cfg := DefaultConfig("test")
	cfg.MaxFailures = 3
	cfg.Timeout = time.Minute
	cfg.SuccessThreshold = 2

	cb, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	clock := time.Date(2024, 3, 15, 10, 0, 0, 0, time.UTC)
	cb.now = func() time.Time { return clock }
	return cb, &clock
}

func fail(context.Context) error { return errStorage }
func succeed(context.Context) error { return nil }

func TestCircuitBreaker_OpensAfterMaxFailures(t *testing.T) {
	cb, _ := newTestBreaker(t)

	for i := 0; i < 3; i++ {
		if err := cb.Execute(context.Background(), fail); !errors.Is(err, errStorage) {
			t.Fatalf("call %d error = %v", i, err)
		}
	}
	if cb.State() != StateOpen {
		t.Fatalf("State() = %v, want open", cb.State())
	}

	called := false
	err := cb.Execute(context.Background(), func(context.Context) error {
		called = true
		return nil
	})
	if !errors.Is(err, ErrCircuitOpen) || called {
		t.Errorf("open circuit ran the call: err = %v, called = %v", err, called)
	}
}

func TestCircuitBreaker_SuccessResetsFailureRun(t *testing.T) {
	cb, _ := newTestBreaker(t)

	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), fail)
	_ = cb.Execute(context.Background(), succeed)
	_ = cb.Execute(context.Background(), fail)

	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
	if got := cb.Counts().ConsecutiveFailures; got != 1 {
		t.Errorf("ConsecutiveFailures = %d, want 1", got)
	}
}

func TestCircuitBreaker_HalfOpenRecovery(t *testing.T) {
	cb, clock := newTestBreaker(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}

	*clock = clock.Add(time.Minute)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State() = %v, want half-open after timeout", cb.State())
	}

	_ = cb.Execute(context.Background(), succeed)
	if cb.State() != StateHalfOpen {
		t.Fatalf("State() = %v, want half-open until threshold", cb.State())
	}
	_ = cb.Execute(context.Background(), succeed)
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_HalfOpenFailureReopens(t *testing.T) {
	cb, clock := newTestBreaker(t)
	for i := 0; i < 3; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
	*clock = clock.Add(2 * time.Minute)

	_ = cb.Execute(context.Background(), fail)
	if cb.State() != StateOpen {
		t.Errorf("State() = %v, want open", cb.State())
	}
}

func TestCircuitBreaker_CancellationDoesNotTrip(t *testing.T) {
	cb, _ := newTestBreaker(t)
	for i := 0; i < 5; i++ {
		_ = cb.Execute(context.Background(), func(context.Context) error { return context.Canceled })
	}
	if cb.State() != StateClosed {
		t.Errorf("State() = %v, want closed", cb.State())
	}
}

func TestCircuitBreaker_StateChangeCallback(t *testing.T) {
	var transitions []string
	cfg := DefaultConfig("mssql")
	cfg.MaxFailures = 1
	cfg.OnStateChange = func(name string, from, to State) {
		transitions = append(transitions, name+":"+from.String()+"->"+to.String())
	}
	cb, err := New(cfg)
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}

	_ = cb.Execute(context.Background(), fail)
	cb.Reset()

	want := []string{"mssql:closed->open", "mssql:open->closed"}
	if len(transitions) != 2 || transitions[0] != want[0] || transitions[1] != want[1] {
		t.Errorf("transitions = %v, want %v", transitions, want)
	}
}

func TestCircuitBreaker_Disabled(t *testing.T) {
	cb, err := New(Config{})
	if err != nil {
		t.Fatalf("New() error = %v", err)
	}
	for i := 0; i < 10; i++ {
		_ = cb.Execute(context.Background(), fail)
	}
	if err := cb.Execute(context.Background(), succeed); err != nil {
		t.Errorf("disabled breaker error = %v", err)
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"disabled", Config{}, false},
		{"default", DefaultConfig("x"), false},
		{"no failures", Config{Enabled: true, Timeout: time.Second}, true},
		{"no timeout", Config{Enabled: true, MaxFailures: 1}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.cfg.Validate(); (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
