// Package circuitbreaker guards calls to MongoDB so a failing database is
// skipped quickly instead of holding every request until its timeout.
package circuitbreaker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog/log"
)

// ErrCircuitOpen is returned instead of calling through while the circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker is open")

// State represents the state of the circuit breaker.
type State int

const (
	// StateClosed lets every call through.
	StateClosed State = iota
	// StateOpen rejects calls until the cool-down elapses.
	StateOpen
	// StateHalfOpen lets a limited number of probe calls through.
	StateHalfOpen
)

// String returns the string representation of the state.
func (s State) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateOpen:
		return "open"
	case StateHalfOpen:
		return "half-open"
	default:
		return "unknown"
	}
}

// Config holds circuit breaker configuration.
type Config struct {
	// FailureThreshold is the number of consecutive failures that opens the circuit.
	FailureThreshold int
	// SuccessThreshold is the number of consecutive probe successes that closes it again.
	SuccessThreshold int
	// Timeout is the cool-down before an open circuit admits probes.
	Timeout time.Duration
	// MaxProbes caps concurrent calls while half-open. Defaults to SuccessThreshold.
	MaxProbes int
	// Name identifies the breaker in logs, metrics and readiness output.
	Name string
	// IsFailure decides whether an error counts against the circuit.
	// Defaults to every error except context cancellation.
	IsFailure func(error) bool
	// OnStateChange, when set, is called after every transition while the breaker lock is held.
	OnStateChange func(name string, from, to State)
}

// DefaultConfig returns a default circuit breaker configuration.
func DefaultConfig() Config {
	return Config{
		FailureThreshold: 5,
		SuccessThreshold: 2,
		Timeout:          30 * time.Second,
		Name:             "circuit-breaker",
	}
}

// countsAsFailure treats a caller giving up as the caller's problem, not the database's.
func countsAsFailure(err error) bool {
	return !errors.Is(err, context.Canceled)
}

// CircuitBreaker is safe for concurrent use.
type CircuitBreaker struct {
	config Config
	now    func() time.Time

	mu          sync.Mutex
	state       State
	failures    int
	successes   int
	probes      int
	openedAt    time.Time
	lastFailure time.Time
	rejected    int64
}

// New creates a closed circuit breaker. Zero thresholds fall back to DefaultConfig.
func New(config Config) *CircuitBreaker {
	d := DefaultConfig()
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = d.FailureThreshold
	}
	if config.SuccessThreshold <= 0 {
		config.SuccessThreshold = d.SuccessThreshold
	}
	if config.Timeout <= 0 {
		config.Timeout = d.Timeout
	}
	if config.MaxProbes <= 0 {
		config.MaxProbes = config.SuccessThreshold
	}
	if config.Name == "" {
		config.Name = d.Name
	}
	if config.IsFailure == nil {
		config.IsFailure = countsAsFailure
	}

	return &CircuitBreaker{
		config: config,
		now:    time.Now,
		state:  StateClosed,
	}
}

// Execute runs fn unless the circuit is open. A context that is already done
// short-circuits without touching the counters.
func (cb *CircuitBreaker) Execute(ctx context.Context, fn func() error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	probe, err := cb.admit()
	if err != nil {
		return err
	}

	callErr := fn()
	cb.record(probe, callErr)
	return callErr
}

// admit reports whether the call may proceed and whether it is a half-open probe.
func (cb *CircuitBreaker) admit() (bool, error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.config.Timeout {
			cb.rejected++
			return false, ErrCircuitOpen
		}
		cb.setState(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.probes >= cb.config.MaxProbes {
			cb.rejected++
			return false, ErrCircuitOpen
		}
		cb.probes++
		return true, nil
	}
	return false, nil
}

func (cb *CircuitBreaker) record(probe bool, err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if probe && cb.probes > 0 {
		cb.probes--
	}

	if err != nil && cb.config.IsFailure(err) {
		cb.failures++
		cb.successes = 0
		cb.lastFailure = cb.now()

		// A failed probe reopens at once; a late failure from before the
		// circuit opened does not restart the cool-down.
		if cb.state == StateHalfOpen || (cb.state == StateClosed && cb.failures >= cb.config.FailureThreshold) {
			cb.setState(StateOpen)
		}
		return
	}

	cb.failures = 0
	if cb.state == StateHalfOpen && probe {
		cb.successes++
		if cb.successes >= cb.config.SuccessThreshold {
			cb.setState(StateClosed)
		}
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.successes = 0
	cb.probes = 0
	if to == StateOpen {
		cb.openedAt = cb.now()
	}
	if to == StateClosed {
		cb.failures = 0
	}

	event := log.Info()
	if to == StateOpen {
		event = log.Warn()
	}
	event.Str("circuit_breaker", cb.config.Name).
		Str("from", from.String()).
		Str("to", to.String()).
		Msg("Circuit breaker state changed")

	if cb.config.OnStateChange != nil {
		cb.config.OnStateChange(cb.config.Name, from, to)
	}
}

// Name returns the configured name.
func (cb *CircuitBreaker) Name() string {
	return cb.config.Name
}

// State returns the current state. An open circuit whose cool-down has
// elapsed still reports open until the next call probes it.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

// IsOpen returns true if the circuit breaker is open.
func (cb *CircuitBreaker) IsOpen() bool {
	return cb.State() == StateOpen
}

// Stats is a snapshot of the breaker for readiness output.
type Stats struct {
	State        string
	FailureCount int
	SuccessCount int
	Rejected     int64
	LastFailure  time.Time
	IsHealthy    bool
}

// GetStats returns current circuit breaker statistics.
func (cb *CircuitBreaker) GetStats() Stats {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return Stats{
		State:        cb.state.String(),
		FailureCount: cb.failures,
		SuccessCount: cb.successes,
		Rejected:     cb.rejected,
		LastFailure:  cb.lastFailure,
		IsHealthy:    cb.state == StateClosed,
	}
}
