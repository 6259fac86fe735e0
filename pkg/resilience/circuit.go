// Package resilience provides the guards wrapped around external calls:
// a consecutive-failure circuit breaker and an exponential-backoff retry.
package resilience

import (
	"fmt"
	"sync"
	"time"
)

// BreakerState represents the state of a circuit breaker
type BreakerState int

const (
	StateClosed BreakerState = iota
	StateHalfOpen
	StateOpen
)

// String returns the string representation of the state
func (s BreakerState) String() string {
	switch s {
	case StateClosed:
		return "closed"
	case StateHalfOpen:
		return "half-open"
	case StateOpen:
		return "open"
	default:
		return "unknown"
	}
}

// BreakerConfig holds configuration for a circuit breaker
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures required to
	// open the circuit
	FailureThreshold int

	// ResetWindow is the period after which an open circuit allows a probe
	ResetWindow time.Duration

	// OnStateChange is called when the state changes
	OnStateChange func(name string, from, to BreakerState)
}

// ErrBreakerOpen is returned when a call is rejected by an open breaker.
type ErrBreakerOpen struct {
	Name        string
	NextAttempt time.Time
}

func (e *ErrBreakerOpen) Error() string {
	return fmt.Sprintf("circuit breaker %q is open until %s", e.Name, e.NextAttempt.Format(time.RFC3339))
}

// Breaker implements a circuit breaker over consecutive failures. It is
// safe for concurrent use within a single process.
type Breaker struct {
	name        string
	config      BreakerConfig
	state       BreakerState
	failures    int
	lastFailure time.Time
	nextAttempt time.Time
	mu          sync.Mutex
}

// NewBreaker creates a circuit breaker with the given configuration
func NewBreaker(name string, config BreakerConfig) *Breaker {
	if config.FailureThreshold <= 0 {
		config.FailureThreshold = 3
	}
	if config.ResetWindow <= 0 {
		config.ResetWindow = 60 * time.Second
	}
	return &Breaker{
		name:   name,
		config: config,
		state:  StateClosed,
	}
}

// Allow reports whether a call may proceed. An open breaker transitions to
// half-open once the reset window has elapsed, admitting a single probe.
func (b *Breaker) Allow() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case StateOpen:
		if time.Now().After(b.nextAttempt) {
			b.setState(StateHalfOpen)
			return nil
		}
		return &ErrBreakerOpen{Name: b.name, NextAttempt: b.nextAttempt}
	default:
		return nil
	}
}

// RecordSuccess resets the failure count and closes the circuit
func (b *Breaker) RecordSuccess() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

// RecordFailure increments the consecutive failure count and opens the
// circuit once the threshold is reached. A failed half-open probe reopens
// the circuit immediately.
func (b *Breaker) RecordFailure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures++
	b.lastFailure = time.Now()

	switch b.state {
	case StateClosed:
		if b.failures >= b.config.FailureThreshold {
			b.setState(StateOpen)
		}
	case StateHalfOpen:
		b.setState(StateOpen)
	}
}

// State returns the current state of the circuit breaker
func (b *Breaker) State() BreakerState {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Failures returns the current consecutive failure count
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

// Reset returns the breaker to its initial closed state
func (b *Breaker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.failures = 0
	b.lastFailure = time.Time{}
	b.nextAttempt = time.Time{}
	if b.state != StateClosed {
		b.setState(StateClosed)
	}
}

// setState must be called with the lock held
func (b *Breaker) setState(next BreakerState) {
	if b.state == next {
		return
	}
	prev := b.state
	b.state = next

	if next == StateOpen {
		b.nextAttempt = time.Now().Add(b.config.ResetWindow)
	}

	if b.config.OnStateChange != nil {
		b.config.OnStateChange(b.name, prev, next)
	}
}
