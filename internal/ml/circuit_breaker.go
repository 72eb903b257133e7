package ml

import (
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// CircuitState represents the state of the circuit breaker
type CircuitState int

const (
	// CircuitClosed means requests flow normally
	CircuitClosed CircuitState = iota
	// CircuitHalfOpen means a single trial request is allowed after cooldown
	CircuitHalfOpen
	// CircuitOpen means requests are rejected
	CircuitOpen
)

// String returns string representation of circuit state
func (s CircuitState) String() string {
	switch s {
	case CircuitClosed:
		return "CLOSED"
	case CircuitHalfOpen:
		return "HALF_OPEN"
	case CircuitOpen:
		return "OPEN"
	default:
		return "UNKNOWN"
	}
}

// CircuitBreakerConfig defines circuit breaker thresholds
type CircuitBreakerConfig struct {
	MaxFailureCount   int
	FailureTimeWindow time.Duration
	CooldownPeriod    time.Duration
}

// DefaultCircuitBreakerConfig returns the thresholds used by the ML client
func DefaultCircuitBreakerConfig() CircuitBreakerConfig {
	return CircuitBreakerConfig{
		MaxFailureCount:   5,
		FailureTimeWindow: time.Minute,
		CooldownPeriod:    30 * time.Second,
	}
}

// CircuitBreaker stops calling the ML service after repeated failures
type CircuitBreaker struct {
	config          CircuitBreakerConfig
	state           CircuitState
	failureCount    int
	lastFailureTime time.Time
	openedAt        time.Time
	trialInFlight   bool
	mu              sync.Mutex
	logger          *logrus.Entry
	now             func() time.Time
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(config CircuitBreakerConfig, logger *logrus.Logger) *CircuitBreaker {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &CircuitBreaker{
		config: config,
		state:  CircuitClosed,
		logger: logger.WithField("component", "ml_circuit_breaker"),
		now:    time.Now,
	}
}

// Allow reports whether a request may be sent. After the cooldown one trial
// request is let through in the half-open state.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case CircuitClosed:
		return true
	case CircuitOpen:
		if cb.now().Sub(cb.openedAt) < cb.config.CooldownPeriod {
			return false
		}
		cb.setStateLocked(CircuitHalfOpen)
		cb.trialInFlight = true
		return true
	default:
		if cb.trialInFlight {
			return false
		}
		cb.trialInFlight = true
		return true
	}
}

// RecordFailure counts a failure and opens the circuit once the threshold is reached
func (cb *CircuitBreaker) RecordFailure(err error) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	now := cb.now()
	cb.trialInFlight = false

	if cb.state == CircuitHalfOpen {
		cb.openLocked(now, err)
		return
	}

	// Reset failure count if outside time window
	if now.Sub(cb.lastFailureTime) > cb.config.FailureTimeWindow {
		cb.failureCount = 0
	}
	cb.failureCount++
	cb.lastFailureTime = now

	if cb.failureCount >= cb.config.MaxFailureCount && cb.state == CircuitClosed {
		cb.openLocked(now, err)
	}
}

// RecordSuccess closes the circuit and resets the failure count
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.failureCount = 0
	cb.trialInFlight = false
	if cb.state != CircuitClosed {
		cb.setStateLocked(CircuitClosed)
	}
}

// Release returns an unused half-open trial without recording an outcome
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.trialInFlight = false
}

// State returns current circuit state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

func (cb *CircuitBreaker) openLocked(now time.Time, err error) {
	cb.openedAt = now
	cb.setStateLocked(CircuitOpen)

	fields := logrus.Fields{
		"failure_count":   cb.failureCount,
		"cooldown_period": cb.config.CooldownPeriod,
	}
	if err != nil {
		fields["error"] = err.Error()
	}
	cb.logger.WithFields(fields).Warn("ML service circuit opened")
}

func (cb *CircuitBreaker) setStateLocked(state CircuitState) {
	old := cb.state
	cb.state = state
	MLCircuitState.Set(float64(state))
	cb.logger.WithFields(logrus.Fields{
		"old_state": old.String(),
		"new_state": state.String(),
	}).Debug("Circuit breaker state changed")
}
