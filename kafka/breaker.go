package kafka

import (
	"errors"
	"sync"
	"time"

	"github.com/tair/storefront/pkg/logger"
)

// ErrCircuitOpen is returned while the breaker rejects publishes
var ErrCircuitOpen = errors.New("kafka circuit breaker is open")

// CircuitState represents the state of a circuit breaker
type CircuitState string

const (
	StateClosed   CircuitState = "closed"
	StateOpen     CircuitState = "open"
	StateHalfOpen CircuitState = "half-open"
)

// CircuitBreaker stops calling a failing broker until a cool-down has passed
type CircuitBreaker struct {
	name          string
	maxFailures   int           // consecutive failures before opening
	timeout       time.Duration // time spent open before a trial call
	halfOpenSuccs int           // trial successes needed to close
	state         CircuitState
	failures      int
	successCount  int
	lastChange    time.Time
	nowFn         func() time.Time
	mu            sync.Mutex
}

// NewCircuitBreaker creates a closed circuit breaker
func NewCircuitBreaker(name string, maxFailures int, timeout time.Duration) *CircuitBreaker {
	if maxFailures < 1 {
		maxFailures = 1
	}
	cb := &CircuitBreaker{
		name:          name,
		maxFailures:   maxFailures,
		timeout:       timeout,
		halfOpenSuccs: 3,
		state:         StateClosed,
		nowFn:         time.Now,
	}
	cb.lastChange = cb.nowFn()
	return cb
}

// Call runs fn unless the circuit is open
func (cb *CircuitBreaker) Call(fn func() error) error {
	cb.mu.Lock()
	if cb.state == StateOpen && cb.nowFn().Sub(cb.lastChange) >= cb.timeout {
		cb.transition(StateHalfOpen)
		logger.Logger.Info().Str("circuit", cb.name).Msg("Circuit breaker transitioning to half-open")
	}
	if cb.state == StateOpen {
		cb.mu.Unlock()
		return ErrCircuitOpen
	}
	cb.mu.Unlock()

	err := fn()

	cb.mu.Lock()
	defer cb.mu.Unlock()
	if err != nil {
		cb.onFailure()
	} else {
		cb.onSuccess()
	}
	return err
}

// State returns the current state
func (cb *CircuitBreaker) State() CircuitState {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	return cb.state
}

func (cb *CircuitBreaker) onFailure() {
	cb.failures++

	switch {
	case cb.state == StateHalfOpen:
		cb.transition(StateOpen)
		logger.Logger.Warn().Str("circuit", cb.name).Msg("Circuit breaker reopened after half-open failure")
	case cb.failures >= cb.maxFailures:
		cb.transition(StateOpen)
		logger.Logger.Error().
			Str("circuit", cb.name).
			Int("failures", cb.failures).
			Int("threshold", cb.maxFailures).
			Msg("Circuit breaker opened")
	}
}

func (cb *CircuitBreaker) onSuccess() {
	switch cb.state {
	case StateHalfOpen:
		cb.successCount++
		if cb.successCount >= cb.halfOpenSuccs {
			cb.transition(StateClosed)
			logger.Logger.Info().Str("circuit", cb.name).Msg("Circuit breaker closed after successful recovery")
		}
	case StateClosed:
		cb.failures = 0
	}
}

func (cb *CircuitBreaker) transition(to CircuitState) {
	cb.state = to
	cb.lastChange = cb.nowFn()
	cb.successCount = 0
	if to == StateClosed {
		cb.failures = 0
	}
}
