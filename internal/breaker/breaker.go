// Package breaker implements the Circuit Breaker component: Closed/Open/HalfOpen
// protection around the Model Client, atop github.com/sony/gobreaker.
package breaker

import (
	"errors"
	"fmt"
	"time"

	"github.com/sony/gobreaker"

	"github.com/meridianai/promptforge/internal/errs"
)

const (
	failureThreshold = 5
	successThreshold = 2
	openTimeout      = 60 * time.Second
)

// ErrOpen is returned while the breaker is Open or has exhausted its half-open trial
// budget.
var ErrOpen = errors.New("circuit breaker is open")

// Breaker wraps a named gobreaker.CircuitBreaker configured to the spec's parameters:
// five consecutive failures open the circuit, two consecutive half-open successes close
// it, sixty seconds before a half-open probe is admitted. Only errs.Transient failures
// count toward the trip threshold. Any other error is still returned to the caller, but
// the breaker records it as a success: it resets the consecutive-failure count and, in
// half-open, counts toward closing the circuit.
type Breaker struct {
	cb *gobreaker.CircuitBreaker
}

// New constructs a breaker for the named upstream endpoint.
func New(name string) *Breaker {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: successThreshold,
		Interval:    0,
		Timeout:     openTimeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= failureThreshold
		},
		IsSuccessful: func(err error) bool {
			if err == nil {
				return true
			}
			return !errs.Is(err, errs.Transient)
		},
	}
	return &Breaker{cb: gobreaker.NewCircuitBreaker(settings)}
}

// Execute runs fn through the breaker. When the breaker is Open (or a half-open trial
// slot is unavailable), fn is never called and an OpenCircuit-kind error is returned
// immediately.
func (b *Breaker) Execute(fn func() (interface{}, error)) (interface{}, error) {
	result, err := b.cb.Execute(fn)
	if err != nil {
		if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
			return nil, errs.New(errs.OpenCircuitKind, fmt.Errorf("%w: %s", ErrOpen, b.cb.Name()), false)
		}
		return nil, err
	}
	return result, nil
}

// State returns the current circuit state as a lowercase string, for metrics gauges.
func (b *Breaker) State() string {
	switch b.cb.State() {
	case gobreaker.StateOpen:
		return "open"
	case gobreaker.StateHalfOpen:
		return "half_open"
	default:
		return "closed"
	}
}
