// Package errs implements the error-kind taxonomy from the orchestration engine's error
// handling design: Validation, Transient, OpenCircuit, Parse, and Budget. Kind governs
// whether the Circuit Breaker counts a failure; Retryable governs whether the Retry
// executor spends an attempt on it. The two axes are independent — a pool-timeout is
// Transient (counted by the breaker) but not retryable (it must not consume the attempt
// budget meant for genuine transport failures).
package errs

import "errors"

// Kind classifies a failure for circuit-breaker counting and caller-visible reporting.
type Kind int

const (
	Validation Kind = iota
	Transient
	OpenCircuitKind
	Parse
	Budget
)

func (k Kind) String() string {
	switch k {
	case Validation:
		return "validation"
	case Transient:
		return "transient"
	case OpenCircuitKind:
		return "open_circuit"
	case Parse:
		return "parse"
	case Budget:
		return "budget"
	default:
		return "unknown"
	}
}

// Error pairs a Kind and a Retryable flag with the underlying cause.
type Error struct {
	Kind      Kind
	Retryable bool
	Err       error
}

func (e *Error) Error() string { return e.Err.Error() }
func (e *Error) Unwrap() error { return e.Err }

// New wraps err with the given classification.
func New(kind Kind, err error, retryable bool) *Error {
	return &Error{Kind: kind, Retryable: retryable, Err: err}
}

// Is reports whether err carries the given Kind.
func Is(err error, kind Kind) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind == kind
	}
	return false
}

// Retryable reports whether err, if classified, permits another attempt. Unclassified
// errors default to retryable — only a few specific failures (pool saturation, an open
// circuit, validation, parse) opt out.
func Retryable(err error) bool {
	var e *Error
	if errors.As(err, &e) {
		return e.Retryable
	}
	return true
}
