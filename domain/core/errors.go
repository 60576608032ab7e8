package core

import (
	"errors"
	"fmt"
)

// Domain errors - centralized error definitions
var (
	// ErrInsufficientData is returned when a fit is asked for with fewer
	// than two valid failure observations.
	ErrInsufficientData = errors.New("insufficient failure data")

	// ErrNonConvergent is returned when an iterative search exhausts its
	// iteration budget or loses its bracket.
	ErrNonConvergent = errors.New("fit did not converge")

	// ErrDomain covers non-positive times, invalid parameters and
	// probabilities outside (0,1).
	ErrDomain = errors.New("input outside valid domain")

	// ErrIncompatibleInput covers caller-contract mismatches: empty
	// populations, out-of-range trial counts, mismatched series lengths.
	ErrIncompatibleInput = errors.New("incompatible input")
)

// Error constructors with context
func NewInsufficientDataError(got int) error {
	return fmt.Errorf("%w: need at least 2 failures, got %d", ErrInsufficientData, got)
}

func NewNonConvergentError(stage string, iterations int) error {
	return fmt.Errorf("%w: %s after %d iterations", ErrNonConvergent, stage, iterations)
}

func NewDomainError(field string, reason string) error {
	return fmt.Errorf("%w: %s %s", ErrDomain, field, reason)
}

func NewDomainErrorf(field string, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s %s", ErrDomain, field, fmt.Sprintf(format, args...))
}

func NewIncompatibleInputError(reason string) error {
	return fmt.Errorf("%w: %s", ErrIncompatibleInput, reason)
}

// Error checking helpers
func IsInsufficientData(err error) bool {
	return errors.Is(err, ErrInsufficientData)
}

func IsNonConvergent(err error) bool {
	return errors.Is(err, ErrNonConvergent)
}

func IsDomainError(err error) bool {
	return errors.Is(err, ErrDomain)
}

func IsIncompatibleInput(err error) bool {
	return errors.Is(err, ErrIncompatibleInput)
}
