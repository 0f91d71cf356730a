package odes

import (
	"errors"
	"fmt"
)

// Domain errors for integration runs.
var (
	// ErrInvalidState indicates NaN or Inf entered the state vector.
	ErrInvalidState = errors.New("odes: invalid state (NaN or Inf detected)")

	// ErrStepTooSmall indicates the adaptive timestep fell below MinDt.
	ErrStepTooSmall = errors.New("odes: adaptive timestep below minimum")

	// ErrDimensionMismatch indicates the initial state does not match the
	// system dimension.
	ErrDimensionMismatch = errors.New("odes: state dimension does not match system")
)

// StepError wraps a failure with the integration step and time at which it
// occurred.
type StepError struct {
	Step int
	Time float64
	Err  error
}

func (e *StepError) Error() string {
	return fmt.Sprintf("step %d (t=%.4f): %s", e.Step, e.Time, e.Err)
}

func (e *StepError) Unwrap() error { return e.Err }
