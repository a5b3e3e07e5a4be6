package core

import (
	"errors"
	"fmt"
)

// Precondition and programming errors raised by the lattice and the sweep.
var (
	// ErrInvalidDimensions indicates a lattice extent that is zero or negative.
	ErrInvalidDimensions = errors.New("ising: invalid lattice dimensions")

	// ErrInvalidTemperature indicates a temperature that is not strictly positive.
	ErrInvalidTemperature = errors.New("ising: temperature must be positive")

	// ErrIndexOutOfRange indicates a coordinate or linear index outside the lattice.
	ErrIndexOutOfRange = errors.New("ising: index out of range")

	// ErrInvalidSpin indicates a spin value other than +1 or -1.
	ErrInvalidSpin = errors.New("ising: spin must be +1 or -1")

	// ErrEmptySweep indicates a sweep requested with no temperatures.
	ErrEmptySweep = errors.New("ising: temperature list is empty")

	// ErrInvalidSweep indicates non-positive step or repetition counts.
	ErrInvalidSweep = errors.New("ising: invalid sweep parameters")
)

// SweepError wraps a failure with the position inside the sweep where it
// happened. Step and Repetition are -1 when the failure precedes them.
type SweepError struct {
	Temperature float64
	Repetition  int
	Step        int
	Err         error
}

func (e *SweepError) Error() string {
	return fmt.Sprintf("sweep T=%g rep=%d step=%d: %v", e.Temperature, e.Repetition, e.Step, e.Err)
}

func (e *SweepError) Unwrap() error { return e.Err }
