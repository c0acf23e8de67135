package dynamo

import (
	"errors"
	"fmt"
)

// Domain errors for solver operations.
var (
	// ErrInvalidMethod indicates a step method name outside the supported set.
	ErrInvalidMethod = errors.New("dynamo: invalid step method")

	// ErrInvalidInitialCondition indicates an empty or non-finite initial state.
	ErrInvalidInitialCondition = errors.New("dynamo: initial condition must be a finite scalar or vector of reals")

	// ErrOutOfRange indicates an interpolation query outside the solved time span.
	ErrOutOfRange = errors.New("dynamo: query time outside solved range")

	// ErrZeroErrorEstimate indicates the embedded error estimate vanished and
	// the configured policy forbids growing the step.
	ErrZeroErrorEstimate = errors.New("dynamo: zero local error estimate")

	// ErrNonTermination indicates the adaptive driver exceeded its step budget.
	ErrNonTermination = errors.New("dynamo: adaptive step control did not terminate")

	// ErrStepTooSmall indicates adaptive timestep became too small.
	ErrStepTooSmall = errors.New("dynamo: adaptive timestep below minimum")

	// ErrInvalidState indicates a state with NaN or Inf components.
	ErrInvalidState = errors.New("dynamo: invalid state (NaN or Inf detected)")

	// ErrDimensionMismatch indicates mismatched state/derivative dimensions.
	ErrDimensionMismatch = errors.New("dynamo: dimension mismatch between state and derivative")

	// ErrInvalidParameter indicates a step size, horizon or tolerance that is not strictly positive.
	ErrInvalidParameter = errors.New("dynamo: parameter out of valid bounds")
)

// SolveError wraps an error with solver context.
type SolveError struct {
	Step    int
	Time    float64
	State   State
	Wrapped error
}

func (e *SolveError) Error() string {
	return fmt.Sprintf("step %d (t=%.6g): %v", e.Step, e.Time, e.Wrapped)
}

func (e *SolveError) Unwrap() error {
	return e.Wrapped
}
