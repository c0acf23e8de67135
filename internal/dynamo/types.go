package dynamo

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

// State is the instantaneous configuration of a system. Scalar problems use
// a state of length one.
type State []float64

// Scalar wraps a single value as a one-dimensional state.
func Scalar(v float64) State {
	return State{v}
}

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) Dim() int {
	return len(s)
}

// IsScalar reports whether the state describes a scalar problem.
func (s State) IsScalar() bool {
	return len(s) == 1
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

// Norm returns the Euclidean norm, which is the absolute value for scalars.
func (s State) Norm() float64 {
	return floats.Norm(s, 2)
}

func (s State) Add(other State) State {
	return floats.AddTo(make(State, len(s)), s, other)
}

func (s State) Sub(other State) State {
	return floats.SubTo(make(State, len(s)), s, other)
}

func (s State) Scale(factor float64) State {
	return floats.ScaleTo(make(State, len(s)), factor, s)
}

// AddScaled returns s + alpha*other as a new state.
func (s State) AddScaled(alpha float64, other State) State {
	return floats.AddScaledTo(make(State, len(s)), s, alpha, other)
}

// Validate checks that s can seed a solve.
func (s State) Validate() error {
	if len(s) == 0 {
		return fmt.Errorf("%w: empty state", ErrInvalidInitialCondition)
	}
	if !s.IsValid() {
		return fmt.Errorf("%w: %v", ErrInvalidInitialCondition, []float64(s))
	}
	return nil
}

// RHS is the right-hand side f(t, u) of du/dt = f(t, u). It must return a
// fresh state of the same dimension as u and must not retain u.
type RHS func(t float64, u State) State

// ScalarRHS is the right-hand side of a scalar problem.
type ScalarRHS func(t, u float64) float64

// RHS lifts a scalar right-hand side onto one-dimensional states.
func (f ScalarRHS) RHS() RHS {
	return func(t float64, u State) State {
		return State{f(t, u[0])}
	}
}

// System is a model whose evolution is governed by dX/dt = Derive(t, X).
type System interface {
	Derive(t float64, x State) State
	StateDim() int
}

// AsRHS adapts a System to a plain right-hand side.
func AsRHS(sys System) RHS {
	return sys.Derive
}

type Hamiltonian interface {
	Energy(x State) float64
}

type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Observer is notified after every committed solver step.
type Observer interface {
	OnStep(step int, t, dt float64, x State)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(step int, t, dt float64, x State)

func (f ObserverFunc) OnStep(step int, t, dt float64, x State) {
	f(step, t, dt, x)
}
