package integrators

import (
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
	"gonum.org/v1/gonum/floats"
)

// Stepper advances a state by one step of a fixed method. It keeps scratch
// buffers between calls, so a Stepper must not be shared between goroutines.
type Stepper struct {
	method  Method
	tab     Tableau
	k       []dynamo.State
	scratch dynamo.State
}

func NewStepper(m Method) (*Stepper, error) {
	tab, err := TableauOf(m)
	if err != nil {
		return nil, err
	}
	return &Stepper{method: m, tab: tab}, nil
}

func (s *Stepper) Method() Method { return s.method }

func (s *Stepper) ensureScratch(n int) {
	if len(s.scratch) != n {
		s.k = make([]dynamo.State, s.tab.Stages())
		for i := range s.k {
			s.k[i] = make(dynamo.State, n)
		}
		s.scratch = make(dynamo.State, n)
	}
}

// Step returns the state at t+dt. u is left untouched.
func (s *Stepper) Step(f dynamo.RHS, t float64, u dynamo.State, dt float64) (dynamo.State, error) {
	n := len(u)
	s.ensureScratch(n)

	for i, row := range s.tab.A {
		copy(s.scratch, u)
		for j, a := range row {
			if a != 0 {
				floats.AddScaled(s.scratch, a, s.k[j])
			}
		}
		dx := f(t+s.tab.C[i]*dt, s.scratch)
		if len(dx) != n {
			return nil, fmt.Errorf("%w: %s stage %d returned %d components for a %d-dimensional state",
				dynamo.ErrDimensionMismatch, s.method, i+1, len(dx), n)
		}
		floats.ScaleTo(s.k[i], dt, dx)
	}

	next := u.Clone()
	for i, b := range s.tab.B {
		if b != 0 {
			floats.AddScaled(next, b, s.k[i])
		}
	}
	return next, nil
}

// Step applies a single step of method m to (t, u).
func Step(f dynamo.RHS, t float64, u dynamo.State, dt float64, m Method) (dynamo.State, error) {
	s, err := NewStepper(m)
	if err != nil {
		return nil, err
	}
	return s.Step(f, t, u, dt)
}
