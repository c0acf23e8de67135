package integrators

import (
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// EmbeddedPair runs a low and a high order method from the same point with
// the same trial step; the norm of their difference estimates the local
// error of the low order result.
type EmbeddedPair struct {
	low  *Stepper
	high *Stepper
}

// NewEmbeddedPair returns the midpoint / equal_rk4 pair used by the
// adaptive driver.
func NewEmbeddedPair() *EmbeddedPair {
	return &EmbeddedPair{
		low:  &Stepper{method: Midpoint, tab: tableaus[Midpoint]},
		high: &Stepper{method: EqualRK4, tab: tableaus[EqualRK4]},
	}
}

func NewEmbeddedPairOf(low, high Method) (*EmbeddedPair, error) {
	lo, err := NewStepper(low)
	if err != nil {
		return nil, err
	}
	hi, err := NewStepper(high)
	if err != nil {
		return nil, err
	}
	if low.Order() >= high.Order() {
		return nil, fmt.Errorf("%w: %s is not of lower order than %s", dynamo.ErrInvalidMethod, low, high)
	}
	return &EmbeddedPair{low: lo, high: hi}, nil
}

func (p *EmbeddedPair) String() string {
	return p.low.Method().String() + "/" + p.high.Method().String()
}

// LowOrder is the order of the method whose error is being estimated.
func (p *EmbeddedPair) LowOrder() int { return p.low.Method().Order() }

// High returns the stepper used to commit steps.
func (p *EmbeddedPair) High() *Stepper { return p.high }

// Estimate returns the high order step and ‖u_high − u_low‖.
func (p *EmbeddedPair) Estimate(f dynamo.RHS, t float64, u dynamo.State, dt float64) (dynamo.State, float64, error) {
	uLow, err := p.low.Step(f, t, u, dt)
	if err != nil {
		return nil, 0, err
	}
	uHigh, err := p.high.Step(f, t, u, dt)
	if err != nil {
		return nil, 0, err
	}
	return uHigh, uHigh.Sub(uLow).Norm(), nil
}
