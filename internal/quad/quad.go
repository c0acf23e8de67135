// Package quad integrates sampled data and functions with the left
// endpoint, right endpoint, trapezoid and Simpson rules, and builds running
// integrals (accumulation functions) from the same rules.
package quad

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/integrate"
)

var (
	ErrUnknownRule    = errors.New("quad: unknown integration rule")
	ErrTooFewPoints   = errors.New("quad: at least two points required")
	ErrLengthMismatch = errors.New("quad: x and y differ in length")
	ErrSimpsonPoints  = errors.New("quad: simpson rule needs an odd number of points")
	ErrNonUniformGrid = errors.New("quad: simpson rule needs equally spaced points")
	ErrUnsorted       = errors.New("quad: x must be strictly increasing")
)

type Rule int

const (
	Left Rule = iota
	Right
	Trapezoid
	Simpson
)

var ruleNames = [...]string{
	Left:      "left",
	Right:     "right",
	Trapezoid: "trapezoid",
	Simpson:   "simpson",
}

func (r Rule) String() string {
	if r < 0 || int(r) >= len(ruleNames) {
		return fmt.Sprintf("Rule(%d)", int(r))
	}
	return ruleNames[r]
}

func ParseRule(name string) (Rule, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range ruleNames {
		if n == name {
			return Rule(i), nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRule, name)
}

// Rules lists the supported rules.
func Rules() []Rule { return []Rule{Left, Right, Trapezoid, Simpson} }

func check(x, y []float64, r Rule) error {
	if r < Left || r > Simpson {
		return fmt.Errorf("%w: %v", ErrUnknownRule, r)
	}
	if len(x) != len(y) {
		return fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(x), len(y))
	}
	if len(x) < 2 {
		return ErrTooFewPoints
	}
	for i := 1; i < len(x); i++ {
		if !(x[i] > x[i-1]) {
			return fmt.Errorf("%w: x[%d]=%g after x[%d]=%g", ErrUnsorted, i, x[i], i-1, x[i-1])
		}
	}
	if r != Simpson {
		return nil
	}
	if len(x)%2 == 0 {
		return fmt.Errorf("%w: got %d", ErrSimpsonPoints, len(x))
	}
	h := x[1] - x[0]
	for i := 2; i < len(x); i++ {
		if math.Abs((x[i]-x[i-1])-h) > 1e-9*math.Abs(h) {
			return fmt.Errorf("%w: interval %d has width %g, expected %g", ErrNonUniformGrid, i-1, x[i]-x[i-1], h)
		}
	}
	return nil
}

// Integrate returns the definite integral over [x[0], x[last]] of the
// samples y. x must be strictly increasing.
func Integrate(x, y []float64, r Rule) (float64, error) {
	if err := check(x, y, r); err != nil {
		return 0, err
	}
	switch r {
	case Trapezoid:
		return integrate.Trapezoidal(x, y), nil
	case Simpson:
		h := x[1] - x[0]
		total := 0.0
		for i := 0; i+2 < len(x); i += 2 {
			total += simpsonPanel(y[i], y[i+1], y[i+2], h)
		}
		return total, nil
	default:
		total := 0.0
		for i := 0; i+1 < len(x); i++ {
			total += endpointPanel(r, x, y, i)
		}
		return total, nil
	}
}

// Accumulate returns the running integral F with F[0] = y0 and
// F[i] = y0 + integral from x[0] to x[i]. With the Simpson rule the odd
// indices are filled from the quadratic through each panel.
func Accumulate(x, y []float64, r Rule, y0 float64) ([]float64, error) {
	if err := check(x, y, r); err != nil {
		return nil, err
	}
	out := make([]float64, len(x))
	out[0] = y0
	total := y0
	if r == Simpson {
		h := x[1] - x[0]
		for i := 0; i+2 < len(x); i += 2 {
			half := (5*y[i]/24 + y[i+1]/3 - y[i+2]/24) * 2 * h
			whole := simpsonPanel(y[i], y[i+1], y[i+2], h)
			out[i+1] = total + half
			out[i+2] = total + whole
			total += whole
		}
		return out, nil
	}
	for i := 0; i+1 < len(x); i++ {
		if r == Trapezoid {
			total += (y[i]/2 + y[i+1]/2) * (x[i+1] - x[i])
		} else {
			total += endpointPanel(r, x, y, i)
		}
		out[i+1] = total
	}
	return out, nil
}

func endpointPanel(r Rule, x, y []float64, i int) float64 {
	dx := x[i+1] - x[i]
	if r == Right {
		return y[i+1] * dx
	}
	return y[i] * dx
}

// simpsonPanel integrates the quadratic through three samples spaced h apart.
func simpsonPanel(y0, y1, y2, h float64) float64 {
	return (y0/6 + 2*y1/3 + y2/6) * 2 * h
}

// Linspace returns n evenly spaced values from a to b inclusive.
func Linspace(a, b float64, n int) []float64 {
	if n <= 0 {
		return nil
	}
	if n == 1 {
		return []float64{a}
	}
	return floats.Span(make([]float64, n), a, b)
}

func sample(f func(float64) float64, a, b float64, n int) ([]float64, []float64, error) {
	if n < 2 {
		return nil, nil, ErrTooFewPoints
	}
	if !(b > a) {
		return nil, nil, fmt.Errorf("%w: empty interval [%g, %g]", ErrUnsorted, a, b)
	}
	x := Linspace(a, b, n)
	y := make([]float64, n)
	for i, xi := range x {
		y[i] = f(xi)
	}
	return x, y, nil
}

// IntegrateFunc integrates f over [a, b] sampled at n equally spaced points.
func IntegrateFunc(f func(float64) float64, a, b float64, n int, r Rule) (float64, error) {
	x, y, err := sample(f, a, b, n)
	if err != nil {
		return 0, err
	}
	return Integrate(x, y, r)
}

// AccumulateFunc returns the grid and the running integral of f from a,
// starting at zero.
func AccumulateFunc(f func(float64) float64, a, b float64, n int, r Rule) ([]float64, []float64, error) {
	x, y, err := sample(f, a, b, n)
	if err != nil {
		return nil, nil, err
	}
	acc, err := Accumulate(x, y, r, 0)
	if err != nil {
		return nil, nil, err
	}
	return x, acc, nil
}
