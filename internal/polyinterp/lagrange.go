// Package polyinterp builds interpolating polynomials in Lagrange form.
package polyinterp

import (
	"errors"
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrNoNodes        = errors.New("polyinterp: at least one node required")
	ErrDuplicateNode  = errors.New("polyinterp: nodes must be distinct")
	ErrLengthMismatch = errors.New("polyinterp: xs and ys differ in length")
	ErrUnknownNodes   = errors.New("polyinterp: unknown node distribution")
)

// Polynomial is the unique polynomial of degree len(xs)-1 through the
// stored points.
type Polynomial struct {
	xs []float64
	ys []float64
}

// Lagrange returns the interpolating polynomial through (xs[i], ys[i]).
func Lagrange(xs, ys []float64) (*Polynomial, error) {
	if len(xs) == 0 {
		return nil, ErrNoNodes
	}
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("%w: %d vs %d", ErrLengthMismatch, len(xs), len(ys))
	}
	for i := range xs {
		for j := i + 1; j < len(xs); j++ {
			if xs[i] == xs[j] {
				return nil, fmt.Errorf("%w: x[%d] = x[%d] = %g", ErrDuplicateNode, i, j, xs[i])
			}
		}
	}
	p := &Polynomial{
		xs: make([]float64, len(xs)),
		ys: make([]float64, len(ys)),
	}
	copy(p.xs, xs)
	copy(p.ys, ys)
	return p, nil
}

func (p *Polynomial) Degree() int { return len(p.xs) - 1 }

// Basis evaluates the k-th Lagrange basis polynomial at x; it is 1 at
// node k and 0 at every other node.
func (p *Polynomial) Basis(k int, x float64) float64 {
	out := 1.0
	for i, xi := range p.xs {
		if i == k {
			continue
		}
		out *= (x - xi) / (p.xs[k] - xi)
	}
	return out
}

func (p *Polynomial) Eval(x float64) float64 {
	out := 0.0
	for k, yk := range p.ys {
		out += yk * p.Basis(k, x)
	}
	return out
}

// EvalAll evaluates p at every x.
func (p *Polynomial) EvalAll(xs []float64) []float64 {
	out := make([]float64, len(xs))
	for i, x := range xs {
		out[i] = p.Eval(x)
	}
	return out
}

// Nodes selects how interpolation nodes are placed on an interval.
type Nodes int

const (
	Equidistant Nodes = iota
	Chebyshev
)

func (n Nodes) String() string {
	switch n {
	case Equidistant:
		return "equidistant"
	case Chebyshev:
		return "chebyshev"
	default:
		return fmt.Sprintf("Nodes(%d)", int(n))
	}
}

func ParseNodes(name string) (Nodes, error) {
	switch name {
	case "equidistant":
		return Equidistant, nil
	case "chebyshev":
		return Chebyshev, nil
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownNodes, name)
}

// NodesOn returns n nodes on [a, b] in increasing order. Chebyshev nodes
// are the roots of T_n mapped onto the interval.
func NodesOn(kind Nodes, a, b float64, n int) ([]float64, error) {
	if n < 1 {
		return nil, ErrNoNodes
	}
	mid, half := (a+b)/2, (b-a)/2
	ref := make([]float64, n)
	switch kind {
	case Equidistant:
		if n == 1 {
			ref[0] = 0
		} else {
			floats.Span(ref, -1, 1)
		}
	case Chebyshev:
		for i := range ref {
			ref[i] = -math.Cos(float64(2*i+1) * math.Pi / float64(2*n))
		}
	default:
		return nil, fmt.Errorf("%w: %v", ErrUnknownNodes, kind)
	}
	out := make([]float64, n)
	for i, r := range ref {
		out[i] = mid + half*r
	}
	return out, nil
}

// InterpolateFunc samples f at n nodes of the given kind on [a, b] and
// returns the interpolating polynomial.
func InterpolateFunc(f func(float64) float64, a, b float64, n int, kind Nodes) (*Polynomial, error) {
	xs, err := NodesOn(kind, a, b, n)
	if err != nil {
		return nil, err
	}
	ys := make([]float64, n)
	for i, x := range xs {
		ys[i] = f(x)
	}
	return Lagrange(xs, ys)
}

// MaxError returns the largest |f(x) - p(x)| over m equally spaced points
// of [a, b].
func MaxError(f func(float64) float64, p *Polynomial, a, b float64, m int) float64 {
	if m < 2 {
		m = 2
	}
	xs := floats.Span(make([]float64, m), a, b)
	diff := p.EvalAll(xs)
	for i, x := range xs {
		diff[i] = math.Abs(f(x) - diff[i])
	}
	return floats.Max(diff)
}
