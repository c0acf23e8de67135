package optim

import (
	"context"
	"errors"
	"fmt"

	"gonum.org/v1/gonum/floats"
)

var (
	ErrMaxIterations = errors.New("optim: iteration limit reached before convergence")
	ErrLineSearch    = errors.New("optim: line search found no decrease")
	ErrBadOptions    = errors.New("optim: invalid options")
)

type Options struct {
	// Step is the initial trial step of every line search.
	Step float64
	// Tol stops the descent once ‖∇f‖ falls below it.
	Tol float64
	// MaxIter bounds the number of accepted steps.
	MaxIter int
	// Shrink multiplies the trial step after a rejected step, in (0, 1).
	Shrink float64
	// Armijo is the sufficient decrease constant, in (0, 1).
	Armijo float64
	// H is the finite difference step for the gradient.
	H float64
}

func DefaultOptions() Options {
	return Options{
		Step:    1,
		Tol:     1e-6,
		MaxIter: 10_000,
		Shrink:  0.5,
		Armijo:  1e-4,
		H:       1e-3,
	}
}

func (o Options) validate() error {
	switch {
	case o.Step <= 0:
		return fmt.Errorf("%w: step %g", ErrBadOptions, o.Step)
	case o.Tol <= 0:
		return fmt.Errorf("%w: tol %g", ErrBadOptions, o.Tol)
	case o.MaxIter <= 0:
		return fmt.Errorf("%w: max iterations %d", ErrBadOptions, o.MaxIter)
	case o.Shrink <= 0 || o.Shrink >= 1:
		return fmt.Errorf("%w: shrink %g", ErrBadOptions, o.Shrink)
	case o.Armijo <= 0 || o.Armijo >= 1:
		return fmt.Errorf("%w: armijo %g", ErrBadOptions, o.Armijo)
	case o.H <= 0:
		return fmt.Errorf("%w: h %g", ErrBadOptions, o.H)
	}
	return nil
}

type Result struct {
	X          []float64
	F          float64
	GradNorm   float64
	Iterations int
}

// GradientDescent minimises f starting from x0. Each iteration backtracks
// from opts.Step until f(x - t∇f) <= f(x) - Armijo·t·‖∇f‖².
//
// When the iteration limit is hit the best point so far is returned along
// with ErrMaxIterations.
func GradientDescent(ctx context.Context, f Func, x0 []float64, opts Options) (*Result, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}
	x := append([]float64(nil), x0...)
	fx := f(x)
	next := make([]float64, len(x))
	res := &Result{X: x, F: fx}

	for res.Iterations < opts.MaxIter {
		select {
		case <-ctx.Done():
			return res, ctx.Err()
		default:
		}

		g := Gradient(f, x, opts.H)
		gg := floats.Dot(g, g)
		res.GradNorm = norm(g)
		if res.GradNorm < opts.Tol {
			return res, nil
		}

		t := opts.Step
		for {
			floats.AddScaledTo(next, x, -t, g)
			fn := f(next)
			if fn <= fx-opts.Armijo*t*gg {
				copy(x, next)
				fx = fn
				break
			}
			t *= opts.Shrink
			if t < 1e-16*opts.Step {
				return res, fmt.Errorf("%w at iteration %d", ErrLineSearch, res.Iterations)
			}
		}
		res.F = fx
		res.Iterations++
	}
	res.GradNorm = norm(Gradient(f, x, opts.H))
	if res.GradNorm < opts.Tol {
		return res, nil
	}
	return res, ErrMaxIterations
}
