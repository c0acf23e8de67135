package optim

import "gonum.org/v1/gonum/floats"

// Func is a scalar objective of a vector argument.
type Func func(x []float64) float64

// Gradient approximates ∇f(x) with the fourth-order central difference
//
//	(-f(x+2h) + 8f(x+h) - 8f(x-h) + f(x-2h)) / 12h
//
// along each coordinate.
func Gradient(f Func, x []float64, h float64) []float64 {
	n := len(x)
	grad := make([]float64, n)
	probe := make([]float64, n)
	at := func(i int, offset float64) float64 {
		copy(probe, x)
		probe[i] += offset
		return f(probe)
	}
	for i := 0; i < n; i++ {
		grad[i] = (-at(i, 2*h) + 8*at(i, h) - 8*at(i, -h) + at(i, -2*h)) / (12 * h)
	}
	return grad
}

func norm(v []float64) float64 { return floats.Norm(v, 2) }
