package integrators

import (
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Tableau holds the Butcher coefficients of an explicit Runge-Kutta method.
// A is strictly lower triangular and stored by rows; row i has i entries.
type Tableau struct {
	Order int
	C     []float64
	A     [][]float64
	B     []float64
}

// Stages returns the number of right-hand side evaluations per step.
func (tb Tableau) Stages() int {
	return len(tb.B)
}

var tableaus = [...]Tableau{
	Euler: {
		Order: 1,
		C:     []float64{0},
		A:     [][]float64{{}},
		B:     []float64{1},
	},
	Midpoint: {
		Order: 2,
		C:     []float64{0, 1.0 / 2.0},
		A: [][]float64{
			{},
			{1.0 / 2.0},
		},
		B: []float64{0, 1},
	},
	Trapezoid: {
		Order: 2,
		C:     []float64{0, 1},
		A: [][]float64{
			{},
			{1},
		},
		B: []float64{1.0 / 2.0, 1.0 / 2.0},
	},
	Ralston: {
		Order: 2,
		C:     []float64{0, 2.0 / 3.0},
		A: [][]float64{
			{},
			{2.0 / 3.0},
		},
		B: []float64{1.0 / 4.0, 3.0 / 4.0},
	},
	ClassicRK4: {
		Order: 4,
		C:     []float64{0, 1.0 / 2.0, 1.0 / 2.0, 1},
		A: [][]float64{
			{},
			{1.0 / 2.0},
			{0, 1.0 / 2.0},
			{0, 0, 1},
		},
		B: []float64{1.0 / 6.0, 1.0 / 3.0, 1.0 / 3.0, 1.0 / 6.0},
	},
	EqualRK4: {
		Order: 4,
		C:     []float64{0, 1.0 / 3.0, 2.0 / 3.0, 1},
		A: [][]float64{
			{},
			{1.0 / 3.0},
			{-1.0 / 3.0, 1},
			{1, -1, 1},
		},
		B: []float64{1.0 / 8.0, 3.0 / 8.0, 3.0 / 8.0, 1.0 / 8.0},
	},
}

// TableauOf returns the coefficients for m.
func TableauOf(m Method) (Tableau, error) {
	if !m.Valid() {
		return Tableau{}, fmt.Errorf("%w: %d", dynamo.ErrInvalidMethod, int(m))
	}
	return tableaus[m], nil
}
