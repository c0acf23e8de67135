package dynamo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateFiniteness(t *testing.T) {
	cases := map[string]struct {
		state State
		ok    bool
	}{
		"empty":     {State{}, true},
		"vector":    {State{1, -2, 3}, true},
		"scalar":    {Scalar(0), true},
		"nan":       {State{1, math.NaN()}, false},
		"plus inf":  {State{math.Inf(1)}, false},
		"minus inf": {State{0, math.Inf(-1)}, false},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			assert.Equal(t, tc.ok, tc.state.IsValid())
		})
	}
}

func TestStateNorm(t *testing.T) {
	assert.InDelta(t, 5.0, State{3, 4}.Norm(), 1e-12)
	assert.InDelta(t, 2.0, State{1, 1, 1, 1}.Norm(), 1e-12)
	assert.InDelta(t, 2.5, Scalar(-2.5).Norm(), 1e-12, "scalar norm is the absolute value")
	assert.Zero(t, State{0, 0}.Norm())
}

func TestStateArithmeticIsPure(t *testing.T) {
	u, v := State{1, 2, 3}, State{4, 5, 6}

	assert.Equal(t, State{5, 7, 9}, u.Add(v))
	assert.Equal(t, State{3, 3, 3}, v.Sub(u))
	assert.Equal(t, State{-1, -2, -3}, u.Scale(-1))
	assert.Equal(t, State{3, 4.5, 6}, u.AddScaled(0.5, v))

	assert.Equal(t, State{1, 2, 3}, u)
	assert.Equal(t, State{4, 5, 6}, v)

	c := u.Clone()
	c[0] = 99
	assert.Equal(t, 1.0, u[0], "clone shares storage")
	assert.True(t, Scalar(7).IsScalar())
	assert.Equal(t, 3, u.Dim())
}

func TestStateValidate(t *testing.T) {
	require.NoError(t, Scalar(0.5).Validate())
	require.NoError(t, State{1, 2, 3}.Validate())
	assert.ErrorIs(t, State{}.Validate(), ErrInvalidInitialCondition)
	assert.ErrorIs(t, State{math.NaN()}.Validate(), ErrInvalidInitialCondition)
}

func TestScalarRHSLift(t *testing.T) {
	f := ScalarRHS(func(_, u float64) float64 { return u * (1 - u) }).RHS()
	assert.Equal(t, State{0.1875}, f(0, Scalar(0.25)))
}

func TestObserverFunc(t *testing.T) {
	var got []int
	var obs Observer = ObserverFunc(func(step int, _, _ float64, _ State) { got = append(got, step) })
	obs.OnStep(1, 0.1, 0.1, nil)
	obs.OnStep(2, 0.2, 0.1, nil)
	assert.Equal(t, []int{1, 2}, got)
}

func TestSolveErrorWrapsCause(t *testing.T) {
	err := &SolveError{Step: 150, Time: 1.5, Wrapped: ErrNonTermination}
	assert.Equal(t, "step 150 (t=1.5): dynamo: adaptive step control did not terminate", err.Error())
	assert.ErrorIs(t, err, ErrNonTermination)
}
