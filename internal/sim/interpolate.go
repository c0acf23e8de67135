package sim

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Interpolate returns the state at time t on the piecewise linear curve
// through (times[i], states[i]). times must be strictly increasing with at
// least two entries, and t must lie in [times[0], times[last]]. Ordering is
// not checked: for unsorted times the result is undefined. A repeated time is
// harmless, since the chosen interval always satisfies
// times[i] <= t < times[i+1]; at a repeated time the last sample wins.
//
// The bracketing interval is [times[i], times[i+1]] where i is the largest
// index with times[i] <= t; the final grid time maps to the last interval.
func Interpolate(times []float64, states []dynamo.State, t float64) (dynamo.State, error) {
	n := len(times)
	if n < 2 {
		return nil, fmt.Errorf("%w: interpolation needs at least 2 samples, got %d", dynamo.ErrInvalidParameter, n)
	}
	if len(states) != n {
		return nil, fmt.Errorf("%w: %d times but %d states", dynamo.ErrDimensionMismatch, n, len(states))
	}
	if math.IsNaN(t) || t < times[0] || t > times[n-1] {
		return nil, fmt.Errorf("%w: t=%g not in [%g, %g]", dynamo.ErrOutOfRange, t, times[0], times[n-1])
	}
	if t == times[n-1] {
		return states[n-1].Clone(), nil
	}

	i := bracket(times, t)
	lo, hi := states[i], states[i+1]
	if len(lo) != len(hi) {
		return nil, fmt.Errorf("%w: samples %d and %d differ in dimension", dynamo.ErrDimensionMismatch, i, i+1)
	}

	dt := t - times[i]
	span := times[i+1] - times[i]
	out := make(dynamo.State, len(lo))
	for j := range out {
		slope := (hi[j] - lo[j]) / span
		out[j] = slope*dt + lo[j]
	}
	return out, nil
}

// bracket is the rightmost insertion point of t minus one, clamped so that
// [i, i+1] is always a valid interval.
func bracket(times []float64, t float64) int {
	i := sort.Search(len(times), func(k int) bool { return times[k] > t }) - 1
	if i > len(times)-2 {
		i = len(times) - 2
	}
	if i < 0 {
		i = 0
	}
	return i
}
