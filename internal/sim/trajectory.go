package sim

import (
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Trajectory is the output of one driver invocation. Times and States have
// equal length and Times is strictly increasing.
type Trajectory struct {
	Times    []float64
	States   []dynamo.State
	Method   string
	Adaptive bool
}

func (tr *Trajectory) Len() int {
	return len(tr.Times)
}

// Final returns the last recorded state.
func (tr *Trajectory) Final() dynamo.State {
	if len(tr.States) == 0 {
		return nil
	}
	return tr.States[len(tr.States)-1]
}

// Duration returns the last recorded time.
func (tr *Trajectory) Duration() float64 {
	if len(tr.Times) == 0 {
		return 0
	}
	return tr.Times[len(tr.Times)-1]
}

// At returns the state at time t, interpolated linearly between grid points.
func (tr *Trajectory) At(t float64) (dynamo.State, error) {
	return Interpolate(tr.Times, tr.States, t)
}

// Resample evaluates the trajectory at each of ts.
func (tr *Trajectory) Resample(ts []float64) ([]dynamo.State, error) {
	out := make([]dynamo.State, len(ts))
	for i, t := range ts {
		s, err := tr.At(t)
		if err != nil {
			return nil, err
		}
		out[i] = s
	}
	return out, nil
}

// Component extracts the i-th coordinate of every state.
func (tr *Trajectory) Component(i int) ([]float64, error) {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		if i < 0 || i >= len(s) {
			return nil, fmt.Errorf("%w: component %d of a %d-dimensional state", dynamo.ErrDimensionMismatch, i, len(s))
		}
		out[k] = s[i]
	}
	return out, nil
}

// StepSizes returns the spacing between consecutive samples.
func (tr *Trajectory) StepSizes() []float64 {
	if len(tr.Times) < 2 {
		return nil
	}
	out := make([]float64, len(tr.Times)-1)
	for i := range out {
		out[i] = tr.Times[i+1] - tr.Times[i]
	}
	return out
}

func (tr *Trajectory) truncate(n int) *Trajectory {
	tr.Times = tr.Times[:n]
	tr.States = tr.States[:n]
	return tr
}
