// Package metrics scores solver output: energy drift for conservative
// systems, boundedness of the state, and statistics of the step sizes.
package metrics

import (
	"github.com/san-kum/ivplab/internal/dynamo"
)

// Metric accumulates a scalar score over the samples of a trajectory.
type Metric interface {
	Name() string
	Observe(t float64, x dynamo.State)
	Value() float64
	Reset()
}

// Evaluate resets every metric, feeds it each (times[i], states[i]) and
// returns the values by name.
func Evaluate(times []float64, states []dynamo.State, ms ...Metric) map[string]float64 {
	out := make(map[string]float64, len(ms))
	for _, m := range ms {
		m.Reset()
	}
	for i, x := range states {
		for _, m := range ms {
			m.Observe(times[i], x)
		}
	}
	for _, m := range ms {
		out[m.Name()] = m.Value()
	}
	return out
}

// Standard returns the metrics that apply to sys: energy drift when sys is
// Hamiltonian, plus stability and step statistics.
func Standard(sys dynamo.System, bound float64) []Metric {
	ms := []Metric{NewStability(bound), NewStepSize()}
	if h, ok := sys.(dynamo.Hamiltonian); ok {
		ms = append([]Metric{NewEnergyDrift(h)}, ms...)
	}
	return ms
}
