package metrics

import (
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// StepStats summarises the spacing of a time grid.
type StepStats struct {
	Count  int
	Min    float64
	Max    float64
	Mean   float64
	StdDev float64
}

// Steps computes StepStats for the gaps between consecutive times.
func Steps(times []float64) StepStats {
	if len(times) < 2 {
		return StepStats{}
	}
	dts := make([]float64, len(times)-1)
	floats.SubTo(dts, times[1:], times[:len(times)-1])
	mean, std := stat.MeanStdDev(dts, nil)
	if len(dts) == 1 {
		std = 0
	}
	return StepStats{
		Count:  len(dts),
		Min:    floats.Min(dts),
		Max:    floats.Max(dts),
		Mean:   mean,
		StdDev: std,
	}
}

// StepSize reports the ratio of the largest to the smallest step, 1 for a
// uniform grid.
type StepSize struct {
	last     float64
	started  bool
	min, max float64
}

func NewStepSize() *StepSize { return &StepSize{min: math.Inf(1)} }

func (s *StepSize) Name() string { return "step_ratio" }

func (s *StepSize) Observe(t float64, _ dynamo.State) {
	if s.started {
		dt := t - s.last
		s.min = math.Min(s.min, dt)
		s.max = math.Max(s.max, dt)
	}
	s.last = t
	s.started = true
}

func (s *StepSize) Value() float64 {
	if math.IsInf(s.min, 1) || s.min <= 0 {
		return 1
	}
	return s.max / s.min
}

func (s *StepSize) Reset() {
	s.started = false
	s.min = math.Inf(1)
	s.max = 0
}
