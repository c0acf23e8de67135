package analysis

import (
	"fmt"
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/sim"
)

// Separation returns ‖a(t_i) − b(t_i)‖ for every sample of two trajectories
// solved on the same grid, such as a sweep over nearby initial conditions.
func Separation(a, b *sim.Trajectory) ([]float64, error) {
	if a.Len() != b.Len() {
		return nil, fmt.Errorf("%w: trajectories have %d and %d samples", dynamo.ErrDimensionMismatch, a.Len(), b.Len())
	}
	out := make([]float64, a.Len())
	for i := range out {
		if a.Times[i] != b.Times[i] {
			return nil, fmt.Errorf("%w: sample %d at t=%g and t=%g", dynamo.ErrDimensionMismatch, i, a.Times[i], b.Times[i])
		}
		if len(a.States[i]) != len(b.States[i]) {
			return nil, fmt.Errorf("%w: sample %d", dynamo.ErrDimensionMismatch, i)
		}
		out[i] = a.States[i].Sub(b.States[i]).Norm()
	}
	return out, nil
}

// DeviationReport describes how far one trajectory lies from a reference.
type DeviationReport struct {
	Max   float64
	AtT   float64
	RMS   float64
	Count int
}

// Deviation samples other at every time of ref inside other's range and
// compares it with ref. Typically ref is a fixed-step solution and other
// the adaptive one.
func Deviation(ref, other *sim.Trajectory) (DeviationReport, error) {
	var rep DeviationReport
	if other.Len() < 2 {
		return rep, fmt.Errorf("%w: trajectory has %d samples", dynamo.ErrInvalidParameter, other.Len())
	}
	lo, hi := other.Times[0], other.Duration()
	sum := 0.0
	for i, t := range ref.Times {
		if t < lo || t > hi {
			continue
		}
		s, err := other.At(t)
		if err != nil {
			return rep, err
		}
		if len(s) != len(ref.States[i]) {
			return rep, fmt.Errorf("%w: sample %d", dynamo.ErrDimensionMismatch, i)
		}
		d := s.Sub(ref.States[i]).Norm()
		if d > rep.Max || rep.Count == 0 {
			rep.Max, rep.AtT = d, t
		}
		sum += d * d
		rep.Count++
	}
	if rep.Count > 0 {
		rep.RMS = math.Sqrt(sum / float64(rep.Count))
	}
	return rep, nil
}
