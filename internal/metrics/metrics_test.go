package metrics

import (
	"math"
	"testing"

	"github.com/san-kum/ivplab/internal/dynamo"
)

type spring struct{}

func (spring) Derive(_ float64, x dynamo.State) dynamo.State { return dynamo.State{x[1], -x[0]} }
func (spring) StateDim() int                                 { return 2 }
func (spring) Energy(x dynamo.State) float64                 { return 0.5 * (x[0]*x[0] + x[1]*x[1]) }

func TestEnergyDrift(t *testing.T) {
	states := []dynamo.State{{1, 0}, {0, 1.1}, {0.9, 0}}
	got := MaxEnergyDrift(states, spring{}.Energy)
	want := (0.5*1.21 - 0.5) / 0.5
	if math.Abs(got-want) > 1e-12 {
		t.Errorf("drift = %v, want %v", got, want)
	}
}

func TestEnergyDriftZeroInitialEnergy(t *testing.T) {
	states := []dynamo.State{{0, 0}, {0, 0.2}}
	if got := MaxEnergyDrift(states, spring{}.Energy); math.Abs(got-0.02) > 1e-12 {
		t.Errorf("drift = %v, want absolute 0.02", got)
	}
}

func TestStability(t *testing.T) {
	s := NewStability(10)
	s.Observe(0, dynamo.State{1, 2})
	s.Observe(1, dynamo.State{1, 20})
	s.Observe(2, dynamo.State{math.NaN(), 0})
	s.Observe(3, dynamo.State{-9, 9})
	if s.Value() != 0.5 {
		t.Errorf("stability = %v, want 0.5", s.Value())
	}
	if s.EscapeTime() != 1 {
		t.Errorf("escape time = %v, want 1", s.EscapeTime())
	}
	s.Reset()
	if s.Value() != 1 || !math.IsNaN(s.EscapeTime()) {
		t.Errorf("after reset: stability = %v, escape = %v", s.Value(), s.EscapeTime())
	}
}

func TestSteps(t *testing.T) {
	st := Steps([]float64{0, 0.1, 0.3, 0.6})
	if st.Count != 3 {
		t.Errorf("count = %d", st.Count)
	}
	if math.Abs(st.Min-0.1) > 1e-12 || math.Abs(st.Max-0.3) > 1e-12 || math.Abs(st.Mean-0.2) > 1e-12 {
		t.Errorf("unexpected stats %+v", st)
	}
	if st.StdDev <= 0 {
		t.Errorf("stddev = %v", st.StdDev)
	}
	if (Steps([]float64{1}) != StepStats{}) {
		t.Error("single sample should give zero stats")
	}
}

func TestEvaluate(t *testing.T) {
	times := []float64{0, 0.5, 1.5}
	states := []dynamo.State{{1, 0}, {0, 1}, {-1, 0}}
	got := Evaluate(times, states, Standard(spring{}, 5)...)

	if got["energy_drift"] != 0 {
		t.Errorf("energy_drift = %v", got["energy_drift"])
	}
	if got["stability"] != 1 {
		t.Errorf("stability = %v", got["stability"])
	}
	if got["step_ratio"] != 2 {
		t.Errorf("step_ratio = %v", got["step_ratio"])
	}
}
