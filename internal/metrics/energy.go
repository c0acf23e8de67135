package metrics

import (
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// EnergyDrift is the largest deviation of the energy from its value at the
// first sample, relative to that value unless it is zero.
type EnergyDrift struct {
	h dynamo.Hamiltonian

	ref   float64
	drift float64
	seen  bool
}

func NewEnergyDrift(h dynamo.Hamiltonian) *EnergyDrift { return &EnergyDrift{h: h} }

func (*EnergyDrift) Name() string { return "energy_drift" }

func (e *EnergyDrift) Observe(_ float64, x dynamo.State) {
	energy := e.h.Energy(x)
	if !e.seen {
		e.ref, e.seen = energy, true
	}
	scale := 1.0
	if e.ref != 0 {
		scale = math.Abs(e.ref)
	}
	e.drift = max(e.drift, math.Abs(energy-e.ref)/scale)
}

func (e *EnergyDrift) Value() float64 { return e.drift }

func (e *EnergyDrift) Reset() { *e = EnergyDrift{h: e.h} }

// MaxEnergyDrift is EnergyDrift evaluated over a whole trajectory. When the
// initial energy is zero the drift is absolute.
func MaxEnergyDrift(states []dynamo.State, energy func(dynamo.State) float64) float64 {
	m := NewEnergyDrift(energyFunc(energy))
	for _, x := range states {
		m.Observe(0, x)
	}
	return m.Value()
}

type energyFunc func(dynamo.State) float64

func (f energyFunc) Energy(x dynamo.State) float64 { return f(x) }
