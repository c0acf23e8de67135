package models

import "github.com/san-kum/ivplab/internal/dynamo"

// Harmonic is an undamped mass on a spring. State: [x, v].
type Harmonic struct {
	Stiffness float64
}

func NewHarmonic() *Harmonic { return &Harmonic{Stiffness: 1} }

func (h *Harmonic) StateDim() int { return 2 }

func (h *Harmonic) Derive(_ float64, x dynamo.State) dynamo.State {
	return dynamo.State{x[1], -h.Stiffness * x[0]}
}

func (h *Harmonic) DefaultState() dynamo.State { return dynamo.State{1, 0} }

func (h *Harmonic) Energy(x dynamo.State) float64 {
	return 0.5*x[1]*x[1] + 0.5*h.Stiffness*x[0]*x[0]
}

func (h *Harmonic) table() paramTable {
	return paramTable{"harmonic", map[string]*float64{"k": &h.Stiffness}}
}

func (h *Harmonic) GetParams() map[string]float64 { return h.table().values() }

func (h *Harmonic) SetParam(name string, value float64) error { return h.table().set(name, value) }
