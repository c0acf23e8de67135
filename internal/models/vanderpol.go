package models

import "github.com/san-kum/ivplab/internal/dynamo"

// VanDerPol is the relaxation oscillator x'' = mu(1 - x^2)x' - x written
// as a first-order system. State: [x, x'].
//
// The default mu = 20 is stiff enough that the fixed-step methods need tiny
// steps through the fast jumps while the adaptive pair lengthens its step on
// the slow branches.
type VanDerPol struct {
	Mu float64
}

func NewVanDerPol() *VanDerPol { return &VanDerPol{Mu: 20} }

func (*VanDerPol) StateDim() int { return 2 }

func (v *VanDerPol) Derive(_ float64, s dynamo.State) dynamo.State {
	x, dx := s[0], s[1]
	return dynamo.State{dx, v.Mu*(1-x*x)*dx - x}
}

func (*VanDerPol) DefaultState() dynamo.State { return dynamo.State{1.05, 0} }

func (v *VanDerPol) table() paramTable {
	return paramTable{"vanderpol", map[string]*float64{"mu": &v.Mu}}
}

func (v *VanDerPol) GetParams() map[string]float64 { return v.table().values() }

func (v *VanDerPol) SetParam(name string, value float64) error { return v.table().set(name, value) }
