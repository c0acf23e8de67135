package models

import "github.com/san-kum/ivplab/internal/dynamo"

// Lorenz is the 1963 convection model. The classic parameters put it on the
// chaotic attractor.
type Lorenz struct {
	Sigma, Rho, Beta float64
}

func NewLorenz() *Lorenz { return &Lorenz{Sigma: 10, Rho: 28, Beta: 8.0 / 3} }

func (*Lorenz) StateDim() int { return 3 }

func (l *Lorenz) Derive(_ float64, s dynamo.State) dynamo.State {
	x, y, z := s[0], s[1], s[2]
	return dynamo.State{
		l.Sigma * (y - x),
		x*(l.Rho-z) - y,
		x*y - l.Beta*z,
	}
}

func (*Lorenz) DefaultState() dynamo.State { return dynamo.State{1, 1, 1} }

func (l *Lorenz) table() paramTable {
	return paramTable{"lorenz", map[string]*float64{"sigma": &l.Sigma, "rho": &l.Rho, "beta": &l.Beta}}
}

func (l *Lorenz) GetParams() map[string]float64 { return l.table().values() }

func (l *Lorenz) SetParam(name string, value float64) error { return l.table().set(name, value) }
