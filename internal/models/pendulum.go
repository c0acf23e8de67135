package models

import (
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Pendulum swings without friction. State: [theta, omega], with theta
// measured from the downward vertical.
type Pendulum struct {
	Gravity, Length float64
}

func NewPendulum() *Pendulum { return &Pendulum{Gravity: 10, Length: 1} }

func (*Pendulum) StateDim() int { return 2 }

// omega2 is the squared small-angle frequency g/L.
func (p *Pendulum) omega2() float64 { return p.Gravity / p.Length }

func (p *Pendulum) Derive(_ float64, x dynamo.State) dynamo.State {
	theta, omega := x[0], x[1]
	return dynamo.State{omega, -p.omega2() * math.Sin(theta)}
}

// DefaultState starts well outside the small-angle regime.
func (*Pendulum) DefaultState() dynamo.State { return dynamo.State{0.75 * math.Pi, 0} }

// Energy is per unit mass and squared length, zero at rest at the bottom.
func (p *Pendulum) Energy(x dynamo.State) float64 {
	theta, omega := x[0], x[1]
	return 0.5*omega*omega + p.omega2()*(1-math.Cos(theta))
}

func (p *Pendulum) table() paramTable {
	return paramTable{"pendulum", map[string]*float64{"gravity": &p.Gravity, "length": &p.Length}}
}

func (p *Pendulum) GetParams() map[string]float64 { return p.table().values() }

func (p *Pendulum) SetParam(name string, value float64) error { return p.table().set(name, value) }
