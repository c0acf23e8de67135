package models

import (
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Projectile integrates the velocity of a point mass under gravity and
// quadratic air resistance. State: [vx, vy]. Positions are recovered by
// integrating the velocity samples.
type Projectile struct {
	Drag    float64
	Gravity float64
}

func NewProjectile() *Projectile {
	return &Projectile{Drag: 1.0 / 8, Gravity: 4}
}

func (p *Projectile) StateDim() int { return 2 }

func (p *Projectile) Derive(_ float64, v dynamo.State) dynamo.State {
	speed := math.Hypot(v[0], v[1])
	return dynamo.State{
		-p.Drag * speed * v[0],
		-p.Gravity - p.Drag*speed*v[1],
	}
}

func (p *Projectile) DefaultState() dynamo.State { return dynamo.State{5, 12} }

func (p *Projectile) table() paramTable {
	return paramTable{"projectile", map[string]*float64{"drag": &p.Drag, "gravity": &p.Gravity}}
}

func (p *Projectile) GetParams() map[string]float64 { return p.table().values() }

func (p *Projectile) SetParam(name string, value float64) error { return p.table().set(name, value) }
