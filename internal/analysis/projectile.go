package analysis

import (
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/quad"
	"github.com/san-kum/ivplab/internal/sim"
)

// Path is a planar position history.
type Path struct {
	T []float64
	X []float64
	Y []float64
}

// ProjectilePath integrates a [vx, vy] velocity trajectory into positions
// starting at (x0, y0).
func ProjectilePath(vel *sim.Trajectory, rule quad.Rule, x0, y0 float64) (*Path, error) {
	if vel.Len() > 0 && len(vel.States[0]) != 2 {
		return nil, fmt.Errorf("%w: velocity state has %d components, want 2", dynamo.ErrDimensionMismatch, len(vel.States[0]))
	}
	vx, err := vel.Component(0)
	if err != nil {
		return nil, err
	}
	vy, err := vel.Component(1)
	if err != nil {
		return nil, err
	}
	xs, err := quad.Accumulate(vel.Times, vx, rule, x0)
	if err != nil {
		return nil, fmt.Errorf("horizontal position: %w", err)
	}
	ys, err := quad.Accumulate(vel.Times, vy, rule, y0)
	if err != nil {
		return nil, fmt.Errorf("vertical position: %w", err)
	}
	return &Path{T: vel.Times, X: xs, Y: ys}, nil
}

// Apex returns the index of the highest point.
func (p *Path) Apex() int {
	best := 0
	for i, y := range p.Y {
		if y > p.Y[best] {
			best = i
		}
	}
	return best
}

// Landing returns the time and horizontal distance at which the path first
// comes back down through y=0 after the apex, interpolating linearly, and
// false if it never does.
func (p *Path) Landing() (t, x float64, ok bool) {
	for i := p.Apex() + 1; i < len(p.Y); i++ {
		if p.Y[i] <= 0 && p.Y[i-1] > 0 {
			w := p.Y[i-1] / (p.Y[i-1] - p.Y[i])
			return p.T[i-1] + w*(p.T[i]-p.T[i-1]), p.X[i-1] + w*(p.X[i]-p.X[i-1]), true
		}
	}
	return 0, 0, false
}
