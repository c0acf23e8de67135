package sim

import (
	"context"
	"fmt"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
)

// SweepFixed solves the same problem from each initial condition in turn.
// The first failure aborts the sweep.
func (s *Solver) SweepFixed(ctx context.Context, f dynamo.RHS, inits []dynamo.State, dt, tFinal float64, m integrators.Method) ([]*Trajectory, error) {
	out := make([]*Trajectory, 0, len(inits))
	for i, u0 := range inits {
		traj, err := s.SolveFixed(ctx, f, u0, dt, tFinal, m)
		if err != nil {
			return nil, fmt.Errorf("initial condition %d: %w", i, err)
		}
		out = append(out, traj)
	}
	return out, nil
}

// SweepAdaptive is SweepFixed for the adaptive driver.
func (s *Solver) SweepAdaptive(ctx context.Context, f dynamo.RHS, inits []dynamo.State, tFinal, errTarget float64) ([]*Trajectory, error) {
	out := make([]*Trajectory, 0, len(inits))
	for i, u0 := range inits {
		traj, err := s.SolveAdaptive(ctx, f, u0, tFinal, errTarget)
		if err != nil {
			return nil, fmt.Errorf("initial condition %d: %w", i, err)
		}
		out = append(out, traj)
	}
	return out, nil
}
