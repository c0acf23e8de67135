package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
	"github.com/san-kum/ivplab/internal/logging"
)

// SolveFixed integrates du/dt = f(t, u) from t=0 with constant step dt and
// returns n+1 samples where n = floor(tFinal/dt). Sample i is reported at
// time i*dt.
//
// n may not exceed the MaxSteps budget of the solver's adaptive options.
//
// If ctx is cancelled or a state turns non-finite, the samples computed so
// far are returned together with the error.
func (s *Solver) SolveFixed(ctx context.Context, f dynamo.RHS, u0 dynamo.State, dt, tFinal float64, m integrators.Method) (*Trajectory, error) {
	stepper, err := integrators.NewStepper(m)
	if err != nil {
		return nil, err
	}
	if err := u0.Validate(); err != nil {
		return nil, err
	}
	if err := checkPositive("dt", dt); err != nil {
		return nil, err
	}
	if err := checkPositive("t_final", tFinal); err != nil {
		return nil, err
	}

	steps := math.Floor(tFinal / dt)
	if !(steps <= float64(s.adaptive.MaxSteps)) {
		return nil, fmt.Errorf("%w: t_final/dt = %g steps exceeds the budget of %d", dynamo.ErrInvalidParameter, steps, s.adaptive.MaxSteps)
	}
	n := int(steps)
	traj := &Trajectory{
		Times:  make([]float64, n+1),
		States: make([]dynamo.State, n+1),
		Method: m.String(),
	}
	traj.Times[0] = 0
	traj.States[0] = u0.Clone()

	s.logger.Debug(ctx, "fixed solve started",
		logging.String("method", m.String()),
		logging.Float64("dt", dt),
		logging.Int("steps", n))

	u := traj.States[0]
	for i := 0; i < n; i++ {
		select {
		case <-ctx.Done():
			return traj.truncate(i + 1), ctx.Err()
		default:
		}

		t := float64(i) * dt
		next, err := stepper.Step(f, t, u, dt)
		if err != nil {
			return traj.truncate(i + 1), &dynamo.SolveError{Step: i, Time: t, State: u, Wrapped: err}
		}
		if !next.IsValid() {
			s.logger.Warn(ctx, "fixed solve produced a non-finite state",
				logging.Int("step", i+1), logging.Float64("t", t+dt))
			return traj.truncate(i + 1), &dynamo.SolveError{Step: i + 1, Time: t + dt, State: next, Wrapped: dynamo.ErrInvalidState}
		}

		u = next
		traj.Times[i+1] = float64(i+1) * dt
		traj.States[i+1] = u
		s.notify(i+1, traj.Times[i+1], dt, u)
	}
	return traj, nil
}

// SolveFixed runs the fixed-step driver with default settings.
func SolveFixed(f dynamo.RHS, u0 dynamo.State, dt, tFinal float64, m integrators.Method) (*Trajectory, error) {
	return defaultSolver.SolveFixed(context.Background(), f, u0, dt, tFinal, m)
}

func checkPositive(name string, v float64) error {
	if !(v > 0) || math.IsInf(v, 1) {
		return fmt.Errorf("%w: %s must be positive and finite, got %g", dynamo.ErrInvalidParameter, name, v)
	}
	return nil
}
