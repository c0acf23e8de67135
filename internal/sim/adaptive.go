package sim

import (
	"context"
	"fmt"
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
	"github.com/san-kum/ivplab/internal/logging"
)

// ZeroErrorPolicy decides what happens when the embedded error estimate is
// zero and the rescale ratio would divide by zero.
type ZeroErrorPolicy int

const (
	// GrowStep multiplies the trial step by MaxScale.
	GrowStep ZeroErrorPolicy = iota
	// FailOnZeroError aborts the solve with ErrZeroErrorEstimate.
	FailOnZeroError
)

func (p ZeroErrorPolicy) String() string {
	switch p {
	case GrowStep:
		return "grow"
	case FailOnZeroError:
		return "fail"
	default:
		return fmt.Sprintf("ZeroErrorPolicy(%d)", int(p))
	}
}

// ParseZeroErrorPolicy accepts "grow" and "fail".
func ParseZeroErrorPolicy(name string) (ZeroErrorPolicy, error) {
	switch name {
	case "", "grow":
		return GrowStep, nil
	case "fail":
		return FailOnZeroError, nil
	default:
		return 0, fmt.Errorf("%w: unknown zero error policy %q", dynamo.ErrInvalidParameter, name)
	}
}

// AdaptiveOptions controls the step-size rescaling of SolveAdaptive.
type AdaptiveOptions struct {
	InitialDt float64
	MinScale  float64
	MaxScale  float64
	// ErrFloor is the estimate at or below which the error counts as zero.
	ErrFloor  float64
	MaxSteps  int
	MinDt     float64
	ZeroError ZeroErrorPolicy
}

func DefaultAdaptiveOptions() AdaptiveOptions {
	return AdaptiveOptions{
		InitialDt: 0.01,
		MinScale:  0.1,
		MaxScale:  5,
		ErrFloor:  1e-300,
		MaxSteps:  10_000_000,
		MinDt:     1e-12,
		ZeroError: GrowStep,
	}
}

func (o AdaptiveOptions) withDefaults() AdaptiveOptions {
	d := DefaultAdaptiveOptions()
	if o.InitialDt <= 0 {
		o.InitialDt = d.InitialDt
	}
	if o.MinScale <= 0 {
		o.MinScale = d.MinScale
	}
	if o.MaxScale <= 0 {
		o.MaxScale = d.MaxScale
	}
	if o.ErrFloor <= 0 {
		o.ErrFloor = d.ErrFloor
	}
	if o.MaxSteps <= 0 {
		o.MaxSteps = d.MaxSteps
	}
	if o.MinDt <= 0 {
		o.MinDt = d.MinDt
	}
	return o
}

// Validate reports options that cannot produce a meaningful rescale.
func (o AdaptiveOptions) Validate() error {
	if o.MinScale > 1 || o.MaxScale < 1 {
		return fmt.Errorf("%w: scale bounds [%g, %g] must contain 1", dynamo.ErrInvalidParameter, o.MinScale, o.MaxScale)
	}
	if o.MinDt >= o.InitialDt {
		return fmt.Errorf("%w: min dt %g not below initial dt %g", dynamo.ErrInvalidParameter, o.MinDt, o.InitialDt)
	}
	return nil
}

// rescale returns the next step from the trial step and its error estimate,
// and whether the policy had to intervene.
func (o AdaptiveOptions) rescale(dtTrial, errNorm, errTarget float64, lowOrder int) (float64, bool) {
	factor := math.Pow(errTarget/errNorm, 1/float64(lowOrder+1))
	clamped := false
	if factor < o.MinScale {
		factor, clamped = o.MinScale, true
	} else if factor > o.MaxScale {
		factor, clamped = o.MaxScale, true
	}
	return dtTrial * factor, clamped
}

// SolveAdaptive integrates du/dt = f(t, u) from t=0 until t >= tFinal with
// the midpoint/equal_rk4 embedded pair. Each iteration estimates the local
// error at the trial step, rescales the step towards errTarget and commits an
// equal_rk4 step of the rescaled size. The last recorded time may overshoot
// tFinal by less than one step.
//
// On failure the samples accepted so far are returned together with the error.
func (s *Solver) SolveAdaptive(ctx context.Context, f dynamo.RHS, u0 dynamo.State, tFinal, errTarget float64) (*Trajectory, error) {
	if err := u0.Validate(); err != nil {
		return nil, err
	}
	if err := checkPositive("t_final", tFinal); err != nil {
		return nil, err
	}
	if err := checkPositive("err_target", errTarget); err != nil {
		return nil, err
	}
	opts := s.adaptive
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	pair := integrators.NewEmbeddedPair()
	high := pair.High()
	traj := &Trajectory{
		Times:    []float64{0},
		States:   []dynamo.State{u0.Clone()},
		Method:   pair.String(),
		Adaptive: true,
	}

	s.logger.Debug(ctx, "adaptive solve started",
		logging.String("pair", pair.String()),
		logging.Float64("err_target", errTarget),
		logging.Float64("t_final", tFinal))

	t, u := 0.0, traj.States[0]
	dtTrial := opts.InitialDt
	for step := 0; t < tFinal; step++ {
		select {
		case <-ctx.Done():
			return traj, ctx.Err()
		default:
		}
		fail := func(err error) (*Trajectory, error) {
			return traj, &dynamo.SolveError{Step: step, Time: t, State: u, Wrapped: err}
		}

		if step >= opts.MaxSteps {
			s.logger.Warn(ctx, "adaptive solve exceeded step budget",
				logging.Int("max_steps", opts.MaxSteps), logging.Float64("t", t))
			return fail(dynamo.ErrNonTermination)
		}

		_, errNorm, err := pair.Estimate(f, t, u, dtTrial)
		if err != nil {
			return fail(err)
		}
		if math.IsNaN(errNorm) || math.IsInf(errNorm, 0) {
			return fail(dynamo.ErrInvalidState)
		}

		var dt float64
		if errNorm <= opts.ErrFloor {
			if opts.ZeroError == FailOnZeroError {
				return fail(dynamo.ErrZeroErrorEstimate)
			}
			dt = dtTrial * opts.MaxScale
			s.logger.Debug(ctx, "zero error estimate, growing step",
				logging.Float64("t", t), logging.Float64("dt", dt))
		} else {
			var clamped bool
			dt, clamped = opts.rescale(dtTrial, errNorm, errTarget, pair.LowOrder())
			if clamped {
				s.logger.Debug(ctx, "step rescale clamped",
					logging.Float64("t", t), logging.Float64("dt_trial", dtTrial), logging.Float64("dt", dt))
			}
		}
		if dt < opts.MinDt {
			s.logger.Warn(ctx, "adaptive step fell below minimum",
				logging.Float64("t", t), logging.Float64("dt", dt))
			return fail(fmt.Errorf("%w: dt=%g", dynamo.ErrStepTooSmall, dt))
		}

		next, err := high.Step(f, t, u, dt)
		if err != nil {
			return fail(err)
		}
		if !next.IsValid() {
			return fail(dynamo.ErrInvalidState)
		}

		t += dt
		u = next
		traj.Times = append(traj.Times, t)
		traj.States = append(traj.States, u)
		s.notify(step+1, t, dt, u)
		dtTrial = dt
	}
	return traj, nil
}

// SolveAdaptive runs the adaptive driver with the default policy.
func SolveAdaptive(f dynamo.RHS, u0 dynamo.State, tFinal, errTarget float64) (*Trajectory, error) {
	return defaultSolver.SolveAdaptive(context.Background(), f, u0, tFinal, errTarget)
}
