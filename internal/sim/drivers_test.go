package sim_test

import (
	"context"
	"errors"
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
	"github.com/san-kum/ivplab/internal/sim"
)

func constant(t float64, u dynamo.State) dynamo.State { return dynamo.State{1} }

func logistic(t float64, u dynamo.State) dynamo.State { return dynamo.State{u[0] * (1 - u[0])} }

func pendulum(t float64, u dynamo.State) dynamo.State {
	return dynamo.State{u[1], -10 * math.Sin(u[0])}
}

func pendulumEnergy(u dynamo.State) float64 {
	return u[1]*u[1]/2 + 10*(1-math.Cos(u[0]))
}

var _ = Describe("SolveFixed", func() {
	DescribeTable("integrates a constant derivative exactly",
		func(m integrators.Method) {
			traj, err := sim.SolveFixed(constant, dynamo.Scalar(0), 0.1, 2, m)
			Expect(err).NotTo(HaveOccurred())
			Expect(traj.Len()).To(Equal(21))
			for i, s := range traj.States {
				Expect(s[0]).To(BeNumerically("~", float64(i)*0.1, 1e-12))
				Expect(traj.Times[i]).To(Equal(float64(i) * 0.1))
			}
		},
		Entry("euler", integrators.Euler),
		Entry("midpoint", integrators.Midpoint),
		Entry("trapezoid", integrators.Trapezoid),
		Entry("ralston", integrators.Ralston),
		Entry("classic_rk4", integrators.ClassicRK4),
		Entry("equal_rk4", integrators.EqualRK4),
	)

	It("returns floor(t_final/dt)+1 samples", func() {
		traj, err := sim.SolveFixed(constant, dynamo.Scalar(0), 0.3, 1, integrators.Euler)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(4))
		Expect(traj.Duration()).To(BeNumerically("~", 0.9, 1e-15))
		Expect(traj.Method).To(Equal("euler"))
		Expect(traj.Adaptive).To(BeFalse())
	})

	It("leaves the initial condition untouched", func() {
		u0 := dynamo.State{math.Pi / 4, 0}
		_, err := sim.SolveFixed(pendulum, u0, 0.01, 1, integrators.ClassicRK4)
		Expect(err).NotTo(HaveOccurred())
		Expect(u0).To(Equal(dynamo.State{math.Pi / 4, 0}))
	})

	It("follows the logistic curve from 0.5", func() {
		traj, err := sim.SolveFixed(logistic, dynamo.Scalar(0.5), 0.01, 10, integrators.EqualRK4)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(1001))
		prev := 0.0
		for i, s := range traj.States {
			exact := 1 / (1 + math.Exp(-traj.Times[i]))
			Expect(s[0]).To(BeNumerically("~", exact, 1e-7))
			Expect(s[0]).To(BeNumerically(">=", prev))
			prev = s[0]
		}
	})

	It("stays put at the equilibria of the logistic equation", func() {
		for _, eq := range []float64{0, 1} {
			traj, err := sim.SolveFixed(logistic, dynamo.Scalar(eq), 0.01, 10, integrators.EqualRK4)
			Expect(err).NotTo(HaveOccurred())
			for _, s := range traj.States {
				Expect(s[0]).To(Equal(eq))
			}
		}
	})

	It("conserves pendulum energy with classic_rk4", func() {
		u0 := dynamo.State{math.Pi / 4, 0}
		traj, err := sim.SolveFixed(pendulum, u0, 0.01, 10, integrators.ClassicRK4)
		Expect(err).NotTo(HaveOccurred())
		e0 := pendulumEnergy(u0)
		for _, s := range traj.States {
			Expect(pendulumEnergy(s)).To(BeNumerically("~", e0, 1e-6))
		}
	})

	It("notifies observers after every step", func() {
		var steps []int
		s := sim.New(sim.WithObserver(dynamo.ObserverFunc(func(step int, t, dt float64, x dynamo.State) {
			steps = append(steps, step)
			Expect(dt).To(Equal(0.25))
		})))
		_, err := s.SolveFixed(context.Background(), constant, dynamo.Scalar(0), 0.25, 1, integrators.Euler)
		Expect(err).NotTo(HaveOccurred())
		Expect(steps).To(Equal([]int{1, 2, 3, 4}))
	})

	It("returns the partial trajectory when cancelled", func() {
		ctx, cancel := context.WithCancel(context.Background())
		calls := 0
		f := func(t float64, u dynamo.State) dynamo.State {
			calls++
			if calls == 3 {
				cancel()
			}
			return dynamo.State{1}
		}
		traj, err := sim.New().SolveFixed(ctx, f, dynamo.Scalar(0), 0.1, 1, integrators.Euler)
		Expect(err).To(MatchError(context.Canceled))
		Expect(traj.Len()).To(Equal(4))
	})

	DescribeTable("rejects invalid input",
		func(u0 dynamo.State, dt, tFinal float64, m integrators.Method, want error) {
			_, err := sim.SolveFixed(constant, u0, dt, tFinal, m)
			Expect(err).To(MatchError(want))
		},
		Entry("unknown method", dynamo.Scalar(0), 0.1, 1.0, integrators.Method(42), dynamo.ErrInvalidMethod),
		Entry("empty state", dynamo.State{}, 0.1, 1.0, integrators.Euler, dynamo.ErrInvalidInitialCondition),
		Entry("NaN state", dynamo.State{math.NaN()}, 0.1, 1.0, integrators.Euler, dynamo.ErrInvalidInitialCondition),
		Entry("zero dt", dynamo.Scalar(0), 0.0, 1.0, integrators.Euler, dynamo.ErrInvalidParameter),
		Entry("negative t_final", dynamo.Scalar(0), 0.1, -1.0, integrators.Euler, dynamo.ErrInvalidParameter),
		Entry("step count past any int", dynamo.Scalar(0), 1e-300, 1.0, integrators.Euler, dynamo.ErrInvalidParameter),
		Entry("step count past the budget", dynamo.Scalar(0), 1e-9, 1.0, integrators.Euler, dynamo.ErrInvalidParameter),
	)

	It("honours a custom step budget", func() {
		s := sim.New(sim.WithAdaptiveOptions(sim.AdaptiveOptions{MaxSteps: 100}))
		_, err := s.SolveFixed(context.Background(), constant, dynamo.Scalar(0), 0.001, 1, integrators.Euler)
		Expect(err).To(MatchError(dynamo.ErrInvalidParameter))
		traj, err := s.SolveFixed(context.Background(), constant, dynamo.Scalar(0), 0.01, 1, integrators.Euler)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Len()).To(Equal(101))
	})

	It("reports a blow-up as an invalid state", func() {
		blowup := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{u[0] * u[0] * 1e200} }
		traj, err := sim.SolveFixed(blowup, dynamo.Scalar(1e100), 1, 10, integrators.Euler)
		Expect(err).To(MatchError(dynamo.ErrInvalidState))
		var se *dynamo.SolveError
		Expect(errors.As(err, &se)).To(BeTrue())
		Expect(se.Step).To(Equal(1))
		Expect(traj.Len()).To(Equal(1))
	})
})

var _ = Describe("SolveAdaptive", func() {
	It("terminates at or past t_final on a constant derivative", func() {
		traj, err := sim.SolveAdaptive(constant, dynamo.Scalar(0), 10, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		last := traj.Duration()
		Expect(last).To(BeNumerically(">=", 10))
		Expect(traj.Final()[0]).To(BeNumerically("~", last, 1e-9))
		Expect(traj.Adaptive).To(BeTrue())
		Expect(traj.Method).To(Equal("midpoint/equal_rk4"))
	})

	It("starts at (0, u0) and keeps times strictly increasing", func() {
		traj, err := sim.SolveAdaptive(logistic, dynamo.Scalar(0.1), 10, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		Expect(traj.Times[0]).To(Equal(0.0))
		Expect(traj.States[0]).To(Equal(dynamo.Scalar(0.1)))
		Expect(len(traj.Times)).To(Equal(len(traj.States)))
		for i := 1; i < traj.Len(); i++ {
			Expect(traj.Times[i]).To(BeNumerically(">", traj.Times[i-1]))
		}
		Expect(traj.Times[traj.Len()-2]).To(BeNumerically("<", 10))
	})

	It("tracks the logistic solution", func() {
		traj, err := sim.SolveAdaptive(logistic, dynamo.Scalar(0.5), 10, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		for i, s := range traj.States {
			exact := 1 / (1 + math.Exp(-traj.Times[i]))
			Expect(s[0]).To(BeNumerically("~", exact, 1e-4))
		}
	})

	It("takes smaller steps for a tighter target", func() {
		loose, err := sim.SolveAdaptive(pendulum, dynamo.State{math.Pi / 4, 0}, 5, 1e-3)
		Expect(err).NotTo(HaveOccurred())
		tight, err := sim.SolveAdaptive(pendulum, dynamo.State{math.Pi / 4, 0}, 5, 1e-8)
		Expect(err).NotTo(HaveOccurred())
		Expect(tight.Len()).To(BeNumerically(">", loose.Len()))
	})

	It("fails on a zero error estimate when asked to", func() {
		zero := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{0} }
		opts := sim.DefaultAdaptiveOptions()
		opts.ZeroError = sim.FailOnZeroError
		s := sim.New(sim.WithAdaptiveOptions(opts))
		traj, err := s.SolveAdaptive(context.Background(), zero, dynamo.Scalar(1), 1, 1e-6)
		Expect(err).To(MatchError(dynamo.ErrZeroErrorEstimate))
		Expect(traj.Len()).To(Equal(1))
	})

	It("grows the step on a zero error estimate by default", func() {
		zero := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{0} }
		traj, err := sim.SolveAdaptive(zero, dynamo.Scalar(1), 1, 1e-6)
		Expect(err).NotTo(HaveOccurred())
		steps := traj.StepSizes()
		Expect(steps[0]).To(BeNumerically("~", 0.05, 1e-15))
		for i := 1; i < len(steps); i++ {
			Expect(steps[i]).To(BeNumerically("~", 5*steps[i-1], 1e-12))
		}
	})

	It("reports non-termination past the step budget", func() {
		opts := sim.DefaultAdaptiveOptions()
		opts.MaxSteps = 5
		s := sim.New(sim.WithAdaptiveOptions(opts))
		traj, err := s.SolveAdaptive(context.Background(), pendulum, dynamo.State{1, 0}, 100, 1e-12)
		Expect(err).To(MatchError(dynamo.ErrNonTermination))
		Expect(traj.Len()).To(Equal(6))
	})

	It("reports a step collapsing below the minimum", func() {
		stiff := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{-1e9 * u[0]} }
		opts := sim.DefaultAdaptiveOptions()
		opts.MinDt = 5e-3
		s := sim.New(sim.WithAdaptiveOptions(opts))
		_, err := s.SolveAdaptive(context.Background(), stiff, dynamo.Scalar(1), 1, 1e-8)
		Expect(err).To(MatchError(dynamo.ErrStepTooSmall))
	})

	DescribeTable("rejects invalid input",
		func(u0 dynamo.State, tFinal, errTarget float64, want error) {
			_, err := sim.SolveAdaptive(constant, u0, tFinal, errTarget)
			Expect(err).To(MatchError(want))
		},
		Entry("empty state", dynamo.State{}, 1.0, 1e-6, dynamo.ErrInvalidInitialCondition),
		Entry("infinite state", dynamo.State{math.Inf(1)}, 1.0, 1e-6, dynamo.ErrInvalidInitialCondition),
		Entry("zero t_final", dynamo.Scalar(0), 0.0, 1e-6, dynamo.ErrInvalidParameter),
		Entry("zero err_target", dynamo.Scalar(0), 1.0, 0.0, dynamo.ErrInvalidParameter),
	)
})

var _ = Describe("SweepFixed", func() {
	It("solves every initial condition", func() {
		inits := []dynamo.State{{0.1}, {0.2}, {0.3}, {0.4}, {0.5}}
		trajs, err := sim.New().SweepFixed(context.Background(), logistic, inits, 0.01, 10, integrators.EqualRK4)
		Expect(err).NotTo(HaveOccurred())
		Expect(trajs).To(HaveLen(5))
		for i, tr := range trajs {
			Expect(tr.States[0]).To(Equal(inits[i]))
			Expect(tr.Final()[0]).To(BeNumerically("~", 1, 1e-3))
		}
	})

	It("aborts on the first bad initial condition", func() {
		inits := []dynamo.State{{0.1}, {}}
		_, err := sim.New().SweepAdaptive(context.Background(), logistic, inits, 1, 1e-6)
		Expect(err).To(MatchError(dynamo.ErrInvalidInitialCondition))
		Expect(err.Error()).To(ContainSubstring("initial condition 1"))
	})
})
