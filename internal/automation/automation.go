// Package automation runs batches of experiments: scripted scenarios loaded
// from YAML, sweeps over a model parameter and Monte Carlo trials around an
// initial condition.
package automation

import (
	"context"
	"fmt"
	"math"
	"math/rand"
	"os"
	"runtime"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/floats"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/experiment"
	"github.com/san-kum/ivplab/internal/logging"
)

// Scenario defines a scripted simulation sequence
type Scenario struct {
	Name        string         `yaml:"name"`
	Description string         `yaml:"description"`
	Steps       []ScenarioStep `yaml:"steps"`
}

// ScenarioStep is a single step in a scenario. Preset, written
// "model/preset", seeds the configuration and Config overrides it.
type ScenarioStep struct {
	Name   string         `yaml:"name"`
	Preset string         `yaml:"preset,omitempty"`
	Config *config.Config `yaml:"config,omitempty"`
}

// StepResult holds the runs of one scenario step.
type StepResult struct {
	Name    string
	Config  *config.Config
	Results []experiment.Result
}

// LoadScenario loads a scenario from a YAML file
func LoadScenario(path string) (*Scenario, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var scenario Scenario
	if err := yaml.Unmarshal(data, &scenario); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(scenario.Steps) == 0 {
		return nil, fmt.Errorf("scenario %s has no steps", path)
	}

	return &scenario, nil
}

// Resolve builds the configuration of a step.
func (s ScenarioStep) Resolve() (*config.Config, error) {
	var cfg *config.Config
	if s.Preset != "" {
		model, name, ok := strings.Cut(s.Preset, "/")
		if !ok {
			return nil, fmt.Errorf("preset %q: want model/preset", s.Preset)
		}
		cfg = config.GetPreset(model, name)
		if cfg == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", s.Preset, config.ListPresets(model))
		}
	}
	if s.Config != nil {
		if cfg == nil {
			cfg = config.DefaultConfig()
			cfg.InitState = nil
		}
		overlay(cfg, s.Config)
	}
	if cfg == nil {
		return nil, fmt.Errorf("step %q sets neither preset nor config", s.Name)
	}
	return cfg, nil
}

// overlay copies the fields set in src onto dst.
func overlay(dst, src *config.Config) {
	if src.Model != "" {
		dst.Model = src.Model
	}
	if src.Method != "" {
		dst.Method = src.Method
	}
	if src.Dt > 0 {
		dst.Dt = src.Dt
	}
	if src.Duration > 0 {
		dst.Duration = src.Duration
	}
	if src.Adaptive {
		dst.Adaptive = true
	}
	if src.ErrTarget > 0 {
		dst.ErrTarget = src.ErrTarget
	}
	if len(src.InitState) > 0 {
		dst.InitState = append([]float64(nil), src.InitState...)
		dst.Sweep = nil
	}
	if len(src.Sweep) > 0 {
		dst.Sweep = src.Clone().Sweep
	}
	for k, v := range src.Params {
		if dst.Params == nil {
			dst.Params = make(map[string]float64)
		}
		dst.Params[k] = v
	}
}

// RunScenario executes all steps in a scenario. On failure the results of
// the completed steps are returned with the error.
func RunScenario(ctx context.Context, scenario *Scenario, logger logging.Logger, opts ...experiment.Option) ([]StepResult, error) {
	if logger == nil {
		logger = logging.Noop()
	}
	results := make([]StepResult, 0, len(scenario.Steps))
	opts = append([]experiment.Option{experiment.WithLogger(logger)}, opts...)

	for i, step := range scenario.Steps {
		name := step.Name
		if name == "" {
			name = fmt.Sprintf("step-%d", i+1)
		}
		logger.Info(ctx, "scenario step",
			logging.String("scenario", scenario.Name),
			logging.String("step", name),
			logging.Int("index", i+1),
			logging.Int("total", len(scenario.Steps)))

		cfg, err := step.Resolve()
		if err != nil {
			return results, fmt.Errorf("step %d: %w", i+1, err)
		}
		exp, err := experiment.New(cfg, opts...)
		if err != nil {
			return results, fmt.Errorf("step %d setup: %w", i+1, err)
		}
		runs, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("step %d run: %w", i+1, err)
		}

		results = append(results, StepResult{Name: name, Config: cfg, Results: runs})
	}

	return results, nil
}

// ParameterSweep runs the base configuration once per value of one model
// parameter, evenly spaced over [Min, Max].
type ParameterSweep struct {
	Base  *config.Config
	Param string
	Min   float64
	Max   float64
	Count int
}

// SweepResult holds results from a parameter sweep
type SweepResult struct {
	ParamValue float64
	FinalState dynamo.State
	Steps      int
	Metrics    map[string]float64
}

// RunSweep executes a parameter sweep
func RunSweep(ctx context.Context, sweep *ParameterSweep, opts ...experiment.Option) ([]SweepResult, error) {
	if sweep.Count < 1 {
		return nil, fmt.Errorf("%w: sweep count must be positive, got %d", dynamo.ErrInvalidParameter, sweep.Count)
	}
	values := []float64{sweep.Min}
	if sweep.Count > 1 {
		values = floats.Span(make([]float64, sweep.Count), sweep.Min, sweep.Max)
	}

	results := make([]SweepResult, 0, len(values))
	for i, v := range values {
		cfg := sweep.Base.Clone()
		cfg.Sweep = nil
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		cfg.Params[sweep.Param] = v

		exp, err := experiment.New(cfg, opts...)
		if err != nil {
			return results, fmt.Errorf("%s=%g: %w", sweep.Param, v, err)
		}
		runs, err := exp.Run(ctx)
		if err != nil {
			return results, fmt.Errorf("sweep %d/%d %s=%g: %w", i+1, len(values), sweep.Param, v, err)
		}
		traj := runs[0].Trajectory

		results = append(results, SweepResult{
			ParamValue: v,
			FinalState: traj.Final(),
			Steps:      traj.Len() - 1,
			Metrics:    runs[0].Metrics,
		})
	}

	return results, nil
}

// MonteCarloConfig defines Monte Carlo simulation parameters. Every trial
// perturbs each component of the base initial state uniformly within
// ±Perturbation.
type MonteCarloConfig struct {
	Base         *config.Config
	Perturbation float64
	NumTrials    int
	Seed         int64
	Bound        float64
	// Workers caps the trials solved at once; zero means GOMAXPROCS.
	Workers int
}

// MonteCarloResult holds statistics from Monte Carlo runs
type MonteCarloResult struct {
	TrialID    int
	InitState  dynamo.State
	FinalState dynamo.State
	Stable     bool // remained finite and inside Bound
	Err        error
}

// RunMonteCarlo executes multiple trials with random perturbations. The
// perturbations are drawn up front so a seed fixes every trial regardless of
// scheduling; trials then run concurrently, each on its own model instance.
// A trial whose solve fails is recorded as unstable rather than aborting the
// batch. Observers passed in opts must be safe for concurrent use.
func RunMonteCarlo(ctx context.Context, cfg *MonteCarloConfig, opts ...experiment.Option) ([]MonteCarloResult, error) {
	if cfg.NumTrials < 1 {
		return nil, fmt.Errorf("%w: trials must be positive, got %d", dynamo.ErrInvalidParameter, cfg.NumTrials)
	}
	bound := cfg.Bound
	if bound <= 0 {
		bound = experiment.DefaultBound
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	base, err := experiment.New(cfg.Base, opts...)
	if err != nil {
		return nil, err
	}
	baseState := cfg.Base.InitialStates(base.Model())[0]

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))
	results := make([]MonteCarloResult, cfg.NumTrials)
	for trial := range results {
		initState := make(dynamo.State, len(baseState))
		for i, v := range baseState {
			initState[i] = v + (rng.Float64()-0.5)*2*cfg.Perturbation
		}
		results[trial] = MonteCarloResult{TrialID: trial, InitState: initState}
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for trial := range results {
		trial := trial
		g.Go(func() error {
			return runTrial(gctx, cfg.Base, &results[trial], bound, opts)
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// runTrial solves one perturbed trial into res. Only cancellation and
// configuration errors are returned; solver failures land in res.Err.
func runTrial(ctx context.Context, base *config.Config, res *MonteCarloResult, bound float64, opts []experiment.Option) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	trialCfg := base.Clone()
	trialCfg.Sweep = nil
	trialCfg.InitState = res.InitState

	exp, err := experiment.New(trialCfg, opts...)
	if err != nil {
		return err
	}
	runs, err := exp.Run(ctx)
	switch {
	case err != nil && ctx.Err() != nil:
		return ctx.Err()
	case err != nil:
		res.Err = err
	default:
		res.FinalState = runs[0].Trajectory.Final()
		res.Stable = res.FinalState.IsValid() && floats.Norm(res.FinalState, math.Inf(1)) <= bound
	}
	return nil
}

// MonteCarloStats computes summary statistics from Monte Carlo results
func MonteCarloStats(results []MonteCarloResult) (stableCount int, unstableCount int) {
	for _, r := range results {
		if r.Stable {
			stableCount++
		} else {
			unstableCount++
		}
	}
	return
}
