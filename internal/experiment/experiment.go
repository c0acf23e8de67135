// Package experiment turns a configuration into solves: it builds the model,
// picks the driver, attaches observers and scores the resulting trajectories.
package experiment

import (
	"context"
	"fmt"
	"time"

	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/logging"
	"github.com/san-kum/ivplab/internal/metrics"
	"github.com/san-kum/ivplab/internal/models"
	"github.com/san-kum/ivplab/internal/observability"
	"github.com/san-kum/ivplab/internal/sim"
)

// DefaultBound is the magnitude past which the stability metric counts a
// sample as diverged.
const DefaultBound = 1e6

// Result is one solved initial condition.
type Result struct {
	Init       dynamo.State
	Trajectory *sim.Trajectory
	Metrics    map[string]float64
	Elapsed    time.Duration
}

type Experiment struct {
	cfg       *config.Config
	model     models.Model
	entry     Entry
	logger    logging.Logger
	collector *observability.SolverCollector
	observers []dynamo.Observer
	bound     float64
}

type Option func(*Experiment)

func WithLogger(l logging.Logger) Option {
	return func(e *Experiment) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithCollector records every solve and step of the experiment.
func WithCollector(c *observability.SolverCollector) Option {
	return func(e *Experiment) { e.collector = c }
}

func WithObserver(o dynamo.Observer) Option {
	return func(e *Experiment) { e.observers = append(e.observers, o) }
}

// WithBound overrides DefaultBound.
func WithBound(b float64) Option {
	return func(e *Experiment) { e.bound = b }
}

// New validates cfg and builds its model. cfg is copied.
func New(cfg *config.Config, opts ...Option) (*Experiment, error) {
	if cfg == nil {
		return nil, fmt.Errorf("experiment: nil config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	model, err := cfg.Build()
	if err != nil {
		return nil, err
	}
	name := cfg.Method
	if cfg.Adaptive {
		name = AdaptiveName
	}
	entry, err := Lookup(name)
	if err != nil {
		return nil, err
	}
	for i, u0 := range cfg.InitialStates(model) {
		if u0.Dim() != model.StateDim() {
			return nil, fmt.Errorf("%w: initial condition %d has %d components, %s needs %d",
				dynamo.ErrDimensionMismatch, i, u0.Dim(), cfg.Model, model.StateDim())
		}
	}

	e := &Experiment{
		cfg:    cfg.Clone(),
		model:  model,
		entry:  entry,
		logger: logging.Noop(),
		bound:  DefaultBound,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e, nil
}

func (e *Experiment) Config() *config.Config { return e.cfg.Clone() }

func (e *Experiment) Model() models.Model { return e.model }

// Method is the label runs of this experiment are recorded under.
func (e *Experiment) Method() string { return e.entry.Label() }

// Run solves every initial condition of the configuration in order and stops
// at the first failure, returning the results gathered so far.
func (e *Experiment) Run(ctx context.Context) ([]Result, error) {
	solver := e.solver()
	inits := e.cfg.InitialStates(e.model)
	results := make([]Result, 0, len(inits))
	for i, u0 := range inits {
		res, err := e.runOne(ctx, solver, u0)
		if err != nil {
			if len(inits) > 1 {
				err = fmt.Errorf("initial condition %d: %w", i, err)
			}
			return results, err
		}
		results = append(results, res)
	}
	return results, nil
}

func (e *Experiment) solver() *sim.Solver {
	opts := []sim.Option{
		sim.WithLogger(e.logger),
		sim.WithAdaptiveOptions(e.cfg.AdaptiveOptions()),
	}
	for _, o := range e.observers {
		opts = append(opts, sim.WithObserver(o))
	}
	if e.collector != nil {
		opts = append(opts, sim.WithObserver(e.collector.Observer(e.Method())))
	}
	return sim.New(opts...)
}

func (e *Experiment) runOne(ctx context.Context, solver *sim.Solver, u0 dynamo.State) (Result, error) {
	f := dynamo.AsRHS(e.model)
	driver := "fixed"
	if e.entry.Adaptive {
		driver = "adaptive"
	}
	log := e.logger.With(
		logging.String("model", e.cfg.Model),
		logging.String("method", e.Method()),
	)
	log.Info(ctx, "solve started",
		logging.Any("init", []float64(u0)),
		logging.Float64("duration", e.cfg.Duration))

	start := time.Now()
	var (
		traj *sim.Trajectory
		err  error
	)
	if e.entry.Adaptive {
		traj, err = solver.SolveAdaptive(ctx, f, u0, e.cfg.Duration, e.cfg.ErrTarget)
	} else {
		traj, err = solver.SolveFixed(ctx, f, u0, e.cfg.Dt, e.cfg.Duration, e.entry.Method)
	}
	elapsed := time.Since(start)
	e.collector.RecordSolve(driver, e.Method(), elapsed, err)
	if err != nil {
		log.Error(ctx, "solve failed", logging.Err(err))
		return Result{}, err
	}

	res := Result{
		Init:       u0.Clone(),
		Trajectory: traj,
		Metrics:    metrics.Evaluate(traj.Times, traj.States, metrics.Standard(e.model, e.bound)...),
		Elapsed:    elapsed,
	}
	log.Info(ctx, "solve finished",
		logging.Int("samples", traj.Len()),
		logging.Any("elapsed", elapsed))
	return res, nil
}
