package sim

import (
	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/logging"
)

// Solver runs the fixed and adaptive drivers. A Solver only holds
// configuration; every solve allocates its own steppers, so one Solver may
// serve concurrent solves as long as its observers are safe for that.
type Solver struct {
	logger    logging.Logger
	observers []dynamo.Observer
	adaptive  AdaptiveOptions
}

type Option func(*Solver)

func WithLogger(l logging.Logger) Option {
	return func(s *Solver) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithObserver(o dynamo.Observer) Option {
	return func(s *Solver) { s.observers = append(s.observers, o) }
}

// WithAdaptiveOptions replaces the step-size control policy. Zero fields are
// filled from DefaultAdaptiveOptions.
func WithAdaptiveOptions(opts AdaptiveOptions) Option {
	return func(s *Solver) { s.adaptive = opts.withDefaults() }
}

func New(opts ...Option) *Solver {
	s := &Solver{
		logger:   logging.Noop(),
		adaptive: DefaultAdaptiveOptions(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Solver) AddObserver(o dynamo.Observer) { s.observers = append(s.observers, o) }

// AdaptiveOptions returns the policy used by SolveAdaptive.
func (s *Solver) AdaptiveOptions() AdaptiveOptions { return s.adaptive }

func (s *Solver) notify(step int, t, dt float64, x dynamo.State) {
	for _, o := range s.observers {
		o.OnStep(step, t, dt, x)
	}
}

var defaultSolver = New()
