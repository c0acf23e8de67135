// Package observability exposes solver activity as Prometheus metrics.
package observability

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// SolverCollector bundles the Prometheus metrics recorded around solves.
type SolverCollector struct {
	gatherer prometheus.Gatherer

	Solves        *prometheus.CounterVec
	Steps         *prometheus.CounterVec
	StepSizes     *prometheus.HistogramVec
	SolveDuration *prometheus.HistogramVec
	FinalTime     prometheus.Gauge
}

// NewSolverCollector registers solver metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
func NewSolverCollector(reg prometheus.Registerer) (*SolverCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	solves, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ivp_solves_total",
		Help: "Completed solves, labeled by driver, method and outcome.",
	}, []string{"driver", "method", "outcome"}), "ivp_solves_total")
	if err != nil {
		return nil, err
	}
	steps, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "ivp_steps_total",
		Help: "Committed solver steps, labeled by method.",
	}, []string{"method"}), "ivp_steps_total")
	if err != nil {
		return nil, err
	}
	sizes, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ivp_step_size",
		Help:    "Size of committed steps.",
		Buckets: prometheus.ExponentialBuckets(1e-6, 10, 8),
	}, []string{"method"}), "ivp_step_size")
	if err != nil {
		return nil, err
	}
	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "ivp_solve_duration_seconds",
		Help:    "Wall clock time of a solve in seconds.",
		Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5, 10, 60},
	}, []string{"driver"}), "ivp_solve_duration_seconds")
	if err != nil {
		return nil, err
	}
	final, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "ivp_last_final_time",
		Help: "Last time reached by the most recent step.",
	}), "ivp_last_final_time")
	if err != nil {
		return nil, err
	}

	return &SolverCollector{
		gatherer:      gatherer,
		Solves:        solves,
		Steps:         steps,
		StepSizes:     sizes,
		SolveDuration: durations,
		FinalTime:     final,
	}, nil
}

// Observer returns a step observer that records under the given method
// label. Attach it with sim.WithObserver.
func (c *SolverCollector) Observer(method string) dynamo.Observer {
	steps := c.Steps.WithLabelValues(method)
	sizes := c.StepSizes.WithLabelValues(method)
	return dynamo.ObserverFunc(func(_ int, t, dt float64, _ dynamo.State) {
		steps.Inc()
		sizes.Observe(dt)
		c.FinalTime.Set(t)
	})
}

// RecordSolve counts a finished solve and its duration.
func (c *SolverCollector) RecordSolve(driver, method string, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.Solves.WithLabelValues(driver, method, Outcome(err)).Inc()
	c.SolveDuration.WithLabelValues(driver).Observe(elapsed.Seconds())
}

// Outcome maps a solve error onto a short label value.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, dynamo.ErrNonTermination):
		return "non_termination"
	case errors.Is(err, dynamo.ErrStepTooSmall):
		return "step_too_small"
	case errors.Is(err, dynamo.ErrZeroErrorEstimate):
		return "zero_error"
	case errors.Is(err, dynamo.ErrInvalidState):
		return "invalid_state"
	case errors.Is(err, dynamo.ErrInvalidMethod),
		errors.Is(err, dynamo.ErrInvalidInitialCondition),
		errors.Is(err, dynamo.ErrInvalidParameter):
		return "invalid_input"
	default:
		return "error"
	}
}

// WriteSummary prints every counter, gauge and histogram count of the
// ivp_ families as "name{labels} value" lines, sorted.
func (c *SolverCollector) WriteSummary(w io.Writer) error {
	families, err := c.gatherer.Gather()
	if err != nil {
		return err
	}
	var lines []string
	for _, mf := range families {
		if !strings.HasPrefix(mf.GetName(), "ivp_") {
			continue
		}
		for _, m := range mf.GetMetric() {
			name := mf.GetName() + formatLabels(m.GetLabel())
			switch mf.GetType() {
			case dto.MetricType_COUNTER:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetCounter().GetValue()))
			case dto.MetricType_GAUGE:
				lines = append(lines, fmt.Sprintf("%s %g", name, m.GetGauge().GetValue()))
			case dto.MetricType_HISTOGRAM:
				h := m.GetHistogram()
				lines = append(lines, fmt.Sprintf("%s_count %d", name, h.GetSampleCount()))
				lines = append(lines, fmt.Sprintf("%s_sum %g", name, h.GetSampleSum()))
			}
		}
	}
	sort.Strings(lines)
	for _, l := range lines {
		if _, err := fmt.Fprintln(w, l); err != nil {
			return err
		}
	}
	return nil
}

func formatLabels(pairs []*dto.LabelPair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, len(pairs))
	for i, lp := range pairs {
		parts[i] = fmt.Sprintf("%s=%q", lp.GetName(), lp.GetValue())
	}
	return "{" + strings.Join(parts, ",") + "}"
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
