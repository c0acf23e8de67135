package experiment

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
	"github.com/san-kum/ivplab/internal/observability"
)

func harmonicConfig() *config.Config {
	cfg := config.DefaultConfig()
	cfg.Model = "harmonic"
	cfg.Method = "classic_rk4"
	cfg.Dt = 0.01
	cfg.Duration = 2
	cfg.InitState = []float64{1, 0}
	return cfg
}

func TestLookup(t *testing.T) {
	e, err := Lookup("rk4")
	require.NoError(t, err)
	assert.Equal(t, integrators.ClassicRK4, e.Method)
	assert.False(t, e.Adaptive)
	assert.Equal(t, 4, e.Order)

	for _, name := range []string{"adaptive", "midpoint/equal_rk4", " Adaptive "} {
		e, err = Lookup(name)
		require.NoError(t, err, name)
		assert.True(t, e.Adaptive, name)
		assert.Equal(t, "midpoint/equal_rk4", e.Label())
	}

	_, err = Lookup("leapfrog")
	assert.ErrorIs(t, err, dynamo.ErrInvalidMethod)
}

func TestMethods(t *testing.T) {
	ms := Methods()
	require.Len(t, ms, len(integrators.Methods())+1)
	assert.Equal(t, "euler", ms[0].Name)
	last := ms[len(ms)-1]
	assert.True(t, last.Adaptive)
	assert.Equal(t, 2, last.Order)
}

func TestRunFixed(t *testing.T) {
	exp, err := New(harmonicConfig())
	require.NoError(t, err)
	assert.Equal(t, "classic_rk4", exp.Method())

	results, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 1)

	traj := results[0].Trajectory
	assert.Equal(t, 201, traj.Len())
	final := traj.Final()
	assert.InDelta(t, math.Cos(2), final[0], 1e-8)
	assert.InDelta(t, -math.Sin(2), final[1], 1e-8)
	assert.Contains(t, results[0].Metrics, "energy_drift")
	assert.Less(t, results[0].Metrics["energy_drift"], 1e-8)
}

func TestRunSweepAdaptive(t *testing.T) {
	cfg := harmonicConfig()
	cfg.Adaptive = true
	cfg.ErrTarget = 1e-6
	cfg.InitState = nil
	cfg.Sweep = [][]float64{{1, 0}, {0, 1}}

	exp, err := New(cfg)
	require.NoError(t, err)
	results, err := exp.Run(context.Background())
	require.NoError(t, err)
	require.Len(t, results, 2)
	for _, r := range results {
		assert.True(t, r.Trajectory.Adaptive)
		assert.GreaterOrEqual(t, r.Trajectory.Duration(), 2.0)
	}
	assert.Equal(t, dynamo.State{0, 1}, results[1].Init)
}

func TestRunDefaultState(t *testing.T) {
	cfg := harmonicConfig()
	cfg.InitState = nil
	exp, err := New(cfg)
	require.NoError(t, err)
	results, err := exp.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, exp.Model().DefaultState(), results[0].Init)
}

func TestNewRejectsBadConfig(t *testing.T) {
	_, err := New(nil)
	assert.Error(t, err)

	cfg := harmonicConfig()
	cfg.Dt = 0
	_, err = New(cfg)
	assert.ErrorIs(t, err, dynamo.ErrInvalidParameter)

	cfg = harmonicConfig()
	cfg.InitState = []float64{1}
	_, err = New(cfg)
	assert.ErrorIs(t, err, dynamo.ErrDimensionMismatch)
}

func TestRunRecordsMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	collector, err := observability.NewSolverCollector(reg)
	require.NoError(t, err)

	exp, err := New(harmonicConfig(), WithCollector(collector))
	require.NoError(t, err)
	_, err = exp.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Solves.WithLabelValues("fixed", "classic_rk4", "ok")))
	assert.Equal(t, 200.0, testutil.ToFloat64(collector.Steps.WithLabelValues("classic_rk4")))
}

func TestRunHonoursCancellation(t *testing.T) {
	exp, err := New(harmonicConfig())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = exp.Run(ctx)
	assert.True(t, errors.Is(err, context.Canceled))
}

func TestCompare(t *testing.T) {
	cfg := harmonicConfig()
	cmps, err := Compare(context.Background(), cfg, []string{"classic_rk4", "euler", "adaptive", "bogus"})
	require.NoError(t, err)
	require.Len(t, cmps, 4)

	assert.NoError(t, cmps[0].Err)
	assert.Nil(t, cmps[0].Deviation)

	require.NotNil(t, cmps[1].Deviation)
	require.NotNil(t, cmps[2].Deviation)
	assert.Greater(t, cmps[1].Deviation.Max, cmps[2].Deviation.Max)
	assert.Equal(t, "midpoint/equal_rk4", cmps[2].Method)

	assert.ErrorIs(t, cmps[3].Err, dynamo.ErrInvalidMethod)
}
