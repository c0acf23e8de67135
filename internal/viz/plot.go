package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/sim"
)

// PlotOptions controls the size of asciigraph output.
type PlotOptions struct {
	Width  int
	Height int
}

// DefaultPlotOptions matches an 80 column terminal.
func DefaultPlotOptions() PlotOptions {
	return PlotOptions{Width: 80, Height: 10}
}

// Uniform returns component i of traj sampled at n evenly spaced times over
// its whole range.
func Uniform(traj *sim.Trajectory, i, n int) ([]float64, error) {
	if n < 2 || traj.Len() < 2 {
		return traj.Component(i)
	}
	t0, t1 := traj.Times[0], traj.Duration()
	ts := make([]float64, n)
	for k := range ts {
		ts[k] = t0 + (t1-t0)*float64(k)/float64(n-1)
	}
	ts[n-1] = t1
	states, err := traj.Resample(ts)
	if err != nil {
		return nil, err
	}
	out := make([]float64, n)
	for k, s := range states {
		if i < 0 || i >= len(s) {
			return nil, fmt.Errorf("%w: component %d of %d-dimensional state", dynamo.ErrDimensionMismatch, i, len(s))
		}
		out[k] = s[i]
	}
	return out, nil
}

// PlotComponent draws one state component against time.
func PlotComponent(traj *sim.Trajectory, i int, caption string, opts PlotOptions) (string, error) {
	data, err := Uniform(traj, i, opts.Width)
	if err != nil {
		return "", err
	}
	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(CurrentTheme.seriesColor(0)),
	), nil
}

// PlotOverlay draws component i of several trajectories on shared axes, one
// colored line and legend entry per trajectory.
func PlotOverlay(trajs []*sim.Trajectory, i int, legends []string, caption string, opts PlotOptions) (string, error) {
	if len(trajs) == 0 {
		return "", fmt.Errorf("nothing to plot")
	}
	data := make([][]float64, len(trajs))
	colors := make([]asciigraph.AnsiColor, len(trajs))
	for k, tr := range trajs {
		series, err := Uniform(tr, i, opts.Width)
		if err != nil {
			return "", err
		}
		data[k] = series
		colors[k] = CurrentTheme.seriesColor(k)
	}
	graphOpts := []asciigraph.Option{
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(colors...),
	}
	if len(legends) == len(trajs) {
		graphOpts = append(graphOpts, asciigraph.SeriesLegends(legends...))
	}
	return asciigraph.PlotMany(data, graphOpts...), nil
}

// PlotSeries draws a bare series, used for spectra and step sizes.
func PlotSeries(data []float64, caption string, opts PlotOptions) string {
	return asciigraph.Plot(data,
		asciigraph.Height(opts.Height),
		asciigraph.Width(opts.Width),
		asciigraph.Caption(caption),
		asciigraph.SeriesColors(CurrentTheme.seriesColor(0)),
	)
}
