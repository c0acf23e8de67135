package main

import (
	"fmt"
	"io"
	"sort"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/analysis"
	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/experiment"
	"github.com/san-kum/ivplab/internal/logging"
	"github.com/san-kum/ivplab/internal/metrics"
	"github.com/san-kum/ivplab/internal/quad"
	"github.com/san-kum/ivplab/internal/sim"
	"github.com/san-kum/ivplab/internal/storage"
	"github.com/san-kum/ivplab/internal/viz"
)

var (
	sweepICs  []string
	component int
)

func newRunCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run [model]",
		Short: "solve a model and store the trajectory",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSimulation,
	}
	addSolveFlags(cmd)
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the run")
	return cmd
}

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep [model]",
		Short: "solve a model from several initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runSweep,
	}
	addSolveFlags(cmd)
	cmd.Flags().StringArrayVar(&sweepICs, "ic", nil, "initial condition, comma separated (repeatable)")
	cmd.Flags().IntVar(&component, "component", 0, "state component to plot")
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	return cmd
}

func runSimulation(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	results, err := solve(cmd, cfg)
	if err != nil {
		return err
	}
	return saveAndReport(cmd.OutOrStdout(), cfg, results)
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	if len(sweepICs) > 0 {
		cfg.InitState = nil
		cfg.Sweep = make([][]float64, len(sweepICs))
		for i, s := range sweepICs {
			if cfg.Sweep[i], err = parseVector(s); err != nil {
				return err
			}
		}
	}
	if len(cfg.Sweep) == 0 {
		return fmt.Errorf("no initial conditions: pass --ic or a sweep preset (available: %v)", config.ListPresets(cfg.Model))
	}

	results, err := solve(cmd, cfg)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if err := saveAndReport(w, cfg, results); err != nil {
		return err
	}

	legends := make([]string, len(results))
	for i, r := range results {
		legends[i] = viz.FormatState(r.Init)
	}
	plot, err := viz.PlotOverlay(trajectories(results), component, legends,
		fmt.Sprintf("x%d vs time", component), viz.DefaultPlotOptions())
	if err != nil {
		return err
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, plot)
	return nil
}

func solve(cmd *cobra.Command, cfg *config.Config) ([]experiment.Result, error) {
	exp, err := experiment.New(cfg, experimentOptions()...)
	if err != nil {
		return nil, err
	}
	logger.Info(cmd.Context(), "run started",
		logging.String("model", cfg.Model),
		logging.String("method", exp.Method()))
	results, err := exp.Run(cmd.Context())
	if err != nil {
		return nil, err
	}
	logger.Info(cmd.Context(), "run finished", logging.Int("solves", len(results)))
	return results, nil
}

// saveAndReport stores every result, unless --no-save is set, and prints a
// summary of each. Results of one sweep share a group id.
func saveAndReport(w io.Writer, cfg *config.Config, results []experiment.Result) error {
	var st *storage.Store
	if !noSave {
		var err error
		if st, err = openStore(cfg.StoreDir); err != nil {
			return err
		}
	}
	group := ""
	if len(results) > 1 {
		group = uuid.NewString()
	}
	for i, r := range results {
		id := "-"
		if st != nil {
			var err error
			if id, err = st.Save(runMetadata(cfg, r, group), r.Trajectory); err != nil {
				return err
			}
		}
		if i > 0 {
			fmt.Fprintln(w)
		}
		printRunSummary(w, id, cfg, r)
	}
	if group != "" && st != nil {
		fmt.Fprintln(w)
		fmt.Fprintln(w, viz.KeyValues([2]string{"group", group}))
	}
	return nil
}

func runMetadata(cfg *config.Config, r experiment.Result, group string) storage.RunMetadata {
	meta := storage.RunMetadata{
		Model:     cfg.Model,
		Duration:  cfg.Duration,
		InitState: r.Init,
		Params:    cfg.Params,
		Metrics:   r.Metrics,
		Group:     group,
	}
	if cfg.Adaptive {
		meta.ErrTarget = cfg.ErrTarget
	} else {
		meta.Dt = cfg.Dt
	}
	return meta
}

func printRunSummary(w io.Writer, id string, cfg *config.Config, r experiment.Result) {
	traj := r.Trajectory
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("%s / %s", cfg.Model, traj.Method)))
	pairs := [][2]string{
		{"run id", id},
		{"initial", viz.FormatState(r.Init)},
		{"final", viz.FormatState(traj.Final())},
		{"t final", viz.FormatFloat(traj.Duration())},
		{"samples", fmt.Sprint(traj.Len())},
		{"elapsed", r.Elapsed.String()},
	}
	for _, name := range sortedKeys(r.Metrics) {
		pairs = append(pairs, [2]string{name, viz.FormatFloat(r.Metrics[name])})
	}
	if traj.Adaptive {
		st := metrics.Steps(traj.Times)
		pairs = append(pairs,
			[2]string{"dt min", viz.FormatFloat(st.Min)},
			[2]string{"dt max", viz.FormatFloat(st.Max)},
			[2]string{"dt mean", viz.FormatFloat(st.Mean)},
			[2]string{"dt history", viz.Sparkline(traj.StepSizes(), 40)},
		)
	}
	if cfg.Model == "projectile" {
		pairs = append(pairs, projectileSummary(r)...)
	}
	fmt.Fprintln(w, viz.KeyValues(pairs...))
}

// projectileSummary reconstructs the flight path from the solved velocity.
// Simpson accumulation needs a uniform grid with an odd sample count; the
// trapezoid rule covers every other case.
func projectileSummary(r experiment.Result) [][2]string {
	path, err := analysis.ProjectilePath(r.Trajectory, quad.Simpson, 0, 0)
	if err != nil {
		if path, err = analysis.ProjectilePath(r.Trajectory, quad.Trapezoid, 0, 0); err != nil {
			return [][2]string{{"path", err.Error()}}
		}
	}
	apex := path.Apex()
	out := [][2]string{
		{"apex", fmt.Sprintf("t=%s x=%s y=%s", viz.FormatFloat(path.T[apex]), viz.FormatFloat(path.X[apex]), viz.FormatFloat(path.Y[apex]))},
	}
	if t, x, ok := path.Landing(); ok {
		out = append(out, [2]string{"landing", fmt.Sprintf("t=%s x=%s", viz.FormatFloat(t), viz.FormatFloat(x))})
	} else {
		out = append(out, [2]string{"landing", "still airborne"})
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func trajectories(results []experiment.Result) []*sim.Trajectory {
	out := make([]*sim.Trajectory, len(results))
	for i, r := range results {
		out[i] = r.Trajectory
	}
	return out
}
