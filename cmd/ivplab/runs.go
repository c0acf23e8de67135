package main

import (
	"fmt"
	"math"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/analysis"
	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/experiment"
	"github.com/san-kum/ivplab/internal/models"
	"github.com/san-kum/ivplab/internal/sim"
	"github.com/san-kum/ivplab/internal/storage"
	"github.com/san-kum/ivplab/internal/viz"
)

var (
	plotComponent    int
	analyzeComponent int
	xAxis            int
	yAxis            int
	asciiPhase       bool
	crossIdx         int
	threshold        float64
)

// componentNames labels state components in plots.
var componentNames = map[string][]string{
	"logistic":   {"u"},
	"pendulum":   {"theta (angle)", "omega (angular velocity)"},
	"harmonic":   {"position", "velocity"},
	"lorenz":     {"x", "y", "z"},
	"vanderpol":  {"x", "dx/dt"},
	"projectile": {"horizontal velocity", "vertical velocity"},
}

func caption(model string, i int) string {
	if names, ok := componentNames[model]; ok && i < len(names) {
		return names[i]
	}
	return fmt.Sprintf("x%d vs time", i)
}

func loadRun(id string) (*storage.RunMetadata, *sim.Trajectory, error) {
	st := storage.New(dataDir)
	meta, err := st.Load(id)
	if err != nil {
		return nil, nil, err
	}
	traj, err := st.LoadTrajectory(id)
	if err != nil {
		return nil, nil, err
	}
	if traj.Len() == 0 {
		return nil, nil, fmt.Errorf("run %s has no samples", id)
	}
	return meta, traj, nil
}

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "list stored runs",
		Args:  cobra.NoArgs,
		RunE:  listRuns,
	}
}

func listRuns(cmd *cobra.Command, args []string) error {
	runs, err := storage.New(dataDir).List()
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	if len(runs) == 0 {
		fmt.Fprintln(w, "no runs found")
		return nil
	}

	rows := make([][]string, 0, len(runs))
	for _, run := range runs {
		step := viz.FormatFloat(run.Dt)
		if run.Adaptive {
			step = "tol " + viz.FormatFloat(run.ErrTarget)
		}
		group := run.Group
		if len(group) > 8 {
			group = group[:8]
		}
		rows = append(rows, []string{
			run.ID,
			run.Model,
			run.Timestamp.Local().Format("2006-01-02 15:04:05"),
			run.Method,
			step,
			viz.FormatFloat(run.Duration),
			fmt.Sprint(run.Steps),
			group,
		})
	}
	fmt.Fprintln(w, viz.Table([]string{"id", "model", "time", "method", "dt", "duration", "steps", "group"}, rows))
	return nil
}

func newPlotCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plot [run_id]",
		Short: "plot run results",
		Args:  cobra.ExactArgs(1),
		RunE:  plotRun,
	}
	cmd.Flags().IntVar(&plotComponent, "component", -1, "state component to plot (-1 for all)")
	return cmd
}

func plotRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.KeyValues(
		[2]string{"run", meta.ID},
		[2]string{"model", meta.Model},
		[2]string{"method", meta.Method},
		[2]string{"samples", fmt.Sprint(traj.Len())},
	))
	fmt.Fprintln(w)

	comps := []int{plotComponent}
	if plotComponent < 0 {
		comps = comps[:0]
		for i := 0; i < min(len(traj.States[0]), 6); i++ {
			comps = append(comps, i)
		}
	}
	for _, i := range comps {
		graph, err := viz.PlotComponent(traj, i, caption(meta.Model, i), viz.DefaultPlotOptions())
		if err != nil {
			return err
		}
		fmt.Fprintln(w, graph)
		fmt.Fprintln(w)
	}

	if traj.Adaptive && traj.Len() > 1 {
		steps := traj.StepSizes()
		logSteps := make([]float64, len(steps))
		for i, h := range steps {
			logSteps[i] = math.Log10(h)
		}
		fmt.Fprintln(w, viz.PlotSeries(logSteps, "log10 step size per step", viz.DefaultPlotOptions()))
	}
	return nil
}

func newPhaseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "phase [run_id]",
		Short: "phase space plot",
		Args:  cobra.ExactArgs(1),
		RunE:  phasePlot,
	}
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "state index for x-axis")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "state index for y-axis")
	cmd.Flags().BoolVar(&asciiPhase, "ascii", false, "plain characters instead of Braille dots")
	return cmd
}

func phasePlot(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	portrait, err := analysis.Phase(traj, xAxis, yAxis)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("phase space of %s (%s)", meta.ID, meta.Model)))
	fmt.Fprintf(w, "x-axis: %s, y-axis: %s\n\n", caption(meta.Model, xAxis), caption(meta.Model, yAxis))
	if asciiPhase {
		fmt.Fprint(w, analysis.PhasePortraitToASCII(portrait, 70, 20))
		return nil
	}
	xs := make([]float64, len(portrait.Points))
	ys := make([]float64, len(portrait.Points))
	for i, p := range portrait.Points {
		xs[i], ys[i] = p.X, p.Y
	}
	fmt.Fprint(w, viz.Phase(xs, ys, 70, 20))
	return nil
}

func newPoincareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poincare [run_id]",
		Short: "Poincare section of a stored run",
		Args:  cobra.ExactArgs(1),
		RunE:  poincare,
	}
	cmd.Flags().IntVar(&crossIdx, "cross", 2, "component whose upward crossing is recorded")
	cmd.Flags().Float64Var(&threshold, "threshold", 25, "crossing value")
	cmd.Flags().IntVar(&xAxis, "x-axis", 0, "recorded component for x")
	cmd.Flags().IntVar(&yAxis, "y-axis", 1, "recorded component for y")
	return cmd
}

func poincare(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	section, err := analysis.Poincare(traj, crossIdx, threshold, xAxis, yAxis)
	if err != nil {
		return err
	}
	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("poincare section of %s (%s)", meta.ID, meta.Model)))
	fmt.Fprintf(w, "%d crossings of x%d = %s\n\n", len(section.Points), crossIdx, viz.FormatFloat(threshold))
	fmt.Fprintln(w, analysis.PoincareSectionToASCII(section, 70, 20))
	return nil
}

func newAnalyzeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analyze [run_id]",
		Short: "frequency analysis",
		Args:  cobra.ExactArgs(1),
		RunE:  analyzeRun,
	}
	cmd.Flags().IntVar(&analyzeComponent, "component", 0, "state component to analyse")
	return cmd
}

func analyzeRun(cmd *cobra.Command, args []string) error {
	meta, traj, err := loadRun(args[0])
	if err != nil {
		return err
	}
	if traj.Len() < 4 {
		return fmt.Errorf("run %s has too few samples for a spectrum", meta.ID)
	}
	comp := max(analyzeComponent, 0)

	// adaptive grids are resampled to the same number of uniform samples
	data, err := viz.Uniform(traj, comp, traj.Len())
	if err != nil {
		return err
	}
	sampleDt := (traj.Duration() - traj.Times[0]) / float64(len(data)-1)
	ps := analysis.PowerSpectrum(data)
	freq, err := analysis.DominantFrequency(data, sampleDt)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("frequency analysis: %s", meta.ID)))
	fmt.Fprintln(w, viz.PlotSeries(ps[:max(len(ps)/4, 2)], fmt.Sprintf("power spectrum (%s)", caption(meta.Model, comp)),
		viz.PlotOptions{Width: 80, Height: 15}))
	fmt.Fprintln(w)
	pairs := [][2]string{{"model", meta.Model}, {"dominant frequency", viz.FormatFloat(freq) + " hz"}}
	if freq > 0 {
		pairs = append(pairs, [2]string{"period", viz.FormatFloat(1/freq) + " s"})
	}
	fmt.Fprintln(w, viz.KeyValues(pairs...))
	return nil
}

func newDiffCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "diff [reference_run] [other_run]",
		Short: "deviation of one stored run from another",
		Long: "Sample the other run at each time of the reference run by linear interpolation\n" +
			"and report the largest and RMS distance between the states.",
		Args: cobra.ExactArgs(2),
		RunE: diffRuns,
	}
}

func diffRuns(cmd *cobra.Command, args []string) error {
	refMeta, ref, err := loadRun(args[0])
	if err != nil {
		return err
	}
	otherMeta, other, err := loadRun(args[1])
	if err != nil {
		return err
	}
	rep, err := analysis.Deviation(ref, other)
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.KeyValues(
		[2]string{"reference", refMeta.ID + " (" + refMeta.Method + ")"},
		[2]string{"other", otherMeta.ID + " (" + otherMeta.Method + ")"},
		[2]string{"compared samples", fmt.Sprint(rep.Count)},
		[2]string{"max deviation", viz.FormatFloat(rep.Max)},
		[2]string{"at t", viz.FormatFloat(rep.AtT)},
		[2]string{"rms deviation", viz.FormatFloat(rep.RMS)},
	))
	return nil
}

func newExportJSONCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-json [run_id]",
		Short: "export run data to JSON",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			meta, traj, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.ExportJSON(cmd.OutOrStdout(), *meta, traj)
		},
	}
}

func newExportCSVCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "export-csv [run_id]",
		Short: "export run data to CSV",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, traj, err := loadRun(args[0])
			if err != nil {
				return err
			}
			return storage.WriteCSV(cmd.OutOrStdout(), traj)
		},
	}
}

func newPresetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "presets [model]",
		Short: "list available presets",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			names := config.PresetModels()
			if len(args) == 1 {
				names = args
			}
			rows := [][]string{}
			for _, model := range names {
				for _, p := range config.ListPresets(model) {
					cfg := config.GetPreset(model, p)
					solver := cfg.Method + " dt=" + viz.FormatFloat(cfg.Dt)
					if cfg.Adaptive {
						solver = "adaptive tol=" + viz.FormatFloat(cfg.ErrTarget)
					}
					initial := viz.FormatState(cfg.InitState)
					if len(cfg.Sweep) > 0 {
						initial = fmt.Sprintf("%d initial conditions", len(cfg.Sweep))
					}
					rows = append(rows, []string{model, p, solver, viz.FormatFloat(cfg.Duration), initial})
				}
			}
			if len(rows) == 0 {
				fmt.Fprintf(w, "no presets for model: %s\n", strings.Join(names, ", "))
				return nil
			}
			fmt.Fprintln(w, viz.Table([]string{"model", "preset", "solver", "duration", "initial"}, rows))
			return nil
		},
	}
}

func newModelsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "list models and step methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			rows := [][]string{}
			for _, name := range models.Names() {
				m, err := models.New(name)
				if err != nil {
					return err
				}
				ps := m.GetParams()
				parts := make([]string, 0, len(ps))
				for _, k := range sortedKeys(ps) {
					parts = append(parts, k+"="+viz.FormatFloat(ps[k]))
				}
				rows = append(rows, []string{name, fmt.Sprint(m.StateDim()), strings.Join(parts, " "), viz.FormatState(m.DefaultState())})
			}
			fmt.Fprintln(w, viz.Table([]string{"model", "dim", "params", "default state"}, rows))

			rows = rows[:0]
			for _, e := range experiment.Methods() {
				kind := "fixed"
				if e.Adaptive {
					kind = "adaptive (" + e.Label() + ")"
				}
				rows = append(rows, []string{e.Name, fmt.Sprint(e.Order), kind})
			}
			fmt.Fprintln(w, viz.Table([]string{"method", "order", "driver"}, rows))
			return nil
		},
	}
}
