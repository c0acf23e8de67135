package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/analysis"
	"github.com/san-kum/ivplab/internal/automation"
	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/experiment"
	"github.com/san-kum/ivplab/internal/viz"
)

var (
	paramName    string
	paramFrom    float64
	paramTo      float64
	paramCount   int
	perturbation float64
	separation   float64
	trials       int
	seed         int64
	bound        float64
	workers      int
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [model] [method1] [method2] ...",
		Short: "compare step methods on the same model",
		Long: "Solve the same problem once per method. Deviation is measured against the first\n" +
			"method, sampling it at the times of each other trajectory.",
		Args: cobra.MinimumNArgs(2),
		RunE: compareMethods,
	}
	addSolveFlags(cmd)
	return cmd
}

func compareMethods(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, args[0])
	if err != nil {
		return err
	}
	cmps, err := experiment.Compare(cmd.Context(), cfg, args[1:], experimentOptions()...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("comparing methods for %s (duration=%s)", cfg.Model, viz.FormatFloat(cfg.Duration))))
	rows := make([][]string, 0, len(cmps))
	for _, c := range cmps {
		if c.Err != nil {
			rows = append(rows, []string{c.Method, "-", "-", "-", "-", "-", viz.Status(c.Err)})
			continue
		}
		traj := c.Result.Trajectory
		drift := "-"
		if v, ok := c.Result.Metrics["energy_drift"]; ok {
			drift = viz.FormatFloat(v)
		}
		dev := "ref"
		if c.Deviation != nil {
			dev = viz.FormatFloat(c.Deviation.Max)
		}
		rows = append(rows, []string{
			c.Method,
			fmt.Sprint(traj.Len() - 1),
			viz.FormatState(traj.Final()),
			drift,
			dev,
			c.Result.Elapsed.String(),
			viz.Status(nil),
		})
	}
	fmt.Fprintln(w, viz.Table([]string{"method", "steps", "final", "energy drift", "max deviation", "time", "status"}, rows))
	return nil
}

func newParamSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "param-sweep [model]",
		Short: "solve a model for evenly spaced values of one parameter",
		Args:  cobra.MaximumNArgs(1),
		RunE:  paramSweep,
	}
	addSolveFlags(cmd)
	cmd.Flags().StringVar(&paramName, "name", "", "parameter to vary")
	cmd.Flags().Float64Var(&paramFrom, "from", 0, "first value")
	cmd.Flags().Float64Var(&paramTo, "to", 1, "last value")
	cmd.Flags().IntVar(&paramCount, "count", 5, "number of values")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func paramSweep(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	results, err := automation.RunSweep(cmd.Context(), &automation.ParameterSweep{
		Base:  cfg,
		Param: paramName,
		Min:   paramFrom,
		Max:   paramTo,
		Count: paramCount,
	}, experimentOptions()...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("%s: sweeping %s", cfg.Model, paramName)))
	names := []string{}
	if len(results) > 0 {
		names = sortedKeys(results[0].Metrics)
	}
	headers := append([]string{paramName, "steps", "final"}, names...)
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		row := []string{viz.FormatFloat(r.ParamValue), fmt.Sprint(r.Steps), viz.FormatState(r.FinalState)}
		for _, n := range names {
			row = append(row, viz.FormatFloat(r.Metrics[n]))
		}
		rows = append(rows, row)
	}
	fmt.Fprintln(w, viz.Table(headers, rows))
	return nil
}

func newMonteCarloCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "montecarlo [model]",
		Short: "solve from randomly perturbed initial conditions",
		Args:  cobra.MaximumNArgs(1),
		RunE:  monteCarlo,
	}
	addSolveFlags(cmd)
	cmd.Flags().Float64Var(&perturbation, "perturb", 0.01, "uniform perturbation half-width per component")
	cmd.Flags().IntVar(&trials, "trials", 20, "number of trials")
	cmd.Flags().Int64Var(&seed, "seed", 0, "random seed (0 picks one)")
	cmd.Flags().Float64Var(&bound, "bound", experiment.DefaultBound, "largest final component still counted as stable")
	cmd.Flags().IntVar(&workers, "workers", 0, "trials solved concurrently (0 uses every CPU)")
	return cmd
}

func monteCarlo(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	results, err := automation.RunMonteCarlo(cmd.Context(), &automation.MonteCarloConfig{
		Base:         cfg,
		Perturbation: perturbation,
		NumTrials:    trials,
		Seed:         seed,
		Bound:        bound,
		Workers:      workers,
	}, experimentOptions()...)
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("%s: %d perturbed trials", cfg.Model, len(results))))
	rows := make([][]string, 0, len(results))
	for _, r := range results {
		final := "-"
		if r.FinalState != nil {
			final = viz.FormatState(r.FinalState)
		}
		status := viz.Status(r.Err)
		if r.Err == nil && !r.Stable {
			status = viz.CurrentTheme.Styles().Warn.Render("unbounded")
		}
		rows = append(rows, []string{fmt.Sprint(r.TrialID), viz.FormatState(r.InitState), final, status})
	}
	fmt.Fprintln(w, viz.Table([]string{"trial", "initial", "final", "status"}, rows))
	stable, unstable := automation.MonteCarloStats(results)
	fmt.Fprintln(w, viz.KeyValues(
		[2]string{"stable", fmt.Sprint(stable)},
		[2]string{"unstable", fmt.Sprint(unstable)},
	))
	return nil
}

func newScenarioCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scenario [file]",
		Short: "run the steps of a scenario file and store every run",
		Args:  cobra.ExactArgs(1),
		RunE:  runScenario,
	}
	cmd.Flags().BoolVar(&noSave, "no-save", false, "do not store the runs")
	return cmd
}

func runScenario(cmd *cobra.Command, args []string) error {
	sc, err := automation.LoadScenario(args[0])
	if err != nil {
		return err
	}
	steps, err := automation.RunScenario(cmd.Context(), sc, logger, experiment.WithCollector(collector))
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading("scenario "+sc.Name))
	if sc.Description != "" {
		fmt.Fprintln(w, viz.CurrentTheme.Styles().Subtle.Render(sc.Description))
	}
	group := uuid.NewString()
	rows := make([][]string, 0, len(steps))
	for _, step := range steps {
		for _, r := range step.Results {
			id := "-"
			if !noSave {
				st, err := openStore(dataStoreFor(cmd, step.Config.StoreDir))
				if err != nil {
					return err
				}
				if id, err = st.Save(runMetadata(step.Config, r, group), r.Trajectory); err != nil {
					return err
				}
			}
			rows = append(rows, []string{
				step.Name, step.Config.Model, r.Trajectory.Method,
				fmt.Sprint(r.Trajectory.Len()), viz.FormatState(r.Trajectory.Final()), id,
			})
		}
	}
	fmt.Fprintln(w, viz.Table([]string{"step", "model", "method", "samples", "final", "run id"}, rows))
	return nil
}

// dataStoreFor prefers an explicit --data over the directory a
// configuration names.
func dataStoreFor(cmd *cobra.Command, dir string) string {
	if cmd.Flags().Changed("data") || dir == "" {
		return dataDir
	}
	return dir
}

func newLyapunovCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "lyapunov [model]",
		Short: "estimate the largest Lyapunov exponent",
		Args:  cobra.MaximumNArgs(1),
		RunE:  lyapunov,
	}
	addSolveFlags(cmd)
	cmd.Flags().Float64Var(&separation, "separation", 1e-8, "initial separation of the shadow trajectory")
	return cmd
}

func lyapunov(cmd *cobra.Command, args []string) error {
	cfg, err := resolveConfig(cmd, firstArg(args))
	if err != nil {
		return err
	}
	if cfg.Adaptive {
		return fmt.Errorf("lyapunov needs a fixed-step method")
	}
	model, err := cfg.Build()
	if err != nil {
		return err
	}
	m, err := cfg.MethodTag()
	if err != nil {
		return err
	}
	x0 := cfg.InitialStates(model)[0]
	if x0.Dim() != model.StateDim() {
		return fmt.Errorf("%w: %s needs %d components", dynamo.ErrDimensionMismatch, cfg.Model, model.StateDim())
	}
	lambda, err := analysis.LyapunovExponent(cmd.Context(), dynamo.AsRHS(model), x0, cfg.Dt, cfg.Duration, separation, m)
	if err != nil {
		return err
	}

	verdict := "regular"
	if lambda > 0.01 {
		verdict = "chaotic"
	}
	fmt.Fprintln(cmd.OutOrStdout(), viz.Heading(fmt.Sprintf("lyapunov exponent of %s", cfg.Model)))
	fmt.Fprintln(cmd.OutOrStdout(), viz.KeyValues(
		[2]string{"initial", viz.FormatState(x0)},
		[2]string{"method", m.String()},
		[2]string{"lambda", viz.FormatFloat(lambda)},
		[2]string{"verdict", verdict},
	))
	return nil
}
