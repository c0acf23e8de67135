package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/logging"
	"github.com/san-kum/ivplab/internal/observability"
	"github.com/san-kum/ivplab/internal/viz"
)

var (
	dataDir     string
	logLevel    string
	logFormat   string
	themeName   string
	showMetrics bool

	logger    logging.Logger = logging.Noop()
	collector *observability.SolverCollector
)

// main registers the commands and runs the root command, cancelling
// in-flight solves on interrupt. It exits with status 1 on error.
func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "ivplab",
		Short:         "initial value problem solver lab",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			logger = logging.NewFromEnv(logging.Config{Level: logLevel, Format: logFormat})
			viz.SetTheme(themeName)
			c, err := observability.NewSolverCollector(prometheus.NewRegistry())
			if err != nil {
				return err
			}
			collector = c
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if !showMetrics || collector == nil {
				return nil
			}
			fmt.Fprintln(cmd.OutOrStdout())
			fmt.Fprintln(cmd.OutOrStdout(), viz.Heading("solver metrics"))
			return collector.WriteSummary(cmd.OutOrStdout())
		},
	}

	pf := rootCmd.PersistentFlags()
	pf.StringVar(&dataDir, "data", config.DefaultStoreDir, "run store directory")
	pf.StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.StringVar(&logFormat, "log-format", "text", "log format (text, json)")
	pf.StringVar(&themeName, "theme", viz.ThemeCyberpunk.Name, fmt.Sprintf("color theme %v", viz.ThemeNames()))
	pf.BoolVar(&showMetrics, "metrics", false, "print solver metrics after the command")

	rootCmd.AddCommand(
		newRunCmd(),
		newCompareCmd(),
		newSweepCmd(),
		newParamSweepCmd(),
		newMonteCarloCmd(),
		newScenarioCmd(),
		newLyapunovCmd(),
		newListCmd(),
		newPlotCmd(),
		newPhaseCmd(),
		newPoincareCmd(),
		newAnalyzeCmd(),
		newDiffCmd(),
		newExportJSONCmd(),
		newExportCSVCmd(),
		newPresetsCmd(),
		newModelsCmd(),
		newIntegrateCmd(),
		newInterpCmd(),
		newOptimizeCmd(),
	)
	return rootCmd
}
