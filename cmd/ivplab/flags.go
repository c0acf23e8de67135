package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/config"
	"github.com/san-kum/ivplab/internal/experiment"
	"github.com/san-kum/ivplab/internal/logging"
	"github.com/san-kum/ivplab/internal/storage"
)

var (
	configFile string
	preset     string
	dt         float64
	duration   float64
	method     string
	adaptive   bool
	errTarget  float64
	initState  []float64
	params     []string
	minScale   float64
	maxScale   float64
	maxSteps   int
	minDt      float64
	zeroError  string
	noSave     bool
)

// addSolveFlags registers the flags shared by every command that solves.
func addSolveFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringVar(&configFile, "config", "", "config file path (yaml)")
	f.StringVar(&preset, "preset", "", "use preset configuration")
	f.Float64Var(&dt, "dt", config.DefaultDt, "fixed step size")
	f.Float64Var(&duration, "time", config.DefaultDuration, "final time")
	f.StringVar(&method, "method", "classic_rk4", "step method, or \"adaptive\"")
	f.BoolVar(&adaptive, "adaptive", false, "use the adaptive driver")
	f.Float64Var(&errTarget, "err-target", config.DefaultErrTarget, "adaptive local error target")
	f.Float64SliceVar(&initState, "init", nil, "initial state, comma separated")
	f.StringArrayVar(&params, "param", nil, "model parameter name=value (repeatable)")
	f.Float64Var(&minScale, "min-scale", 0, "adaptive lower clamp of the step rescale factor")
	f.Float64Var(&maxScale, "max-scale", 0, "adaptive upper clamp of the step rescale factor")
	f.IntVar(&maxSteps, "max-steps", 0, "adaptive step budget")
	f.Float64Var(&minDt, "min-dt", 0, "smallest adaptive step before giving up")
	f.StringVar(&zeroError, "zero-error", "", "policy for a zero error estimate (grow, fail)")
}

// resolveConfig layers defaults, preset, config file and explicitly set
// flags, in increasing precedence. model may be empty when the config file
// names it.
func resolveConfig(cmd *cobra.Command, model string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	cfg.Model = ""

	if preset != "" {
		if model == "" {
			return nil, fmt.Errorf("--preset needs a model argument")
		}
		p := config.GetPreset(model, preset)
		if p == nil {
			return nil, fmt.Errorf("unknown preset: %s (available: %v)", preset, config.ListPresets(model))
		}
		cfg = p
	}

	if configFile != "" {
		loaded, err := config.Load(configFile)
		if err != nil {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
		cfg = loaded
		if !cmd.Flags().Changed("log-level") && !cmd.Flags().Changed("log-format") {
			logger = logging.NewFromEnv(cfg.Log)
		}
	}

	if model != "" {
		cfg.Model = model
	}
	if cfg.Model == "" {
		cfg.Model = config.DefaultConfig().Model
	}

	fs := cmd.Flags()
	if fs.Changed("dt") {
		cfg.Dt = dt
	}
	if fs.Changed("time") {
		cfg.Duration = duration
	}
	if fs.Changed("method") {
		entry, err := experiment.Lookup(method)
		if err != nil {
			return nil, err
		}
		cfg.Adaptive = entry.Adaptive
		if !entry.Adaptive {
			cfg.Method = entry.Name
		}
	}
	if fs.Changed("adaptive") {
		cfg.Adaptive = adaptive
	}
	if fs.Changed("err-target") {
		cfg.ErrTarget = errTarget
	}
	if fs.Changed("init") {
		cfg.InitState = append([]float64(nil), initState...)
		cfg.Sweep = nil
	}
	if len(params) > 0 {
		if cfg.Params == nil {
			cfg.Params = make(map[string]float64)
		}
		for _, p := range params {
			name, value, err := parseParam(p)
			if err != nil {
				return nil, err
			}
			cfg.Params[name] = value
		}
	}
	if fs.Changed("min-scale") {
		cfg.Policy.MinScale = minScale
	}
	if fs.Changed("max-scale") {
		cfg.Policy.MaxScale = maxScale
	}
	if fs.Changed("max-steps") {
		cfg.Policy.MaxSteps = maxSteps
	}
	if fs.Changed("min-dt") {
		cfg.Policy.MinDt = minDt
	}
	if fs.Changed("zero-error") {
		cfg.Policy.ZeroError = zeroError
	}
	if cmd.Flags().Changed("data") || cfg.StoreDir == "" {
		cfg.StoreDir = dataDir
	}
	return cfg, nil
}

func parseParam(s string) (string, float64, error) {
	name, raw, ok := strings.Cut(s, "=")
	if !ok || name == "" {
		return "", 0, fmt.Errorf("parameter %q: want name=value", s)
	}
	v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
	if err != nil {
		return "", 0, fmt.Errorf("parameter %q: %w", s, err)
	}
	return strings.TrimSpace(name), v, nil
}

// parseVector reads a comma separated list of floats.
func parseVector(s string) ([]float64, error) {
	fields := strings.Split(s, ",")
	out := make([]float64, 0, len(fields))
	for _, f := range fields {
		v, err := strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, fmt.Errorf("vector %q: %w", s, err)
		}
		out = append(out, v)
	}
	return out, nil
}

func experimentOptions() []experiment.Option {
	return []experiment.Option{
		experiment.WithLogger(logger),
		experiment.WithCollector(collector),
	}
}

// openStore returns the run store at dir, creating it when missing.
func openStore(dir string) (*storage.Store, error) {
	st := storage.New(dir)
	return st, st.Init()
}

func firstArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}
