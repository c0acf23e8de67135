package config

import (
	"math"
	"sort"

	"github.com/san-kum/ivplab/internal/logging"
)

var Presets = map[string]map[string]*Config{
	"logistic": {
		"half": {
			Model: "logistic", Method: "equal_rk4", Dt: 0.01, Duration: 10.0,
			InitState: []float64{0.5},
		},
		"sweep": {
			Model: "logistic", Method: "equal_rk4", Dt: 0.01, Duration: 10.0,
			Sweep: [][]float64{{0.1}, {0.2}, {0.3}, {0.4}, {0.5}},
		},
		"adaptive": {
			Model: "logistic", Adaptive: true, ErrTarget: 1e-6, Duration: 10.0,
			InitState: []float64{0.5},
		},
	},
	"pendulum": {
		"small": {
			Model: "pendulum", Method: "classic_rk4", Dt: 0.01, Duration: 10.0,
			InitState: []float64{math.Pi / 4, 0},
		},
		"large": {
			Model: "pendulum", Method: "equal_rk4", Dt: 0.01, Duration: 10.0,
			InitState: []float64{3 * math.Pi / 4, 0},
		},
	},
	"harmonic": {
		"unit": {
			Model: "harmonic", Method: "classic_rk4", Dt: 0.01, Duration: 20.0,
			InitState: []float64{1, 0},
		},
	},
	"lorenz": {
		"twin": {
			Model: "lorenz", Method: "equal_rk4", Dt: 0.0001, Duration: 30.0,
			Sweep: [][]float64{{1, 1, 1}, {1.0002, 1.0002, 1.0002}},
		},
		"adaptive": {
			Model: "lorenz", Adaptive: true, ErrTarget: 1e-6, Duration: 30.0,
			InitState: []float64{1, 1, 1},
		},
	},
	"vanderpol": {
		"relaxation": {
			Model: "vanderpol", Method: "equal_rk4", Dt: 0.001, Duration: 200.0,
			InitState: []float64{1.05, 0},
		},
		"adaptive": {
			Model: "vanderpol", Adaptive: true, ErrTarget: 1e-4, Duration: 200.0,
			InitState: []float64{1.05, 0},
		},
		"sweep": {
			Model: "vanderpol", Adaptive: true, ErrTarget: 1e-4, Duration: 200.0,
			Sweep: [][]float64{{1, 0}, {1.5, 0}, {2, 0}},
		},
	},
	"projectile": {
		// 361 samples, an odd count as Simpson accumulation requires
		"drag": {
			Model: "projectile", Method: "equal_rk4", Dt: 0.01, Duration: 3.6,
			InitState: []float64{5, 12},
		},
	},
}

// GetPreset returns a copy of the named preset with unset ambient fields
// filled from DefaultConfig, or nil.
func GetPreset(model, preset string) *Config {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	cfg, ok := modelPresets[preset]
	if !ok {
		return nil
	}
	out := cfg.Clone()
	d := DefaultConfig()
	if out.Method == "" {
		out.Method = d.Method
	}
	if out.Dt == 0 {
		out.Dt = d.Dt
	}
	if out.ErrTarget == 0 {
		out.ErrTarget = d.ErrTarget
	}
	if out.Log == (logging.Config{}) {
		out.Log = d.Log
	}
	if out.StoreDir == "" {
		out.StoreDir = d.StoreDir
	}
	return out
}

func ListPresets(model string) []string {
	modelPresets, ok := Presets[model]
	if !ok {
		return nil
	}
	names := make([]string, 0, len(modelPresets))
	for name := range modelPresets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// PresetModels lists the models that have presets.
func PresetModels() []string {
	names := make([]string, 0, len(Presets))
	for name := range Presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
