package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/integrators"
	"github.com/san-kum/ivplab/internal/logging"
	"github.com/san-kum/ivplab/internal/models"
	"github.com/san-kum/ivplab/internal/sim"
)

const (
	DefaultDt        = 0.01
	DefaultDuration  = 10.0
	DefaultErrTarget = 1e-6
	DefaultStoreDir  = ".ivplab/runs"
)

type Config struct {
	Model     string             `yaml:"model"`
	Method    string             `yaml:"method"`
	Dt        float64            `yaml:"dt"`
	Duration  float64            `yaml:"duration"`
	Adaptive  bool               `yaml:"adaptive"`
	ErrTarget float64            `yaml:"err_target"`
	InitState []float64          `yaml:"init_state,flow"`
	Sweep     [][]float64        `yaml:"sweep,omitempty"`
	Params    map[string]float64 `yaml:"params,omitempty"`
	Policy    PolicyConfig       `yaml:"policy"`
	Log       logging.Config     `yaml:"log"`
	StoreDir  string             `yaml:"store_dir"`
}

// PolicyConfig mirrors sim.AdaptiveOptions. Zero values take the solver
// defaults.
type PolicyConfig struct {
	InitialDt float64 `yaml:"initial_dt,omitempty"`
	MinScale  float64 `yaml:"min_scale,omitempty"`
	MaxScale  float64 `yaml:"max_scale,omitempty"`
	MaxSteps  int     `yaml:"max_steps,omitempty"`
	MinDt     float64 `yaml:"min_dt,omitempty"`
	ZeroError string  `yaml:"zero_error,omitempty"` // grow or fail
}

func DefaultConfig() *Config {
	return &Config{
		Model:     "pendulum",
		Method:    integrators.ClassicRK4.String(),
		Dt:        DefaultDt,
		Duration:  DefaultDuration,
		ErrTarget: DefaultErrTarget,
		Log:       logging.Config{Level: "info", Format: "text"},
		StoreDir:  DefaultStoreDir,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate checks every field a solve depends on and joins all problems.
func (c *Config) Validate() error {
	var errs []error
	if _, err := models.New(c.Model); err != nil {
		errs = append(errs, err)
	}
	if !c.Adaptive {
		if _, err := integrators.ParseMethod(c.Method); err != nil {
			errs = append(errs, err)
		}
		if c.Dt <= 0 {
			errs = append(errs, fmt.Errorf("%w: dt must be positive, got %g", dynamo.ErrInvalidParameter, c.Dt))
		}
	} else if c.ErrTarget <= 0 {
		errs = append(errs, fmt.Errorf("%w: err_target must be positive, got %g", dynamo.ErrInvalidParameter, c.ErrTarget))
	}
	if c.Duration <= 0 {
		errs = append(errs, fmt.Errorf("%w: duration must be positive, got %g", dynamo.ErrInvalidParameter, c.Duration))
	}
	if _, err := sim.ParseZeroErrorPolicy(c.Policy.ZeroError); err != nil {
		errs = append(errs, err)
	}
	if err := c.AdaptiveOptions().Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// MethodTag returns the parsed step method.
func (c *Config) MethodTag() (integrators.Method, error) {
	return integrators.ParseMethod(c.Method)
}

// AdaptiveOptions converts the policy section, falling back to solver
// defaults for unset fields.
func (c *Config) AdaptiveOptions() sim.AdaptiveOptions {
	d := sim.DefaultAdaptiveOptions()
	p := c.Policy
	if p.InitialDt > 0 {
		d.InitialDt = p.InitialDt
	}
	if p.MinScale > 0 {
		d.MinScale = p.MinScale
	}
	if p.MaxScale > 0 {
		d.MaxScale = p.MaxScale
	}
	if p.MaxSteps > 0 {
		d.MaxSteps = p.MaxSteps
	}
	if p.MinDt > 0 {
		d.MinDt = p.MinDt
	}
	if z, err := sim.ParseZeroErrorPolicy(p.ZeroError); err == nil {
		d.ZeroError = z
	}
	return d
}

// Build returns the configured model with its parameters applied.
func (c *Config) Build() (models.Model, error) {
	m, err := models.New(c.Model)
	if err != nil {
		return nil, err
	}
	if err := models.Apply(m, c.Params); err != nil {
		return nil, err
	}
	return m, nil
}

// InitialStates returns the sweep initial conditions, or the single
// initial state, or the model's default state, in that order of preference.
func (c *Config) InitialStates(m models.Model) []dynamo.State {
	if len(c.Sweep) > 0 {
		out := make([]dynamo.State, len(c.Sweep))
		for i, s := range c.Sweep {
			out[i] = dynamo.State(s).Clone()
		}
		return out
	}
	if len(c.InitState) > 0 {
		return []dynamo.State{dynamo.State(c.InitState).Clone()}
	}
	return []dynamo.State{m.DefaultState()}
}

// Clone returns a deep copy.
func (c *Config) Clone() *Config {
	out := *c
	out.InitState = append([]float64(nil), c.InitState...)
	if c.Sweep != nil {
		out.Sweep = make([][]float64, len(c.Sweep))
		for i, s := range c.Sweep {
			out.Sweep[i] = append([]float64(nil), s...)
		}
	}
	if c.Params != nil {
		out.Params = make(map[string]float64, len(c.Params))
		for k, v := range c.Params {
			out.Params[k] = v
		}
	}
	return &out
}
