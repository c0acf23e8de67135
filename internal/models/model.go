package models

import (
	"fmt"
	"math"
	"sort"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Model is a configurable system with a canonical starting point.
type Model interface {
	dynamo.System
	dynamo.Configurable
	DefaultState() dynamo.State
}

var constructors = map[string]func() Model{
	"logistic":   func() Model { return NewLogistic() },
	"pendulum":   func() Model { return NewPendulum() },
	"harmonic":   func() Model { return NewHarmonic() },
	"lorenz":     func() Model { return NewLorenz() },
	"vanderpol":  func() Model { return NewVanDerPol() },
	"projectile": func() Model { return NewProjectile() },
}

// New returns a fresh model with default parameters.
func New(name string) (Model, error) {
	fn, ok := constructors[name]
	if !ok {
		return nil, fmt.Errorf("unknown model: %s", name)
	}
	return fn(), nil
}

// Names lists the known models in alphabetical order.
func Names() []string {
	names := make([]string, 0, len(constructors))
	for name := range constructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply sets every parameter in params on m.
func Apply(m dynamo.Configurable, params map[string]float64) error {
	keys := make([]string, 0, len(params))
	for k := range params {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if err := m.SetParam(k, params[k]); err != nil {
			return err
		}
	}
	return nil
}

// paramTable binds the parameter names of a model to its fields.
type paramTable struct {
	model  string
	fields map[string]*float64
}

func (pt paramTable) values() map[string]float64 {
	out := make(map[string]float64, len(pt.fields))
	for name, f := range pt.fields {
		out[name] = *f
	}
	return out
}

func (pt paramTable) set(name string, value float64) error {
	f, ok := pt.fields[name]
	if !ok {
		return fmt.Errorf("%w: %s has no parameter %q", dynamo.ErrInvalidParameter, pt.model, name)
	}
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%w: %s.%s = %v", dynamo.ErrInvalidParameter, pt.model, name, value)
	}
	*f = value
	return nil
}
