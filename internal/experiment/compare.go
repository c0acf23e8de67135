package experiment

import (
	"context"

	"github.com/san-kum/ivplab/internal/analysis"
	"github.com/san-kum/ivplab/internal/config"
)

// Comparison is the outcome of one method in Compare. Deviation is measured
// against the first method that succeeded and is nil for that method.
type Comparison struct {
	Method    string
	Result    Result
	Deviation *analysis.DeviationReport
	Err       error
}

// Compare solves the first initial condition of cfg once per method name.
// A method that fails is reported in its Comparison and does not stop the
// others; only an invalid configuration or a cancelled context is returned
// as an error.
func Compare(ctx context.Context, cfg *config.Config, methods []string, opts ...Option) ([]Comparison, error) {
	out := make([]Comparison, 0, len(methods))
	var ref *Result
	for _, name := range methods {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		entry, err := Lookup(name)
		if err != nil {
			out = append(out, Comparison{Method: name, Err: err})
			continue
		}

		c := cfg.Clone()
		c.Sweep = nil
		c.Adaptive = entry.Adaptive
		if !entry.Adaptive {
			c.Method = entry.Name
		}
		exp, err := New(c, opts...)
		if err != nil {
			return out, err
		}
		results, err := exp.Run(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return out, ctx.Err()
			}
			out = append(out, Comparison{Method: exp.Method(), Err: err})
			continue
		}

		cmp := Comparison{Method: exp.Method(), Result: results[0]}
		if ref == nil {
			ref = &cmp.Result
		} else {
			dev, err := analysis.Deviation(ref.Trajectory, cmp.Result.Trajectory)
			if err == nil {
				cmp.Deviation = &dev
			}
		}
		out = append(out, cmp)
	}
	return out, nil
}
