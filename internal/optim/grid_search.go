package optim

import (
	"context"
	"fmt"
	"maps"
	"math"
)

// Objective scores one point of a parameter grid; lower is better.
type Objective func(ctx context.Context, params map[string]float64) (float64, error)

type GridSearch struct {
	paramNames []string
	ranges     [][]float64
}

func NewGridSearch(params []string, ranges [][]float64) *GridSearch {
	return &GridSearch{paramNames: params, ranges: ranges}
}

// Search evaluates the objective on every grid point and returns the best
// parameters. Points whose evaluation fails are skipped; it is an error if
// every point fails.
func (g *GridSearch) Search(ctx context.Context, objective Objective) (map[string]float64, float64, error) {
	if len(g.paramNames) != len(g.ranges) {
		return nil, 0, fmt.Errorf("%w: %d names for %d ranges", ErrBadOptions, len(g.paramNames), len(g.ranges))
	}
	for i, r := range g.ranges {
		if len(r) == 0 {
			return nil, 0, fmt.Errorf("%w: empty range for %q", ErrBadOptions, g.paramNames[i])
		}
	}

	best := math.Inf(1)
	var bestParams map[string]float64

	// idx walks the grid like an odometer, last parameter fastest.
	idx := make([]int, len(g.ranges))
	point := make(map[string]float64, len(idx))
	for {
		if err := ctx.Err(); err != nil {
			return nil, 0, err
		}
		for d, name := range g.paramNames {
			point[name] = g.ranges[d][idx[d]]
		}
		if val, err := objective(ctx, maps.Clone(point)); err == nil && val < best {
			best, bestParams = val, maps.Clone(point)
		}
		if !advance(idx, g.ranges) {
			break
		}
	}
	if bestParams == nil {
		return nil, 0, fmt.Errorf("optim: no grid point could be evaluated")
	}
	return bestParams, best, nil
}

// advance steps idx to the next grid point and reports false after the last.
func advance(idx []int, ranges [][]float64) bool {
	for d := len(idx) - 1; d >= 0; d-- {
		idx[d]++
		if idx[d] < len(ranges[d]) {
			return true
		}
		idx[d] = 0
	}
	return false
}

// VectorObjective adapts f to a grid whose parameters are named in order.
func VectorObjective(f Func, names []string) Objective {
	return func(_ context.Context, params map[string]float64) (float64, error) {
		x := make([]float64, len(names))
		for i, n := range names {
			v, ok := params[n]
			if !ok {
				return 0, fmt.Errorf("optim: missing parameter %q", n)
			}
			x[i] = v
		}
		return f(x), nil
	}
}
