package main

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/san-kum/ivplab/internal/optim"
	"github.com/san-kum/ivplab/internal/polyinterp"
	"github.com/san-kum/ivplab/internal/quad"
	"github.com/san-kum/ivplab/internal/viz"
)

// integrand is a test function with its antiderivative.
type integrand struct {
	f, F func(float64) float64
}

var integrands = map[string]integrand{
	"sin":   {f: math.Sin, F: func(x float64) float64 { return -math.Cos(x) }},
	"exp":   {f: math.Exp, F: math.Exp},
	"cubic": {f: func(x float64) float64 { return x * x * x }, F: func(x float64) float64 { return x * x * x * x / 4 }},
	"runge": {f: runge, F: func(x float64) float64 { return math.Atan(5*x) / 5 }},
	"sqrt":  {f: math.Sqrt, F: func(x float64) float64 { return 2 * math.Pow(x, 1.5) / 3 }},
}

func runge(x float64) float64 { return 1 / (1 + 25*x*x) }

type objective struct {
	f       optim.Func
	minimum []float64
}

var objectives = map[string]objective{
	"quadratic": {
		f:       func(x []float64) float64 { return (x[0]-1)*(x[0]-1) + 10*(x[1]+2)*(x[1]+2) },
		minimum: []float64{1, -2},
	},
	"rosenbrock": {
		f: func(x []float64) float64 {
			a, b := 1-x[0], x[1]-x[0]*x[0]
			return a*a + 100*b*b
		},
		minimum: []float64{1, 1},
	},
	"himmelblau": {
		f: func(x []float64) float64 {
			a, b := x[0]*x[0]+x[1]-11, x[0]+x[1]*x[1]-7
			return a*a + b*b
		},
		minimum: []float64{3, 2},
	},
}

func names[V any](m map[string]V) string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return strings.Join(out, ", ")
}

var (
	integrandName string
	intA, intB    float64
	intPoints     int
	ruleName      string

	interpName  string
	interpA     float64
	interpB     float64
	interpNodes int
	nodesName   string

	objectiveName string
	x0            []float64
	descent       optim.Options
	gridPoints    int
)

func newIntegrateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "integrate",
		Short: "integrate a named function on a uniform grid",
		Args:  cobra.NoArgs,
		RunE:  integrate,
	}
	cmd.Flags().StringVar(&integrandName, "func", "sin", "function ("+names(integrands)+")")
	cmd.Flags().Float64Var(&intA, "a", 0, "lower limit")
	cmd.Flags().Float64Var(&intB, "b", math.Pi, "upper limit")
	cmd.Flags().IntVar(&intPoints, "n", 101, "grid points")
	cmd.Flags().StringVar(&ruleName, "rule", "", "quadrature rule (left, right, trapezoid, simpson); all when empty")
	return cmd
}

func integrate(cmd *cobra.Command, args []string) error {
	fn, ok := integrands[integrandName]
	if !ok {
		return fmt.Errorf("unknown function %q (want one of %s)", integrandName, names(integrands))
	}
	rules := quad.Rules()
	if ruleName != "" {
		r, err := quad.ParseRule(ruleName)
		if err != nil {
			return err
		}
		rules = []quad.Rule{r}
	}
	exact := fn.F(intB) - fn.F(intA)

	rows := make([][]string, 0, len(rules))
	for _, r := range rules {
		v, err := quad.IntegrateFunc(fn.f, intA, intB, intPoints, r)
		if err != nil {
			rows = append(rows, []string{r.String(), "-", "-", viz.Status(err)})
			continue
		}
		rows = append(rows, []string{r.String(), viz.FormatFloat(v), viz.FormatFloat(math.Abs(v - exact)), viz.Status(nil)})
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("integral of %s over [%s, %s] with %d points",
		integrandName, viz.FormatFloat(intA), viz.FormatFloat(intB), intPoints)))
	fmt.Fprintln(w, viz.Table([]string{"rule", "value", "abs error", "status"}, rows))
	fmt.Fprintln(w, viz.KeyValues([2]string{"exact", viz.FormatFloat(exact)}))
	return nil
}

func newInterpCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "interp",
		Short: "Lagrange interpolation of a named function",
		Args:  cobra.NoArgs,
		RunE:  interpolate,
	}
	cmd.Flags().StringVar(&interpName, "func", "runge", "function ("+names(integrands)+")")
	cmd.Flags().Float64Var(&interpA, "a", -1, "interval start")
	cmd.Flags().Float64Var(&interpB, "b", 1, "interval end")
	cmd.Flags().IntVar(&interpNodes, "n", 11, "number of nodes")
	cmd.Flags().StringVar(&nodesName, "nodes", "", "node placement (equidistant, chebyshev); both when empty")
	return cmd
}

func interpolate(cmd *cobra.Command, args []string) error {
	fn, ok := integrands[interpName]
	if !ok {
		return fmt.Errorf("unknown function %q (want one of %s)", interpName, names(integrands))
	}
	kinds := []polyinterp.Nodes{polyinterp.Equidistant, polyinterp.Chebyshev}
	if nodesName != "" {
		k, err := polyinterp.ParseNodes(nodesName)
		if err != nil {
			return err
		}
		kinds = []polyinterp.Nodes{k}
	}

	w := cmd.OutOrStdout()
	fmt.Fprintln(w, viz.Heading(fmt.Sprintf("interpolating %s on [%s, %s] with %d nodes",
		interpName, viz.FormatFloat(interpA), viz.FormatFloat(interpB), interpNodes)))
	rows := make([][]string, 0, len(kinds))
	var curves [][]float64
	for _, k := range kinds {
		p, err := polyinterp.InterpolateFunc(fn.f, interpA, interpB, interpNodes, k)
		if err != nil {
			return err
		}
		rows = append(rows, []string{k.String(), fmt.Sprint(p.Degree()), viz.FormatFloat(polyinterp.MaxError(fn.f, p, interpA, interpB, 1000))})
		curves = append(curves, p.EvalAll(quad.Linspace(interpA, interpB, 80)))
	}
	fmt.Fprintln(w, viz.Table([]string{"nodes", "degree", "max error"}, rows))
	for i, c := range curves {
		fmt.Fprintln(w, viz.PlotSeries(c, kinds[i].String()+" interpolant", viz.DefaultPlotOptions()))
	}
	return nil
}

func newOptimizeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "optimize",
		Short: "minimise a named test function by gradient descent",
		Args:  cobra.NoArgs,
		RunE:  optimize,
	}
	d := optim.DefaultOptions()
	cmd.Flags().StringVar(&objectiveName, "func", "quadratic", "objective ("+names(objectives)+")")
	cmd.Flags().Float64SliceVar(&x0, "x0", []float64{-1, 1}, "starting point")
	cmd.Flags().Float64Var(&descent.Step, "step", d.Step, "initial line search step")
	cmd.Flags().Float64Var(&descent.Tol, "tol", d.Tol, "gradient norm tolerance")
	cmd.Flags().IntVar(&descent.MaxIter, "max-iter", d.MaxIter, "iteration limit")
	cmd.Flags().Float64Var(&descent.Shrink, "shrink", d.Shrink, "backtracking factor")
	cmd.Flags().Float64Var(&descent.Armijo, "armijo", d.Armijo, "sufficient decrease constant")
	cmd.Flags().Float64Var(&descent.H, "h", d.H, "finite difference step")
	cmd.Flags().IntVar(&gridPoints, "grid", 0, "coarse grid points per axis over [-5, 5] to pick the start (0 disables)")
	return cmd
}

func optimize(cmd *cobra.Command, args []string) error {
	obj, ok := objectives[objectiveName]
	if !ok {
		return fmt.Errorf("unknown objective %q (want one of %s)", objectiveName, names(objectives))
	}
	if len(x0) != len(obj.minimum) {
		return fmt.Errorf("--x0 needs %d components", len(obj.minimum))
	}
	start := append([]float64(nil), x0...)

	w := cmd.OutOrStdout()
	if gridPoints > 1 {
		axes := []string{"x0", "x1"}
		grid := quad.Linspace(-5, 5, gridPoints)
		gs := optim.NewGridSearch(axes, [][]float64{grid, grid})
		best, score, err := gs.Search(cmd.Context(), optim.VectorObjective(obj.f, axes))
		if err != nil {
			return err
		}
		start = []float64{best["x0"], best["x1"]}
		fmt.Fprintln(w, viz.KeyValues(
			[2]string{"grid start", viz.FormatState(start)},
			[2]string{"grid value", viz.FormatFloat(score)},
		))
	}

	res, err := optim.GradientDescent(cmd.Context(), obj.f, start, descent)
	if res == nil {
		return err
	}
	fmt.Fprintln(w, viz.Heading("gradient descent on "+objectiveName))
	fmt.Fprintln(w, viz.KeyValues(
		[2]string{"start", viz.FormatState(start)},
		[2]string{"minimiser", viz.FormatState(res.X)},
		[2]string{"value", viz.FormatFloat(res.F)},
		[2]string{"gradient norm", viz.FormatFloat(res.GradNorm)},
		[2]string{"iterations", fmt.Sprint(res.Iterations)},
		[2]string{"known minimum", viz.FormatState(obj.minimum)},
		[2]string{"status", viz.Status(err)},
	))
	return err
}
