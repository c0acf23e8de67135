package optim

import (
	"context"
	"errors"
	"math"
	"testing"
)

func quadratic(x []float64) float64 {
	return (x[0]-1)*(x[0]-1) + 4*(x[1]+2)*(x[1]+2)
}

func rosenbrock(x []float64) float64 {
	a, b := 1-x[0], x[1]-x[0]*x[0]
	return a*a + 100*b*b
}

func TestGradientMatchesAnalytic(t *testing.T) {
	f := func(x []float64) float64 { return math.Sin(x[0]) * x[1] * x[1] }
	x := []float64{0.7, -1.3}
	g := Gradient(f, x, 1e-2)
	want := []float64{math.Cos(0.7) * 1.69, 2 * math.Sin(0.7) * -1.3}
	for i := range g {
		if math.Abs(g[i]-want[i]) > 1e-8 {
			t.Errorf("grad[%d] = %v, want %v", i, g[i], want[i])
		}
	}
	if x[0] != 0.7 || x[1] != -1.3 {
		t.Errorf("input mutated: %v", x)
	}
}

func TestGradientDescentQuadratic(t *testing.T) {
	res, err := GradientDescent(context.Background(), quadratic, []float64{5, 5}, DefaultOptions())
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.X[0]-1) > 1e-5 || math.Abs(res.X[1]+2) > 1e-5 {
		t.Errorf("minimum at %v, want [1 -2]", res.X)
	}
	if res.F > 1e-10 {
		t.Errorf("f(min) = %v", res.F)
	}
}

func TestGradientDescentRosenbrock(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIter = 200_000
	opts.Tol = 1e-5
	res, err := GradientDescent(context.Background(), rosenbrock, []float64{-1.2, 1}, opts)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(res.X[0]-1) > 1e-3 || math.Abs(res.X[1]-1) > 2e-3 {
		t.Errorf("minimum at %v, want [1 1]", res.X)
	}
}

func TestGradientDescentIterationLimit(t *testing.T) {
	opts := DefaultOptions()
	opts.MaxIter = 3
	res, err := GradientDescent(context.Background(), rosenbrock, []float64{-1.2, 1}, opts)
	if !errors.Is(err, ErrMaxIterations) {
		t.Fatalf("expected ErrMaxIterations, got %v", err)
	}
	if res.Iterations != 3 {
		t.Errorf("iterations = %d", res.Iterations)
	}
	if res.F >= rosenbrock([]float64{-1.2, 1}) {
		t.Error("no decrease after three iterations")
	}
}

func TestGradientDescentCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := GradientDescent(ctx, quadratic, []float64{0, 0}, DefaultOptions()); !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestGradientDescentBadOptions(t *testing.T) {
	opts := DefaultOptions()
	opts.Shrink = 1
	if _, err := GradientDescent(context.Background(), quadratic, []float64{0, 0}, opts); !errors.Is(err, ErrBadOptions) {
		t.Errorf("expected ErrBadOptions, got %v", err)
	}
}

func TestGridSearch(t *testing.T) {
	names := []string{"x", "y"}
	g := NewGridSearch(names, [][]float64{{-1, 0, 1, 2}, {-3, -2, -1}})
	best, val, err := g.Search(context.Background(), VectorObjective(quadratic, names))
	if err != nil {
		t.Fatal(err)
	}
	if best["x"] != 1 || best["y"] != -2 || val != 0 {
		t.Errorf("best = %v (%v)", best, val)
	}
}

func TestGridSearchAllFail(t *testing.T) {
	g := NewGridSearch([]string{"x"}, [][]float64{{1, 2}})
	_, _, err := g.Search(context.Background(), func(context.Context, map[string]float64) (float64, error) {
		return 0, errors.New("boom")
	})
	if err == nil {
		t.Error("expected error when every point fails")
	}
}
