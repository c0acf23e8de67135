package integrators

import (
	"errors"
	"math"
	"testing"

	"github.com/san-kum/ivplab/internal/dynamo"
)

func decay(lambda float64) dynamo.RHS {
	return func(t float64, u dynamo.State) dynamo.State {
		return dynamo.State{lambda * u[0]}
	}
}

func oneStepError(t *testing.T, m Method, h float64) float64 {
	t.Helper()
	const lambda = -1.0
	got, err := Step(decay(lambda), 0, dynamo.Scalar(1), h, m)
	if err != nil {
		t.Fatalf("%s: step failed: %v", m, err)
	}
	return math.Abs(got[0] - math.Exp(lambda*h))
}

func TestStepLocalErrorOrder(t *testing.T) {
	for _, m := range Methods() {
		t.Run(m.String(), func(t *testing.T) {
			coarse := oneStepError(t, m, 0.2)
			fine := oneStepError(t, m, 0.1)
			slope := math.Log2(coarse / fine)
			want := float64(m.Order() + 1)
			if math.Abs(slope-want) > 0.25 {
				t.Errorf("local error slope %.3f, want ~%.0f (errors %.3e, %.3e)", slope, want, coarse, fine)
			}
		})
	}
}

func TestStepMatchesTaylorPolynomial(t *testing.T) {
	const h = 0.1
	z := -h
	taylor := []float64{
		1,
		1 + z,
		1 + z + z*z/2,
		1 + z + z*z/2 + z*z*z/6,
		1 + z + z*z/2 + z*z*z/6 + z*z*z*z/24,
	}

	for _, m := range Methods() {
		got, err := Step(decay(-1), 0, dynamo.Scalar(1), h, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		want := taylor[m.Order()]
		if math.Abs(got[0]-want) > 1e-14 {
			t.Errorf("%s: got %.17g, want %.17g", m, got[0], want)
		}
	}
}

func TestStepConstantDerivativeIsExact(t *testing.T) {
	one := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{1} }
	const dt = 0.37

	for _, m := range Methods() {
		got, err := Step(one, 0, dynamo.Scalar(2), dt, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if math.Abs(got[0]-(2+dt)) > 1e-14 {
			t.Errorf("%s: got %.17g, want %.17g", m, got[0], 2+dt)
		}
	}
}

func TestStepStageTimes(t *testing.T) {
	cubic := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{3 * t * t} }
	const h = 0.5

	for _, m := range []Method{ClassicRK4, EqualRK4} {
		got, err := Step(cubic, 0, dynamo.Scalar(0), h, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if math.Abs(got[0]-h*h*h) > 1e-14 {
			t.Errorf("%s: quadrature of 3t^2 gave %.17g, want %.17g", m, got[0], h*h*h)
		}
	}

	linear := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{t} }
	for _, m := range []Method{Midpoint, Trapezoid, Ralston} {
		got, err := Step(linear, 1, dynamo.Scalar(0), h, m)
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		want := ((1+h)*(1+h) - 1) / 2
		if math.Abs(got[0]-want) > 1e-14 {
			t.Errorf("%s: quadrature of t gave %.17g, want %.17g", m, got[0], want)
		}
	}
}

func TestStepDoesNotMutateInput(t *testing.T) {
	u := dynamo.State{1, 2}
	rot := func(t float64, x dynamo.State) dynamo.State { return dynamo.State{x[1], -x[0]} }

	for _, m := range Methods() {
		if _, err := Step(rot, 0, u, 0.1, m); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if u[0] != 1 || u[1] != 2 {
			t.Fatalf("%s mutated input state: %v", m, u)
		}
	}
}

func TestStepInvalidMethod(t *testing.T) {
	_, err := Step(decay(-1), 0, dynamo.Scalar(1), 0.1, Method(42))
	if !errors.Is(err, dynamo.ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod, got %v", err)
	}
}

func TestStepDimensionMismatch(t *testing.T) {
	bad := func(t float64, u dynamo.State) dynamo.State { return dynamo.State{1, 2, 3} }
	_, err := Step(bad, 0, dynamo.State{0, 0}, 0.1, Euler)
	if !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected ErrDimensionMismatch, got %v", err)
	}
}

func TestRK4Accuracy(t *testing.T) {
	rot := func(t float64, x dynamo.State) dynamo.State { return dynamo.State{x[1], -x[0]} }
	s, err := NewStepper(ClassicRK4)
	if err != nil {
		t.Fatal(err)
	}

	x := dynamo.State{1.0, 0.0}
	dt := 0.01
	steps := 100
	for i := 0; i < steps; i++ {
		if x, err = s.Step(rot, float64(i)*dt, x, dt); err != nil {
			t.Fatal(err)
		}
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-8 {
		t.Errorf("position error too large: got %.10f, expected %.10f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-8 {
		t.Errorf("velocity error too large: got %.10f, expected %.10f", x[1], expectedV)
	}
}

func TestEmbeddedPairEstimate(t *testing.T) {
	p := NewEmbeddedPair()
	if p.String() != "midpoint/equal_rk4" {
		t.Errorf("unexpected pair name %q", p.String())
	}
	if p.LowOrder() != 2 {
		t.Errorf("low order = %d, want 2", p.LowOrder())
	}

	const h = 0.1
	high, est, err := p.Estimate(decay(-1), 0, dynamo.Scalar(1), h)
	if err != nil {
		t.Fatal(err)
	}
	z := -h
	want := math.Abs(z*z*z/6 + z*z*z*z/24)
	if math.Abs(est-want) > 1e-14 {
		t.Errorf("error estimate %.17g, want %.17g", est, want)
	}
	if math.Abs(high[0]-(1+z+z*z/2+z*z*z/6+z*z*z*z/24)) > 1e-14 {
		t.Errorf("high order result %.17g", high[0])
	}

	if _, err := NewEmbeddedPairOf(EqualRK4, Midpoint); !errors.Is(err, dynamo.ErrInvalidMethod) {
		t.Errorf("expected ErrInvalidMethod for inverted pair, got %v", err)
	}
}

func TestDefaultPairMatchesExplicitPair(t *testing.T) {
	explicit, err := NewEmbeddedPairOf(Midpoint, EqualRK4)
	if err != nil {
		t.Fatal(err)
	}
	def := NewEmbeddedPair()
	if def.String() != explicit.String() || def.High().Method() != EqualRK4 {
		t.Fatalf("default pair %s, explicit %s", def, explicit)
	}
	u := dynamo.State{1, -0.5}
	f := func(_ float64, x dynamo.State) dynamo.State { return dynamo.State{x[1], -x[0]} }
	a, ea, err := def.Estimate(f, 0, u, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	b, eb, err := explicit.Estimate(f, 0, u, 0.05)
	if err != nil {
		t.Fatal(err)
	}
	if ea != eb || a[0] != b[0] || a[1] != b[1] {
		t.Errorf("default pair (%v, %v) differs from explicit pair (%v, %v)", a, ea, b, eb)
	}
}
