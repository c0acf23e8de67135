package integrators

import (
	"errors"
	"testing"

	"github.com/san-kum/ivplab/internal/dynamo"
)

func TestParseMethod(t *testing.T) {
	tests := []struct {
		name string
		want Method
	}{
		{"euler", Euler},
		{"midpoint", Midpoint},
		{"trapezoid", Trapezoid},
		{"ralston", Ralston},
		{"classic_rk4", ClassicRK4},
		{"equal_rk4", EqualRK4},
		{"RK4", ClassicRK4},
		{" Equal_RK4 ", EqualRK4},
	}

	for _, tt := range tests {
		got, err := ParseMethod(tt.name)
		if err != nil {
			t.Errorf("ParseMethod(%q) failed: %v", tt.name, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseMethod(%q) = %s, want %s", tt.name, got, tt.want)
		}
	}
}

func TestParseMethodInvalid(t *testing.T) {
	for _, name := range []string{"", "rk45", "verlet"} {
		if _, err := ParseMethod(name); !errors.Is(err, dynamo.ErrInvalidMethod) {
			t.Errorf("ParseMethod(%q): expected ErrInvalidMethod, got %v", name, err)
		}
	}
}

func TestMethodRoundTrip(t *testing.T) {
	for _, m := range Methods() {
		text, err := m.MarshalText()
		if err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		var back Method
		if err := back.UnmarshalText(text); err != nil {
			t.Fatalf("%s: %v", m, err)
		}
		if back != m {
			t.Errorf("round trip of %s gave %s", m, back)
		}
	}
}

func TestTableausAreConsistent(t *testing.T) {
	for _, m := range Methods() {
		tab, err := TableauOf(m)
		if err != nil {
			t.Fatal(err)
		}
		if len(tab.C) != tab.Stages() || len(tab.A) != tab.Stages() {
			t.Errorf("%s: ragged tableau", m)
		}
		sumB := 0.0
		for _, b := range tab.B {
			sumB += b
		}
		if sumB < 1-1e-15 || sumB > 1+1e-15 {
			t.Errorf("%s: weights sum to %v", m, sumB)
		}
		for i, row := range tab.A {
			if len(row) != i {
				t.Errorf("%s: row %d has %d entries", m, i, len(row))
			}
			sum := 0.0
			for _, a := range row {
				sum += a
			}
			if d := sum - tab.C[i]; d > 1e-15 || d < -1e-15 {
				t.Errorf("%s: row %d sums to %v, node is %v", m, i, sum, tab.C[i])
			}
		}
	}
}

func TestMethodOrder(t *testing.T) {
	want := map[Method]int{Euler: 1, Midpoint: 2, Trapezoid: 2, Ralston: 2, ClassicRK4: 4, EqualRK4: 4}
	for m, order := range want {
		if m.Order() != order {
			t.Errorf("%s: order %d, want %d", m, m.Order(), order)
		}
	}
	if Method(-1).Order() != 0 {
		t.Error("invalid method should report order 0")
	}
}
