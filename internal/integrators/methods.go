package integrators

import (
	"fmt"
	"strings"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Method names one of the supported single-step formulas.
type Method int

const (
	Euler Method = iota
	Midpoint
	Trapezoid
	Ralston
	ClassicRK4
	EqualRK4
)

var methodNames = [...]string{
	Euler:      "euler",
	Midpoint:   "midpoint",
	Trapezoid:  "trapezoid",
	Ralston:    "ralston",
	ClassicRK4: "classic_rk4",
	EqualRK4:   "equal_rk4",
}

func (m Method) Valid() bool {
	return m >= Euler && m <= EqualRK4
}

func (m Method) String() string {
	if !m.Valid() {
		return fmt.Sprintf("method(%d)", int(m))
	}
	return methodNames[m]
}

// Order returns the global order of accuracy, or 0 for an invalid method.
func (m Method) Order() int {
	if !m.Valid() {
		return 0
	}
	return tableaus[m].Order
}

// Methods lists every supported method in declaration order.
func Methods() []Method {
	out := make([]Method, 0, len(methodNames))
	for m := Euler; m <= EqualRK4; m++ {
		out = append(out, m)
	}
	return out
}

// ParseMethod maps a method name to its tag. "rk4" is accepted as an alias
// of classic_rk4.
func ParseMethod(name string) (Method, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	if key == "rk4" {
		return ClassicRK4, nil
	}
	for m, n := range methodNames {
		if n == key {
			return Method(m), nil
		}
	}
	return 0, fmt.Errorf("%w: %q (want one of %s)", dynamo.ErrInvalidMethod, name, strings.Join(methodNames[:], ", "))
}

func (m Method) MarshalText() ([]byte, error) {
	if !m.Valid() {
		return nil, fmt.Errorf("%w: %d", dynamo.ErrInvalidMethod, int(m))
	}
	return []byte(m.String()), nil
}

func (m *Method) UnmarshalText(text []byte) error {
	parsed, err := ParseMethod(string(text))
	if err != nil {
		return err
	}
	*m = parsed
	return nil
}
