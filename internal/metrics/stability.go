package metrics

import (
	"math"

	"github.com/san-kum/ivplab/internal/dynamo"
)

// Stability scores boundedness: the share of samples whose infinity norm
// stays at or below Bound. A NaN component counts as out of bounds.
type Stability struct {
	Bound float64

	total, escaped int
	escapeTime     float64
}

func NewStability(bound float64) *Stability {
	s := &Stability{Bound: bound}
	s.Reset()
	return s
}

func (*Stability) Name() string { return "stability" }

func (s *Stability) Observe(t float64, x dynamo.State) {
	s.total++
	if inBounds(x, s.Bound) {
		return
	}
	if s.escaped == 0 {
		s.escapeTime = t
	}
	s.escaped++
}

func (s *Stability) Value() float64 {
	if s.total == 0 {
		return 1
	}
	return float64(s.total-s.escaped) / float64(s.total)
}

// EscapeTime reports the time of the first out-of-bounds sample, or NaN
// when every sample was bounded.
func (s *Stability) EscapeTime() float64 { return s.escapeTime }

func (s *Stability) Reset() {
	s.total, s.escaped = 0, 0
	s.escapeTime = math.NaN()
}

func inBounds(x dynamo.State, bound float64) bool {
	for _, v := range x {
		if !(math.Abs(v) <= bound) {
			return false
		}
	}
	return true
}
