package experiment

import (
	"strings"

	"github.com/san-kum/ivplab/internal/integrators"
)

// AdaptiveName selects the adaptive driver wherever a method name is
// expected.
const AdaptiveName = "adaptive"

// Entry describes one selectable solver.
type Entry struct {
	Name     string
	Adaptive bool
	Method   integrators.Method
	Order    int
}

// Methods lists the fixed-step methods followed by the adaptive driver.
func Methods() []Entry {
	ms := integrators.Methods()
	out := make([]Entry, 0, len(ms)+1)
	for _, m := range ms {
		out = append(out, Entry{Name: m.String(), Method: m, Order: m.Order()})
	}
	pair := integrators.NewEmbeddedPair()
	out = append(out, Entry{
		Name:     AdaptiveName,
		Adaptive: true,
		Method:   integrators.EqualRK4,
		Order:    pair.LowOrder(),
	})
	return out
}

// Lookup resolves a method name. Both "adaptive" and the embedded pair name
// "midpoint/equal_rk4" select the adaptive driver.
func Lookup(name string) (Entry, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == AdaptiveName || name == integrators.NewEmbeddedPair().String() {
		return Methods()[len(integrators.Methods())], nil
	}
	m, err := integrators.ParseMethod(name)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Name: m.String(), Method: m, Order: m.Order()}, nil
}

// Label is the name a run is recorded under.
func (e Entry) Label() string {
	if e.Adaptive {
		return integrators.NewEmbeddedPair().String()
	}
	return e.Name
}
