package models

import "github.com/san-kum/ivplab/internal/dynamo"

// Logistic is population growth with rate R and carrying capacity K.
type Logistic struct {
	Rate     float64
	Capacity float64
}

func NewLogistic() *Logistic {
	return &Logistic{Rate: 1, Capacity: 1}
}

func (l *Logistic) StateDim() int { return 1 }

func (l *Logistic) Derive(_ float64, x dynamo.State) dynamo.State {
	return dynamo.State{l.Rate * x[0] * (1 - x[0]/l.Capacity)}
}

func (l *Logistic) DefaultState() dynamo.State { return dynamo.Scalar(0.5) }

func (l *Logistic) table() paramTable {
	return paramTable{"logistic", map[string]*float64{"rate": &l.Rate, "capacity": &l.Capacity}}
}

func (l *Logistic) GetParams() map[string]float64 { return l.table().values() }

func (l *Logistic) SetParam(name string, value float64) error { return l.table().set(name, value) }
