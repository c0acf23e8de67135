package storage

import (
	"encoding/json"
	"io"

	"github.com/san-kum/ivplab/internal/sim"
)

type ExportData struct {
	ID        string             `json:"id,omitempty"`
	Model     string             `json:"model"`
	Method    string             `json:"method"`
	Adaptive  bool               `json:"adaptive"`
	Dt        float64            `json:"dt,omitempty"`
	ErrTarget float64            `json:"err_target,omitempty"`
	Duration  float64            `json:"duration"`
	Steps     int                `json:"steps"`
	Times     []float64          `json:"times"`
	States    [][]float64        `json:"states"`
	StepSizes []float64          `json:"step_sizes,omitempty"`
	Metrics   map[string]float64 `json:"metrics,omitempty"`
}

// ExportJSON writes a run and its samples as one indented JSON document.
// Step sizes are included for adaptive runs.
func ExportJSON(w io.Writer, meta RunMetadata, traj *sim.Trajectory) error {
	data := ExportData{
		ID:        meta.ID,
		Model:     meta.Model,
		Method:    traj.Method,
		Adaptive:  traj.Adaptive,
		Dt:        meta.Dt,
		ErrTarget: meta.ErrTarget,
		Duration:  meta.Duration,
		Steps:     traj.Len() - 1,
		Times:     traj.Times,
		States:    make([][]float64, len(traj.States)),
		Metrics:   meta.Metrics,
	}
	if data.Steps < 0 {
		data.Steps = 0
	}
	for i, s := range traj.States {
		data.States[i] = s
	}
	if traj.Adaptive {
		data.StepSizes = traj.StepSizes()
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
