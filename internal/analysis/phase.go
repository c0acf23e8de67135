package analysis

import (
	"fmt"
	"math"
	"strings"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/sim"
)

// Point is a sample projected onto two state components.
type Point struct{ X, Y float64 }

func (p Point) finite() bool {
	return !math.IsNaN(p.X) && !math.IsInf(p.X, 0) && !math.IsNaN(p.Y) && !math.IsInf(p.Y, 0)
}

// PhasePortrait2D is a trajectory projected onto components XIndex and YIndex.
type PhasePortrait2D struct {
	XIndex, YIndex int
	Points         []Point
}

// Phase projects a trajectory onto components xIdx and yIdx.
func Phase(traj *sim.Trajectory, xIdx, yIdx int) (*PhasePortrait2D, error) {
	xs, err := traj.Component(xIdx)
	if err != nil {
		return nil, err
	}
	ys, err := traj.Component(yIdx)
	if err != nil {
		return nil, err
	}
	portrait := &PhasePortrait2D{XIndex: xIdx, YIndex: yIdx, Points: make([]Point, len(xs))}
	for i := range xs {
		portrait.Points[i] = Point{xs[i], ys[i]}
	}
	return portrait, nil
}

// PhasePortraitToASCII scatters the portrait onto a width x height grid of
// runes, one line per row. The axes are drawn when the origin is in view.
func PhasePortraitToASCII(portrait *PhasePortrait2D, width, height int) string {
	if portrait == nil {
		return ""
	}
	return scatter(portrait.Points, width, height)
}

// PoincareSection holds the crossing times and the recorded pair at each.
type PoincareSection struct {
	Times  []float64
	Points []Point
}

// Poincare records components recordX and recordY each time component
// crossIdx crosses threshold upwards. Crossing times are located by linear
// interpolation between samples.
func Poincare(traj *sim.Trajectory, crossIdx int, threshold float64, recordX, recordY int) (*PoincareSection, error) {
	section := &PoincareSection{}
	if traj.Len() == 0 {
		return section, nil
	}
	dim := len(traj.States[0])
	for _, idx := range []int{crossIdx, recordX, recordY} {
		if idx < 0 || idx >= dim {
			return nil, fmt.Errorf("%w: index %d outside a %d-dimensional state", dynamo.ErrDimensionMismatch, idx, dim)
		}
	}

	for i := 1; i < traj.Len(); i++ {
		lo, hi := traj.States[i-1][crossIdx], traj.States[i][crossIdx]
		if lo >= threshold || hi < threshold {
			continue
		}
		t := traj.Times[i-1] + (threshold-lo)/(hi-lo)*(traj.Times[i]-traj.Times[i-1])
		x, err := traj.At(t)
		if err != nil {
			return nil, err
		}
		section.Times = append(section.Times, t)
		section.Points = append(section.Points, Point{x[recordX], x[recordY]})
	}
	return section, nil
}

// PoincareSectionToASCII renders the section like a phase portrait.
func PoincareSectionToASCII(section *PoincareSection, width, height int) string {
	if section == nil || len(section.Points) == 0 {
		return "No crossings detected"
	}
	return scatter(section.Points, width, height)
}

// window is a padded plotting range along one axis.
type window struct{ lo, span float64 }

func newWindow(lo, hi float64) window {
	span := hi - lo
	if span == 0 {
		span = 1
	}
	return window{lo: lo - 0.1*span, span: 1.2 * span}
}

// cell maps v to a cell index in [0, n).
func (w window) cell(v float64, n int) int {
	return int((v - w.lo) / w.span * float64(n-1))
}

func scatter(points []Point, width, height int) string {
	if width < 1 || height < 1 {
		return ""
	}
	minX, maxX := math.Inf(1), math.Inf(-1)
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		if !p.finite() {
			continue
		}
		minX, maxX = min(minX, p.X), max(maxX, p.X)
		minY, maxY = min(minY, p.Y), max(maxY, p.Y)
	}
	if minX > maxX {
		return ""
	}
	wx, wy := newWindow(minX, maxX), newWindow(minY, maxY)

	grid := make([][]rune, height)
	for r := range grid {
		grid[r] = []rune(strings.Repeat(" ", width))
	}
	if col := wx.cell(0, width); col >= 0 && col < width && wx.lo <= 0 {
		for r := range grid {
			grid[r][col] = '│'
		}
	}
	if row := height - 1 - wy.cell(0, height); row >= 0 && row < height && wy.lo <= 0 {
		for c := range grid[row] {
			if grid[row][c] == '│' {
				grid[row][c] = '┼'
			} else {
				grid[row][c] = '─'
			}
		}
	}
	for _, p := range points {
		if !p.finite() {
			continue
		}
		col, row := wx.cell(p.X, width), height-1-wy.cell(p.Y, height)
		if row >= 0 && row < height && col >= 0 && col < width {
			grid[row][col] = '•'
		}
	}

	var sb strings.Builder
	for _, row := range grid {
		sb.WriteString(string(row))
		sb.WriteByte('\n')
	}
	return sb.String()
}
