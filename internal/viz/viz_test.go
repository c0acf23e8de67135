package viz

import (
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/san-kum/ivplab/internal/dynamo"
	"github.com/san-kum/ivplab/internal/sim"
)

func line(n int, dt float64) *sim.Trajectory {
	tr := &sim.Trajectory{}
	for i := 0; i < n; i++ {
		t := float64(i) * dt
		tr.Times = append(tr.Times, t)
		tr.States = append(tr.States, dynamo.State{t, -t})
	}
	return tr
}

func TestCanvasSetAndClear(t *testing.T) {
	c := NewCanvas(2, 1)
	c.Set(0, 0)
	c.Set(3, 3)
	c.Set(-1, 0)
	c.Set(100, 0)
	if c.Grid[0][0] != 0x2801 {
		t.Errorf("expected dot 1 set, got %U", c.Grid[0][0])
	}
	if c.Grid[0][1] != 0x2880 {
		t.Errorf("expected dot 8 set, got %U", c.Grid[0][1])
	}
	c.Unset(0, 0)
	if c.Grid[0][0] != 0x2800 {
		t.Errorf("expected empty cell after unset, got %U", c.Grid[0][0])
	}
	c.Clear()
	if c.String() != "\u2800\u2800\n" {
		t.Errorf("unexpected canvas %q", c.String())
	}
}

func TestCanvasDrawLine(t *testing.T) {
	c := NewCanvas(4, 1)
	c.DrawLine(0, 0, 7, 0)
	for col, r := range c.Grid[0] {
		if r != 0x2809 {
			t.Errorf("cell %d: got %U, want top row dots", col, r)
		}
	}
}

func TestPhase(t *testing.T) {
	xs := make([]float64, 200)
	ys := make([]float64, 200)
	for i := range xs {
		a := 2 * math.Pi * float64(i) / 199
		xs[i], ys[i] = math.Cos(a), math.Sin(a)
	}
	xs[50] = math.NaN()

	out := Phase(xs, ys, 20, 10)
	rows := strings.Split(strings.TrimSuffix(out, "\n"), "\n")
	if len(rows) != 10 {
		t.Fatalf("expected 10 rows, got %d", len(rows))
	}
	if !strings.ContainsFunc(out, func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("expected some dots drawn")
	}

	empty := Phase(nil, nil, 3, 2)
	if strings.ContainsFunc(empty, func(r rune) bool { return r > 0x2800 && r <= 0x28ff }) {
		t.Error("expected blank canvas for empty input")
	}
}

func TestBounds(t *testing.T) {
	lo, hi := bounds([]float64{2, 2, math.Inf(1)})
	if lo != 1.5 || hi != 2.5 {
		t.Errorf("degenerate bounds: got [%v, %v]", lo, hi)
	}
	lo, hi = bounds([]float64{math.NaN()})
	if lo != 0 || hi != 1 {
		t.Errorf("empty bounds: got [%v, %v]", lo, hi)
	}
}

func TestUniformResamplesOntoEvenGrid(t *testing.T) {
	tr := &sim.Trajectory{
		Times:    []float64{0, 0.1, 1.5, 2},
		States:   []dynamo.State{{0}, {0.1}, {1.5}, {2}},
		Adaptive: true,
	}
	got, err := Uniform(tr, 0, 5)
	if err != nil {
		t.Fatalf("uniform: %v", err)
	}
	want := []float64{0, 0.5, 1, 1.5, 2}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-12 {
			t.Errorf("sample %d: got %v, want %v", i, got[i], want[i])
		}
	}

	if _, err := Uniform(tr, 3, 5); !errors.Is(err, dynamo.ErrDimensionMismatch) {
		t.Errorf("expected dimension mismatch, got %v", err)
	}
}

func TestPlotComponent(t *testing.T) {
	out, err := PlotComponent(line(50, 0.1), 1, "x1 vs time", PlotOptions{Width: 30, Height: 5})
	if err != nil {
		t.Fatalf("plot: %v", err)
	}
	if !strings.Contains(out, "x1 vs time") {
		t.Errorf("caption missing from %q", out)
	}
}

func TestPlotOverlay(t *testing.T) {
	if _, err := PlotOverlay(nil, 0, nil, "", DefaultPlotOptions()); err == nil {
		t.Error("expected error for no trajectories")
	}
	out, err := PlotOverlay([]*sim.Trajectory{line(10, 0.1), line(20, 0.05)}, 0,
		[]string{"coarse", "fine"}, "sweep", PlotOptions{Width: 30, Height: 5})
	if err != nil {
		t.Fatalf("overlay: %v", err)
	}
	for _, want := range []string{"sweep", "coarse", "fine"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing from overlay", want)
		}
	}
}

func TestSparkline(t *testing.T) {
	if got := Sparkline([]float64{0, 1, 2, 3, 4, 5, 6, 7}, 8); got != "▁▂▃▄▅▆▇█" {
		t.Errorf("got %q", got)
	}
	if got := Sparkline(nil, 3); got != "───" {
		t.Errorf("empty: got %q", got)
	}
	if got := Sparkline([]float64{1, 1}, 0); got != "" {
		t.Errorf("zero width: got %q", got)
	}
}

func TestFormatFloat(t *testing.T) {
	tests := map[float64]string{
		0:       "0",
		1.5:     "1.5",
		1e-7:    "1.000e-07",
		2.5e8:   "2.500e+08",
		-0.0125: "-0.0125",
	}
	for in, want := range tests {
		if got := FormatFloat(in); got != want {
			t.Errorf("FormatFloat(%v) = %q, want %q", in, got, want)
		}
	}
	if got := FormatState([]float64{1, 2}); got != "[1, 2]" {
		t.Errorf("FormatState: %q", got)
	}
}

func TestThemes(t *testing.T) {
	if GetTheme("nope").Name != "cyberpunk" {
		t.Error("unknown theme should fall back to cyberpunk")
	}
	SetTheme("minimal")
	defer SetTheme("cyberpunk")
	if CurrentTheme.Name != "minimal" {
		t.Errorf("SetTheme did not switch, got %s", CurrentTheme.Name)
	}
	if len(ThemeNames()) != len(Themes) {
		t.Error("theme names out of sync")
	}
}

func TestTableAndKeyValues(t *testing.T) {
	out := Table([]string{"method", "steps"}, [][]string{{"euler", "100"}, {"adaptive", "42"}})
	for _, want := range []string{"method", "steps", "euler", "adaptive", "42"} {
		if !strings.Contains(out, want) {
			t.Errorf("%q missing from table", want)
		}
	}
	lines := strings.Split(out, "\n")
	if len(lines) < 2 || !strings.Contains(lines[1], "method") || strings.ContainsAny(lines[1], "┌┐") {
		t.Errorf("header row should hold the column names, got %q", out)
	}
	kv := KeyValues([2]string{"run", "abc"}, [2]string{"samples", "10"})
	if !strings.Contains(kv, "abc") || !strings.Contains(kv, "samples") {
		t.Errorf("unexpected key values %q", kv)
	}
	if !strings.Contains(Status(errors.New("boom")), "boom") {
		t.Error("status should show the error")
	}
}
