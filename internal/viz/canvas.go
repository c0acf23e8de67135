package viz

import (
	"math"
	"strings"
)

// brailleBlank is the empty Braille cell. Each cell carries 2x4 dots; dot
// (col, row) sets bit dotBits[row][col] above it.
const brailleBlank rune = 0x2800

var dotBits = [4][2]rune{
	{0x01, 0x08},
	{0x02, 0x10},
	{0x04, 0x20},
	{0x40, 0x80},
}

// Canvas is a grid of Braille cells addressed in dot coordinates, so a
// Width x Height canvas holds 2*Width x 4*Height dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, Grid: make([][]rune, h)}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// cell resolves dot (x, y) to its Braille cell and bit. ok is false off
// the canvas.
func (c *Canvas) cell(x, y int) (cell *rune, bit rune, ok bool) {
	if x < 0 || y < 0 || x/2 >= c.Width || y/4 >= c.Height {
		return nil, 0, false
	}
	return &c.Grid[y/4][x/2], dotBits[y%4][x%2], true
}

// Set turns on dot (x, y). Dots off the canvas are ignored.
func (c *Canvas) Set(x, y int) {
	if p, bit, ok := c.cell(x, y); ok {
		*p |= bit
	}
}

// Unset turns off dot (x, y).
func (c *Canvas) Unset(x, y int) {
	if p, bit, ok := c.cell(x, y); ok {
		*p = brailleBlank | (*p &^ bit)
	}
}

func (c *Canvas) Clear() {
	for _, row := range c.Grid {
		for j := range row {
			row[j] = brailleBlank
		}
	}
}

// DrawLine sets the dots of the segment from (x0, y0) to (x1, y1) with
// Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx, sx := stepToward(x0, x1)
	dy, sy := stepToward(y0, y1)
	for e := dx - dy; ; {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x0 += sx
		}
		if e2 < dx {
			e += dx
			y0 += sy
		}
	}
}

// stepToward returns |to-from| and the unit step from from to to.
func stepToward(from, to int) (dist, step int) {
	if to < from {
		return from - to, -1
	}
	return to - from, 1
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Phase draws the curve (xs[i], ys[i]) scaled to fill a w x h cell canvas,
// joining consecutive samples. Non-finite samples break the curve.
func Phase(xs, ys []float64, w, h int) string {
	c := NewCanvas(w, h)
	n := min(len(xs), len(ys))
	if n == 0 || w <= 0 || h <= 0 {
		return c.String()
	}

	xMin, xMax := bounds(xs[:n])
	yMin, yMax := bounds(ys[:n])
	pw, ph := float64(w*2-1), float64(h*4-1)
	px := func(v float64) int { return int(math.Round((v - xMin) / (xMax - xMin) * pw)) }
	py := func(v float64) int { return int(math.Round((yMax - v) / (yMax - yMin) * ph)) }

	prevOK := false
	var x0, y0 int
	for i := 0; i < n; i++ {
		if !finite(xs[i]) || !finite(ys[i]) {
			prevOK = false
			continue
		}
		x1, y1 := px(xs[i]), py(ys[i])
		if prevOK {
			c.DrawLine(x0, y0, x1, y1)
		} else {
			c.Set(x1, y1)
		}
		x0, y0, prevOK = x1, y1, true
	}
	return c.String()
}

// bounds returns the finite range of v, widened to a unit interval when
// degenerate.
func bounds(v []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range v {
		if finite(x) {
			lo = math.Min(lo, x)
			hi = math.Max(hi, x)
		}
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	return lo, hi
}

func finite(x float64) bool { return !math.IsNaN(x) && !math.IsInf(x, 0) }
