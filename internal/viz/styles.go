package viz

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Styles derived from the current theme.
type Styles struct {
	Title  lipgloss.Style
	Header lipgloss.Style
	Label  lipgloss.Style
	Value  lipgloss.Style
	Subtle lipgloss.Style
	Good   lipgloss.Style
	Warn   lipgloss.Style
	Bad    lipgloss.Style
	Border lipgloss.Style
}

func (t Theme) Styles() Styles {
	return Styles{
		Title: lipgloss.NewStyle().
			Bold(true).
			Foreground(t.Accent).
			BorderStyle(lipgloss.NormalBorder()).
			BorderBottom(true).
			BorderForeground(t.Muted),
		Header: lipgloss.NewStyle().Bold(true).Foreground(t.Accent).Padding(0, 1),
		Label:  lipgloss.NewStyle().Foreground(t.Muted),
		Value:  lipgloss.NewStyle().Foreground(t.Text).Bold(true),
		Subtle: lipgloss.NewStyle().Foreground(t.Muted).Italic(true),
		Good:   lipgloss.NewStyle().Foreground(t.Success).Bold(true),
		Warn:   lipgloss.NewStyle().Foreground(t.Warning).Bold(true),
		Bad:    lipgloss.NewStyle().Foreground(t.Error).Bold(true),
		Border: lipgloss.NewStyle().Foreground(t.Muted),
	}
}

// Heading renders a section title with an underline.
func Heading(text string) string {
	return CurrentTheme.Styles().Title.Render(text)
}

// KeyValues renders aligned "label  value" lines.
func KeyValues(pairs ...[2]string) string {
	s := CurrentTheme.Styles()
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for i, p := range pairs {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(s.Label.Render(p[0] + strings.Repeat(" ", width-lipgloss.Width(p[0]))))
		b.WriteString("  ")
		b.WriteString(s.Value.Render(p[1]))
	}
	return b.String()
}

// Table renders rows under headers with a rounded border.
func Table(headers []string, rows [][]string) string {
	s := CurrentTheme.Styles()
	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(s.Border).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return s.Header
			}
			return lipgloss.NewStyle().Padding(0, 1)
		})
	return t.Render()
}

// Status renders err in the error color, or "ok".
func Status(err error) string {
	s := CurrentTheme.Styles()
	if err != nil {
		return s.Bad.Render(err.Error())
	}
	return s.Good.Render("ok")
}

// FormatFloat prints v compactly: fixed notation in [1e-3, 1e6), scientific
// otherwise.
func FormatFloat(v float64) string {
	a := math.Abs(v)
	if v == 0 || (a >= 1e-3 && a < 1e6) {
		return fmt.Sprintf("%.6g", v)
	}
	return fmt.Sprintf("%.3e", v)
}

// FormatState prints a state vector with FormatFloat.
func FormatState(x []float64) string {
	parts := make([]string, len(x))
	for i, v := range x {
		parts[i] = FormatFloat(v)
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Sparkline renders values as a one-line bar chart of at most width cells.
func Sparkline(values []float64, width int) string {
	if width <= 0 {
		return ""
	}
	if len(values) == 0 {
		return strings.Repeat("─", width)
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}

	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	step := len(values) / width
	if step < 1 {
		step = 1
	}

	var b strings.Builder
	for i := 0; i < width && i*step < len(values); i++ {
		norm := (values[i*step] - lo) / rng
		idx := int(norm * float64(len(chars)-1))
		idx = max(0, min(idx, len(chars)-1))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Separator is a muted horizontal rule.
func Separator(width int) string {
	return CurrentTheme.Styles().Subtle.Render(strings.Repeat("─", max(width, 0)))
}
