// Package viz renders trajectories and run summaries for the terminal.
//
// Time series are drawn with asciigraph, phase portraits on a Braille
// [Canvas], and headings and tables are styled with lipgloss according to
// the active [Theme].
//
// Adaptive trajectories are resampled onto a uniform time grid before
// plotting so the horizontal axis stays linear in time.
package viz
