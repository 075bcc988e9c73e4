package viz

import "github.com/guptarohit/asciigraph"

// ViolationChart renders the per-stage violation profile as an ASCII
// chart for plain (non-TUI) output. Returns "" when there is nothing
// to plot.
func ViolationChart(viols []float64, width int) string {
	if len(viols) < 2 {
		return ""
	}
	return asciigraph.Plot(viols,
		asciigraph.Height(8),
		asciigraph.Width(width),
		asciigraph.Caption("max violation per stage"))
}
