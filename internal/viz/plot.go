package viz

import (
	"fmt"

	"github.com/guptarohit/asciigraph"
)

const (
	plotWidth  = 80
	plotHeight = 12
)

// PlotJoint charts commanded (cyan) against sensed (green) position.
func PlotJoint(name string, commanded, sensed []float64) string {
	if len(commanded) == 0 && len(sensed) == 0 {
		return Subtle.Render(fmt.Sprintf("%s: no samples", name))
	}
	series := [][]float64{}
	colors := []asciigraph.AnsiColor{}
	if len(commanded) > 0 {
		series = append(series, commanded)
		colors = append(colors, asciigraph.Cyan)
	}
	if len(sensed) > 0 {
		series = append(series, sensed)
		colors = append(colors, asciigraph.Green)
	}
	return asciigraph.PlotMany(series,
		asciigraph.Height(plotHeight),
		asciigraph.Width(plotWidth),
		asciigraph.SeriesColors(colors...),
		asciigraph.Caption(fmt.Sprintf("%s: commanded (cyan) vs sensed (green)", name)),
	)
}

// PlotValues charts one series, e.g. a velocity trace.
func PlotValues(caption string, values []float64) string {
	if len(values) == 0 {
		return Subtle.Render(caption + ": no samples")
	}
	return asciigraph.Plot(values,
		asciigraph.Height(plotHeight/2),
		asciigraph.Width(plotWidth),
		asciigraph.Caption(caption),
	)
}
