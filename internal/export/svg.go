// Package export renders assembled robots and joint traces as SVG.
package export

import (
	"fmt"
	"strings"

	"github.com/san-kum/robosim/internal/viz"
)

const background = "#0a0a0a"

type bounds struct {
	minX, minY, rangeX, rangeY float64
}

// fit returns the padded bounds of xs/ys so that mapped points stay off
// the image edge.
func fit(xs, ys []float64) bounds {
	minX, maxX := xs[0], xs[0]
	minY, maxY := ys[0], ys[0]
	for i := range xs {
		minX, maxX = min(minX, xs[i]), max(maxX, xs[i])
		minY, maxY = min(minY, ys[i]), max(maxY, ys[i])
	}
	rangeX, rangeY := maxX-minX, maxY-minY
	if rangeX == 0 {
		rangeX = 1
	}
	if rangeY == 0 {
		rangeY = 1
	}
	return bounds{
		minX:   minX - rangeX*0.1,
		minY:   minY - rangeY*0.1,
		rangeX: rangeX * 1.2,
		rangeY: rangeY * 1.2,
	}
}

func (b bounds) project(x, y float64, width, height int) (float64, float64) {
	px := (x - b.minX) / b.rangeX * float64(width)
	py := float64(height) - (y-b.minY)/b.rangeY*float64(height)
	return px, py
}

func header(sb *strings.Builder, width, height int) {
	sb.WriteString(fmt.Sprintf(`<?xml version="1.0" encoding="UTF-8"?>
<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d">
<rect width="100%%" height="100%%" fill="%s"/>
`, width, height, width, height, background))
}

// SkeletonToSVG draws joints as lines and link origins as dots, viewed
// down the Z axis.
func SkeletonToSVG(s viz.Skeleton, width, height int, color string) string {
	if len(s.Points) == 0 {
		return ""
	}
	xs := make([]float64, len(s.Points))
	ys := make([]float64, len(s.Points))
	for i, p := range s.Points {
		xs[i], ys[i] = p.X(), p.Y()
	}
	b := fit(xs, ys)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<g stroke="%s" stroke-width="2">
`, color))
	for _, e := range s.Edges {
		x0, y0 := b.project(xs[e[0]], ys[e[0]], width, height)
		x1, y1 := b.project(xs[e[1]], ys[e[1]], width, height)
		sb.WriteString(fmt.Sprintf(`<line x1="%.1f" y1="%.1f" x2="%.1f" y2="%.1f"/>
`, x0, y0, x1, y1))
	}
	sb.WriteString(fmt.Sprintf("</g>\n<g fill=\"%s\">\n", color))
	for i := range xs {
		x, y := b.project(xs[i], ys[i], width, height)
		sb.WriteString(fmt.Sprintf(`<circle cx="%.1f" cy="%.1f" r="4"/>
`, x, y))
	}
	sb.WriteString("</g>\n</svg>")
	return sb.String()
}

// SeriesToSVG draws values against their sample index as a polyline.
func SeriesToSVG(values []float64, width, height int, strokeColor string) string {
	if len(values) < 2 {
		return ""
	}
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	b := fit(xs, values)

	var sb strings.Builder
	header(&sb, width, height)
	sb.WriteString(fmt.Sprintf(`<path fill="none" stroke="%s" stroke-width="1.5" d="M`, strokeColor))
	for i, v := range values {
		x, y := b.project(xs[i], v, width, height)
		if i == 0 {
			sb.WriteString(fmt.Sprintf("%.1f,%.1f", x, y))
		} else {
			sb.WriteString(fmt.Sprintf(" L%.1f,%.1f", x, y))
		}
	}
	sb.WriteString(`"/>
</svg>`)
	return sb.String()
}
