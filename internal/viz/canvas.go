package viz

import (
	"math"
	"strings"

	"github.com/go-gl/mathgl/mgl64"
)

// Braille Patterns: 2x4 dots
// 1 4
// 2 5
// 3 6
// 7 8
//
// Unicode offset 0x2800
var pixelMap = [4][2]int{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

const blank = 0x2800

type Canvas struct {
	Width, Height int
	Grid          [][]rune
	// Scale is sub-pixels per metre.
	Scale float64
	// Center is the world XY point drawn in the middle of the canvas.
	Center mgl64.Vec2
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
		Scale:  20,
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Set sets a sub-pixel. The canvas is (Width*2) x (Height*4) sub-pixels.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
		}
	}
}

// Project maps a world point onto sub-pixel coordinates, Y up.
func (c *Canvas) Project(p mgl64.Vec3) (int, int) {
	x := (p.X()-c.Center.X())*c.Scale + float64(c.Width)
	y := float64(c.Height*2) - (p.Y()-c.Center.Y())*c.Scale
	return int(math.Round(x)), int(math.Round(y))
}

// Fit centres the canvas on points and picks a scale that keeps them all
// in view.
func (c *Canvas) Fit(points []mgl64.Vec3) {
	if len(points) == 0 {
		return
	}
	minX, maxX := points[0].X(), points[0].X()
	minY, maxY := points[0].Y(), points[0].Y()
	for _, p := range points[1:] {
		minX, maxX = math.Min(minX, p.X()), math.Max(maxX, p.X())
		minY, maxY = math.Min(minY, p.Y()), math.Max(maxY, p.Y())
	}
	c.Center = mgl64.Vec2{(minX + maxX) / 2, (minY + maxY) / 2}

	span := math.Max((maxX-minX)/float64(c.Width*2), (maxY-minY)/float64(c.Height*4))
	if span > 0 {
		c.Scale = 0.8 / span
	}
}

// DrawLine draws a line using Bresenham's algorithm.
func (c *Canvas) DrawLine(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
}

// DrawSkeleton marks every body and joins the pairs listed in edges.
func (c *Canvas) DrawSkeleton(s Skeleton) {
	for _, e := range s.Edges {
		x0, y0 := c.Project(s.Points[e[0]])
		x1, y1 := c.Project(s.Points[e[1]])
		c.DrawLine(x0, y0, x1, y1)
	}
	for _, p := range s.Points {
		x, y := c.Project(p)
		for dx := -1; dx <= 1; dx++ {
			for dy := -1; dy <= 1; dy++ {
				c.Set(x+dx, y+dy)
			}
		}
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
