package viz

import (
	"math"
	"strings"
)

// Braille patterns: 2x4 dots per cell
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

// PathCanvas plots world-coordinate geometry onto a braille grid. The
// vertical axis points up, as on paper.
type PathCanvas struct {
	cols, rows             int
	xmin, xmax, ymin, ymax float64
	grid                   [][]rune
}

// NewPathCanvas returns a canvas of cols x rows terminal cells mapping
// the world rectangle [xmin, xmax] x [ymin, ymax].
func NewPathCanvas(cols, rows int, xmin, xmax, ymin, ymax float64) *PathCanvas {
	if xmax <= xmin {
		xmax = xmin + 1
	}
	if ymax <= ymin {
		ymax = ymin + 1
	}
	c := &PathCanvas{
		cols: cols, rows: rows,
		xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax,
		grid: make([][]rune, rows),
	}
	for i := range c.grid {
		c.grid[i] = make([]rune, cols)
		for j := range c.grid[i] {
			c.grid[i][j] = 0x2800
		}
	}
	return c
}

func (c *PathCanvas) pixel(wx, wy float64) (int, int) {
	pw := c.cols * 2
	ph := c.rows * 4
	px := int((wx - c.xmin) / (c.xmax - c.xmin) * float64(pw-1))
	py := int((c.ymax - wy) / (c.ymax - c.ymin) * float64(ph-1))
	return px, py
}

func (c *PathCanvas) set(px, py int) {
	if px < 0 || py < 0 {
		return
	}
	col := px / 2
	row := py / 4
	if col >= c.cols || row >= c.rows {
		return
	}
	c.grid[row][col] |= rune(pixelMap[py%4][px%2])
}

// Point marks a single world coordinate.
func (c *PathCanvas) Point(wx, wy float64) {
	c.set(c.pixel(wx, wy))
}

// Marker marks a world coordinate with a 3x3 pixel block.
func (c *PathCanvas) Marker(wx, wy float64) {
	px, py := c.pixel(wx, wy)
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			c.set(px+dx, py+dy)
		}
	}
}

// Line draws a segment between two world coordinates with Bresenham's
// algorithm.
func (c *PathCanvas) Line(wx0, wy0, wx1, wy1 float64) {
	x0, y0 := c.pixel(wx0, wy0)
	x1, y1 := c.pixel(wx1, wy1)
	c.lineBetween(x0, y0, x1, y1)
}

// Circle outlines a circle of world radius r around (wx, wy).
func (c *PathCanvas) Circle(wx, wy, r float64) {
	// Enough segments that adjacent pixels connect at this resolution.
	steps := c.cols * 4
	px, py := c.pixel(wx+r, wy)
	for i := 1; i <= steps; i++ {
		a := 2 * math.Pi * float64(i) / float64(steps)
		qx, qy := c.pixel(wx+r*math.Cos(a), wy+r*math.Sin(a))
		if absInt(qx-px) > 1 || absInt(qy-py) > 1 {
			c.lineBetween(px, py, qx, qy)
		} else {
			c.set(qx, qy)
		}
		px, py = qx, qy
	}
}

func (c *PathCanvas) lineBetween(x0, y0, x1, y1 int) {
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
		c.set(x0, y0)
		if x0 == x1 && y0 == y1 {
			return
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

func (c *PathCanvas) String() string {
	var b strings.Builder
	for _, row := range c.grid {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
