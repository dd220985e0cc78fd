package report

import (
	"math"
	"strings"

	"github.com/san-kum/boxdim/internal/boxcount"
	"github.com/san-kum/boxdim/internal/dynamo"
)

// Braille cells hold 2x4 dots:
// 1 4
// 2 5
// 3 6
// 7 8
const brailleBlank = 0x2800

var dotMask = [4][2]rune{
	{0x1, 0x8},
	{0x2, 0x10},
	{0x4, 0x20},
	{0x40, 0x80},
}

// Canvas is a braille raster of Width x Height cells, i.e. 2*Width by
// 4*Height dots.
type Canvas struct {
	Width, Height int
	cells         [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{Width: w, Height: h, cells: make([][]rune, h)}
	for i := range c.cells {
		c.cells[i] = make([]rune, w)
		for j := range c.cells[i] {
			c.cells[i][j] = brailleBlank
		}
	}
	return c
}

// Set turns on the dot at (x, y). Out of range dots are ignored.
func (c *Canvas) Set(x, y int) {
	if x < 0 || y < 0 {
		return
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return
	}
	c.cells[row][col] |= dotMask[y%4][x%2]
}

// Line draws with Bresenham's algorithm.
func (c *Canvas) Line(x0, y0, x1, y1 int) {
	dx := absInt(x1 - x0)
	dy := absInt(y1 - y0)
	sx, sy := -1, -1
	if x0 < x1 {
		sx = 1
	}
	if y0 < y1 {
		sy = 1
	}
	err := dx - dy

	for {
		c.Set(x0, y0)
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.cells {
		b.WriteString(string(row))
		b.WriteByte('\n')
	}
	return b.String()
}

// Projection draws the path of states projected onto the (h, v) axes of the
// region. The vertical axis grows upwards. Non-finite states break the path.
func Projection(states []dynamo.State, region boxcount.Region, h, v, width, height int) string {
	if width <= 0 || height <= 0 || h < 0 || h > 2 || v < 0 || v > 2 {
		return ""
	}
	span := region.Span()
	if !(span[h] > 0) || !(span[v] > 0) {
		return ""
	}

	c := NewCanvas(width, height)
	dotsX, dotsY := float64(2*width-1), float64(4*height-1)
	toDot := func(s dynamo.State) (int, int) {
		x := (s[h] - region.Lo[h]) / span[h] * dotsX
		y := (region.Hi[v] - s[v]) / span[v] * dotsY
		return int(math.Round(x)), int(math.Round(y))
	}

	var px, py int
	connected := false
	for _, s := range states {
		if !s.IsFinite() {
			connected = false
			continue
		}
		x, y := toDot(s)
		if connected {
			c.Line(px, py, x, y)
		} else {
			c.Set(x, y)
		}
		px, py, connected = x, y, true
	}
	return c.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
