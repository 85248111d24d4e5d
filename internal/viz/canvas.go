package viz

import (
	"image/color"
	"math"
	"strings"
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

const brailleBlank = 0x2800

// Canvas is a grid of braille cells. Each cell holds 2x4 sub-pixels, so a
// Width x Height canvas addresses (Width*2) x (Height*4) dots.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:  w,
		Height: h,
		Grid:   make([][]rune, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
	}
	c.Clear()
	return c
}

// Dots returns the addressable sub-pixel resolution.
func (c *Canvas) Dots() (int, int) { return c.Width * 2, c.Height * 4 }

// Set lights the sub-pixel at (x, y). Out-of-range coordinates are ignored.
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

// IsSet reports whether the sub-pixel at (x, y) is lit.
func (c *Canvas) IsSet(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	col, row := x/2, y/4
	if col >= c.Width || row >= c.Height {
		return false
	}
	return c.Grid[row][col]&rune(pixelMap[y%4][x%2]) != 0
}

func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = brailleBlank
		}
	}
}

// DrawLine draws a line using Bresenham's algorithm
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

// DrawDashed draws every other run of dash dots along a line.
func (c *Canvas) DrawDashed(x0, y0, x1, y1, dash int) {
	if dash < 1 {
		dash = 1
	}
	n := max(absInt(x1-x0), absInt(y1-y0))
	for i := 0; i <= n; i++ {
		if (i/dash)%2 == 1 {
			continue
		}
		t := 0.0
		if n > 0 {
			t = float64(i) / float64(n)
		}
		c.Set(x0+int(math.Round(t*float64(x1-x0))), y0+int(math.Round(t*float64(y1-y0))))
	}
}

func (c *Canvas) String() string {
	var b strings.Builder
	for i, row := range c.Grid {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(string(row))
	}
	return b.String()
}

// Surface adapts a Canvas to path-and-stroke drawing. Path points are in
// sub-pixel coordinates; Stroke rasterizes the pending path.
type Surface struct {
	canvas *Canvas
	path   [][2]int
	color  color.Color
}

func NewSurface(c *Canvas) *Surface { return &Surface{canvas: c} }

func (s *Surface) Canvas() *Canvas { return s.canvas }

func (s *Surface) Size() (int, int) { return s.canvas.Dots() }

func (s *Surface) Clear() {
	s.canvas.Clear()
	s.path = s.path[:0]
}

func (s *Surface) MoveTo(x, y float64) {
	s.path = s.path[:0]
	s.LineTo(x, y)
}

// LineTo extends the path. Non-finite points are dropped.
func (s *Surface) LineTo(x, y float64) {
	if math.IsNaN(x) || math.IsNaN(y) || math.IsInf(x, 0) || math.IsInf(y, 0) {
		return
	}
	s.path = append(s.path, [2]int{int(math.Round(x)), int(math.Round(y))})
}

func (s *Surface) Stroke(c color.Color) {
	s.color = c
	for i := 1; i < len(s.path); i++ {
		a, b := s.path[i-1], s.path[i]
		s.canvas.DrawLine(a[0], a[1], b[0], b[1])
	}
	if len(s.path) == 1 {
		s.canvas.Set(s.path[0][0], s.path[0][1])
	}
}

// Color is the color of the last stroke.
func (s *Surface) Color() color.Color { return s.color }

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
