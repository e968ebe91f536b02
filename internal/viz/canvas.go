package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/san-kum/morphcontours/internal/params"
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

// Canvas is a grid of Braille cells. Each cell also carries an ink color:
// the background with every stroke that touched the cell composited over
// it, once per stroke.
type Canvas struct {
	Width, Height int
	Grid          [][]rune
	Ink           [][]params.Color
	Background    params.Color

	pen      params.Color
	penAlpha float64
	stroke   uint32
	touched  [][]uint32
}

func NewCanvas(w, h int) *Canvas {
	c := &Canvas{
		Width:   w,
		Height:  h,
		Grid:    make([][]rune, h),
		Ink:     make([][]params.Color, h),
		touched: make([][]uint32, h),
	}
	for i := range c.Grid {
		c.Grid[i] = make([]rune, w)
		c.Ink[i] = make([]params.Color, w)
		c.touched[i] = make([]uint32, w)
	}
	c.Clear()
	return c
}

// Set sets a pixel at (x, y) where x,y are in "sub-pixel" coordinates.
// The canvas size in sub-pixels is (Width*2) x (Height*4).
func (c *Canvas) Set(x, y int) {
	// Early bounds check for negative coordinates
	if x < 0 || y < 0 {
		return
	}

	col := x / 2
	row := y / 4
	if col >= c.Width || row >= c.Height {
		return
	}

	c.Grid[row][col] |= rune(pixelMap[y%4][x%2])

	if c.stroke != 0 && c.touched[row][col] != c.stroke {
		c.touched[row][col] = c.stroke
		c.Ink[row][col] = c.Ink[row][col].Blend(c.pen, c.penAlpha)
	}
}

// Clear resets every cell to blank background.
func (c *Canvas) Clear() {
	for i := range c.Grid {
		for j := range c.Grid[i] {
			c.Grid[i][j] = blank
			c.Ink[i][j] = c.Background
		}
	}
}

// BeginStroke sets the ink for the following Set and DrawLine calls.
func (c *Canvas) BeginStroke(ink params.Color, alpha float64) {
	c.stroke++
	if c.stroke == 0 {
		for i := range c.touched {
			clear(c.touched[i])
		}
		c.stroke = 1
	}
	c.pen = ink
	c.penAlpha = alpha
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

func (c *Canvas) String() string {
	var b strings.Builder
	for _, row := range c.Grid {
		b.WriteString(string(row) + "\n")
	}
	return b.String()
}

// Render returns the canvas with ink and background colors applied. Runs
// of cells with the same ink share one style.
func (c *Canvas) Render() string {
	bg := lipgloss.Color(c.Background.Hex())

	var b strings.Builder
	for row := range c.Grid {
		start := 0
		for col := 1; col <= c.Width; col++ {
			if col < c.Width && c.Ink[row][col] == c.Ink[row][start] {
				continue
			}
			style := lipgloss.NewStyle().
				Foreground(lipgloss.Color(c.Ink[row][start].Hex())).
				Background(bg)
			b.WriteString(style.Render(string(c.Grid[row][start:col])))
			start = col
		}
		if row < len(c.Grid)-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func absInt(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
