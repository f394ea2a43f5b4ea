package main

import (
	"math"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// cellCanvas maps the engine's logical coordinate space onto a terminal
// cell grid. The two axes scale independently, which also absorbs the
// roughly 2:1 cell aspect ratio.
type cellCanvas struct {
	cols, rows    int
	width, height float64
	cells         []canvasCell

	styles map[string]lipgloss.Style
}

type canvasCell struct {
	ch    rune
	color string
}

func newCellCanvas(cols, rows int, width, height float64) *cellCanvas {
	c := &cellCanvas{
		width:  width,
		height: height,
		styles: make(map[string]lipgloss.Style),
	}
	c.Resize(cols, rows)
	return c
}

// Resize reallocates the grid for a new terminal size
func (c *cellCanvas) Resize(cols, rows int) {
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}
	c.cols, c.rows = cols, rows
	c.cells = make([]canvasCell, cols*rows)
	c.Clear()
}

// ToLogical converts a terminal cell position to engine coordinates
func (c *cellCanvas) ToLogical(col, row int) (float64, float64) {
	return (float64(col) + 0.5) / c.scaleX(), (float64(row) + 0.5) / c.scaleY()
}

func (c *cellCanvas) scaleX() float64 { return float64(c.cols) / c.width }
func (c *cellCanvas) scaleY() float64 { return float64(c.rows) / c.height }

func (c *cellCanvas) set(col, row int, ch rune, color string) {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return
	}
	c.cells[row*c.cols+col] = canvasCell{ch: ch, color: color}
}

// Clear blanks the grid
func (c *cellCanvas) Clear() {
	for i := range c.cells {
		c.cells[i] = canvasCell{ch: ' '}
	}
}

// DrawLine rasterizes a line segment with Bresenham stepping
func (c *cellCanvas) DrawLine(x1, y1, x2, y2 float64, color string) {
	c0 := int(x1 * c.scaleX())
	r0 := int(y1 * c.scaleY())
	c1 := int(x2 * c.scaleX())
	r1 := int(y2 * c.scaleY())

	dc := abs(c1 - c0)
	dr := -abs(r1 - r0)
	sc, sr := 1, 1
	if c0 > c1 {
		sc = -1
	}
	if r0 > r1 {
		sr = -1
	}
	err := dc + dr

	for {
		// Only draw over empty space so lines never overwrite nodes
		if c.at(c0, r0) == ' ' {
			c.set(c0, r0, lineRune(dc, dr), color)
		}
		if c0 == c1 && r0 == r1 {
			return
		}
		e2 := 2 * err
		if e2 >= dr {
			err += dr
			c0 += sc
		}
		if e2 <= dc {
			err += dc
			r0 += sr
		}
	}
}

func lineRune(dc, dr int) rune {
	switch {
	case -dr > 2*dc:
		return '│'
	case dc > -2*dr:
		return '─'
	default:
		return '·'
	}
}

// FillCircle fills the disc around a logical center
func (c *cellCanvas) FillCircle(x, y, r float64, color string) {
	c.eachCircleCell(x, y, r, func(col, row int, edge bool) {
		c.set(col, row, '█', color)
	})
}

// StrokeCircle draws only the rim of the disc
func (c *cellCanvas) StrokeCircle(x, y, r float64, color string) {
	c.eachCircleCell(x, y, r, func(col, row int, edge bool) {
		if edge {
			c.set(col, row, '▒', color)
		}
	})
}

func (c *cellCanvas) eachCircleCell(x, y, r float64, fn func(col, row int, edge bool)) {
	minCol := int((x - r) * c.scaleX())
	maxCol := int(math.Ceil((x + r) * c.scaleX()))
	minRow := int((y - r) * c.scaleY())
	maxRow := int(math.Ceil((y + r) * c.scaleY()))

	for row := minRow; row <= maxRow; row++ {
		for col := minCol; col <= maxCol; col++ {
			lx, ly := c.ToLogical(col, row)
			d := math.Hypot(lx-x, ly-y)
			if d <= r {
				fn(col, row, d > r*0.62)
			}
		}
	}
}

// DrawText writes a label starting at a logical position
func (c *cellCanvas) DrawText(x, y float64, text, color string) {
	col := int(x * c.scaleX())
	row := int(y * c.scaleY())
	for i, ch := range text {
		c.set(col+i, row, ch, color)
	}
}

func (c *cellCanvas) at(col, row int) rune {
	if col < 0 || col >= c.cols || row < 0 || row >= c.rows {
		return ' '
	}
	return c.cells[row*c.cols+col].ch
}

// View renders the grid as styled terminal lines
func (c *cellCanvas) View() string {
	var b strings.Builder
	for row := 0; row < c.rows; row++ {
		var run strings.Builder
		runColor := ""
		flush := func() {
			if run.Len() == 0 {
				return
			}
			if runColor == "" {
				b.WriteString(run.String())
			} else {
				b.WriteString(c.style(runColor).Render(run.String()))
			}
			run.Reset()
		}
		for col := 0; col < c.cols; col++ {
			cell := c.cells[row*c.cols+col]
			if cell.color != runColor {
				flush()
				runColor = cell.color
			}
			run.WriteRune(cell.ch)
		}
		flush()
		if row < c.rows-1 {
			b.WriteByte('\n')
		}
	}
	return b.String()
}

func (c *cellCanvas) style(color string) lipgloss.Style {
	if s, ok := c.styles[color]; ok {
		return s
	}
	s := lipgloss.NewStyle().Foreground(lipgloss.Color(color))
	c.styles[color] = s
	return s
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
