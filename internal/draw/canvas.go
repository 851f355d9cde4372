package draw

import (
	"io"
	"math"
	"slices"
	"strings"
)

// Glyphs remembered per cell between renders.
const (
	cellEmpty byte = iota
	cellUpper
	cellLower
	cellFull
	cellUnknown // Never matches, forces a repaint
)

var cellRunes = [...]string{
	cellEmpty: string(BlockEmpty),
	cellUpper: string(BlockUpperHalf),
	cellLower: string(BlockLowerHalf),
	cellFull:  string(BlockFull),
}

// Canvas is a monochrome pixel buffer drawn with half-block characters, so
// every terminal cell holds two vertically stacked pixels. Callers draw in
// logical coordinates, which are scaled to the current terminal size.
//
// Render only repaints cells whose glyph changed since the previous frame,
// which keeps SSH traffic low while the formation creeps across the view.
type Canvas struct {
	cols, rows int    // Terminal cells
	pixels     []bool // cols x rows*2, row-major
	prev       []byte // Glyph last written per cell
	textDirty  []bool // Cells overwritten by text since the last render

	logicalW, logicalH float64
	scaleX, scaleY     float64

	// 0-based terminal offset of the canvas when it is centered in a
	// larger terminal
	offsetCol int
	offsetRow int

	out       []byte
	scaled    []Point
	crossings []float64
	points    []Point
}

// NewScaledCanvas creates a canvas of cols x rows terminal cells addressed in
// a logicalW x logicalH coordinate space.
func NewScaledCanvas(cols, rows int, logicalW, logicalH float64) *Canvas {
	c := &Canvas{logicalW: logicalW, logicalH: logicalH}
	c.Resize(cols, rows)
	return c
}

// Resize changes the terminal size while keeping the logical space. A real
// size change forces a full repaint.
func (c *Canvas) Resize(cols, rows int) {
	if cols != c.cols || rows != c.rows || c.pixels == nil {
		c.cols, c.rows = cols, rows
		c.pixels = make([]bool, cols*rows*2)
		c.prev = make([]byte, cols*rows)
		c.textDirty = make([]bool, cols*rows)
		c.ForceRedraw()
	}
	c.scaleX = float64(cols) / c.logicalW
	c.scaleY = float64(rows*2) / c.logicalH
}

// SetOffset places the canvas at terminal cell (col+1, row+1).
func (c *Canvas) SetOffset(col, row int) {
	c.offsetCol = col
	c.offsetRow = row
}

// OffsetCol returns the centering column offset.
func (c *Canvas) OffsetCol() int { return c.offsetCol }

// OffsetRow returns the centering row offset.
func (c *Canvas) OffsetRow() int { return c.offsetRow }

// TerminalWidth returns the canvas width in terminal columns.
func (c *Canvas) TerminalWidth() int { return c.cols }

// TerminalHeight returns the canvas height in terminal rows.
func (c *Canvas) TerminalHeight() int { return c.rows }

// Clear unsets every pixel. The terminal is only updated on the next Render.
func (c *Canvas) Clear() {
	clear(c.pixels)
}

// ForceRedraw makes the next Render rewrite every cell, e.g. after the
// terminal was cleared.
func (c *Canvas) ForceRedraw() {
	for i := range c.prev {
		c.prev[i] = cellUnknown
	}
}

// MarkTextDirty records that text was written over n cells starting at the
// 1-based canvas position (col, row), so the next Render repaints them.
func (c *Canvas) MarkTextDirty(col, row, n int) {
	if row < 1 || row > c.rows {
		return
	}
	start := (row-1)*c.cols + max(col-1, 0)
	end := min((row-1)*c.cols+col-1+n, row*c.cols)
	for i := start; i < end; i++ {
		c.textDirty[i] = true
	}
}

// Lit returns the number of set pixels.
func (c *Canvas) Lit() int {
	n := 0
	for _, p := range c.pixels {
		if p {
			n++
		}
	}
	return n
}

func (c *Canvas) toPixel(x, y float64) (int, int) {
	return int(math.Round(x * c.scaleX)), int(math.Round(y * c.scaleY))
}

func (c *Canvas) setPixel(px, py int) {
	if px >= 0 && px < c.cols && py >= 0 && py < c.rows*2 {
		c.pixels[py*c.cols+px] = true
	}
}

// Set lights the pixel at integer logical coordinates.
func (c *Canvas) Set(x, y int) {
	c.SetFloat(float64(x), float64(y))
}

// SetFloat lights the pixel at logical coordinates.
func (c *Canvas) SetFloat(x, y float64) {
	c.setPixel(c.toPixel(x, y))
}

// LogicalToTerminal converts logical coordinates to the 1-based canvas cell
// that displays them, for text placed over drawn objects.
func (c *Canvas) LogicalToTerminal(x, y float64) (col, row int) {
	px, py := c.toPixel(x, y)
	return px + 1, py/2 + 1
}

// DrawLine draws a segment between two logical points (Bresenham).
func (c *Canvas) DrawLine(p1, p2 Point) {
	x, y := c.toPixel(p1.X, p1.Y)
	x2, y2 := c.toPixel(p2.X, p2.Y)

	dx, dy := abs(x2-x), abs(y2-y)
	sx, sy := 1, 1
	if x > x2 {
		sx = -1
	}
	if y > y2 {
		sy = -1
	}

	e := dx - dy
	for {
		c.setPixel(x, y)
		if x == x2 && y == y2 {
			return
		}
		e2 := 2 * e
		if e2 > -dy {
			e -= dy
			x += sx
		}
		if e2 < dx {
			e += dx
			y += sy
		}
	}
}

// DrawPolygon draws a closed outline, filled with a scanline pass when
// filled is set. Fewer than three points draw nothing.
func (c *Canvas) DrawPolygon(points []Point, filled bool) {
	if len(points) < 3 {
		return
	}
	if filled {
		c.fillPolygon(points)
	}
	for i := range points {
		c.DrawLine(points[i], points[(i+1)%len(points)])
	}
}

// fillPolygon scanline-fills in pixel space with the even-odd rule.
func (c *Canvas) fillPolygon(points []Point) {
	c.scaled = c.scaled[:0]
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, p := range points {
		q := Point{X: p.X * c.scaleX, Y: p.Y * c.scaleY}
		c.scaled = append(c.scaled, q)
		minY = min(minY, q.Y)
		maxY = max(maxY, q.Y)
	}

	n := len(c.scaled)
	for y := int(math.Floor(minY)); y <= int(math.Ceil(maxY)); y++ {
		scanY := float64(y) + 0.5

		c.crossings = c.crossings[:0]
		for i := range c.scaled {
			a, b := c.scaled[i], c.scaled[(i+1)%n]
			if (a.Y <= scanY) != (b.Y <= scanY) {
				t := (scanY - a.Y) / (b.Y - a.Y)
				c.crossings = append(c.crossings, a.X+t*(b.X-a.X))
			}
		}
		slices.Sort(c.crossings)

		for i := 0; i+1 < len(c.crossings); i += 2 {
			for x := int(math.Ceil(c.crossings[i])); x <= int(math.Floor(c.crossings[i+1])); x++ {
				c.setPixel(x, y)
			}
		}
	}
}

// BorrowPoints returns a scratch slice of n points, valid until the next call.
func (c *Canvas) BorrowPoints(n int) []Point {
	if cap(c.points) < n {
		c.points = make([]Point, n)
	}
	return c.points[:n]
}

func (c *Canvas) cellAt(row, col int) byte {
	top := c.pixels[row*2*c.cols+col]
	bottom := c.pixels[(row*2+1)*c.cols+col]
	switch {
	case top && bottom:
		return cellFull
	case top:
		return cellUpper
	case bottom:
		return cellLower
	}
	return cellEmpty
}

// Render writes the cells that changed since the previous Render.
func (c *Canvas) Render(w io.Writer) {
	c.out = c.out[:0]
	for row := 0; row < c.rows; row++ {
		for col := 0; col < c.cols; col++ {
			idx := row*c.cols + col
			cell := c.cellAt(row, col)
			if cell == c.prev[idx] && !c.textDirty[idx] {
				continue
			}
			c.prev[idx] = cell
			c.textDirty[idx] = false

			c.out = appendCursor(c.out, row+1+c.offsetRow, col+1+c.offsetCol)
			c.out = append(c.out, cellRunes[cell]...)
		}
	}
	_ = writeChunked(w, c.out)
}

// RenderBorder frames the canvas when it is centered in a larger terminal.
// Horizontal rules need a row offset and vertical bars a column offset.
func (c *Canvas) RenderBorder(w io.Writer) {
	sides := c.offsetCol >= 1
	rules := c.offsetRow >= 1
	left, right := c.offsetCol, c.offsetCol+c.cols+1
	top, bottom := c.offsetRow, c.offsetRow+c.rows+1

	var out []byte
	if rules {
		rule := strings.Repeat("─", c.cols)
		if sides {
			out = append(appendCursor(out, top, left), "┌"+rule+"┐"...)
			out = append(appendCursor(out, bottom, left), "└"+rule+"┘"...)
		} else {
			out = append(appendCursor(out, top, left+1), rule...)
			out = append(appendCursor(out, bottom, left+1), rule...)
		}
	}
	if sides {
		for row := top + 1; row < bottom; row++ {
			out = append(appendCursor(out, row, left), "│"...)
			out = append(appendCursor(out, row, right), "│"...)
		}
	}
	_ = writeChunked(w, out)
}
