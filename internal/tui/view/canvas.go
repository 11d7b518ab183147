package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// StyleID indexes the style table passed to Canvas.Render.
type StyleID int

type cell struct {
	text  string // one grapheme; empty for the tail of a wide rune
	style StyleID
	tail  bool
}

// Canvas is a fixed-size cell buffer. Layers are painted in order and later
// writes win, which lets the board draw blocks over the grid and the drag
// preview over both.
type Canvas struct {
	w, h  int
	cells [][]cell
}

// NewCanvas returns a w x h canvas filled with spaces in style base.
func NewCanvas(w, h int, base StyleID) *Canvas {
	w, h = max(0, w), max(0, h)
	c := &Canvas{w: w, h: h, cells: make([][]cell, h)}
	for y := range c.cells {
		row := make([]cell, w)
		for x := range row {
			row[x] = cell{text: " ", style: base}
		}
		c.cells[y] = row
	}
	return c
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (int, int) {
	return c.w, c.h
}

func (c *Canvas) in(x, y int) bool {
	return x >= 0 && y >= 0 && x < c.w && y < c.h
}

// set writes a narrow cell, clearing any wide rune it splits.
func (c *Canvas) set(x, y int, text string, style StyleID) {
	if !c.in(x, y) {
		return
	}
	row := c.cells[y]
	if row[x].tail && x > 0 {
		row[x-1].text = " "
	}
	if x+1 < c.w && row[x+1].tail {
		row[x+1] = cell{text: " ", style: row[x+1].style}
	}
	row[x] = cell{text: text, style: style}
}

// Fill paints a rectangle of spaces. The rectangle is clipped to the canvas.
func (c *Canvas) Fill(x, y, w, h int, style StyleID) {
	for yy := max(0, y); yy < min(c.h, y+h); yy++ {
		for xx := max(0, x); xx < min(c.w, x+w); xx++ {
			c.set(xx, yy, " ", style)
		}
	}
}

// Text writes s starting at (x, y), never past x+maxW. Wide runes that do not
// fit are dropped. It returns the number of cells used.
func (c *Canvas) Text(x, y, maxW int, s string, style StyleID) int {
	if y < 0 || y >= c.h || maxW <= 0 {
		return 0
	}
	used := 0
	for _, r := range s {
		g := string(r)
		rw := ansi.StringWidth(g)
		if rw == 0 {
			continue
		}
		if used+rw > maxW {
			break
		}
		cx := x + used
		c.set(cx, y, g, style)
		if rw == 2 {
			if c.in(cx+1, y) {
				c.set(cx+1, y, "", style)
				c.cells[y][cx+1].tail = true
			} else if c.in(cx, y) {
				c.cells[y][cx].text = " "
			}
		}
		used += rw
	}
	return used
}

// Line returns row y as plain text, for tests and hit checks.
func (c *Canvas) Line(y int) string {
	if y < 0 || y >= c.h {
		return ""
	}
	var b strings.Builder
	for _, cl := range c.cells[y] {
		b.WriteString(cl.text)
	}
	return b.String()
}

// StyleAt returns the style of a cell.
func (c *Canvas) StyleAt(x, y int) StyleID {
	if !c.in(x, y) {
		return 0
	}
	return c.cells[y][x].style
}

// Render styles runs of equal cells and joins rows with newlines.
func (c *Canvas) Render(styles []lipgloss.Style) string {
	lines := make([]string, c.h)
	for y, row := range c.cells {
		var b strings.Builder
		var run strings.Builder
		current := StyleID(-1)
		flush := func() {
			if run.Len() == 0 {
				return
			}
			b.WriteString(styleFor(styles, current).Render(run.String()))
			run.Reset()
		}
		for _, cl := range row {
			if cl.style != current {
				flush()
				current = cl.style
			}
			run.WriteString(cl.text)
		}
		flush()
		lines[y] = b.String()
	}
	return strings.Join(lines, "\n")
}

func styleFor(styles []lipgloss.Style, id StyleID) lipgloss.Style {
	if id < 0 || int(id) >= len(styles) {
		return lipgloss.NewStyle()
	}
	return styles[id]
}
