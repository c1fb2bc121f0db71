package display

import (
	"sort"
	"strings"
)

// Glyph is a character drawn at a pixel position together with the color
// that was active when it was drawn.
type Glyph struct {
	Char  byte
	Color Color
}

// Label is a string drawn on a whole display line.
type Label struct {
	Text  string
	Color Color
}

type point struct{ x, y int }

// Framebuffer is an in-memory Display. It keeps every glyph by the pixel it
// was drawn at, so it can be inspected by tests and rendered by the
// terminal emulator. It is not safe for concurrent use.
type Framebuffer struct {
	glyphs map[point]Glyph
	labels map[int]Label
	color  Color
	clears int
}

// NewFramebuffer returns an empty framebuffer drawing in white.
func NewFramebuffer() *Framebuffer {
	return &Framebuffer{
		glyphs: make(map[point]Glyph),
		labels: make(map[int]Label),
		color:  ColorWhite,
	}
}

// ClearTextZone erases every glyph and label. The label line sits inside the
// text zone on the board, so labels go too.
func (f *Framebuffer) ClearTextZone() {
	f.glyphs = make(map[point]Glyph)
	f.labels = make(map[int]Label)
	f.clears++
}

// SetTextColor sets the color used by subsequent draws.
func (f *Framebuffer) SetTextColor(c Color) {
	f.color = c
}

// DisplayStringAtLine draws text on display line line, replacing any label
// already there.
func (f *Framebuffer) DisplayStringAtLine(line int, text string) {
	f.labels[line] = Label{Text: text, Color: f.color}
}

// DisplayChar draws ch with its top-left corner at pixel (x, y).
func (f *Framebuffer) DisplayChar(x, y int, ch byte) {
	f.glyphs[point{x, y}] = Glyph{Char: ch, Color: f.color}
}

// Glyph returns the glyph drawn at pixel (x, y), if any.
func (f *Framebuffer) Glyph(x, y int) (Glyph, bool) {
	g, ok := f.glyphs[point{x, y}]
	return g, ok
}

// Label returns the label drawn on line, if any.
func (f *Framebuffer) Label(line int) (Label, bool) {
	l, ok := f.labels[line]
	return l, ok
}

// LabelLines returns the lines holding a label in ascending order.
func (f *Framebuffer) LabelLines() []int {
	lines := make([]int, 0, len(f.labels))
	for line := range f.labels {
		lines = append(lines, line)
	}
	sort.Ints(lines)
	return lines
}

// Color returns the current draw color.
func (f *Framebuffer) Color() Color {
	return f.color
}

// Clears returns how many times the text zone was cleared.
func (f *Framebuffer) Clears() int {
	return f.clears
}

// Rows lays the glyphs out on g. Cells nothing was drawn in hold a blank
// with an empty color. Glyphs off the grid are not rendered.
func (f *Framebuffer) Rows(g Grid) [][]Glyph {
	rows := make([][]Glyph, g.Rows)
	for r := range rows {
		row := make([]Glyph, g.Columns)
		for c := range row {
			row[c] = Glyph{Char: ' '}
		}
		rows[r] = row
	}
	for p, glyph := range f.glyphs {
		col, row, ok := g.Cell(p.x, p.y)
		if !ok {
			continue
		}
		rows[row][col] = glyph
	}
	return rows
}

// String renders labels followed by the grid rows as plain text, one line
// per row with trailing blanks trimmed.
func (f *Framebuffer) String(g Grid) string {
	var sb strings.Builder
	for _, line := range f.LabelLines() {
		sb.WriteString(strings.TrimRight(f.labels[line].Text, " "))
		sb.WriteByte('\n')
	}
	for _, row := range f.Rows(g) {
		buf := make([]byte, len(row))
		for i, glyph := range row {
			buf[i] = glyph.Char
		}
		sb.WriteString(strings.TrimRight(string(buf), " "))
		sb.WriteByte('\n')
	}
	return sb.String()
}
