// Package display defines the drawing surface the keyboard cursor writes to,
// together with an in-memory framebuffer and an observing decorator.
package display

import (
	"fmt"
	"regexp"
	"strings"
)

// Display is the set of LCD primitives the cursor manager needs.
// Coordinates are in pixels; lines are display text lines.
type Display interface {
	ClearTextZone()
	SetTextColor(c Color)
	DisplayStringAtLine(line int, text string)
	DisplayChar(x, y int, ch byte)
}

// Color is a display color, either a named color or a "#RRGGBB" hex string.
type Color string

const (
	ColorWhite   Color = "white"
	ColorBlack   Color = "black"
	ColorYellow  Color = "yellow"
	ColorGreen   Color = "green"
	ColorRed     Color = "red"
	ColorBlue    Color = "blue"
	ColorCyan    Color = "cyan"
	ColorMagenta Color = "magenta"
)

// namedHex maps the named colors to the RGB values of the board palette.
var namedHex = map[Color]string{
	ColorWhite:   "#FFFFFF",
	ColorBlack:   "#000000",
	ColorYellow:  "#FFFF00",
	ColorGreen:   "#00FF00",
	ColorRed:     "#FF0000",
	ColorBlue:    "#0000FF",
	ColorCyan:    "#00FFFF",
	ColorMagenta: "#FF00FF",
}

var hexColorRe = regexp.MustCompile(`^#[0-9a-fA-F]{6}$`)

// ParseColor accepts a named color (case-insensitive) or a #RRGGBB string.
func ParseColor(s string) (Color, error) {
	s = strings.TrimSpace(s)
	if hexColorRe.MatchString(s) {
		return Color(strings.ToUpper(s)), nil
	}
	c := Color(strings.ToLower(s))
	if _, ok := namedHex[c]; ok {
		return c, nil
	}
	return "", fmt.Errorf("invalid color %q: expected a name (yellow, green, ...) or #RRGGBB", s)
}

// Hex returns the #RRGGBB form of the color. Unknown names map to white.
func (c Color) Hex() string {
	if hexColorRe.MatchString(string(c)) {
		return string(c)
	}
	if h, ok := namedHex[c]; ok {
		return h
	}
	return namedHex[ColorWhite]
}

// Grid maps the pixel coordinates of a text zone onto character cells.
type Grid struct {
	OriginX    int
	OriginY    int
	CellWidth  int
	CellHeight int
	Columns    int
	Rows       int
}

// Cell returns the cell holding pixel (x, y). ok is false when the pixel is
// outside the grid or not aligned to a cell origin.
func (g Grid) Cell(x, y int) (col, row int, ok bool) {
	if g.CellWidth <= 0 || g.CellHeight <= 0 {
		return 0, 0, false
	}
	dx, dy := x-g.OriginX, y-g.OriginY
	if dx < 0 || dy < 0 || dx%g.CellWidth != 0 || dy%g.CellHeight != 0 {
		return 0, 0, false
	}
	col, row = dx/g.CellWidth, dy/g.CellHeight
	if col >= g.Columns || row >= g.Rows {
		return 0, 0, false
	}
	return col, row, true
}

// Origin returns the pixel origin of cell (col, row).
func (g Grid) Origin(col, row int) (x, y int) {
	return g.OriginX + col*g.CellWidth, g.OriginY + row*g.CellHeight
}
