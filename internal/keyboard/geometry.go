// Package keyboard places typed characters on the text zone of a display.
//
// A Manager keeps a pixel cursor and, per text line, the x position just
// past the last glyph written on it. Printable bytes are drawn and advance
// the cursor, wrapping to the next line at the right edge and back to the
// top of a freshly cleared zone at the bottom. The newline and delete codes
// move the cursor; delete also blanks the erased glyph.
package keyboard

import (
	"errors"
	"fmt"

	"github.com/zjrosen/keyzone/internal/display"
)

// Geometry describes the text zone in pixels.
type Geometry struct {
	FirstColumn int `mapstructure:"first_column" yaml:"first_column"`
	LastColumn  int `mapstructure:"last_column" yaml:"last_column"`
	FirstLine   int `mapstructure:"first_line" yaml:"first_line"`
	LastLine    int `mapstructure:"last_line" yaml:"last_line"`
	ColumnWidth int `mapstructure:"column_width" yaml:"column_width"`
	LineHeight  int `mapstructure:"line_height" yaml:"line_height"`
}

// DefaultGeometry is the text zone of the 480x272 discovery board LCD with
// its small font.
func DefaultGeometry() Geometry {
	return Geometry{
		FirstColumn: 7,
		LastColumn:  479,
		FirstLine:   70,
		LastLine:    200,
		ColumnWidth: 8,
		LineHeight:  15,
	}
}

// Validate reports geometry that would let the cursor run outside the
// line table.
func (g Geometry) Validate() error {
	var errs []error
	if g.ColumnWidth <= 0 {
		errs = append(errs, fmt.Errorf("column_width must be positive, got %d", g.ColumnWidth))
	}
	if g.LineHeight <= 0 {
		errs = append(errs, fmt.Errorf("line_height must be positive, got %d", g.LineHeight))
	}
	if g.FirstColumn < 0 || g.FirstLine < 0 {
		errs = append(errs, errors.New("first_column and first_line must not be negative"))
	}
	if g.LastColumn <= g.FirstColumn {
		errs = append(errs, fmt.Errorf("last_column (%d) must be greater than first_column (%d)", g.LastColumn, g.FirstColumn))
	} else if g.ColumnWidth > 0 && (g.LastColumn-g.FirstColumn)%g.ColumnWidth != 0 {
		errs = append(errs, fmt.Errorf("column span %d is not a multiple of column_width %d",
			g.LastColumn-g.FirstColumn, g.ColumnWidth))
	}
	if g.LastLine < g.FirstLine {
		errs = append(errs, fmt.Errorf("last_line (%d) must not be less than first_line (%d)", g.LastLine, g.FirstLine))
	}
	return errors.Join(errs...)
}

// Columns is the number of glyphs that fit on one line.
func (g Geometry) Columns() int {
	if g.ColumnWidth <= 0 {
		return 0
	}
	return (g.LastColumn - g.FirstColumn) / g.ColumnWidth
}

// LineCount is the number of text lines whose top edge is within
// [FirstLine, LastLine].
func (g Geometry) LineCount() int {
	if g.LineHeight <= 0 || g.LastLine < g.FirstLine {
		return 0
	}
	return (g.LastLine-g.FirstLine)/g.LineHeight + 1
}

// LineIndex converts a pixel y to a text line index. ok is false when y is
// not the top edge of a line in the zone.
func (g Geometry) LineIndex(y int) (int, bool) {
	if g.LineHeight <= 0 {
		return 0, false
	}
	dy := y - g.FirstLine
	if dy < 0 || dy%g.LineHeight != 0 {
		return 0, false
	}
	idx := dy / g.LineHeight
	if idx >= g.LineCount() {
		return 0, false
	}
	return idx, true
}

// Grid returns the cell grid of the zone for rendering a framebuffer.
func (g Geometry) Grid() display.Grid {
	return display.Grid{
		OriginX:    g.FirstColumn,
		OriginY:    g.FirstLine,
		CellWidth:  g.ColumnWidth,
		CellHeight: g.LineHeight,
		Columns:    g.Columns(),
		Rows:       g.LineCount(),
	}
}
