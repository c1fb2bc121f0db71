package keyboard

import (
	"errors"
	"fmt"

	"github.com/zjrosen/keyzone/internal/display"
	"github.com/zjrosen/keyzone/internal/log"
)

// DefaultLabel is the instruction shown above the text zone.
const DefaultLabel = "Use Keyboard to type characters:"

// Keys holds the two codes the manager treats as commands. Every other byte
// is drawn as a glyph.
type Keys struct {
	Newline byte `mapstructure:"newline" yaml:"newline"`
	Delete  byte `mapstructure:"delete" yaml:"delete"`
}

// DefaultKeys returns the codes emitted by the HID keyboard decoder: Enter
// arrives as '\n' and Backspace as '\r'.
func DefaultKeys() Keys {
	return Keys{Newline: '\n', Delete: '\r'}
}

// Validate rejects a key set where newline and delete collide.
func (k Keys) Validate() error {
	if k.Newline == k.Delete {
		return fmt.Errorf("newline and delete codes must differ, both are %d", k.Newline)
	}
	return nil
}

// Config configures a Manager.
type Config struct {
	Geometry   Geometry
	Keys       Keys
	LabelLine  int
	LabelText  string
	LabelColor display.Color
	TextColor  display.Color
}

// DefaultConfig mirrors the keyboard demo of the discovery board.
func DefaultConfig() Config {
	return Config{
		Geometry:   DefaultGeometry(),
		Keys:       DefaultKeys(),
		LabelLine:  4,
		LabelText:  DefaultLabel,
		LabelColor: display.ColorYellow,
		TextColor:  display.ColorGreen,
	}
}

// Validate checks the geometry and key codes.
func (c Config) Validate() error {
	var errs []error
	if err := c.Geometry.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("geometry: %w", err))
	}
	if err := c.Keys.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("keys: %w", err))
	}
	if c.LabelLine < 0 {
		errs = append(errs, fmt.Errorf("label line must not be negative, got %d", c.LabelLine))
	}
	return errors.Join(errs...)
}

// Position is a pixel location on the display.
type Position struct {
	X int
	Y int
}

// Manager moves a text cursor over the text zone of a Display.
//
// Manager is not safe for concurrent use; callers feed it one byte at a time
// from a single input loop.
type Manager struct {
	cfg    Config
	disp   display.Display
	cursor Position
	lines  *LineTable
}

// New returns a Manager drawing on disp. Call Init before Process.
func New(cfg Config, disp display.Display) (*Manager, error) {
	if disp == nil {
		return nil, errors.New("display is required")
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid keyboard config: %w", err)
	}
	g := cfg.Geometry
	return &Manager{
		cfg:    cfg,
		disp:   disp,
		cursor: Position{X: g.FirstColumn, Y: g.FirstLine},
		lines:  NewLineTable(g.LineCount()),
	}, nil
}

// Init clears the text zone, draws the instruction label and homes the
// cursor. The line table keeps its contents.
func (m *Manager) Init() {
	m.disp.ClearTextZone()
	m.disp.SetTextColor(m.cfg.LabelColor)
	m.disp.DisplayStringAtLine(m.cfg.LabelLine, m.cfg.LabelText)
	m.disp.SetTextColor(m.cfg.TextColor)
	m.home()
	log.Debug(log.CatCursor, "text zone initialized", "x", m.cursor.X, "y", m.cursor.Y)
}

// Process applies one input byte.
func (m *Manager) Process(code byte) {
	switch code {
	case m.cfg.Keys.Newline:
		m.newline()
	case m.cfg.Keys.Delete:
		m.delete()
	default:
		m.glyph(code)
	}
}

// Cursor returns where the next glyph will be drawn.
func (m *Manager) Cursor() Position {
	return m.cursor
}

// LastX returns the recorded end of the line whose top edge is pixel y, or
// zero when nothing was recorded there.
func (m *Manager) LastX(y int) int {
	idx, ok := m.cfg.Geometry.LineIndex(y)
	if !ok {
		return 0
	}
	return m.lines.Get(idx)
}

// Config returns the configuration the manager was built with.
func (m *Manager) Config() Config {
	return m.cfg
}

func (m *Manager) newline() {
	g := m.cfg.Geometry
	m.cursor.X = g.FirstColumn
	m.cursor.Y += g.LineHeight
	if m.cursor.Y > g.LastLine {
		m.wrapScreen()
	}
}

// delete steps the cursor back one glyph and blanks the glyph at the
// recorded end of the resulting line.
func (m *Manager) delete() {
	g := m.cfg.Geometry

	if m.cursor.X <= g.FirstColumn {
		if m.cursor.Y > g.FirstLine {
			// Jumps to the last slot of the previous line whether or not
			// that line was full.
			m.cursor.Y -= g.LineHeight
			m.cursor.X = g.LastColumn - g.ColumnWidth
		}
	} else {
		line := m.line()
		if last := m.lines.Get(line); last > g.FirstColumn {
			m.cursor.X = m.retreat(line)
		} else if m.cursor.Y > g.FirstLine {
			m.cursor.Y -= g.LineHeight
			m.cursor.X = m.retreat(m.line())
		}
	}

	m.disp.DisplayChar(m.lines.Get(m.line()), m.cursor.Y, ' ')
	log.Debug(log.CatCursor, "delete", "x", m.cursor.X, "y", m.cursor.Y)
}

// retreat moves the recorded end of line back one column, never before the
// first column, and returns the new value.
func (m *Manager) retreat(line int) int {
	g := m.cfg.Geometry
	x := m.lines.Get(line) - g.ColumnWidth
	if x < g.FirstColumn {
		x = g.FirstColumn
	}
	m.lines.Set(line, x)
	return x
}

func (m *Manager) glyph(code byte) {
	g := m.cfg.Geometry

	m.disp.DisplayChar(m.cursor.X, m.cursor.Y, code)
	m.cursor.X += g.ColumnWidth
	m.lines.Set(m.line(), m.cursor.X)

	if m.cursor.X < g.LastColumn {
		return
	}

	m.cursor.X = g.FirstColumn
	m.cursor.Y += g.LineHeight
	log.Debug(log.CatCursor, "line wrap", "y", m.cursor.Y)

	if m.cursor.Y > g.LastLine {
		m.wrapScreen()
		// The glyph that filled the screen starts the fresh zone. The
		// cursor stays on it, so the next glyph overwrites it.
		m.disp.DisplayChar(m.cursor.X, m.cursor.Y, code)
	}
}

// wrapScreen clears the zone and homes the cursor. The line table is left
// as is.
func (m *Manager) wrapScreen() {
	m.disp.ClearTextZone()
	m.home()
	log.Debug(log.CatCursor, "screen wrap")
}

func (m *Manager) home() {
	g := m.cfg.Geometry
	m.cursor = Position{X: g.FirstColumn, Y: g.FirstLine}
}

// line returns the table index of the cursor line, or -1 when the cursor
// is off the grid, which the table treats as out of range.
func (m *Manager) line() int {
	idx, ok := m.cfg.Geometry.LineIndex(m.cursor.Y)
	if !ok {
		return -1
	}
	return idx
}
