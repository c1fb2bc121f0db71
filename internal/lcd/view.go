package lcd

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
)

var (
	statusStyle = lipgloss.NewStyle().Faint(true)
	logStyle    = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			Padding(0, 1)
)

// View renders labels, the bordered text zone, the status line and, when
// open, the log pane.
func (m Model) View() string {
	if m.session == nil {
		return ""
	}

	cfg := m.session.Manager().Config()
	grid := cfg.Geometry.Grid()
	screen := m.session.Screen()

	var sections []string
	for _, line := range screen.LabelLines() {
		label, _ := screen.Label(line)
		text := runewidth.Truncate(label.Text, grid.Columns, "…")
		sections = append(sections, lipgloss.NewStyle().Foreground(lipgloss.Color(label.Color.Hex())).Render(text))
	}

	sections = append(sections, m.renderZone())
	sections = append(sections, m.renderStatus())
	if m.showLog {
		sections = append(sections, m.renderLog(grid.Columns))
	}
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) renderZone() string {
	cfg := m.session.Manager().Config()
	grid := cfg.Geometry.Grid()
	cursor := m.session.Manager().Cursor()
	curCol, curRow, curOK := grid.Cell(cursor.X, cursor.Y)

	rows := m.session.Screen().Rows(grid)
	lines := make([]string, len(rows))
	for r, row := range rows {
		var sb strings.Builder
		for c, glyph := range row {
			sb.WriteString(m.glyphs.render(glyph, curOK && r == curRow && c == curCol))
		}
		lines[r] = sb.String()
	}

	border := lipgloss.NewStyle().Border(lipgloss.RoundedBorder())
	if m.borderColor != "" {
		border = border.BorderForeground(lipgloss.Color(m.borderColor.Hex()))
	}
	return border.Render(strings.Join(lines, "\n"))
}

func (m Model) renderStatus() string {
	cursor := m.session.Manager().Cursor()
	status := fmt.Sprintf("x=%d y=%d  keys=%d", cursor.X, cursor.Y, m.typed)
	if m.lastOp != "" {
		status += "  last: " + m.lastOp
	}
	return statusStyle.Render(status) + "\n" + m.help.View(m.keys)
}

func (m Model) renderLog(width int) string {
	lines := make([]string, len(m.logLines))
	for i, l := range m.logLines {
		lines[i] = runewidth.Truncate(l, width, "…")
	}
	if len(lines) == 0 {
		lines = []string{"(no log entries)"}
	}
	return logStyle.Render(strings.Join(lines, "\n"))
}
