package keyboard

// LineTable records, per text line, the x position just past the last
// glyph written on that line. Slots never written read as zero. Access is
// bounds-checked: reads outside the table return zero and writes outside it
// are dropped.
type LineTable struct {
	slots []int
}

// NewLineTable returns a table with one zeroed slot per line.
func NewLineTable(lines int) *LineTable {
	if lines < 0 {
		lines = 0
	}
	return &LineTable{slots: make([]int, lines)}
}

// Len returns the number of lines the table covers.
func (t *LineTable) Len() int {
	return len(t.slots)
}

// Get returns the recorded x for line.
func (t *LineTable) Get(line int) int {
	if line < 0 || line >= len(t.slots) {
		return 0
	}
	return t.slots[line]
}

// Set records x for line. It reports whether line was in range.
func (t *LineTable) Set(line, x int) bool {
	if line < 0 || line >= len(t.slots) {
		return false
	}
	t.slots[line] = x
	return true
}
