// Package input turns keyboard events and byte streams into the codes the
// cursor manager consumes.
package input

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"github.com/zjrosen/keyzone/internal/keyboard"
)

// Decode maps a terminal key press to a keyboard code. Enter becomes the
// newline code, Backspace and Delete become the delete code, and single
// printable ASCII characters pass through. ok is false for keys the
// display font cannot show.
func Decode(msg tea.KeyMsg, keys keyboard.Keys) (code byte, ok bool) {
	if msg.Alt {
		return 0, false
	}
	switch msg.Type {
	case tea.KeyEnter:
		return keys.Newline, true
	case tea.KeyBackspace, tea.KeyDelete, tea.KeyCtrlH:
		return keys.Delete, true
	case tea.KeySpace:
		return ' ', true
	case tea.KeyRunes:
		if len(msg.Runes) != 1 {
			return 0, false
		}
		return printable(msg.Runes[0])
	}
	return 0, false
}

func printable(r rune) (byte, bool) {
	if r < ' ' || r > '~' || runewidth.RuneWidth(r) != 1 {
		return 0, false
	}
	return byte(r), true
}

// Normalize rewrites raw bytes from a stream. With mapBackspace set, the
// ASCII backspace (0x08) and DEL (0x7f) characters become the delete code.
func Normalize(b byte, keys keyboard.Keys, mapBackspace bool) byte {
	if mapBackspace && (b == 0x08 || b == 0x7f) {
		return keys.Delete
	}
	return b
}
