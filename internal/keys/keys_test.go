package keys

import (
	"testing"

	"github.com/charmbracelet/bubbles/key"
	"github.com/stretchr/testify/require"
)

func TestDefaultKeyMap_KeyAssignments(t *testing.T) {
	km := DefaultKeyMap()

	tests := []struct {
		name     string
		binding  key.Binding
		expected []string
	}{
		{name: "Reset uses ctrl+l", binding: km.Reset, expected: []string{"ctrl+l"}},
		{name: "ToggleLog uses ctrl+g", binding: km.ToggleLog, expected: []string{"ctrl+g"}},
		{name: "Quit uses ctrl+c and esc", binding: km.Quit, expected: []string{"ctrl+c", "esc"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.expected, tt.binding.Keys())
			require.NotEmpty(t, tt.binding.Help().Desc)
		})
	}
}

func TestDefaultKeyMap_NoPrintableKeys(t *testing.T) {
	km := DefaultKeyMap()
	for _, b := range km.ShortHelp() {
		for _, k := range b.Keys() {
			require.Greater(t, len(k), 1, "binding %q would swallow a typed character", k)
		}
	}
}

func TestDefaultKeyMap_FullHelpMatchesShortHelp(t *testing.T) {
	km := DefaultKeyMap()
	full := km.FullHelp()
	require.Len(t, full, 1)
	require.Equal(t, km.ShortHelp(), full[0])
}
