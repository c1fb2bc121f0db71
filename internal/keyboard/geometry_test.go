package keyboard

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyzone/internal/display"
)

func TestDefaultGeometry_Shape(t *testing.T) {
	g := DefaultGeometry()

	require.NoError(t, g.Validate())
	require.Equal(t, 59, g.Columns())
	require.Equal(t, 9, g.LineCount())
}

func TestGeometry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(g *Geometry)
		errContains string
	}{
		{
			name:        "zero column width",
			mutate:      func(g *Geometry) { g.ColumnWidth = 0 },
			errContains: "column_width must be positive",
		},
		{
			name:        "negative line height",
			mutate:      func(g *Geometry) { g.LineHeight = -1 },
			errContains: "line_height must be positive",
		},
		{
			name:        "columns reversed",
			mutate:      func(g *Geometry) { g.LastColumn = g.FirstColumn },
			errContains: "must be greater than first_column",
		},
		{
			name:        "misaligned span",
			mutate:      func(g *Geometry) { g.LastColumn = 480 },
			errContains: "not a multiple of column_width",
		},
		{
			name:        "lines reversed",
			mutate:      func(g *Geometry) { g.LastLine = g.FirstLine - 1 },
			errContains: "must not be less than first_line",
		},
		{
			name:        "negative origin",
			mutate:      func(g *Geometry) { g.FirstColumn = -8 },
			errContains: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := DefaultGeometry()
			tt.mutate(&g)

			err := g.Validate()
			require.Error(t, err)
			require.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestGeometry_LineIndex(t *testing.T) {
	g := DefaultGeometry()

	tests := []struct {
		y      int
		want   int
		wantOK bool
	}{
		{y: 70, want: 0, wantOK: true},
		{y: 85, want: 1, wantOK: true},
		{y: 190, want: 8, wantOK: true},
		{y: 205, wantOK: false},
		{y: 55, wantOK: false},
		{y: 72, wantOK: false},
	}

	for _, tt := range tests {
		idx, ok := g.LineIndex(tt.y)
		require.Equal(t, tt.wantOK, ok, "y=%d", tt.y)
		if tt.wantOK {
			require.Equal(t, tt.want, idx, "y=%d", tt.y)
		}
	}
}

func TestGeometry_Grid(t *testing.T) {
	grid := DefaultGeometry().Grid()

	require.Equal(t, display.Grid{
		OriginX:    7,
		OriginY:    70,
		CellWidth:  8,
		CellHeight: 15,
		Columns:    59,
		Rows:       9,
	}, grid)
}

func TestKeys_Validate(t *testing.T) {
	require.NoError(t, DefaultKeys().Validate())
	require.Error(t, Keys{Newline: 1, Delete: 1}.Validate())
}

func TestLineTable_BoundsChecked(t *testing.T) {
	table := NewLineTable(3)
	require.Equal(t, 3, table.Len())

	require.True(t, table.Set(2, 31))
	require.Equal(t, 31, table.Get(2))
	require.Equal(t, 0, table.Get(0), "unwritten slots read zero")

	require.False(t, table.Set(3, 99))
	require.False(t, table.Set(-1, 99))
	require.Equal(t, 0, table.Get(3))
	require.Equal(t, 0, table.Get(-1))

	require.Equal(t, 0, NewLineTable(-4).Len())
}
