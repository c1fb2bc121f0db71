package display

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/zjrosen/keyzone/internal/pubsub"
)

func TestParseColor(t *testing.T) {
	tests := []struct {
		in      string
		want    Color
		wantErr bool
	}{
		{in: "yellow", want: ColorYellow},
		{in: " Green ", want: ColorGreen},
		{in: "#10b981", want: Color("#10B981")},
		{in: "teal", wantErr: true},
		{in: "#12345", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseColor(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestColor_Hex(t *testing.T) {
	require.Equal(t, "#FFFF00", ColorYellow.Hex())
	require.Equal(t, "#10B981", Color("#10B981").Hex())
	require.Equal(t, "#FFFFFF", Color("unknown").Hex())
}

func TestGrid_Cell(t *testing.T) {
	g := Grid{OriginX: 7, OriginY: 70, CellWidth: 8, CellHeight: 15, Columns: 59, Rows: 9}

	col, row, ok := g.Cell(7, 70)
	require.True(t, ok)
	require.Equal(t, 0, col)
	require.Equal(t, 0, row)

	col, row, ok = g.Cell(471, 190)
	require.True(t, ok)
	require.Equal(t, 58, col)
	require.Equal(t, 8, row)

	_, _, ok = g.Cell(479, 70)
	require.False(t, ok, "right edge is outside")
	_, _, ok = g.Cell(0, 70)
	require.False(t, ok, "left of origin")
	_, _, ok = g.Cell(8, 70)
	require.False(t, ok, "misaligned")
	_, _, ok = Grid{}.Cell(0, 0)
	require.False(t, ok, "empty grid")

	x, y := g.Origin(2, 1)
	require.Equal(t, 23, x)
	require.Equal(t, 85, y)
}

func TestFramebuffer_DrawAndClear(t *testing.T) {
	fb := NewFramebuffer()
	require.Equal(t, ColorWhite, fb.Color())

	fb.SetTextColor(ColorYellow)
	fb.DisplayStringAtLine(4, "label   ")
	fb.SetTextColor(ColorGreen)
	fb.DisplayChar(7, 70, 'h')
	fb.DisplayChar(15, 70, 'i')
	fb.DisplayChar(7, 85, '!')
	fb.DisplayChar(0, 70, ' ')

	label, ok := fb.Label(4)
	require.True(t, ok)
	require.Equal(t, ColorYellow, label.Color)

	glyph, ok := fb.Glyph(15, 70)
	require.True(t, ok)
	require.Equal(t, Glyph{Char: 'i', Color: ColorGreen}, glyph)

	g := Grid{OriginX: 7, OriginY: 70, CellWidth: 8, CellHeight: 15, Columns: 4, Rows: 3}
	require.Equal(t, "label\nhi\n!\n\n", fb.String(g))

	rows := fb.Rows(g)
	require.Len(t, rows, 3)
	require.Len(t, rows[0], 4)
	require.Equal(t, Glyph{Char: ' '}, rows[2][3])

	fb.ClearTextZone()
	require.Equal(t, 1, fb.Clears())
	require.Empty(t, fb.LabelLines())
	_, ok = fb.Glyph(7, 70)
	require.False(t, ok)
	require.Equal(t, "\n\n\n", fb.String(g))
}

func TestFramebuffer_LabelLinesSorted(t *testing.T) {
	fb := NewFramebuffer()
	fb.DisplayStringAtLine(9, "b")
	fb.DisplayStringAtLine(2, "a")

	require.Equal(t, []int{2, 9}, fb.LabelLines())
}

func TestObserved_ForwardsAndPublishes(t *testing.T) {
	fb := NewFramebuffer()
	broker := pubsub.NewBroker[Op]()
	defer broker.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	ch := broker.Subscribe(ctx)

	obs := NewObserved(fb, broker)
	clears := 0
	obs.OnClear(func() { clears++ })

	obs.ClearTextZone()
	obs.SetTextColor(ColorGreen)
	obs.DisplayStringAtLine(4, "hello")
	obs.DisplayChar(7, 70, 'x')

	require.Equal(t, 4, obs.Ops())
	require.Equal(t, 1, obs.Clears())
	require.Equal(t, 1, clears)
	require.Equal(t, 1, fb.Clears())
	glyph, ok := fb.Glyph(7, 70)
	require.True(t, ok)
	require.Equal(t, byte('x'), glyph.Char)

	var got []pubsub.Event[Op]
	for len(got) < 4 {
		select {
		case ev := <-ch:
			got = append(got, ev)
		case <-time.After(100 * time.Millisecond):
			require.Fail(t, "timeout waiting for display ops")
		}
	}
	require.Equal(t, pubsub.ClearedEvent, got[0].Type)
	require.Equal(t, pubsub.UpdatedEvent, got[1].Type)
	require.Equal(t, Op{Kind: OpString, Line: 4, Text: "hello"}, got[2].Payload)
	require.Equal(t, Op{Kind: OpChar, X: 7, Y: 70, Char: 'x'}, got[3].Payload)
}

func TestObserved_NilBroker(t *testing.T) {
	obs := NewObserved(NewFramebuffer(), nil)
	require.NotPanics(t, func() {
		obs.DisplayChar(7, 70, 'a')
		obs.ClearTextZone()
	})
	require.Equal(t, 2, obs.Ops())
}

func TestOp_String(t *testing.T) {
	require.Equal(t, "clear", Op{Kind: OpClear}.String())
	require.Equal(t, "color green", Op{Kind: OpColor, Color: ColorGreen}.String())
	require.Equal(t, `string line=4 "hi"`, Op{Kind: OpString, Line: 4, Text: "hi"}.String())
	require.Equal(t, "char (7,70) 'a'", Op{Kind: OpChar, X: 7, Y: 70, Char: 'a'}.String())
}
