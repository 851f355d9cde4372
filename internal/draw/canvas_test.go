package draw_test

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tomz197/invaders/internal/draw"
)

func TestCanvasRenderOnlyChangedCells(t *testing.T) {
	c := draw.NewScaledCanvas(10, 5, 10, 10)

	var first bytes.Buffer
	c.Render(&first)
	assert.Equal(t, 50, strings.Count(first.String(), "\033["), "first render paints every cell")

	var idle bytes.Buffer
	c.Render(&idle)
	assert.Empty(t, idle.String())

	c.Set(2, 0)
	c.Set(2, 1)
	var changed bytes.Buffer
	c.Render(&changed)
	assert.Equal(t, "\033[1;3H█", changed.String())

	c.Clear()
	var cleared bytes.Buffer
	c.Render(&cleared)
	assert.Equal(t, "\033[1;3H ", cleared.String())
}

func TestCanvasHalfBlocks(t *testing.T) {
	c := draw.NewScaledCanvas(3, 1, 3, 2)
	c.Render(&bytes.Buffer{})

	c.Set(0, 0)
	c.Set(1, 1)
	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, "\033[1;1H▀\033[1;2H▄", out.String())
	assert.Equal(t, 2, c.Lit())
}

func TestCanvasMarkTextDirty(t *testing.T) {
	c := draw.NewScaledCanvas(10, 2, 10, 4)
	c.Render(&bytes.Buffer{})

	c.MarkTextDirty(4, 2, 3)
	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, "\033[2;4H \033[2;5H \033[2;6H ", out.String())

	// Out-of-range marks are ignored
	assert.NotPanics(t, func() { c.MarkTextDirty(9, 2, 50) })
	assert.NotPanics(t, func() { c.MarkTextDirty(1, 3, 5) })
}

func TestCanvasForceRedrawAfterResize(t *testing.T) {
	c := draw.NewScaledCanvas(4, 2, 4, 4)
	c.Render(&bytes.Buffer{})

	c.Resize(6, 2)
	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, 12, strings.Count(out.String(), "\033["))
}

func TestCanvasOffset(t *testing.T) {
	c := draw.NewScaledCanvas(2, 1, 2, 2)
	c.SetOffset(5, 3)
	c.Render(&bytes.Buffer{})

	c.Set(1, 0)
	var out bytes.Buffer
	c.Render(&out)
	assert.Equal(t, "\033[4;7H▀", out.String())

	col, row := c.LogicalToTerminal(1, 0)
	assert.Equal(t, 2, col)
	assert.Equal(t, 1, row)
}

func TestCanvasFilledPolygon(t *testing.T) {
	c := draw.NewScaledCanvas(20, 10, 20, 20)
	c.DrawPolygon([]draw.Point{{X: 5, Y: 5}, {X: 15, Y: 5}, {X: 15, Y: 15}, {X: 5, Y: 15}}, true)
	require.Positive(t, c.Lit())
	assert.GreaterOrEqual(t, c.Lit(), 100)

	// Degenerate polygons are ignored
	c.Clear()
	c.DrawPolygon([]draw.Point{{X: 1, Y: 1}, {X: 2, Y: 2}}, true)
	assert.Zero(t, c.Lit())
}

func TestMeter(t *testing.T) {
	tests := []struct {
		value, limit, width int
		want                string
	}{
		{value: 0, limit: 5, width: 5, want: "     "},
		{value: 5, limit: 5, width: 5, want: "█████"},
		{value: 9, limit: 5, width: 5, want: "█████"},
		{value: 2, limit: 4, width: 4, want: "██  "},
		{value: 1, limit: 5, width: 0, want: ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, draw.Meter(tt.value, tt.limit, tt.width))
	}
}

func TestCanvasRenderBorder(t *testing.T) {
	tests := []struct {
		name           string
		offCol, offRow int
		want           []string
		absent         []string
	}{
		{name: "no offset", want: nil, absent: []string{"─", "│"}},
		{name: "sides only", offCol: 2, want: []string{"\033[1;2H│", "\033[1;6H│"}, absent: []string{"─"}},
		{name: "rules only", offRow: 1, want: []string{"\033[1;1H───", "\033[3;1H───"}, absent: []string{"│"}},
		{name: "full box", offCol: 1, offRow: 1, want: []string{"\033[1;1H┌───┐", "\033[3;1H└───┘", "\033[2;5H│"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := draw.NewScaledCanvas(3, 1, 3, 2)
			c.SetOffset(tt.offCol, tt.offRow)
			var out bytes.Buffer
			c.RenderBorder(&out)
			for _, s := range tt.want {
				assert.Contains(t, out.String(), s)
			}
			for _, s := range tt.absent {
				assert.NotContains(t, out.String(), s)
			}
		})
	}
}

func TestChunkWriter(t *testing.T) {
	var out bytes.Buffer
	cw := draw.NewChunkWriter(&out, 2, 1)

	cw.WriteAt(1, 1, "hi")
	cw.WriteCentered(10, 2, "wave")
	cw.WriteCenteredColor(10, 3, draw.ColorRed, "ab")
	assert.Empty(t, out.String(), "nothing is sent before Flush")

	require.NoError(t, cw.Flush())
	assert.Equal(t, "\033[2;3Hhi\033[3;10Hwave\033[4;11H"+draw.Colorize(draw.ColorRed, "ab"), out.String())

	out.Reset()
	cw.Write([]byte(strings.Repeat("x", 3000)))
	require.NoError(t, cw.Flush())
	assert.Equal(t, 3000, out.Len())

	out.Reset()
	require.NoError(t, cw.Flush())
	assert.Empty(t, out.String())
}
