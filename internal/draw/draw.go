// Package draw renders to ANSI terminals: a half-block pixel canvas, a
// chunked text writer and a few glyph helpers.
package draw

// Point represents a 2D coordinate.
type Point struct {
	X, Y float64
}

// Shade characters from lightest to darkest.
var shades = [...]rune{BlockEmpty, BlockLight, BlockMedium, BlockDark, BlockFull}

// shadeLevel returns a shade character for a value between 0 (empty) and 1 (solid).
func shadeLevel(intensity float64) rune {
	if intensity <= 0 {
		return shades[0]
	}
	if intensity >= 1 {
		return shades[len(shades)-1]
	}
	return shades[int(intensity*float64(len(shades)-1))]
}

// Meter renders value/limit as a bar of width cells using shade characters,
// e.g. for the combo indicator.
func Meter(value, limit, width int) string {
	if width <= 0 || limit <= 0 {
		return ""
	}
	fill := float64(min(max(value, 0), limit)) / float64(limit) * float64(width)
	out := make([]rune, width)
	for i := range out {
		out[i] = shadeLevel(fill - float64(i))
	}
	return string(out)
}

// Block characters for drawing.
const (
	BlockFull      = '█'
	BlockLight     = '░'
	BlockMedium    = '▒'
	BlockDark      = '▓'
	BlockEmpty     = ' '
	BlockUpperHalf = '▀'
	BlockLowerHalf = '▄'
)

// ANSI SGR color sequences.
const (
	ColorReset         = "\033[0m"
	ColorRed           = "\033[31m"
	ColorGreen         = "\033[32m"
	ColorYellow        = "\033[33m"
	ColorBrightCyan    = "\033[96m"
	ColorBrightYellow  = "\033[93m"
	ColorBrightMagenta = "\033[95m"
)

// Colorize wraps s in an SGR sequence and a reset.
func Colorize(color, s string) string {
	return color + s + ColorReset
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
