// color.go - Hex color parsing and channel clamping.
package canvas

import (
	"fmt"
	"image/color"
	"math"
	"strconv"
	"strings"
)

// ParseHexColor parses "#rrggbb" or "#rrggbbaa" into a non-premultiplied color.
func ParseHexColor(s string) (color.NRGBA, error) {
	hex := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(hex) != 6 && len(hex) != 8 {
		return color.NRGBA{}, fmt.Errorf("invalid color %q: expected #rrggbb or #rrggbbaa", s)
	}

	var ch [4]uint8
	ch[3] = 255
	for i := 0; i < len(hex)/2; i++ {
		v, err := strconv.ParseUint(hex[i*2:i*2+2], 16, 8)
		if err != nil {
			return color.NRGBA{}, fmt.Errorf("invalid channel %d in %q: %w", i, s, err)
		}
		ch[i] = uint8(v)
	}

	return color.NRGBA{R: ch[0], G: ch[1], B: ch[2], A: ch[3]}, nil
}

// Channel clamps v into [0,255] and rounds toward zero.
func Channel(v float64) uint8 {
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= 255:
		return 255
	default:
		return uint8(v)
	}
}

// NRGBA builds a color from possibly out-of-range integer channels.
func NRGBA(r, g, b, a int) color.NRGBA {
	return color.NRGBA{
		R: Channel(float64(r)),
		G: Channel(float64(g)),
		B: Channel(float64(b)),
		A: Channel(float64(a)),
	}
}
