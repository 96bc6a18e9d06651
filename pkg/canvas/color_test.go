package canvas

import (
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseHexColor(t *testing.T) {
	c, err := ParseHexColor("#1a2b3c")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0x1a, 0x2b, 0x3c, 0xff}, c)

	c, err = ParseHexColor("00000080")
	require.NoError(t, err)
	assert.Equal(t, color.NRGBA{0, 0, 0, 0x80}, c)

	_, err = ParseHexColor("#fff")
	require.Error(t, err)

	_, err = ParseHexColor("#gg0000")
	require.Error(t, err)
}

func TestChannel(t *testing.T) {
	assert.Equal(t, uint8(0), Channel(-12))
	assert.Equal(t, uint8(0), Channel(math.NaN()))
	assert.Equal(t, uint8(255), Channel(300))
	assert.Equal(t, uint8(127), Channel(127.9))
}

func TestNRGBA_Clamps(t *testing.T) {
	assert.Equal(t, color.NRGBA{0, 255, 10, 255}, NRGBA(-50, 400, 10, 999))
}
