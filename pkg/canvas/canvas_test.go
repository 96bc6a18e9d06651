package canvas

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

var (
	white = color.NRGBA{255, 255, 255, 255}
	black = color.NRGBA{0, 0, 0, 255}
)

func TestBoxNormalize(t *testing.T) {
	tests := []struct {
		name string
		in   Box
		want Box
	}{
		{"already ordered", Box{1, 2, 3, 4}, Box{1, 2, 3, 4}},
		{"inverted x", Box{3, 2, 1, 4}, Box{1, 2, 3, 4}},
		{"inverted y", Box{1, 4, 3, 2}, Box{1, 2, 3, 4}},
		{"fully inverted", Box{9, 8, -1, -2}, Box{-1, -2, 9, 8}},
		{"degenerate", Box{5, 5, 5, 5}, Box{5, 5, 5, 5}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.in.Normalize()
			assert.Equal(t, tt.want, got)
			assert.LessOrEqual(t, got.X0, got.X1)
			assert.LessOrEqual(t, got.Y0, got.Y1)
		})
	}

	assert.Equal(t, 10.0, Box{10, 0, 0, 4}.Width())
	assert.Equal(t, 4.0, Box{10, 4, 0, 0}.Height())
}

func TestNew_FillsBackground(t *testing.T) {
	c := New(8, 6, color.NRGBA{220, 230, 240, 255})
	w, h := c.Size()
	assert.Equal(t, 8, w)
	assert.Equal(t, 6, h)

	for _, p := range []image.Point{{0, 0}, {7, 5}, {3, 2}} {
		assert.Equal(t, color.RGBA{220, 230, 240, 255}, c.Image().RGBAAt(p.X, p.Y))
	}
}

func TestFillRect_InvertedBoxDrawsSameArea(t *testing.T) {
	a := New(20, 20, white)
	a.FillRect(Box{4, 4, 14, 14}, black)

	b := New(20, 20, white)
	b.FillRect(Box{14, 14, 4, 4}, black)

	assert.Equal(t, a.Image().Pix, b.Image().Pix)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, a.Image().RGBAAt(9, 9))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, a.Image().RGBAAt(1, 1))
}

func TestFillRect_HonorsAlpha(t *testing.T) {
	c := New(10, 10, white)
	c.FillRect(Box{0, 0, 10, 10}, color.NRGBA{0, 0, 0, 128})

	px := c.Image().RGBAAt(5, 5)
	assert.InDelta(t, 127, int(px.R), 2)
	assert.Equal(t, uint8(255), px.A)
}

func TestFillEllipseAndPolygon(t *testing.T) {
	c := New(40, 40, white)
	c.FillEllipse(Box{30, 30, 10, 10}, black)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(11, 11))

	c = New(40, 40, white)
	c.FillPolygon([]Point{{0, 0}, {40, 0}, {0, 40}}, black)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(5, 5))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(35, 35))

	// Fewer than three points is a no-op.
	before := append([]uint8(nil), c.Image().Pix...)
	c.FillPolygon([]Point{{0, 0}, {40, 40}}, black)
	assert.Equal(t, before, c.Image().Pix)
}

func TestStrokePolyline(t *testing.T) {
	c := New(40, 40, white)
	c.StrokePolyline([]Point{{5, 20}, {35, 20}}, black, 6, JoinRound)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(20, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(20, 5))
}

func TestStrokePolyline_LineEnds(t *testing.T) {
	bevel := New(40, 40, white)
	bevel.StrokePolyline([]Point{{10, 20}, {30, 20}}, black, 10, JoinBevel)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, bevel.Image().RGBAAt(28, 20))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, bevel.Image().RGBAAt(33, 20), "butt end stops at the endpoint")

	round := New(40, 40, white)
	round.StrokePolyline([]Point{{10, 20}, {30, 20}}, black, 10, JoinRound)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, round.Image().RGBAAt(33, 20), "round cap extends past the endpoint")
}

func TestComposite_BlendsOver(t *testing.T) {
	c := New(4, 4, black)
	layer := image.NewNRGBA(image.Rect(0, 0, 4, 4))
	layer.SetNRGBA(1, 1, color.NRGBA{255, 255, 255, 40})
	c.Composite(layer)

	assert.InDelta(t, 40, int(c.Image().RGBAAt(1, 1).R), 1)
	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(2, 2))
}

func TestTextBox(t *testing.T) {
	fm, err := NewFontManager("", nil)
	require.NoError(t, err)
	assert.False(t, fm.Custom())
	face, err := fm.Face(13, 0)
	require.NoError(t, err)

	c := New(300, 60, white)
	c.TextBox(Box{250, 30, 5, 5}, black, "Temp: 1.0°C", 10, white, face)

	assert.Equal(t, color.RGBA{0, 0, 0, 255}, c.Image().RGBAAt(240, 7))
	assert.Equal(t, color.RGBA{255, 255, 255, 255}, c.Image().RGBAAt(2, 2))

	lit := 0
	for y := 5; y < 30; y++ {
		for x := 10; x < 120; x++ {
			if c.Image().RGBAAt(x, y).R > 128 {
				lit++
			}
		}
	}
	assert.Positive(t, lit, "caption text should be drawn inside the box")
}

func TestFontManager_MissingCustomFontFallsBack(t *testing.T) {
	fm, err := NewFontManager("/nonexistent/font.ttf", nil)
	require.NoError(t, err)
	assert.False(t, fm.Custom())
}

func TestFontManagerFromBytes(t *testing.T) {
	fm, err := NewFontManagerFromBytes(goregular.TTF)
	require.NoError(t, err)
	assert.True(t, fm.Custom())

	face, err := fm.Face(13, 0)
	require.NoError(t, err)
	defer face.Close()
	assert.Positive(t, face.Metrics().Height.Ceil())

	_, err = NewFontManagerFromBytes([]byte("not a font"))
	assert.Error(t, err)
}
