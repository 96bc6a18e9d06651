// overlay.go - Post-shape layers: rain particles (conditional on the band's
// threshold), a fixed-count white noise texture, and the caption box.
package art

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/xob0t/weatherart/pkg/canvas"
)

// Caption box geometry.
var (
	CaptionBox   = canvas.Box{X0: 5, Y0: 5, X1: 250, Y1: 30}
	CaptionTextX = 10.0
)

// CaptionFontSize is the caption size in points.
const CaptionFontSize = 13

// ScatterParticles draws rain dots when the rule has a particle style and the
// rainfall is significant. It returns the number of dots drawn.
func ScatterParticles(dst Surface, rule *BandRule, rain float64, rng Rand) int {
	if rule == nil {
		return 0
	}
	n := rule.ParticleCount(rain)
	if n == 0 {
		return 0
	}

	st := rule.Particles
	w, h := dst.Size()
	for range n {
		at := canvas.Point{X: float64(rng.IntN(max(w, 1))), Y: float64(rng.IntN(max(h, 1)))}
		r := intBetween(rng, st.MinRadius, st.MaxRadius)
		col := st.Color
		col.A = canvas.Channel(float64(intBetween(rng, st.MinAlpha, st.MaxAlpha)))
		dst.FillEllipse(around(at, float64(r)).Normalize(), col)
	}
	return n
}

// NoiseLayer builds a transparent w×h layer holding points white pixels with
// alpha in [0, NoiseMaxAlpha]. Later points overwrite earlier ones.
func NoiseLayer(w, h, points int, rng Rand) *image.NRGBA {
	layer := image.NewNRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	b := layer.Bounds()
	for range points {
		x := rng.IntN(b.Dx())
		y := rng.IntN(b.Dy())
		a := uint8(rng.IntN(NoiseMaxAlpha + 1))
		layer.SetNRGBA(x, y, color.NRGBA{255, 255, 255, a})
	}
	return layer
}

// ApplyNoise composites a NoiseLayer over dst. It ignores the weather.
func ApplyNoise(dst Surface, points int, rng Rand) {
	w, h := dst.Size()
	dst.Composite(NoiseLayer(w, h, points, rng))
}

// Annotate draws the caption. It must run last.
func Annotate(dst Surface, s Sample, face font.Face, fg, bg color.Color) {
	dst.TextBox(CaptionBox, bg, s.Caption(), CaptionTextX, fg, face)
}
