// palette.go - Per-band fill colors. Rain washes the mild flora out and
// pulls the ember palette toward gray; shape kinds with their own hue ranges
// (flower, grass, river, leaf, spike, thunder) override the band pair.
package art

import (
	"image/color"

	"github.com/lucasb-eyer/go-colorful"

	"github.com/xob0t/weatherart/pkg/canvas"
)

// Palette selects a band's color rule.
type Palette int

const (
	PaletteFrost Palette = iota
	PaletteMist
	PaletteMeadow
	PaletteEmber
)

// Shared color constants.
const (
	ShapeAlpha     = 220
	GrayLevel      = 150
	GrayBlendMin   = 0.3
	GrayBlendMax   = 0.6
	GrayBlendPerMM = 0.001
	WashPerMM      = 0.005
	WashFloor      = 0.4
)

var (
	frostPair  = []color.NRGBA{{200, 220, 255, 200}, {255, 255, 255, 200}}
	meadowPair = []color.NRGBA{{50, 100, 200, ShapeAlpha}, {255, 220, 80, ShapeAlpha}}

	riverColor   = color.NRGBA{50, 150, 200, ShapeAlpha}
	stormRed     = color.NRGBA{255, 0, 0, ShapeAlpha}
	thunderColor = color.NRGBA{255, 255, 0, ShapeAlpha}
	grayTarget   = colorful.Color{R: GrayLevel / 255.0, G: GrayLevel / 255.0, B: GrayLevel / 255.0}
)

// ColorFor returns the ambient fill for one shape of the rule's band.
func ColorFor(rule *BandRule, s Sample, rng Rand) color.NRGBA {
	switch rule.Palette {
	case PaletteFrost:
		return pick(rng, frostPair)
	case PaletteMist:
		return mistColor(s.Rainfall, rng)
	case PaletteMeadow:
		return pick(rng, meadowPair)
	case PaletteEmber:
		if rule.Stormy(s.Rainfall) {
			return grayedEmber(s.Rainfall, rng)
		}
		return emberColor(rng)
	default:
		return color.NRGBA{0, 0, 0, ShapeAlpha}
	}
}

// mistColor alternates a blue that darkens with rain and a near-white that
// fades with rain.
func mistColor(rain float64, rng Rand) color.NRGBA {
	if rng.IntN(2) == 0 {
		blue := intBetween(rng, 100, clampInt(180-rain*0.5, 100, 255))
		return canvas.NRGBA(50, 80, blue, ShapeAlpha)
	}
	return color.NRGBA{220, 220, 220, canvas.Channel(ShapeAlpha * (1 - rain*0.01))}
}

func emberColor(rng Rand) color.NRGBA {
	if rng.IntN(2) == 0 {
		return canvas.NRGBA(255, intBetween(rng, 100, 160), 0, ShapeAlpha)
	}
	return canvas.NRGBA(intBetween(rng, 200, 255), 0, 0, ShapeAlpha)
}

// GrayBlendUpper is the largest gray weight used at the given rainfall.
func GrayBlendUpper(rain float64) float64 {
	return min(GrayBlendMax, max(GrayBlendMin, GrayBlendMin+rain*GrayBlendPerMM))
}

// grayedEmber mixes an orange-red base toward neutral gray. The weight grows
// with rain but never exceeds GrayBlendMax.
func grayedEmber(rain float64, rng Rand) color.NRGBA {
	base := colorful.Color{
		R: float64(intBetween(rng, 180, 220)) / 255,
		G: float64(intBetween(rng, 80, 120)) / 255,
		B: float64(intBetween(rng, 60, 100)) / 255,
	}
	w := floatBetween(rng, GrayBlendMin, GrayBlendUpper(rain))
	r, g, b := base.BlendRgb(grayTarget, w).Clamped().RGB255()
	return color.NRGBA{r, g, b, ShapeAlpha}
}

func petalColor(rng Rand) color.NRGBA {
	return canvas.NRGBA(intBetween(rng, 100, 200), intBetween(rng, 50, 150), intBetween(rng, 150, 250), ShapeAlpha)
}

func grassColor(rng Rand) color.NRGBA {
	return canvas.NRGBA(intBetween(rng, 80, 150), intBetween(rng, 180, 255), intBetween(rng, 80, 150), ShapeAlpha)
}

func leafColor(rng Rand) color.NRGBA {
	return canvas.NRGBA(50, intBetween(rng, 150, 220), 50, ShapeAlpha)
}

// washed fades c's alpha as rain rises, keeping at least WashFloor of it.
func washed(c color.NRGBA, rain float64) color.NRGBA {
	c.A = canvas.Channel(float64(c.A) * WashFactor(rain))
	return c
}

// WashFactor is the share of alpha the mild flora keeps at the given rainfall.
func WashFactor(rain float64) float64 {
	if rain <= 0 {
		return 1
	}
	return max(WashFloor, 1-rain*WashPerMM)
}

// darken subtracts d from every color channel, keeping alpha.
func darken(c color.NRGBA, d int) color.NRGBA {
	return canvas.NRGBA(int(c.R)-d, int(c.G)-d, int(c.B)-d, int(c.A))
}
