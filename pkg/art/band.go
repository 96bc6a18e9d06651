// band.go - Temperature bands and the rule table that drives everything the
// emitter, color mixer and particle overlay do. Adding a band is a new row.
package art

import (
	"image/color"
	"math"
)

// Canvas and overlay constants.
const (
	CanvasWidth   = 1200
	CanvasHeight  = 1200
	NoisePoints   = 50000
	NoiseMaxAlpha = 40

	// Caps keeping extreme inputs bounded in time and memory.
	MaxShapes    = 40000
	MaxParticles = 100000
	MaxShapeSize = 400
)

// DefaultBackground is used when no band matches.
var DefaultBackground = color.NRGBA{255, 255, 255, 255}

// Band is a temperature bucket. Bands are ordered by their floor temperature.
type Band int

const (
	BandNone Band = iota
	BandCold
	BandMild
	BandTemperate
	BandWarm
	BandHot
	BandExtreme
)

var bandNames = [...]string{
	BandNone:      "none",
	BandCold:      "cold",
	BandMild:      "mild",
	BandTemperate: "temperate",
	BandWarm:      "warm",
	BandHot:       "hot",
	BandExtreme:   "extreme",
}

func (b Band) String() string {
	if b < 0 || int(b) >= len(bandNames) {
		return "unknown"
	}
	return bandNames[b]
}

// Linear is base + PerDegree·(temperature offset) + PerMM·rainfall.
type Linear struct {
	Base      float64
	PerDegree float64
	PerMM     float64
}

// At evaluates the formula.
func (l Linear) At(offset, rain float64) float64 {
	return l.Base + l.PerDegree*offset + l.PerMM*rain
}

// ParticleStyle describes the rain dots a band scatters when stormy.
type ParticleStyle struct {
	Scale     float64 // particles per mm of rain
	MinRadius int
	MaxRadius int
	Color     color.NRGBA // alpha is sampled per particle
	MinAlpha  int
	MaxAlpha  int
}

// BandRule is one row of the band table.
type BandRule struct {
	Band       Band
	Min, Max   float64 // selection range [Min, Max)
	Floor      float64 // origin of the temperature offset in formulas
	Background color.NRGBA

	Menu      []ShapeKind
	StormMenu []ShapeKind // extra kinds once rainfall is significant

	Count   Linear
	MinSize int
	Size    Linear
	Palette Palette

	RainThreshold float64
	Particles     *ParticleStyle
}

// Stormy reports whether rainfall is above the band's significant-rain threshold.
func (r *BandRule) Stormy(rain float64) bool {
	return rain > r.RainThreshold
}

// Kinds returns the shape menu for the given rainfall.
func (r *BandRule) Kinds(rain float64) []ShapeKind {
	if len(r.StormMenu) == 0 || !r.Stormy(rain) {
		return r.Menu
	}
	kinds := make([]ShapeKind, 0, len(r.Menu)+len(r.StormMenu))
	kinds = append(kinds, r.Menu...)
	return append(kinds, r.StormMenu...)
}

// ShapeCount is the number of shapes to emit, truncated and clamped to [0, MaxShapes].
func (r *BandRule) ShapeCount(s Sample) int {
	v := r.Count.At(s.Temperature-r.Floor, s.Rainfall)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= MaxShapes:
		return MaxShapes
	default:
		return int(v)
	}
}

// SizeBounds is the inclusive per-shape size range; lo >= 1 and hi >= lo.
func (r *BandRule) SizeBounds(s Sample) (lo, hi int) {
	lo = max(r.MinSize, 1)
	upper := r.Size.At(s.Temperature-r.Floor, s.Rainfall)
	switch {
	case math.IsNaN(upper), upper < float64(lo):
		return lo, lo
	case upper > MaxShapeSize:
		return lo, max(lo, MaxShapeSize)
	default:
		return lo, int(upper)
	}
}

// ParticleCount is round(rain × scale) clamped to [0, MaxParticles], or zero
// when the band has no overlay or rainfall is not significant.
func (r *BandRule) ParticleCount(rain float64) int {
	if r.Particles == nil || !r.Stormy(rain) {
		return 0
	}
	v := math.Round(rain * r.Particles.Scale)
	switch {
	case math.IsNaN(v), v <= 0:
		return 0
	case v >= MaxParticles:
		return MaxParticles
	default:
		return int(v)
	}
}

var (
	mistRain = &ParticleStyle{
		Scale: 20, MinRadius: 1, MaxRadius: 3,
		Color: color.NRGBA{100, 150, 200, 255}, MinAlpha: 100, MaxAlpha: 200,
	}
	meadowRain = &ParticleStyle{
		Scale: 15, MinRadius: 1, MaxRadius: 4,
		Color: color.NRGBA{120, 160, 210, 255}, MinAlpha: 120, MaxAlpha: 220,
	}
	emberRain = &ParticleStyle{
		Scale: 10, MinRadius: 1, MaxRadius: 5,
		Color: color.NRGBA{150, 150, 150, 255}, MinAlpha: 150, MaxAlpha: 250,
	}

	emberMenu  = []ShapeKind{Square, Spike}
	emberStorm = []ShapeKind{ThunderBolt}
)

// BandTable is an ordered list of non-overlapping band rules.
type BandTable []BandRule

// DefaultBands is the production mapping from weather to visual style.
var DefaultBands = BandTable{
	{
		Band: BandCold, Min: math.Inf(-1), Max: 10, Floor: 0,
		Background:    color.NRGBA{220, 230, 240, 255},
		Menu:          []ShapeKind{Hexagon, TinyCircle},
		Count:         Linear{Base: 2000, PerDegree: 50, PerMM: 10},
		MinSize:       5,
		Size:          Linear{Base: 20, PerDegree: 1, PerMM: 0.1},
		Palette:       PaletteFrost,
		RainThreshold: math.Inf(1),
	},
	{
		Band: BandMild, Min: 10, Max: 20, Floor: 10,
		Background:    color.NRGBA{230, 240, 250, 255},
		Menu:          []ShapeKind{Flower, GrassBlade},
		Count:         Linear{Base: 1500, PerDegree: 100, PerMM: 8},
		MinSize:       10,
		Size:          Linear{Base: 50, PerDegree: 5, PerMM: 0.1},
		Palette:       PaletteMist,
		RainThreshold: 10,
		Particles:     mistRain,
	},
	{
		Band: BandTemperate, Min: 20, Max: 25, Floor: 20,
		Background:    color.NRGBA{240, 250, 230, 255},
		Menu:          []ShapeKind{Triangle, Rectangle, RiverStroke, Leaf},
		Count:         Linear{Base: 1000, PerDegree: 80, PerMM: 5},
		MinSize:       20,
		Size:          Linear{Base: 80, PerDegree: 4, PerMM: 0.1},
		Palette:       PaletteMeadow,
		RainThreshold: 15,
		Particles:     meadowRain,
	},
	{
		Band: BandWarm, Min: 25, Max: 30, Floor: 25,
		Background:    color.NRGBA{250, 240, 220, 255},
		Menu:          emberMenu,
		StormMenu:     emberStorm,
		Count:         Linear{Base: 900, PerDegree: 60, PerMM: 4},
		MinSize:       25,
		Size:          Linear{Base: 90, PerDegree: 5, PerMM: 0.1},
		Palette:       PaletteEmber,
		RainThreshold: 20,
		Particles:     emberRain,
	},
	{
		Band: BandHot, Min: 30, Max: 40, Floor: 30,
		Background:    color.NRGBA{250, 220, 200, 255},
		Menu:          emberMenu,
		StormMenu:     emberStorm,
		Count:         Linear{Base: 800, PerDegree: 70, PerMM: 4},
		MinSize:       25,
		Size:          Linear{Base: 100, PerDegree: 5, PerMM: 0.1},
		Palette:       PaletteEmber,
		RainThreshold: 20,
		Particles:     emberRain,
	},
	{
		// Continues the hot rule past 40 °C instead of leaving the canvas blank.
		Band: BandExtreme, Min: 40, Max: math.Inf(1), Floor: 40,
		Background:    color.NRGBA{250, 205, 185, 255},
		Menu:          emberMenu,
		StormMenu:     emberStorm,
		Count:         Linear{Base: 1500, PerDegree: 70, PerMM: 4},
		MinSize:       25,
		Size:          Linear{Base: 150, PerDegree: 5, PerMM: 0.1},
		Palette:       PaletteEmber,
		RainThreshold: 20,
		Particles:     emberRain,
	},
}

// Rule returns the rule whose range contains temp, or nil.
func (t BandTable) Rule(temp float64) *BandRule {
	for i := range t {
		if temp >= t[i].Min && temp < t[i].Max {
			return &t[i]
		}
	}
	return nil
}

// Select maps a temperature to its band and background color. It is total:
// temperatures no row covers (NaN included) get BandNone and white.
func (t BandTable) Select(temp float64) (Band, color.NRGBA) {
	if r := t.Rule(temp); r != nil {
		return r.Band, r.Background
	}
	return BandNone, DefaultBackground
}

// SelectBand applies DefaultBands.
func SelectBand(temp float64) (Band, color.NRGBA) {
	return DefaultBands.Select(temp)
}
