package art

import (
	"image"
	"image/color"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font"

	"github.com/xob0t/weatherart/pkg/canvas"
)

// --- recording surface ---

type opKind int

const (
	opPolygon opKind = iota
	opEllipse
	opRect
	opStroke
	opText
	opComposite
)

type op struct {
	kind  opKind
	box   canvas.Box
	pts   []canvas.Point
	col   color.NRGBA
	width float64
	join  canvas.Join
	text  string
}

type recorder struct {
	w, h int
	ops  []op
}

func newRecorder() *recorder { return &recorder{w: CanvasWidth, h: CanvasHeight} }

func nrgba(c color.Color) color.NRGBA {
	return color.NRGBAModel.Convert(c).(color.NRGBA)
}

func (r *recorder) Size() (int, int) { return r.w, r.h }

func (r *recorder) FillPolygon(pts []canvas.Point, col color.Color) {
	r.ops = append(r.ops, op{kind: opPolygon, pts: pts, col: nrgba(col)})
}

func (r *recorder) FillEllipse(b canvas.Box, col color.Color) {
	r.ops = append(r.ops, op{kind: opEllipse, box: b, col: nrgba(col)})
}

func (r *recorder) FillRect(b canvas.Box, col color.Color) {
	r.ops = append(r.ops, op{kind: opRect, box: b, col: nrgba(col)})
}

func (r *recorder) StrokePolyline(pts []canvas.Point, col color.Color, width float64, join canvas.Join) {
	r.ops = append(r.ops, op{kind: opStroke, pts: pts, col: nrgba(col), width: width, join: join})
}

func (r *recorder) TextBox(box canvas.Box, bg color.Color, text string, _ float64, fg color.Color, _ font.Face) {
	r.ops = append(r.ops, op{kind: opText, box: box, col: nrgba(bg), text: text})
}

func (r *recorder) Composite(image.Image) {
	r.ops = append(r.ops, op{kind: opComposite})
}

func (r *recorder) only(k opKind) []op {
	var out []op
	for _, o := range r.ops {
		if o.kind == k {
			out = append(out, o)
		}
	}
	return out
}

var _ Surface = (*recorder)(nil)

// --- tests ---

func TestEmitShapes_CountMatchesFormula(t *testing.T) {
	s := Sample{22, 8}
	rule := DefaultBands.Rule(s.Temperature)
	rec := newRecorder()

	stats := EmitShapes(rec, rule, s, NewRand(1))

	assert.Equal(t, 1200, stats.Count)
	total := 0
	for _, n := range stats.Kinds {
		total += n
	}
	assert.Equal(t, stats.Count, total)
	assert.Len(t, rec.ops, 1200, "every temperate kind is one primitive")
}

func TestEmitShapes_NilRuleEmitsNothing(t *testing.T) {
	rec := newRecorder()
	stats := EmitShapes(rec, nil, Sample{22, 8}, NewRand(1))
	assert.Zero(t, stats.Count)
	assert.Empty(t, rec.ops)
}

func TestEmitShapes_BoxesAlwaysNormalized(t *testing.T) {
	samples := []Sample{{-20, 0}, {5, 300}, {15, 40}, {22, 8}, {27, 0}, {35, 50}, {48, 250}}

	for _, s := range samples {
		rec := newRecorder()
		EmitShapes(rec, DefaultBands.Rule(s.Temperature), s, NewRand(7))
		for _, o := range rec.ops {
			if o.kind != opEllipse && o.kind != opRect {
				continue
			}
			require.LessOrEqual(t, o.box.X0, o.box.X1, "sample %+v", s)
			require.LessOrEqual(t, o.box.Y0, o.box.Y1, "sample %+v", s)
		}
	}
}

func TestEmitShapes_MildUsesOnlyItsMenu(t *testing.T) {
	s := Sample{15, 5}
	stats := EmitShapes(newRecorder(), DefaultBands.Rule(s.Temperature), s, NewRand(3))

	require.Positive(t, stats.Count)
	for k := range stats.Kinds {
		assert.Contains(t, []ShapeKind{Flower, GrassBlade}, k)
	}
	assert.Positive(t, stats.Kinds[Flower])
	assert.Positive(t, stats.Kinds[GrassBlade])
}

func TestEmitShapes_HotStormy(t *testing.T) {
	s := Sample{35, 50}
	rule := DefaultBands.Rule(s.Temperature)
	rec := newRecorder()

	stats := EmitShapes(rec, rule, s, NewRand(11))

	assert.Equal(t, 1350, stats.Count)
	assert.Positive(t, stats.Kinds[ThunderBolt])

	for _, o := range rec.only(opStroke) {
		switch len(o.pts) {
		case 2:
			assert.Equal(t, stormRed, o.col, "stormy spikes are red")
		case 5:
			assert.Equal(t, thunderColor, o.col)
		default:
			t.Fatalf("unexpected stroke with %d points", len(o.pts))
		}
	}

	// Squares carry the grayed ember palette.
	for _, o := range rec.only(opRect) {
		assert.GreaterOrEqual(t, o.col.R, uint8(160))
		assert.LessOrEqual(t, o.col.R, uint8(200))
		assert.GreaterOrEqual(t, o.col.G, uint8(100))
		assert.LessOrEqual(t, o.col.G, uint8(140))
		assert.GreaterOrEqual(t, o.col.B, uint8(86))
		assert.LessOrEqual(t, o.col.B, uint8(131))
		assert.Equal(t, uint8(ShapeAlpha), o.col.A)
	}
}

func TestEmitShapes_DryEmberHasNoThunder(t *testing.T) {
	s := Sample{27, 5}
	stats := EmitShapes(newRecorder(), DefaultBands.Rule(s.Temperature), s, NewRand(5))
	assert.Zero(t, stats.Kinds[ThunderBolt])
}

func TestEmitShapes_HeavyRainShrinksDroplets(t *testing.T) {
	s := Sample{0, 100}
	rec := newRecorder()
	EmitShapes(rec, DefaultBands.Rule(s.Temperature), s, NewRand(9))

	circles := rec.only(opEllipse)
	require.NotEmpty(t, circles)
	for _, o := range circles {
		assert.Equal(t, 2.0, o.box.Width())
	}
}

func TestEmitShapes_RiverStrokesAreRound(t *testing.T) {
	s := Sample{22, 8}
	rec := newRecorder()
	EmitShapes(rec, DefaultBands.Rule(s.Temperature), s, NewRand(2))

	strokes := rec.only(opStroke)
	require.NotEmpty(t, strokes)
	for _, o := range strokes {
		assert.Equal(t, canvas.JoinRound, o.join)
		assert.Equal(t, riverColor, o.col)
		assert.GreaterOrEqual(t, o.width, 5.0)
	}
}

// --- per-kind geometry ---

var (
	origin   = canvas.Point{X: 600, Y: 600}
	fillGray = color.NRGBA{120, 120, 120, ShapeAlpha}
)

const testSize = 20

func paintOne(kind ShapeKind, seed uint64, rain float64) *recorder {
	rec := newRecorder()
	sp := ShapeSpec{Kind: kind, At: origin, Size: testSize, Fill: fillGray}
	painters[kind](rec, sp, shapeEnv{rng: NewRand(seed), rain: rain})
	return rec
}

func dist(a, b canvas.Point) float64 {
	return math.Hypot(a.X-b.X, a.Y-b.Y)
}

func center(b canvas.Box) canvas.Point {
	return canvas.Point{X: (b.X0 + b.X1) / 2, Y: (b.Y0 + b.Y1) / 2}
}

func assertInRange(t *testing.T, v, lo, hi uint8, msg string) {
	t.Helper()
	assert.GreaterOrEqual(t, v, lo, msg)
	assert.LessOrEqual(t, v, hi, msg)
}

func TestPaintHexagon_RegularAtRadius(t *testing.T) {
	rec := paintOne(Hexagon, 1, 0)
	require.Len(t, rec.ops, 1)
	o := rec.ops[0]
	require.Equal(t, opPolygon, o.kind)
	require.Len(t, o.pts, 6)
	assert.Equal(t, fillGray, o.col)

	assert.InDelta(t, 620, o.pts[0].X, 1e-9)
	assert.InDelta(t, 600, o.pts[0].Y, 1e-9)
	for i, p := range o.pts {
		assert.InDelta(t, testSize, dist(p, origin), 1e-9, "vertex %d radius", i)
		// A regular hexagon's side equals its radius, so neighbours are 60 degrees apart.
		next := o.pts[(i+1)%len(o.pts)]
		assert.InDelta(t, testSize, dist(p, next), 1e-9, "side %d", i)
	}
}

func TestPaintFlower_CenterAndPetals(t *testing.T) {
	for seed := range uint64(40) {
		rec := paintOne(Flower, seed, 0)
		ellipses := rec.only(opEllipse)
		require.Len(t, ellipses, len(rec.ops))
		require.GreaterOrEqual(t, len(ellipses), 1+5)
		require.LessOrEqual(t, len(ellipses), 1+8)

		disc, petals := ellipses[0], ellipses[1:]
		assert.Equal(t, origin, center(disc.box))
		assert.GreaterOrEqual(t, disc.box.Width(), 2*float64(testSize/2/4))
		assert.LessOrEqual(t, disc.box.Width(), 2*float64(testSize/4))

		petal := petals[0].col
		for _, p := range petals {
			assert.Equal(t, petal, p.col, "one hue per flower")
		}
		assert.Equal(t, darken(petal, 50), disc.col)
		assertInRange(t, petal.R, 100, 200, "petal R")
		assertInRange(t, petal.G, 50, 150, "petal G")
		assertInRange(t, petal.B, 150, 250, "petal B")
		assert.Equal(t, uint8(ShapeAlpha), petal.A)
	}
}

func TestPaintGrassBlade_KinkedStroke(t *testing.T) {
	for seed := range uint64(40) {
		rec := paintOne(GrassBlade, seed, 0)
		require.Len(t, rec.ops, 1)
		o := rec.ops[0]
		require.Equal(t, opStroke, o.kind)
		require.Len(t, o.pts, 3)

		base, kink, apex := o.pts[0], o.pts[1], o.pts[2]
		assert.Equal(t, origin, base)
		assert.Equal(t, origin.X, apex.X)

		h := int(origin.Y - apex.Y)
		assert.GreaterOrEqual(t, h, testSize)
		assert.LessOrEqual(t, h, 2*testSize)
		assert.Equal(t, origin.Y-float64(h/2), kink.Y)
		assert.LessOrEqual(t, math.Abs(kink.X-origin.X), float64(testSize/2))

		assert.GreaterOrEqual(t, o.width, 1.0)
		assert.LessOrEqual(t, o.width, 3.0)
		assert.Equal(t, canvas.JoinBevel, o.join)

		assertInRange(t, o.col.R, 80, 150, "grass R")
		assertInRange(t, o.col.G, 180, 255, "grass G")
		assertInRange(t, o.col.B, 80, 150, "grass B")
		assert.Equal(t, uint8(ShapeAlpha), o.col.A)
	}
}

func TestPaintMildFlora_RainWashesOut(t *testing.T) {
	flower := paintOne(Flower, 3, 100)
	for _, o := range flower.ops {
		assert.Equal(t, uint8(110), o.col.A)
	}

	grass := paintOne(GrassBlade, 3, 400)
	require.Len(t, grass.ops, 1)
	assert.Equal(t, uint8(88), grass.ops[0].col.A, "alpha never drops below the wash floor")
}

func TestPaintTriangle_VertexRadius(t *testing.T) {
	for seed := range uint64(40) {
		rec := paintOne(Triangle, seed, 0)
		require.Len(t, rec.ops, 1)
		o := rec.ops[0]
		require.Equal(t, opPolygon, o.kind)
		require.Len(t, o.pts, 3)
		assert.Equal(t, fillGray, o.col)
		for _, p := range o.pts {
			d := dist(p, origin)
			assert.GreaterOrEqual(t, d, float64(testSize)-1e-9)
			assert.Less(t, d, float64(2*testSize))
		}
	}
}

func TestPaintThunder_ZigZag(t *testing.T) {
	for seed := range uint64(40) {
		rec := paintOne(ThunderBolt, seed, 0)
		require.Len(t, rec.ops, 1)
		o := rec.ops[0]
		require.Equal(t, opStroke, o.kind)

		ts := int(o.pts[4].X - origin.X)
		require.GreaterOrEqual(t, ts, testSize)
		require.LessOrEqual(t, ts, 2*testSize)

		x, y := origin.X, origin.Y
		want := []canvas.Point{
			{X: x, Y: y},
			{X: x + float64(ts/3), Y: y + float64(ts/2)},
			{X: x, Y: y + float64(ts)},
			{X: x + float64(ts/2), Y: y + float64(ts/2)},
			{X: x + float64(ts), Y: y},
		}
		assert.Equal(t, want, o.pts)
		assert.Equal(t, thunderColor, o.col)
		assert.GreaterOrEqual(t, o.width, 2.0)
		assert.LessOrEqual(t, o.width, 5.0)
	}
}

func TestPaintLeaf_GreenDisc(t *testing.T) {
	for seed := range uint64(40) {
		rec := paintOne(Leaf, seed, 0)
		require.Len(t, rec.ops, 1)
		o := rec.ops[0]
		require.Equal(t, opEllipse, o.kind)

		assert.Equal(t, origin, center(o.box))
		assert.Equal(t, o.box.Width(), o.box.Height())
		assert.GreaterOrEqual(t, o.box.Width(), 2*float64(testSize/4))
		assert.LessOrEqual(t, o.box.Width(), 2*float64(testSize/2))

		assert.Equal(t, uint8(50), o.col.R)
		assert.Equal(t, uint8(50), o.col.B)
		assertInRange(t, o.col.G, 150, 220, "leaf G")
		assert.Equal(t, uint8(ShapeAlpha), o.col.A)
	}
}

func TestEmitShapes_SameSeedSameOps(t *testing.T) {
	s := Sample{17, 12}
	rule := DefaultBands.Rule(s.Temperature)

	a, b := newRecorder(), newRecorder()
	EmitShapes(a, rule, s, NewRand(99))
	EmitShapes(b, rule, s, NewRand(99))

	assert.Equal(t, a.ops, b.ops)
}

func TestClampInt(t *testing.T) {
	assert.Equal(t, 1, clampInt(-3, 1, 5))
	assert.Equal(t, 5, clampInt(1e300, 1, 5))
	assert.Equal(t, 3, clampInt(3.9, 1, 5))
	assert.Equal(t, 1, clampInt(nanValue(), 1, 5))
}

func TestIntBetween_InvertedRangeCollapses(t *testing.T) {
	rng := NewRand(1)
	for range 100 {
		assert.Equal(t, 4, intBetween(rng, 4, 2))
		v := intBetween(rng, 2, 4)
		assert.GreaterOrEqual(t, v, 2)
		assert.LessOrEqual(t, v, 4)
	}
}
