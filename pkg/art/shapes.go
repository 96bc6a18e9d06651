// shapes.go - Stochastic shape emission. For a band rule, the emitter derives
// a count and a size envelope from the sample, then draws that many shapes,
// each with a kind sampled from the band's menu, a uniform position, a size
// from the envelope and a fill from the color mixer.
package art

import (
	"image/color"
	"math"

	"github.com/xob0t/weatherart/pkg/canvas"
)

// ShapeKind is a primitive the emitter can draw.
type ShapeKind int

const (
	Hexagon ShapeKind = iota
	TinyCircle
	Flower
	GrassBlade
	Triangle
	Rectangle
	RiverStroke
	Leaf
	Square
	Spike
	ThunderBolt
	numShapeKinds
)

var shapeNames = [numShapeKinds]string{
	Hexagon:     "hexagon",
	TinyCircle:  "tiny_circle",
	Flower:      "flower",
	GrassBlade:  "grass_blade",
	Triangle:    "triangle",
	Rectangle:   "rectangle",
	RiverStroke: "river_stroke",
	Leaf:        "leaf",
	Square:      "square",
	Spike:       "spike",
	ThunderBolt: "thunder_bolt",
}

func (k ShapeKind) String() string {
	if k < 0 || k >= numShapeKinds {
		return "unknown"
	}
	return shapeNames[k]
}

// ShapeSpec is one sampled shape, alive only while it is drawn.
type ShapeSpec struct {
	Kind ShapeKind
	At   canvas.Point
	Size int
	Fill color.NRGBA
}

// EmitStats summarizes a shape pass.
type EmitStats struct {
	Count int
	Kinds map[ShapeKind]int
}

// shapeEnv carries what painters need beyond the sampled shape.
type shapeEnv struct {
	rng    Rand
	rain   float64
	stormy bool
}

type painter func(dst Surface, sp ShapeSpec, env shapeEnv)

var painters = [numShapeKinds]painter{
	Hexagon:     paintHexagon,
	TinyCircle:  paintTinyCircle,
	Flower:      paintFlower,
	GrassBlade:  paintGrassBlade,
	Triangle:    paintTriangle,
	Rectangle:   paintRectangle,
	RiverStroke: paintRiver,
	Leaf:        paintLeaf,
	Square:      paintSquare,
	Spike:       paintSpike,
	ThunderBolt: paintThunder,
}

// EmitShapes draws rule.ShapeCount(s) shapes onto dst. A nil rule emits nothing.
func EmitShapes(dst Surface, rule *BandRule, s Sample, rng Rand) EmitStats {
	stats := EmitStats{Kinds: make(map[ShapeKind]int)}
	if rule == nil {
		return stats
	}

	n := rule.ShapeCount(s)
	lo, hi := rule.SizeBounds(s)
	kinds := rule.Kinds(s.Rainfall)
	env := shapeEnv{rng: rng, rain: s.Rainfall, stormy: rule.Stormy(s.Rainfall)}
	w, h := dst.Size()

	for range n {
		sp := ShapeSpec{
			Kind: pick(rng, kinds),
			At:   canvas.Point{X: float64(rng.IntN(max(w, 1))), Y: float64(rng.IntN(max(h, 1)))},
			Size: intBetween(rng, lo, hi),
			Fill: ColorFor(rule, s, rng),
		}
		painters[sp.Kind](dst, sp, env)
		stats.Kinds[sp.Kind]++
		stats.Count++
	}
	return stats
}

// clampInt converts v to an int after clamping it to [lo, hi].
func clampInt(v float64, lo, hi int) int {
	switch {
	case math.IsNaN(v), v <= float64(lo):
		return lo
	case v >= float64(hi):
		return hi
	default:
		return int(v)
	}
}

// polar returns the point at distance r and angle a from p.
func polar(p canvas.Point, r, a float64) canvas.Point {
	return canvas.Point{X: p.X + r*math.Cos(a), Y: p.Y + r*math.Sin(a)}
}

// square box of half-width r around p.
func around(p canvas.Point, r float64) canvas.Box {
	return canvas.Box{X0: p.X - r, Y0: p.Y - r, X1: p.X + r, Y1: p.Y + r}
}

func paintHexagon(dst Surface, sp ShapeSpec, _ shapeEnv) {
	pts := make([]canvas.Point, 6)
	for i := range pts {
		pts[i] = polar(sp.At, float64(sp.Size), float64(i)*math.Pi/3)
	}
	dst.FillPolygon(pts, sp.Fill)
}

// Heavier rain leaves smaller droplet marks.
func paintTinyCircle(dst Surface, sp ShapeSpec, env shapeEnv) {
	r := intBetween(env.rng, 1, clampInt(5-env.rain*0.05, 1, 5))
	dst.FillEllipse(around(sp.At, float64(r)).Normalize(), sp.Fill)
}

func paintFlower(dst Surface, sp ShapeSpec, env shapeEnv) {
	fs := intBetween(env.rng, sp.Size/2, sp.Size)
	petals := intBetween(env.rng, 5, 8)
	petal := petalColor(env.rng)

	dst.FillEllipse(around(sp.At, float64(fs/4)).Normalize(), washed(darken(petal, 50), env.rain))
	petal = washed(petal, env.rain)

	inner := canvas.Point{X: sp.At.X - float64(fs/6), Y: sp.At.Y - float64(fs/6)}
	for i := range petals {
		tip := polar(sp.At, float64(fs), float64(i)*2*math.Pi/float64(petals))
		box := canvas.Box{X0: inner.X, Y0: inner.Y, X1: tip.X, Y1: tip.Y}
		dst.FillEllipse(box.Normalize(), petal)
	}
}

func paintGrassBlade(dst Surface, sp ShapeSpec, env shapeEnv) {
	height := intBetween(env.rng, sp.Size, sp.Size*2)
	col := washed(grassColor(env.rng), env.rain)
	kink := intBetween(env.rng, -sp.Size/2, sp.Size/2)
	width := intBetween(env.rng, 1, 3)

	pts := []canvas.Point{
		sp.At,
		{X: sp.At.X + float64(kink), Y: sp.At.Y - float64(height/2)},
		{X: sp.At.X, Y: sp.At.Y - float64(height)},
	}
	dst.StrokePolyline(pts, col, float64(width), canvas.JoinBevel)
}

func paintTriangle(dst Surface, sp ShapeSpec, env shapeEnv) {
	pts := make([]canvas.Point, 3)
	for i := range pts {
		a := float64(i)*2*math.Pi/3 + floatBetween(env.rng, -0.5, 0.5)
		r := float64(sp.Size) * floatBetween(env.rng, 1, 2)
		pts[i] = polar(sp.At, r, a)
	}
	dst.FillPolygon(pts, sp.Fill)
}

func paintRectangle(dst Surface, sp ShapeSpec, env shapeEnv) {
	w := intBetween(env.rng, sp.Size/2, sp.Size)
	h := intBetween(env.rng, sp.Size/2, sp.Size)
	box := canvas.Box{X0: sp.At.X, Y0: sp.At.Y, X1: sp.At.X + float64(w), Y1: sp.At.Y + float64(h)}
	dst.FillRect(box.Normalize(), sp.Fill)
}

func paintRiver(dst Surface, sp ShapeSpec, env shapeEnv) {
	width := intBetween(env.rng, sp.Size/4, sp.Size/2)
	length := intBetween(env.rng, sp.Size*2, sp.Size*5)
	end := polar(sp.At, float64(length), floatBetween(env.rng, 0, 2*math.Pi))
	end.X, end.Y = math.Trunc(end.X), math.Trunc(end.Y)
	dst.StrokePolyline([]canvas.Point{sp.At, end}, riverColor, float64(width), canvas.JoinRound)
}

func paintLeaf(dst Surface, sp ShapeSpec, env shapeEnv) {
	r := intBetween(env.rng, sp.Size/4, sp.Size/2)
	dst.FillEllipse(around(sp.At, float64(r)).Normalize(), leafColor(env.rng))
}

func paintSquare(dst Surface, sp ShapeSpec, env shapeEnv) {
	side := float64(intBetween(env.rng, sp.Size/2, sp.Size))
	box := canvas.Box{X0: sp.At.X, Y0: sp.At.Y, X1: sp.At.X + side, Y1: sp.At.Y + side}
	dst.FillRect(box.Normalize(), sp.Fill)
}

// Spikes turn red once rain is significant.
func paintSpike(dst Surface, sp ShapeSpec, env shapeEnv) {
	length := intBetween(env.rng, sp.Size/2, sp.Size)
	width := intBetween(env.rng, 1, 5)
	end := polar(sp.At, float64(length), floatBetween(env.rng, 0, 2*math.Pi))
	end.X, end.Y = math.Trunc(end.X), math.Trunc(end.Y)

	col := sp.Fill
	if env.stormy {
		col = stormRed
	}
	dst.StrokePolyline([]canvas.Point{sp.At, end}, col, float64(width), canvas.JoinBevel)
}

func paintThunder(dst Surface, sp ShapeSpec, env shapeEnv) {
	ts := intBetween(env.rng, sp.Size, sp.Size*2)
	x, y := sp.At.X, sp.At.Y
	pts := []canvas.Point{
		{X: x, Y: y},
		{X: x + float64(ts/3), Y: y + float64(ts/2)},
		{X: x, Y: y + float64(ts)},
		{X: x + float64(ts/2), Y: y + float64(ts/2)},
		{X: x + float64(ts), Y: y},
	}
	dst.StrokePolyline(pts, thunderColor, float64(intBetween(env.rng, 2, 5)), canvas.JoinBevel)
}
