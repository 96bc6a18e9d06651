// canvas.go - Fixed-size raster surface with the drawing primitives the art
// engine needs: filled polygon, ellipse and rectangle, stroked poly-lines with
// optional round joins, a captioned box, and whole-layer alpha compositing.
// Drawing is delegated to fogleman/gg; every fill honors the color's alpha.
package canvas

import (
	"image"
	"image/color"

	"github.com/fogleman/gg"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
)

// Point is a position in canvas pixels.
type Point struct {
	X, Y float64
}

// Box is an axis-aligned bounding box. Callers may build it from inverted
// corners; primitives always draw its normalized form.
type Box struct {
	X0, Y0, X1, Y1 float64
}

// Normalize swaps corners so that X0 <= X1 and Y0 <= Y1.
func (b Box) Normalize() Box {
	if b.X0 > b.X1 {
		b.X0, b.X1 = b.X1, b.X0
	}
	if b.Y0 > b.Y1 {
		b.Y0, b.Y1 = b.Y1, b.Y0
	}
	return b
}

// Width of the normalized box.
func (b Box) Width() float64 {
	n := b.Normalize()
	return n.X1 - n.X0
}

// Height of the normalized box.
func (b Box) Height() float64 {
	n := b.Normalize()
	return n.Y1 - n.Y0
}

// Join selects how stroked poly-line segments meet.
type Join int

const (
	// JoinBevel cuts the joints flat and leaves butt line ends.
	JoinBevel Join = iota
	// JoinRound rounds both the joints and the line ends.
	JoinRound
)

// Canvas owns an RGBA pixel buffer and a gg context drawing into it.
type Canvas struct {
	img *image.RGBA
	dc  *gg.Context
}

// New creates a w×h canvas filled with bg.
func New(w, h int, bg color.Color) *Canvas {
	img := image.NewRGBA(image.Rect(0, 0, max(w, 1), max(h, 1)))
	dc := gg.NewContextForRGBA(img)
	dc.SetColor(bg)
	dc.Clear()
	return &Canvas{img: img, dc: dc}
}

// Size returns the canvas dimensions.
func (c *Canvas) Size() (w, h int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

// Image exposes the underlying buffer.
func (c *Canvas) Image() *image.RGBA {
	return c.img
}

// FillPolygon fills the closed polygon through pts.
func (c *Canvas) FillPolygon(pts []Point, col color.Color) {
	if len(pts) < 3 {
		return
	}
	c.dc.NewSubPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.ClosePath()
	c.dc.SetColor(col)
	c.dc.Fill()
}

// FillEllipse fills the ellipse inscribed in b.
func (c *Canvas) FillEllipse(b Box, col color.Color) {
	b = b.Normalize()
	c.dc.DrawEllipse((b.X0+b.X1)/2, (b.Y0+b.Y1)/2, (b.X1-b.X0)/2, (b.Y1-b.Y0)/2)
	c.dc.SetColor(col)
	c.dc.Fill()
}

// FillRect fills b.
func (c *Canvas) FillRect(b Box, col color.Color) {
	b = b.Normalize()
	c.dc.DrawRectangle(b.X0, b.Y0, b.X1-b.X0, b.Y1-b.Y0)
	c.dc.SetColor(col)
	c.dc.Fill()
}

// StrokePolyline strokes the open path through pts.
func (c *Canvas) StrokePolyline(pts []Point, col color.Color, width float64, join Join) {
	if len(pts) < 2 {
		return
	}
	c.dc.Push()
	defer c.dc.Pop()

	switch join {
	case JoinRound:
		c.dc.SetLineJoin(gg.LineJoinRound)
		c.dc.SetLineCap(gg.LineCapRound)
	default:
		c.dc.SetLineJoin(gg.LineJoinBevel)
		c.dc.SetLineCap(gg.LineCapButt)
	}
	c.dc.SetLineWidth(max(width, 1))

	c.dc.NewSubPath()
	c.dc.MoveTo(pts[0].X, pts[0].Y)
	for _, p := range pts[1:] {
		c.dc.LineTo(p.X, p.Y)
	}
	c.dc.SetColor(col)
	c.dc.Stroke()
}

// TextBox fills box with bg and writes text over it in fg, starting at
// textX and vertically centered in the box.
func (c *Canvas) TextBox(box Box, bg color.Color, text string, textX float64, fg color.Color, face font.Face) {
	box = box.Normalize()
	c.FillRect(box, bg)

	m := face.Metrics()
	ascent := float64(m.Ascent.Round())
	descent := float64(m.Descent.Round())
	baseline := box.Y0 + (box.Y1-box.Y0+ascent-descent)/2

	c.dc.SetFontFace(face)
	c.dc.SetColor(fg)
	c.dc.DrawString(text, textX, baseline)
}

// Composite blends layer over the whole canvas (Porter-Duff "over").
func (c *Canvas) Composite(layer image.Image) {
	draw.Draw(c.img, c.img.Bounds(), layer, layer.Bounds().Min, draw.Over)
}
