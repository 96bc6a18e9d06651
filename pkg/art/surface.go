package art

import (
	"image"
	"image/color"

	"golang.org/x/image/font"

	"github.com/xob0t/weatherart/pkg/canvas"
)

// Surface is the drawing target of a render. *canvas.Canvas implements it.
type Surface interface {
	Size() (w, h int)
	FillPolygon(pts []canvas.Point, col color.Color)
	FillEllipse(b canvas.Box, col color.Color)
	FillRect(b canvas.Box, col color.Color)
	StrokePolyline(pts []canvas.Point, col color.Color, width float64, join canvas.Join)
	TextBox(box canvas.Box, bg color.Color, text string, textX float64, fg color.Color, face font.Face)
	Composite(layer image.Image)
}

var _ Surface = (*canvas.Canvas)(nil)
