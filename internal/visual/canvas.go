package visual

import (
	"image/color"
	"math"
)

// Canvas is the drawing surface a visualizer renders onto.
type Canvas interface {
	Size() (w, h int)
	FillRect(x, y, w, h float64, c color.Color)
	Line(x0, y0, x1, y1 float64, c color.Color)
}

// Circle strokes a circle as a closed polyline.
func Circle(c Canvas, cx, cy, r float64, col color.Color) {
	if r <= 0 {
		return
	}
	segments := max(12, int(r/3))
	px, py := cx+r, cy
	for i := 1; i <= segments; i++ {
		a := 2 * math.Pi * float64(i) / float64(segments)
		x, y := cx+r*math.Cos(a), cy+r*math.Sin(a)
		c.Line(px, py, x, y, col)
		px, py = x, y
	}
}

func fade(c color.RGBA, alpha float64) color.RGBA {
	alpha = math.Max(0, math.Min(1, alpha))
	return color.RGBA{
		R: uint8(float64(c.R) * alpha),
		G: uint8(float64(c.G) * alpha),
		B: uint8(float64(c.B) * alpha),
		A: uint8(255 * alpha),
	}
}
