package ui

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

// imageCanvas lets visualizers draw onto an offscreen ebiten image.
type imageCanvas struct {
	img *ebiten.Image
}

func (c imageCanvas) Size() (int, int) {
	b := c.img.Bounds()
	return b.Dx(), b.Dy()
}

func (c imageCanvas) FillRect(x, y, w, h float64, clr color.Color) {
	ebitenutil.DrawRect(c.img, x, y, w, h, clr)
}

func (c imageCanvas) Line(x0, y0, x1, y1 float64, clr color.Color) {
	ebitenutil.DrawLine(c.img, x0, y0, x1, y1, clr)
}
