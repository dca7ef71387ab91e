package ui

import (
	"image"
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
)

const (
	textScale = 2
	charW     = 7 * textScale
	lineH     = 14 * textScale
)

var (
	bgColor     = color.RGBA{206, 206, 206, 255}
	panelColor  = color.RGBA{192, 192, 192, 255}
	borderColor = color.RGBA{128, 128, 128, 255}

	bevelLight  = color.RGBA{255, 255, 255, 255}
	bevelDarker = color.RGBA{64, 64, 64, 255}

	sunkenBgColor   = color.RGBA{33, 37, 41, 255}
	screenColor     = color.RGBA{139, 172, 15, 255}
	screenTextColor = color.RGBA{15, 56, 15, 255}
	highlightColor  = color.RGBA{0, 0, 128, 255}
	sliderFillColor = color.RGBA{0, 0, 128, 255}

	cellOff      = color.RGBA{51, 51, 51, 255}
	cellOn       = color.RGBA{146, 204, 65, 255}
	cellCursor   = color.RGBA{85, 85, 85, 255}
	padLitColor  = color.RGBA{255, 190, 11, 255}
	errTextColor = color.RGBA{255, 80, 80, 255}
)

type textPainter struct {
	cache map[string]*ebiten.Image
}

func newTextPainter() *textPainter {
	return &textPainter{cache: make(map[string]*ebiten.Image, 512)}
}

// draw renders msg with an embossed shadow. Rendered strings are cached.
func (p *textPainter) draw(screen *ebiten.Image, msg string, x, y int, clr color.Color) {
	if msg == "" {
		return
	}
	img := p.cache[msg]
	if img == nil {
		w := max(1, len([]rune(msg))*7)
		img = ebiten.NewImage(w, 14)
		ebitenutil.DebugPrintAt(img, msg, 0, 0)
		if len(p.cache) > 2000 {
			p.cache = make(map[string]*ebiten.Image, 512)
		}
		p.cache[msg] = img
	}
	opS := &ebiten.DrawImageOptions{}
	opS.GeoM.Scale(textScale, textScale)
	opS.GeoM.Translate(float64(x+2), float64(y+2))
	opS.ColorScale.Scale(0, 0, 0, 0.6)
	screen.DrawImage(img, opS)

	op := &ebiten.DrawImageOptions{}
	op.GeoM.Scale(textScale, textScale)
	op.GeoM.Translate(float64(x), float64(y))
	op.ColorScale.ScaleWithColor(clr)
	screen.DrawImage(img, op)
}

// centered draws msg in the middle of rect.
func (p *textPainter) centered(screen *ebiten.Image, msg string, rect image.Rectangle, clr color.Color) {
	msg = shortenEnd(msg, max(1, (rect.Dx()-8)/charW))
	x := rect.Min.X + (rect.Dx()-len([]rune(msg))*charW)/2
	y := rect.Min.Y + (rect.Dy()-lineH)/2
	p.draw(screen, msg, x, y, clr)
}

func fillRect(screen *ebiten.Image, rect image.Rectangle, clr color.Color) {
	ebitenutil.DrawRect(screen, float64(rect.Min.X), float64(rect.Min.Y), float64(rect.Dx()), float64(rect.Dy()), clr)
}

func drawPanel(screen *ebiten.Image, rect image.Rectangle) {
	fillRect(screen, rect, panelColor)
	drawBorder(screen, rect)
}

func drawSunkenPanel(screen *ebiten.Image, rect image.Rectangle, fill color.Color) {
	fillRect(screen, rect, fill)
	drawSunkenBorder(screen, rect)
}

// drawButton draws a raised button, or a pressed one when down is set.
func (p *textPainter) drawButton(screen *ebiten.Image, rect image.Rectangle, label string, down bool) {
	fillRect(screen, rect, panelColor)
	if down {
		drawSunkenBorder(screen, rect)
	} else {
		drawBorder(screen, rect)
	}
	p.centered(screen, label, rect, color.White)
}

// drawBorder draws a raised bevel (highlight top/left, shadow bottom/right).
func drawBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, bevelLight)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, bevelLight)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+h-2, w-3, 1, borderColor)
	ebitenutil.DrawRect(screen, x+w-2, y+1, 1, h-3, borderColor)
}

// drawSunkenBorder draws the inverse bevel.
func drawSunkenBorder(screen *ebiten.Image, rect image.Rectangle) {
	x := float64(rect.Min.X)
	y := float64(rect.Min.Y)
	w := float64(rect.Dx())
	h := float64(rect.Dy())
	ebitenutil.DrawRect(screen, x, y, w-1, 1, borderColor)
	ebitenutil.DrawRect(screen, x, y+1, 1, h-2, borderColor)
	ebitenutil.DrawRect(screen, x, y+h-1, w, 1, bevelLight)
	ebitenutil.DrawRect(screen, x+w-1, y, 1, h, bevelLight)
	ebitenutil.DrawRect(screen, x+1, y+1, w-3, 1, bevelDarker)
	ebitenutil.DrawRect(screen, x+1, y+2, 1, h-4, bevelDarker)
}

// slider is a labelled horizontal track. The track starts labelW pixels
// into the rect.
type slider struct {
	rect   image.Rectangle
	labelW int
}

func (s slider) track() image.Rectangle {
	x := s.rect.Min.X + s.labelW
	y := s.rect.Min.Y + s.rect.Dy()/2 - 4
	return image.Rect(x, y, s.rect.Max.X-16, y+8)
}

// value maps a mouse x onto [0, 1].
func (s slider) value(mx int) float64 {
	tr := s.track()
	if tr.Dx() <= 0 {
		return 0
	}
	return clamp(float64(mx-tr.Min.X)/float64(tr.Dx()), 0, 1)
}

func (p *textPainter) drawSlider(screen *ebiten.Image, s slider, label string, frac float64) {
	drawPanel(screen, s.rect)
	p.draw(screen, label, s.rect.Min.X+8, s.rect.Min.Y+(s.rect.Dy()-lineH)/2, color.White)

	tr := s.track()
	if tr.Dx() < 20 {
		return
	}
	fillRect(screen, tr, bevelDarker)
	ebitenutil.DrawRect(screen, float64(tr.Min.X), float64(tr.Min.Y), float64(tr.Dx()-1), 1, borderColor)
	fillW := int(float64(tr.Dx()) * clamp(frac, 0, 1))
	if fillW > 2 {
		ebitenutil.DrawRect(screen, float64(tr.Min.X+1), float64(tr.Min.Y+1), float64(fillW-1), 6, sliderFillColor)
	}
	knobX := min(max(tr.Min.X+fillW-5, tr.Min.X-5), tr.Max.X-5)
	knob := image.Rect(knobX, tr.Min.Y-4, knobX+10, tr.Min.Y+12)
	fillRect(screen, knob, panelColor)
	drawBorder(screen, knob)
}

func shortenEnd(s string, maxChars int) string {
	r := []rune(s)
	if len(r) <= maxChars {
		return s
	}
	if maxChars <= 3 {
		return string(r[:max(0, maxChars)])
	}
	return string(r[:maxChars-3]) + "..."
}

func clamp(v, minV, maxV float64) float64 {
	if v < minV {
		return minV
	}
	if v > maxV {
		return maxV
	}
	return v
}

func pointInRect(x, y int, rect image.Rectangle) bool {
	return x >= rect.Min.X && x < rect.Max.X && y >= rect.Min.Y && y < rect.Max.Y
}
