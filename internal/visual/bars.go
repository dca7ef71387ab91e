package visual

import (
	"image/color"
	"math"

	"github.com/charmbracelet/harmonica"
)

var Background = color.RGBA{0x21, 0x25, 0x29, 0xff}

// Bars is a blocky spectrum analyser. Each bar chases its bin on a spring.
type Bars struct {
	spring harmonica.Spring
	pos    []float64
	vel    []float64
}

func NewBars() *Bars {
	return &Bars{spring: harmonica.NewSpring(harmonica.FPS(60), 8.0, 0.7)}
}

// Heights returns the smoothed bar values from the last render.
func (b *Bars) Heights() []float64 { return b.pos }

func (b *Bars) Render(c Canvas, f Frame) {
	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), Background)

	n := len(f.Freq)
	if n == 0 {
		return
	}
	if len(b.pos) != n {
		b.pos = make([]float64, n)
		b.vel = make([]float64, n)
	}

	barW := float64(w) / float64(n) * 2.5
	x := 0.0
	for i, v := range f.Freq {
		b.pos[i], b.vel[i] = b.spring.Update(b.pos[i], b.vel[i], float64(v))
		if x >= float64(w) {
			continue
		}
		level := math.Max(0, math.Min(255, b.pos[i]))
		quant := math.Floor(level/10) * 10
		barH := quant / 255 * float64(h)
		if barH > 0 {
			c.FillRect(x, float64(h)-barH, barW, barH, BarColor(byte(level)))
		}
		x += barW + 2
	}
}
