package visual

import (
	"image/color"
	"math"
	"math/rand/v2"
)

// Cooldowns are counted in rendered frames (about 300 ms and 250 ms at 60 fps).
const (
	kickCooldown  = 18
	snareCooldown = 15
)

type ring struct {
	radius, maxRadius float64
	speed             float64
	life              float64
	color             color.RGBA
}

// Rings spawns an expanding ring on each kick (bass) and snare (mid) hit.
type Rings struct {
	rings      []ring
	bass, high float64
	sinceKick  int
	sinceSnare int
}

func NewRings() *Rings {
	return &Rings{sinceKick: kickCooldown, sinceSnare: snareCooldown}
}

// Len reports how many rings are alive.
func (r *Rings) Len() int { return len(r.rings) }

func (r *Rings) Render(c Canvas, f Frame) {
	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), color.RGBA{10, 10, 10, 255})

	levels := Bands(f.Freq)
	r.bass = r.bass*0.7 + levels.Bass*0.3
	r.high = r.high*0.7 + levels.High*0.3
	r.sinceKick++
	r.sinceSnare++

	size := math.Min(float64(w), float64(h))
	if r.bass > 0.5 && r.sinceKick > kickCooldown {
		r.rings = append(r.rings, ring{maxRadius: size * 0.8, speed: 2 + r.bass*3, color: Blue})
		r.sinceKick = 0
	}
	if levels.Mid > 0.6 && r.sinceSnare > snareCooldown {
		r.rings = append(r.rings, ring{maxRadius: size * 0.6, speed: 3 + levels.Mid*2, color: Magenta})
		r.sinceSnare = 0
	}

	cx, cy := float64(w)/2, float64(h)/2
	jitter := r.high * 8
	alive := r.rings[:0]
	for _, rg := range r.rings {
		rg.radius += rg.speed
		rg.life = 1 - rg.radius/rg.maxRadius
		if rg.life <= 0 {
			continue
		}
		jx := (rand.Float64() - 0.5) * jitter
		jy := (rand.Float64() - 0.5) * jitter
		Circle(c, cx+jx, cy+jy, rg.radius, fade(rg.color, rg.life*0.8))
		alive = append(alive, rg)
	}
	r.rings = alive

	pulse := 4 + r.bass*15
	c.FillRect(cx-pulse/2, cy-pulse/2, pulse, pulse, fade(Cyan, 0.6+r.bass*0.4))
}
