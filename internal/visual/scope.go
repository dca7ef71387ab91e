package visual

// Scope draws the waveform, aligned on a rising zero crossing so it holds
// still on periodic input.
type Scope struct{}

func NewScope() *Scope { return &Scope{} }

func (s *Scope) Render(c Canvas, f Frame) {
	w, h := c.Size()
	c.FillRect(0, 0, float64(w), float64(h), Background)
	mid := float64(h) / 2
	c.Line(0, mid, float64(w), mid, fade(Blue, 0.3))

	n := len(f.Wave)
	if n < 2 {
		return
	}
	start := ZeroCrossing(f.Wave)
	span := n - start
	if span < 2 {
		start, span = 0, n
	}

	step := float64(w) / float64(span-1)
	px, py := 0.0, waveY(f.Wave[start], h)
	for i := 1; i < span; i++ {
		x, yy := float64(i)*step, waveY(f.Wave[start+i], h)
		c.Line(px, py, x, yy, Cyan)
		px, py = x, yy
	}
}

func waveY(v byte, h int) float64 {
	return float64(h) * (1 - float64(v)/255)
}

// ZeroCrossing returns the first index in the first half of wave where the
// signal rises through Silence, or 0.
func ZeroCrossing(wave []byte) int {
	for i := 1; i < len(wave)/2; i++ {
		if wave[i-1] < Silence && wave[i] >= Silence {
			return i
		}
	}
	return 0
}
