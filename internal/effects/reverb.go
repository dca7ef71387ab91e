package effects

// Reverb is a small Schroeder network: four parallel combs into two allpasses.
type Reverb struct {
	combs   [4]ringFilter
	allpass [2]ringFilter
	wet     float32
}

type ringFilter struct {
	buf []float32
	pos int
	fb  float32
}

// NewReverb creates a reverb effect.
// roomSize: 0..1 scales the delay lengths
// feedback: 0..0.95 controls decay time
// wet: wet/dry mix 0..1
func NewReverb(sampleRate int, roomSize, feedback, wet float32) *Reverb {
	base := max(int(float32(sampleRate)*roomSize*0.05), 10)
	fb := clamp(feedback, 0, 0.95)
	r := &Reverb{wet: clamp(wet, 0, 1)}
	combLens := [4]int{base, base * 1117 / 1000, base * 1271 / 1000, base * 1437 / 1000}
	for i := range r.combs {
		r.combs[i] = ringFilter{buf: make([]float32, combLens[i]), fb: fb}
	}
	apLens := [2]int{base * 347 / 1000, base * 213 / 1000}
	for i := range r.allpass {
		r.allpass[i] = ringFilter{buf: make([]float32, max(apLens[i], 1)), fb: 0.5}
	}
	return r
}

func (r *Reverb) Process(x float32) float32 {
	var out float32
	for i := range r.combs {
		out += r.combs[i].comb(x)
	}
	out *= 0.25
	for i := range r.allpass {
		out = r.allpass[i].allpass(out)
	}
	return x*(1-r.wet) + out*r.wet
}

func (r *Reverb) Reset() {
	for i := range r.combs {
		r.combs[i].reset()
	}
	for i := range r.allpass {
		r.allpass[i].reset()
	}
}

func (f *ringFilter) comb(in float32) float32 {
	out := f.buf[f.pos]
	f.buf[f.pos] = in + out*f.fb
	f.advance()
	return out
}

func (f *ringFilter) allpass(in float32) float32 {
	held := f.buf[f.pos]
	f.buf[f.pos] = in + held*f.fb
	f.advance()
	return held - in
}

func (f *ringFilter) advance() {
	f.pos++
	if f.pos >= len(f.buf) {
		f.pos = 0
	}
}

func (f *ringFilter) reset() {
	clear(f.buf)
	f.pos = 0
}
