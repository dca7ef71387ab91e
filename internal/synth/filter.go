package synth

import "math"

// biquad is a direct form I filter using the RBJ cookbook coefficients.
type biquad struct {
	typ                FilterType
	sampleRate         float64
	q                  float64
	freq               float64
	b0, b1, b2, a1, a2 float64
	x1, x2, y1, y2     float64
}

func newBiquad(typ FilterType, sampleRate, freq, q float64) *biquad {
	if q <= 0 {
		q = butterworthQ
	}
	f := &biquad{typ: typ, sampleRate: sampleRate, q: q}
	f.setFreq(freq)
	return f
}

// maxCutoff is the highest cutoff as a fraction of the sample rate. Closer
// to Nyquist the RBJ highpass collapses and barely passes anything.
const maxCutoff = 0.45

// setFreq recomputes coefficients when the cutoff moves.
func (f *biquad) setFreq(freq float64) {
	freq = min(max(freq, 1), f.sampleRate*maxCutoff)
	if freq == f.freq {
		return
	}
	f.freq = freq
	w0 := 2 * math.Pi * freq / f.sampleRate
	cosW, sinW := math.Cos(w0), math.Sin(w0)
	alpha := sinW / (2 * f.q)

	var b0, b1, b2 float64
	switch f.typ {
	case Bandpass:
		b0, b1, b2 = alpha, 0, -alpha
	default:
		b0 = (1 + cosW) / 2
		b1 = -(1 + cosW)
		b2 = (1 + cosW) / 2
	}
	a0 := 1 + alpha
	f.b0, f.b1, f.b2 = b0/a0, b1/a0, b2/a0
	f.a1, f.a2 = -2*cosW/a0, (1-alpha)/a0
}

func (f *biquad) process(x float64) float64 {
	y := f.b0*x + f.b1*f.x1 + f.b2*f.x2 - f.a1*f.y1 - f.a2*f.y2
	f.x2, f.x1 = f.x1, x
	f.y2, f.y1 = f.y1, y
	return y
}
