package synth

import (
	"math"
	"math/rand/v2"

	"github.com/cbegin/beatmaker-go/internal/lfo"
)

type oscillator struct {
	wave    Waveform
	freq    Ramp
	vibrato *lfo.LFO
	phase   float64
}

func (o *oscillator) next(t, sampleRate float64) float64 {
	var v float64
	switch o.wave {
	case Square:
		if o.phase < 0.5 {
			v = 1
		} else {
			v = -1
		}
	case Triangle:
		switch {
		case o.phase < 0.25:
			v = 4 * o.phase
		case o.phase < 0.75:
			v = 2 - 4*o.phase
		default:
			v = 4*o.phase - 4
		}
	default:
		v = math.Sin(2 * math.Pi * o.phase)
	}
	f := o.freq.At(t)
	if o.vibrato != nil {
		f += o.vibrato.Sample(sampleRate)
	}
	o.phase += f / sampleRate
	o.phase -= math.Floor(o.phase)
	return v
}

// layerVoice renders one Layer starting at an absolute frame. It owns all of
// its state, so overlapping triggers never interfere.
type layerVoice struct {
	sampleRate float64
	start      int64
	length     int64
	oscs       []oscillator
	noise      []float32
	filter     *biquad
	filterFreq Ramp
	env        Ramp
}

func newLayerVoice(l Layer, sampleRate int, start int64) *layerVoice {
	sr := float64(sampleRate)
	v := &layerVoice{
		sampleRate: sr,
		start:      start,
		length:     int64(math.Ceil(l.Duration * sr)),
		env:        l.envelope(),
	}
	for _, t := range l.Tones {
		o := oscillator{wave: t.Wave, freq: t.Freq}
		if t.Vibrato != nil {
			mod := lfo.New(lfo.WaveSine, t.Vibrato.RateHz, t.Vibrato.DepthHz)
			o.vibrato = &mod
		}
		v.oscs = append(v.oscs, o)
	}
	if l.Noise != nil {
		v.noise = noiseBuffer(int(v.length), l.Noise.Levels)
	}
	if l.Filter != nil {
		v.filterFreq = l.Filter.Freq
		v.filter = newBiquad(l.Filter.Type, sr, l.Filter.Freq.Start, l.Filter.Q)
	}
	return v
}

// noiseBuffer fills n samples of uniform noise in [-1, 1), rounded to
// levels steps per unit when levels > 0.
func noiseBuffer(n, levels int) []float32 {
	buf := make([]float32, n)
	for i := range buf {
		r := rand.Float64()*2 - 1
		if levels > 0 {
			r = math.Round(r*float64(levels)) / float64(levels)
		}
		buf[i] = float32(r)
	}
	return buf
}

func (v *layerVoice) Process(dst []float32, start int64) bool {
	end := v.start + v.length
	for i := range dst {
		n := start + int64(i) - v.start
		if n < 0 {
			continue
		}
		if n >= v.length {
			break
		}
		t := float64(n) / v.sampleRate
		var x float64
		for j := range v.oscs {
			x += v.oscs[j].next(t, v.sampleRate)
		}
		if v.noise != nil {
			x += float64(v.noise[n])
		}
		if v.filter != nil {
			v.filter.setFreq(v.filterFreq.At(t))
			x = v.filter.process(x)
		}
		dst[i] += float32(x * v.env.At(t))
	}
	return start+int64(len(dst)) < end
}
