package lfo

import "math"

// Waveform selects the modulation shape.
type Waveform int

const (
	WaveSine Waveform = iota
	WaveTriangle
	WaveSquare
	WaveSaw
)

// LFO is a low-frequency oscillator that produces per-sample modulation.
// Synthesis voices own their LFO; nothing is shared between triggers.
type LFO struct {
	depth  float64 // peak deviation, in the units of the modulated parameter
	rateHz float64
	wave   Waveform
	phase  float64 // [0, 1)
}

// New returns an LFO with the given shape, rate and depth.
func New(wave Waveform, rateHz, depth float64) LFO {
	l := LFO{}
	l.Set(depth, rateHz, wave)
	return l
}

// Set configures the LFO parameters. Unknown shapes fall back to sine.
func (l *LFO) Set(depth, rateHz float64, wave Waveform) {
	if wave < WaveSine || wave > WaveSaw {
		wave = WaveSine
	}
	l.depth = depth
	l.rateHz = rateHz
	l.wave = wave
}

// Sample advances the LFO by one sample and returns a value in [-depth, +depth].
// Returns 0 if depth, rate or sample rate is zero.
func (l *LFO) Sample(sampleRate float64) float64 {
	if !l.Active() || sampleRate <= 0 {
		return 0
	}

	var v float64
	switch l.wave {
	case WaveTriangle:
		if l.phase < 0.5 {
			v = 4.0*l.phase - 1.0
		} else {
			v = 3.0 - 4.0*l.phase
		}
	case WaveSquare:
		if l.phase < 0.5 {
			v = 1.0
		} else {
			v = -1.0
		}
	case WaveSaw:
		v = 1.0 - 2.0*l.phase
	default:
		v = math.Sin(2 * math.Pi * l.phase)
	}

	l.phase += l.rateHz / sampleRate
	l.phase -= math.Floor(l.phase)

	return v * l.depth
}

// Active reports whether the LFO has non-zero depth and rate.
func (l *LFO) Active() bool {
	return l.depth != 0 && l.rateHz != 0
}

// Reset zeros the phase.
func (l *LFO) Reset() {
	l.phase = 0
}
