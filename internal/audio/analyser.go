package audio

import (
	"math"
	"math/cmplx"
	"sync"

	"github.com/mjibson/go-dsp/fft"
)

const (
	DefaultFFTSize   = 256
	DefaultSmoothing = 0.8
	DefaultMinDB     = -100.0
	DefaultMaxDB     = -30.0
)

// Analyser keeps the most recent fftSize samples of a signal and reports
// byte-scaled spectrum and waveform snapshots, the way a browser analyser
// node does: Blackman window, magnitude smoothing across calls, and a
// decibel range mapped onto 0..255.
type Analyser struct {
	mu        sync.Mutex
	ring      []float32
	pos       int
	smoothing float64
	minDB     float64
	maxDB     float64
	window    []float64
	smoothed  []float64
	frame     []float64
}

func NewAnalyser(fftSize int) *Analyser {
	if fftSize < 32 || fftSize&(fftSize-1) != 0 {
		fftSize = DefaultFFTSize
	}
	a := &Analyser{
		ring:      make([]float32, fftSize),
		smoothing: DefaultSmoothing,
		minDB:     DefaultMinDB,
		maxDB:     DefaultMaxDB,
		window:    make([]float64, fftSize),
		smoothed:  make([]float64, fftSize/2),
		frame:     make([]float64, fftSize),
	}
	const alpha = 0.16
	a0, a1, a2 := 0.5*(1-alpha), 0.5, 0.5*alpha
	for i := range a.window {
		x := float64(i) / float64(fftSize)
		a.window[i] = a0 - a1*math.Cos(2*math.Pi*x) + a2*math.Cos(4*math.Pi*x)
	}
	return a
}

func (a *Analyser) FFTSize() int { return len(a.ring) }

// BinCount returns fftSize/2.
func (a *Analyser) BinCount() int { return len(a.ring) / 2 }

// Write appends mono samples to the analysis window.
func (a *Analyser) Write(samples []float32) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.ring)
	if len(samples) >= n {
		copy(a.ring, samples[len(samples)-n:])
		a.pos = 0
		return
	}
	for _, s := range samples {
		a.ring[a.pos] = s
		a.pos++
		if a.pos == n {
			a.pos = 0
		}
	}
}

// Reset clears the window and the smoothing history.
func (a *Analyser) Reset() {
	a.mu.Lock()
	clear(a.ring)
	clear(a.smoothed)
	a.pos = 0
	a.mu.Unlock()
}

// ByteFrequencyData fills dst (up to BinCount entries) with smoothed
// magnitudes in decibels scaled to 0..255.
func (a *Analyser) ByteFrequencyData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.ring)
	for i := 0; i < n; i++ {
		a.frame[i] = float64(a.ring[(a.pos+i)%n]) * a.window[i]
	}
	spectrum := fft.FFTReal(a.frame)
	scale := 255.0 / (a.maxDB - a.minDB)
	for k := range a.smoothed {
		mag := cmplx.Abs(spectrum[k]) / float64(n)
		a.smoothed[k] = a.smoothing*a.smoothed[k] + (1-a.smoothing)*mag
		if k >= len(dst) {
			continue
		}
		db := math.Inf(-1)
		if a.smoothed[k] > 0 {
			db = 20 * math.Log10(a.smoothed[k])
		}
		v := math.Floor(scale * (db - a.minDB))
		dst[k] = byte(min(max(v, 0), 255))
	}
}

// ByteTimeDomainData fills dst (up to FFTSize entries) with the most recent
// samples mapped so that silence is 128.
func (a *Analyser) ByteTimeDomainData(dst []byte) {
	a.mu.Lock()
	defer a.mu.Unlock()
	n := len(a.ring)
	for i := 0; i < n && i < len(dst); i++ {
		v := math.Floor(128 * (1 + float64(a.ring[(a.pos+i)%n])))
		dst[i] = byte(min(max(v, 0), 255))
	}
}
