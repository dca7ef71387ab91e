package synth

import "math"

// Waveform is an oscillator shape.
type Waveform int

const (
	Sine Waveform = iota
	Square
	Triangle
)

// Floor is the value exponential envelopes decay toward. It is never zero
// since an exponential ramp cannot reach zero.
const Floor = 0.01

// Point is a ramp breakpoint at At seconds after the trigger.
type Point struct {
	At    float64
	Value float64
}

// Ramp holds Start at t=0 and moves exponentially through Points,
// holding the last value afterwards.
type Ramp struct {
	Start  float64
	Points []Point
}

// Const returns a ramp that never moves.
func Const(v float64) Ramp { return Ramp{Start: v} }

// Expo returns a single exponential segment from a to b ending at seconds.
func Expo(a, b, seconds float64) Ramp {
	return Ramp{Start: a, Points: []Point{{At: seconds, Value: b}}}
}

// At evaluates the ramp t seconds after the trigger.
func (r Ramp) At(t float64) float64 {
	if t <= 0 || len(r.Points) == 0 {
		return r.Start
	}
	prevT, prevV := 0.0, r.Start
	for _, p := range r.Points {
		if t < p.At {
			span := p.At - prevT
			if span <= 0 || prevV <= 0 || p.Value <= 0 {
				return p.Value
			}
			return prevV * math.Pow(p.Value/prevV, (t-prevT)/span)
		}
		prevT, prevV = p.At, p.Value
	}
	return prevV
}

// Vibrato modulates an oscillator's frequency.
type Vibrato struct {
	RateHz  float64
	DepthHz float64
}

// Tone is one oscillator.
type Tone struct {
	Wave    Waveform
	Freq    Ramp
	Vibrato *Vibrato
}

// Noise is a white-noise buffer, optionally quantized to Levels steps per
// unit for a bit-crushed sound.
type Noise struct {
	Levels int
}

type FilterType int

const (
	Highpass FilterType = iota
	Bandpass
)

// Filter is a biquad applied to the layer's sources.
type Filter struct {
	Type FilterType
	Freq Ramp
	Q    float64
}

// Layer is one gain stage: sources summed, optionally filtered, then shaped
// by an exponential envelope from Peak down to Floor over Duration.
type Layer struct {
	Tones    []Tone
	Noise    *Noise
	Filter   *Filter
	Peak     float64
	Duration float64
}

func (l Layer) envelope() Ramp {
	return Expo(l.Peak, Floor, l.Duration)
}

// Recipe is the full synthesis graph for one instrument.
type Recipe struct {
	Layers []Layer
}

// Duration is the time until the last layer stops.
func (r Recipe) Duration() float64 {
	var d float64
	for _, l := range r.Layers {
		d = max(d, l.Duration)
	}
	return d
}

const butterworthQ = math.Sqrt2 / 2

func single(l Layer) Recipe { return Recipe{Layers: []Layer{l}} }

// recipes is indexed by Kind; a test asserts every kind has an entry.
var recipes = [numKinds]Recipe{
	Kick: single(Layer{
		Tones:    []Tone{{Wave: Sine, Freq: Expo(180, 0.01, 0.6)}},
		Peak:     1.0,
		Duration: 0.6,
	}),
	Snare: single(Layer{
		Noise:    &Noise{Levels: 4},
		Filter:   &Filter{Type: Highpass, Freq: Const(5000), Q: butterworthQ},
		Peak:     0.9,
		Duration: 0.15,
	}),
	HiHat: single(Layer{
		Noise:    &Noise{},
		Filter:   &Filter{Type: Highpass, Freq: Expo(10000, 7000, 0.08), Q: butterworthQ},
		Peak:     0.4,
		Duration: 0.08,
	}),
	Clap: single(Layer{
		Noise:    &Noise{Levels: 3},
		Peak:     1.0,
		Duration: 0.12,
	}),
	Tom: single(Layer{
		Tones:    []Tone{{Wave: Triangle, Freq: Expo(500, 120, 0.12)}},
		Peak:     0.7,
		Duration: 0.12,
	}),
	Cowbell: single(Layer{
		Tones: []Tone{
			{Wave: Square, Freq: Const(700)},
			{Wave: Square, Freq: Const(1100)},
		},
		Peak:     0.5,
		Duration: 0.25,
	}),
	Blip: single(Layer{
		Tones:    []Tone{{Wave: Sine, Freq: Const(800)}},
		Peak:     0.8,
		Duration: 0.05,
	}),
	Perc: single(Layer{
		Tones:    []Tone{{Wave: Square, Freq: Expo(220, 50, 0.1)}},
		Peak:     0.7,
		Duration: 0.1,
	}),
	Sweep: single(Layer{
		Tones: []Tone{{Wave: Sine, Freq: Ramp{Start: 100, Points: []Point{
			{At: 0.08, Value: 400},
			{At: 0.15, Value: 50},
		}}}},
		Peak:     0.6,
		Duration: 0.15,
	}),
	Buzz: single(Layer{
		Tones:    []Tone{{Wave: Square, Freq: Const(150), Vibrato: &Vibrato{RateHz: 5, DepthHz: 20}}},
		Peak:     0.6,
		Duration: 0.2,
	}),
	Pluck: single(Layer{
		Tones:    []Tone{{Wave: Triangle, Freq: Const(300)}},
		Filter:   &Filter{Type: Bandpass, Freq: Const(800), Q: 8},
		Peak:     0.5,
		Duration: 0.25,
	}),
	Bass: single(Layer{
		Tones:    []Tone{{Wave: Square, Freq: Expo(55, 30, 0.3)}},
		Peak:     0.8,
		Duration: 0.3,
	}),
	Chime: {Layers: []Layer{
		{Tones: []Tone{{Wave: Sine, Freq: Const(440)}}, Peak: 0.3, Duration: 0.4},
		{Tones: []Tone{{Wave: Sine, Freq: Const(880)}}, Peak: 0.3 / 2, Duration: 0.4},
		{Tones: []Tone{{Wave: Sine, Freq: Const(1320)}}, Peak: 0.3 / 3, Duration: 0.4},
	}},
	Zap: single(Layer{
		Noise:    &Noise{},
		Filter:   &Filter{Type: Highpass, Freq: Expo(8000, 2000, 0.15), Q: butterworthQ},
		Peak:     0.7,
		Duration: 0.15,
	}),
}

// RecipeFor returns the recipe for k.
func RecipeFor(k Kind) (Recipe, bool) {
	if !k.Valid() {
		return Recipe{}, false
	}
	return recipes[k], true
}
