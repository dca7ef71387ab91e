package audio

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/cbegin/beatmaker-go/internal/effects"
)

// Voice is a short-lived signal generator mixed into a Graph.
// Process adds mono samples for the frames [start, start+len(dst)) into dst
// and reports whether the voice still has anything left to play.
type Voice interface {
	Process(dst []float32, start int64) bool
}

// DefaultGain is the master gain a new graph starts with.
const DefaultGain = 0.8

// Graph is the shared output graph: voices are summed, run through the
// optional master effects, scaled by the master gain and fed to the analyser
// before reaching the device. The device pulls Process from its own goroutine.
type Graph struct {
	sampleRate int

	mu     sync.Mutex
	voices []Voice
	fx     *effects.Chain
	mono   []float32

	frame    atomic.Int64
	gain     atomic.Uint32 // float32 bit pattern
	analyser *Analyser
}

// GraphOption configures a Graph.
type GraphOption func(*Graph)

// WithEffects installs a master effect chain ahead of the master gain.
func WithEffects(chain *effects.Chain) GraphOption {
	return func(g *Graph) {
		g.fx = chain
	}
}

// WithAnalyser replaces the default analyser.
func WithAnalyser(a *Analyser) GraphOption {
	return func(g *Graph) {
		g.analyser = a
	}
}

// WithGain sets the initial master gain.
func WithGain(v float64) GraphOption {
	return func(g *Graph) {
		g.SetGain(v)
	}
}

func NewGraph(sampleRate int, opts ...GraphOption) *Graph {
	g := &Graph{sampleRate: sampleRate}
	g.SetGain(DefaultGain)
	for _, opt := range opts {
		opt(g)
	}
	if g.analyser == nil {
		g.analyser = NewAnalyser(DefaultFFTSize)
	}
	return g
}

func (g *Graph) SampleRate() int { return g.sampleRate }

// Frame returns the number of frames rendered so far.
func (g *Graph) Frame() int64 { return g.frame.Load() }

// Now returns the graph clock in seconds.
func (g *Graph) Now() float64 {
	return float64(g.frame.Load()) / float64(g.sampleRate)
}

// FrameAt converts a graph time in seconds into an absolute frame index.
func (g *Graph) FrameAt(seconds float64) int64 {
	return int64(math.Round(seconds * float64(g.sampleRate)))
}

// Add schedules a voice. It is safe to call from any goroutine.
func (g *Graph) Add(v Voice) {
	if v == nil {
		return
	}
	g.mu.Lock()
	g.voices = append(g.voices, v)
	g.mu.Unlock()
}

// Active returns the number of voices still sounding.
func (g *Graph) Active() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return len(g.voices)
}

// SetGain stores the master gain, clamped to [0, 1]. Last write wins.
func (g *Graph) SetGain(v float64) {
	if math.IsNaN(v) {
		return
	}
	v = min(max(v, 0), 1)
	g.gain.Store(math.Float32bits(float32(v)))
}

func (g *Graph) Gain() float64 {
	return float64(math.Float32frombits(g.gain.Load()))
}

func (g *Graph) Analyser() *Analyser { return g.analyser }

// RenderMono renders len(dst) frames of the master bus into dst.
func (g *Graph) RenderMono(dst []float32) {
	clear(dst)
	g.mu.Lock()
	start := g.frame.Load()
	live := g.voices[:0]
	for _, v := range g.voices {
		if v.Process(dst, start) {
			live = append(live, v)
		}
	}
	for i := len(live); i < len(g.voices); i++ {
		g.voices[i] = nil
	}
	g.voices = live
	gain := math.Float32frombits(g.gain.Load())
	for i := range dst {
		x := dst[i]
		if g.fx != nil {
			x = g.fx.Process(x)
		}
		dst[i] = x * gain
	}
	g.frame.Add(int64(len(dst)))
	g.mu.Unlock()

	g.analyser.Write(dst)
}

// Process renders interleaved stereo frames, satisfying SampleSource.
func (g *Graph) Process(dst []float32) {
	frames := len(dst) / 2
	if cap(g.mono) < frames {
		g.mono = make([]float32, frames)
	}
	mono := g.mono[:frames]
	g.RenderMono(mono)
	for i, x := range mono {
		dst[2*i] = x
		dst[2*i+1] = x
	}
}
