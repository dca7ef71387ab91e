package audio

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// Output owns the lifecycle of the process-wide Graph. The graph is created
// on the first Initialize call (typically the first user gesture) and lives
// until Close. Until then Current returns nil and consumers stay silent.
type Output struct {
	sampleRate int
	device     bool
	graphOpts  []GraphOption
	logger     *slog.Logger

	once   sync.Once
	graph  atomic.Pointer[Graph]
	mu     sync.Mutex
	player *Player
	err    error

	scratch []float32
}

// sinkBlock is how many frames Advance renders per pass.
const sinkBlock = 512

// maxAdvance bounds one Advance call so a long stall does not render
// minutes of discarded audio.
const maxAdvance = 2 * time.Second

// OutputOption configures an Output.
type OutputOption func(*Output)

// WithDevice controls whether Initialize opens the audio device.
// Offline rendering and tests run without one.
func WithDevice(enabled bool) OutputOption {
	return func(o *Output) {
		o.device = enabled
	}
}

// WithGraphOptions passes options through to the Graph on creation.
func WithGraphOptions(opts ...GraphOption) OutputOption {
	return func(o *Output) {
		o.graphOpts = append(o.graphOpts, opts...)
	}
}

func WithLogger(l *slog.Logger) OutputOption {
	return func(o *Output) {
		if l != nil {
			o.logger = l
		}
	}
}

func NewOutput(sampleRate int, opts ...OutputOption) *Output {
	o := &Output{sampleRate: sampleRate, device: true, logger: slog.Default()}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

func (o *Output) SampleRate() int { return o.sampleRate }

// Initialize creates the graph once and, if enabled, starts the device.
// Repeated calls return the same graph. A device failure is reported but
// leaves the graph usable, so pads and the sequencer still render.
func (o *Output) Initialize() (*Graph, error) {
	o.once.Do(func() {
		g := NewGraph(o.sampleRate, o.graphOpts...)
		if o.device {
			pl, err := NewPlayer(o.sampleRate, g)
			if err != nil {
				o.err = fault.Wrap(err, fmsg.With("open audio device"))
				o.logger.Warn("audio device unavailable", "error", err)
			} else {
				pl.Play()
				o.mu.Lock()
				o.player = pl
				o.mu.Unlock()
			}
		}
		o.graph.Store(g)
		o.logger.Debug("audio output initialized", "sample_rate", o.sampleRate, "device", o.device)
	})
	return o.graph.Load(), o.err
}

// Silent reports whether the graph exists with no device pulling it.
func (o *Output) Silent() bool {
	if o.graph.Load() == nil {
		return false
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.player == nil
}

// Advance stands in for the device when there is none: it renders d worth
// of frames and discards them, so voices finish and the graph clock moves.
// It does nothing while a device is attached.
func (o *Output) Advance(d time.Duration) {
	if d <= 0 || !o.Silent() {
		return
	}
	g := o.graph.Load()
	frames := int(min(d, maxAdvance) * time.Duration(o.sampleRate) / time.Second)
	if cap(o.scratch) < sinkBlock {
		o.scratch = make([]float32, sinkBlock)
	}
	for frames > 0 {
		n := min(frames, sinkBlock)
		g.RenderMono(o.scratch[:n])
		frames -= n
	}
}

// Current returns the graph, or nil before Initialize.
func (o *Output) Current() *Graph {
	return o.graph.Load()
}

// Close stops the device. The graph remains readable.
func (o *Output) Close() error {
	o.mu.Lock()
	pl := o.player
	o.player = nil
	o.mu.Unlock()
	if pl == nil {
		return nil
	}
	return pl.Stop()
}
