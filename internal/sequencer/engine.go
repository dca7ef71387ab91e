// Package sequencer advances the step cursor against wall-clock time and
// fires the pattern's active instruments at each due step.
package sequencer

import (
	"log/slog"
	"strings"
	"time"
)

// StepCount is the pattern length the cursor wraps at.
const StepCount = 16

// Steps is the read-only view of the pattern the engine plays.
type Steps interface {
	ActiveAt(step int) []string
	Tempo() int
}

// Trigger receives one instrument hit at its scheduled due time.
type Trigger interface {
	Trigger(id string, due time.Time)
}

// TriggerFunc adapts a function to Trigger.
type TriggerFunc func(id string, due time.Time)

func (f TriggerFunc) Trigger(id string, due time.Time) { f(id, due) }

type State int

const (
	Stopped State = iota
	Paused
	Playing
)

func (s State) String() string {
	switch s {
	case Playing:
		return "playing"
	case Paused:
		return "paused"
	default:
		return "stopped"
	}
}

// CatchUp selects what happens when several step intervals elapse between
// two frames.
type CatchUp int

const (
	// CatchUpSkip fires only the most recent due step. The cursor still
	// advances by every elapsed interval and the due time stays on the grid.
	CatchUpSkip CatchUp = iota
	// CatchUpBurst fires each missed step, up to MaxBurst per frame.
	CatchUpBurst
	// CatchUpResync fires one step and restarts the grid from now.
	CatchUpResync
)

func (c CatchUp) String() string {
	switch c {
	case CatchUpBurst:
		return "burst"
	case CatchUpResync:
		return "resync"
	default:
		return "skip"
	}
}

// ParseCatchUp accepts "skip", "burst" or "resync". Anything else is skip.
func ParseCatchUp(s string) CatchUp {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "burst":
		return CatchUpBurst
	case "resync":
		return CatchUpResync
	default:
		return CatchUpSkip
	}
}

const DefaultMaxBurst = 4

// StepInterval is one sixteenth note at bpm. Non-positive tempos yield 0.
func StepInterval(bpm int) time.Duration {
	if bpm <= 0 {
		return 0
	}
	return time.Duration(float64(time.Minute) / float64(bpm) / 4)
}

// Step reports a fired step.
type Step struct {
	Index int
	Due   time.Time
	IDs   []string
}

type Options struct {
	CatchUp  CatchUp
	MaxBurst int
	// OnStep runs after each fired step, on the frame goroutine.
	OnStep func(Step)
	Logger *slog.Logger
}

// Engine is the transport state machine. All methods are intended to be
// called from the goroutine that drains the FrameScheduler.
type Engine struct {
	steps   Steps
	trigger Trigger
	clock   Clock
	frames  FrameScheduler
	opts    Options
	logger  *slog.Logger

	state   State
	cursor  int
	due     time.Time
	pending FrameHandle
	armed   bool
	gen     uint64
	fired   uint64
}

func New(steps Steps, trigger Trigger, clock Clock, frames FrameScheduler, opts Options) *Engine {
	if opts.MaxBurst <= 0 {
		opts.MaxBurst = DefaultMaxBurst
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &Engine{
		steps:   steps,
		trigger: trigger,
		clock:   clock,
		frames:  frames,
		opts:    opts,
		logger:  logger,
	}
}

func (e *Engine) State() State     { return e.state }
func (e *Engine) Playing() bool    { return e.state == Playing }
func (e *Engine) Cursor() int      { return e.cursor }
func (e *Engine) Due() time.Time   { return e.due }
func (e *Engine) CatchUp() CatchUp { return e.opts.CatchUp }

// Fired returns the number of steps fired since creation.
func (e *Engine) Fired() uint64 { return e.fired }

// SetCatchUp changes the catch-up policy; it applies from the next frame.
func (e *Engine) SetCatchUp(c CatchUp) { e.opts.CatchUp = c }

// Interval returns the current step interval from the pattern tempo.
func (e *Engine) Interval() time.Duration {
	return StepInterval(e.steps.Tempo())
}

// Play starts or resumes playback with the next step due now.
func (e *Engine) Play() {
	if e.state == Playing {
		return
	}
	from := e.state
	e.state = Playing
	e.due = e.clock.Now()
	e.schedule()
	e.logger.Debug("sequencer play", "from", from.String(), "cursor", e.cursor, "bpm", e.steps.Tempo())
}

// Pause stops scheduling and keeps the cursor.
func (e *Engine) Pause() {
	if e.state != Playing {
		return
	}
	e.cancel()
	e.state = Paused
	e.logger.Debug("sequencer pause", "cursor", e.cursor)
}

// Stop stops scheduling and rewinds the cursor. Calling it again is a no-op.
func (e *Engine) Stop() {
	e.cancel()
	if e.state != Stopped {
		e.logger.Debug("sequencer stop", "cursor", e.cursor)
	}
	e.state = Stopped
	e.cursor = 0
	e.due = time.Time{}
}

// Toggle pauses while playing and plays otherwise.
func (e *Engine) Toggle() {
	if e.state == Playing {
		e.Pause()
		return
	}
	e.Play()
}

func (e *Engine) schedule() {
	if e.frames == nil {
		return
	}
	gen := e.gen
	e.pending = e.frames.RequestFrame(func(now time.Time) {
		if gen != e.gen || e.state != Playing {
			return
		}
		e.armed = false
		e.Tick(now)
		if gen == e.gen && e.state == Playing {
			e.schedule()
		}
	})
	e.armed = true
}

func (e *Engine) cancel() {
	e.gen++
	if e.armed && e.frames != nil {
		e.frames.CancelFrame(e.pending)
	}
	e.armed = false
}

// Tick compares now with the due time and fires what is due. It returns the
// number of steps fired. Tick does nothing unless the engine is playing.
func (e *Engine) Tick(now time.Time) int {
	if e.state != Playing || now.Before(e.due) {
		return 0
	}
	interval := e.Interval()
	if interval <= 0 {
		return 0
	}
	elapsed := 1 + int(now.Sub(e.due)/interval)

	switch e.opts.CatchUp {
	case CatchUpResync:
		e.fire(e.cursor, e.due)
		e.cursor = (e.cursor + 1) % StepCount
		e.due = now.Add(interval)
		return 1

	case CatchUpBurst:
		n := min(elapsed, e.opts.MaxBurst)
		// Steps beyond the burst cap are passed over, oldest first.
		skipped := elapsed - n
		e.advance(skipped, interval)
		for i := 0; i < n; i++ {
			e.fire(e.cursor, e.due)
			e.advance(1, interval)
		}
		return n

	default:
		e.advance(elapsed-1, interval)
		e.fire(e.cursor, e.due)
		e.advance(1, interval)
		return 1
	}
}

func (e *Engine) advance(steps int, interval time.Duration) {
	if steps <= 0 {
		return
	}
	e.cursor = (e.cursor + steps) % StepCount
	e.due = e.due.Add(time.Duration(steps) * interval)
}

func (e *Engine) fire(step int, due time.Time) {
	ids := e.steps.ActiveAt(step)
	if e.trigger != nil {
		for _, id := range ids {
			e.trigger.Trigger(id, due)
		}
	}
	e.fired++
	if e.opts.OnStep != nil {
		e.opts.OnStep(Step{Index: step, Due: due, IDs: ids})
	}
}
