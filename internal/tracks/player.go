package tracks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// Stream is an opened, decoded track.
type Stream interface {
	Play()
	Pause()
	IsPlaying() bool
	Position() time.Duration
	SetPosition(time.Duration) error
	// Duration returns 0 while the length is unknown.
	Duration() time.Duration
	SetVolume(v float64)
	Close() error
}

// Media opens tracks for playback. Open may block on I/O and decoding.
type Media interface {
	Open(ctx context.Context, t Track) (Stream, error)
}

const (
	DefaultVolume = 0.8
	SeekStep      = 10 * time.Second
)

const loadFailedMessage = "Failed to load audio file. Please try a different file."

type loadResult struct {
	gen    uint64
	stream Stream
	err    error
}

// Player is the single-track transport. Loading happens on a goroutine and
// is applied by Update, so every other method belongs to the frame goroutine.
type Player struct {
	media  Media
	logger *slog.Logger

	current     *Track
	stream      Stream
	loading     bool
	pendingPlay bool
	playing     bool
	volume      float64
	err         error

	gen     uint64
	cancel  context.CancelFunc
	results chan loadResult
}

type PlayerOption func(*Player)

func WithPlayerLogger(logger *slog.Logger) PlayerOption {
	return func(p *Player) {
		if logger != nil {
			p.logger = logger
		}
	}
}

func WithVolume(v float64) PlayerOption {
	return func(p *Player) {
		p.volume = clampVolume(v)
	}
}

func NewPlayer(media Media, opts ...PlayerOption) *Player {
	p := &Player{
		media:   media,
		logger:  slog.Default(),
		volume:  DefaultVolume,
		results: make(chan loadResult, 4),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Select makes t the current track and starts loading it. Selecting the
// track that is already current does nothing and returns false.
func (p *Player) Select(t Track) bool {
	if p.current != nil && p.current.ID == t.ID {
		return false
	}
	p.unload()
	p.current = &t
	p.loading = true
	gen := p.gen

	ctx, cancel := context.WithCancel(context.Background())
	p.cancel = cancel
	go func() {
		s, err := p.media.Open(ctx, t)
		select {
		case p.results <- loadResult{gen: gen, stream: s, err: err}:
		case <-ctx.Done():
			if s != nil {
				s.Close()
			}
		}
	}()
	p.logger.Debug("track selected", "id", t.ID, "title", t.Title)
	return true
}

// unload closes the current stream and forgets in-flight loads.
func (p *Player) unload() {
	p.gen++
	if p.cancel != nil {
		p.cancel()
		p.cancel = nil
	}
	if p.stream != nil {
		p.stream.Pause()
		if err := p.stream.Close(); err != nil {
			p.logger.Warn("close track stream", "error", err)
		}
	}
	p.current = nil
	p.stream = nil
	p.loading = false
	p.pendingPlay = false
	p.playing = false
	p.err = nil
}

// Eject stops playback and clears the current track.
func (p *Player) Eject() {
	if p.current != nil {
		p.logger.Debug("track ejected", "id", p.current.ID)
	}
	p.unload()
}

// Release ejects the current track if it is id and reports whether it did.
// Call it before removing a track from the library.
func (p *Player) Release(id string) bool {
	if p.current == nil || p.current.ID != id {
		return false
	}
	p.Eject()
	return true
}

// Update applies finished loads and notices when playback reaches the end.
// Call it once per frame.
func (p *Player) Update() {
	for {
		select {
		case r := <-p.results:
			p.apply(r)
		default:
			p.checkEnded()
			return
		}
	}
}

// WaitLoaded blocks until the in-flight load finishes and applies it.
func (p *Player) WaitLoaded(ctx context.Context) error {
	for p.loading {
		select {
		case r := <-p.results:
			p.apply(r)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	return p.err
}

func (p *Player) apply(r loadResult) {
	if r.gen != p.gen {
		if r.stream != nil {
			r.stream.Close()
		}
		return
	}
	p.loading = false
	if r.err != nil {
		p.fail(fault.Wrap(r.err, fmsg.WithDesc("open track "+p.current.ID, loadFailedMessage)))
		return
	}
	p.stream = r.stream
	p.stream.SetVolume(p.volume)
	if p.pendingPlay {
		p.pendingPlay = false
		p.start()
	}
}

func (p *Player) fail(err error) {
	p.err = err
	p.playing = false
	p.pendingPlay = false
	p.logger.Error("track playback failed", "error", err)
}

func (p *Player) checkEnded() {
	if !p.playing || p.stream == nil || p.stream.IsPlaying() {
		return
	}
	p.playing = false
	p.logger.Debug("track ended", "id", p.current.ID)
}

func (p *Player) start() {
	if d := p.stream.Duration(); d > 0 && p.stream.Position() >= d {
		if err := p.stream.SetPosition(0); err != nil {
			p.fail(fault.Wrap(err, fmsg.WithDesc("rewind", loadFailedMessage)))
			return
		}
	}
	p.stream.Play()
	p.playing = true
}

// Play starts the current track, or arranges for it to start once loaded.
func (p *Player) Play() {
	switch {
	case p.current == nil || p.err != nil:
	case p.loading:
		p.pendingPlay = true
	case !p.playing:
		p.start()
	}
}

func (p *Player) Pause() {
	if p.loading {
		p.pendingPlay = false
		return
	}
	if p.playing {
		p.stream.Pause()
		p.playing = false
	}
}

// Toggle flips between playing and paused. It does nothing without a track.
func (p *Player) Toggle() {
	if p.loading {
		p.pendingPlay = !p.pendingPlay
		return
	}
	if p.playing {
		p.Pause()
		return
	}
	p.Play()
}

// SeekTo moves to fraction of the duration, clamped to [0, 1]. It is
// ignored while the duration is unknown.
func (p *Player) SeekTo(fraction float64) {
	d := p.Duration()
	if p.stream == nil || d <= 0 {
		return
	}
	fraction = min(max(fraction, 0), 1)
	p.seek(time.Duration(fraction * float64(d)))
}

// SeekBy moves relative to the current position.
func (p *Player) SeekBy(delta time.Duration) {
	if p.stream == nil {
		return
	}
	pos := max(p.stream.Position()+delta, 0)
	if d := p.stream.Duration(); d > 0 {
		pos = min(pos, d)
	}
	p.seek(pos)
}

func (p *Player) seek(pos time.Duration) {
	if err := p.stream.SetPosition(pos); err != nil {
		p.fail(fault.Wrap(err, fmsg.WithDesc("seek", loadFailedMessage)))
	}
}

// SetVolume stores v clamped to [0, 1] and applies it to the stream.
func (p *Player) SetVolume(v float64) {
	p.volume = clampVolume(v)
	if p.stream != nil {
		p.stream.SetVolume(p.volume)
	}
}

func clampVolume(v float64) float64 {
	if v != v {
		return DefaultVolume
	}
	return min(max(v, 0), 1)
}

func (p *Player) Volume() float64 { return p.volume }

// Current returns the selected track.
func (p *Player) Current() (Track, bool) {
	if p.current == nil {
		return Track{}, false
	}
	return *p.current, true
}

func (p *Player) HasTrack() bool { return p.current != nil }
func (p *Player) Loading() bool  { return p.loading }
func (p *Player) Playing() bool  { return p.playing }

func (p *Player) Position() time.Duration {
	if p.stream == nil {
		return 0
	}
	return p.stream.Position()
}

// Duration returns 0 until the track has loaded and its length is known.
func (p *Player) Duration() time.Duration {
	if p.stream == nil {
		return 0
	}
	return p.stream.Duration()
}

// Progress returns position/duration in [0, 1], or 0 when the duration is
// unknown.
func (p *Player) Progress() float64 {
	d := p.Duration()
	if d <= 0 {
		return 0
	}
	return min(max(float64(p.Position())/float64(d), 0), 1)
}

// Err returns the last playback failure for the current track.
func (p *Player) Err() error { return p.err }

// ErrorMessage returns the user-facing text for Err, or "".
func (p *Player) ErrorMessage() string {
	if p.err == nil {
		return ""
	}
	if msg := fmsg.GetIssue(p.err); msg != "" {
		return msg
	}
	return loadFailedMessage
}

// FormatTime renders d as m:ss.
func FormatTime(d time.Duration) string {
	s := int(max(d, 0) / time.Second)
	return fmt.Sprintf("%d:%02d", s/60, s%60)
}
