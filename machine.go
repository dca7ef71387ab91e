// Package beatmaker is a drum machine: sixteen-step sequencer, synthesized
// pads, a track player and the analyser data to visualize all of it.
//
// A Machine is driven by its front end. Every method belongs to the goroutine
// that calls Update once per display frame; only the audio device reads the
// output graph from elsewhere.
package beatmaker

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"

	intaudio "github.com/cbegin/beatmaker-go/internal/audio"
	intfx "github.com/cbegin/beatmaker-go/internal/effects"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/synth"
	"github.com/cbegin/beatmaker-go/internal/tracks"
	"github.com/cbegin/beatmaker-go/internal/visual"
)

const (
	DefaultSampleRate = 48000
	// PadFlash is how long a hit pad stays lit.
	PadFlash = 100 * time.Millisecond
)

const (
	displayIdle  = "READY TO PLAY"
	displayReady = "READY"
	seqIdle      = "BEATMAKER - READY"
)

type Option func(*config)

type config struct {
	sampleRate int
	device     bool
	logger     *slog.Logger
	clock      sequencer.Clock
	store      pattern.Store
	media      tracks.Media
	assetsDir  string
	effects    []string
	volume     float64
	tempo      int
	density    float64
	catchUp    sequencer.CatchUp
}

func defaultConfig() config {
	return config{
		sampleRate: DefaultSampleRate,
		device:     true,
		logger:     slog.Default(),
		clock:      sequencer.SystemClock{},
		assetsDir:  "assets",
		volume:     intaudio.DefaultGain,
		tempo:      pattern.DefaultTempo,
		density:    pattern.DefaultDensity,
		catchUp:    sequencer.CatchUpSkip,
	}
}

func WithSampleRate(sr int) Option {
	return func(c *config) {
		c.sampleRate = sr
	}
}

// WithDevice controls whether the audio device is opened. Without it the
// graph renders only when something pulls it.
func WithDevice(enabled bool) Option {
	return func(c *config) {
		c.device = enabled
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

func WithClock(clock sequencer.Clock) Option {
	return func(c *config) {
		if clock != nil {
			c.clock = clock
		}
	}
}

// WithStore sets where saved patterns live. The default is in memory.
func WithStore(s pattern.Store) Option {
	return func(c *config) {
		c.store = s
	}
}

// WithMedia replaces the ebiten track decoder.
func WithMedia(m tracks.Media) Option {
	return func(c *config) {
		c.media = m
	}
}

// WithAssetsDir is where bundled track files are read from.
func WithAssetsDir(dir string) Option {
	return func(c *config) {
		c.assetsDir = dir
	}
}

// WithEffects sets the master effect chain, one spec per effect.
func WithEffects(specs ...string) Option {
	return func(c *config) {
		c.effects = specs
	}
}

func WithVolume(v float64) Option {
	return func(c *config) {
		c.volume = v
	}
}

func WithTempo(bpm int) Option {
	return func(c *config) {
		c.tempo = bpm
	}
}

// WithDensity sets the fill probability used by Randomize.
func WithDensity(d float64) Option {
	return func(c *config) {
		c.density = d
	}
}

func WithCatchUp(cu sequencer.CatchUp) Option {
	return func(c *config) {
		c.catchUp = cu
	}
}

type Machine struct {
	logger *slog.Logger
	clock  sequencer.Clock

	output *intaudio.Output
	bank   *synth.Bank

	pattern *pattern.Pattern
	saved   *pattern.Library
	frames  *sequencer.FrameQueue
	engine  *sequencer.Engine

	uploads       *tracks.Library
	player        *tracks.Player
	trackAnalyser *intaudio.Analyser
	merger        *visual.Merger

	volume  float64
	density float64
	step    int
	display string
	lastPad string
	padLit  time.Time

	lastUpdate time.Time
}

func New(opts ...Option) (*Machine, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.sampleRate <= 0 {
		return nil, fault.New("sample rate must be positive", ftag.With(ftag.InvalidArgument))
	}
	chain, err := intfx.ParseChain(cfg.effects, cfg.sampleRate)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("master effects"))
	}
	store := cfg.store
	if store == nil {
		store = &pattern.MemoryStore{}
	}
	saved, err := pattern.NewLibrary(store, pattern.WithLogger(cfg.logger))
	if err != nil {
		return nil, err
	}

	m := &Machine{
		logger:        cfg.logger,
		clock:         cfg.clock,
		bank:          synth.NewBank(),
		pattern:       pattern.New(synth.SequencerIDs()...),
		saved:         saved,
		frames:        sequencer.NewFrameQueue(),
		uploads:       tracks.NewLibrary(tracks.WithClock(cfg.clock.Now), tracks.WithLibraryLogger(cfg.logger)),
		trackAnalyser: intaudio.NewAnalyser(intaudio.DefaultFFTSize),
		volume:        min(max(cfg.volume, 0), 1),
		density:       cfg.density,
		display:       displayIdle,
	}
	m.pattern.SetTempo(cfg.tempo)
	m.output = intaudio.NewOutput(cfg.sampleRate,
		intaudio.WithDevice(cfg.device),
		intaudio.WithLogger(cfg.logger),
		intaudio.WithGraphOptions(intaudio.WithEffects(chain), intaudio.WithGain(m.volume)),
	)
	m.engine = sequencer.New(m.pattern, sequencer.TriggerFunc(m.triggerStep), cfg.clock, m.frames, sequencer.Options{
		CatchUp: cfg.catchUp,
		Logger:  cfg.logger,
		OnStep:  func(s sequencer.Step) { m.step = s.Index },
	})

	media := cfg.media
	if media == nil {
		media = tracks.NewEbitenMedia(cfg.sampleRate, cfg.assetsDir, m.trackAnalyser)
	}
	m.player = tracks.NewPlayer(media, tracks.WithPlayerLogger(cfg.logger))
	m.merger = visual.NewMerger(m.graphSource, m.trackSource)
	return m, nil
}

// triggerStep maps a due time on the wall clock onto the graph clock.
func (m *Machine) triggerStep(id string, due time.Time) {
	g := m.output.Current()
	if g == nil {
		return
	}
	at := g.Now() + due.Sub(m.clock.Now()).Seconds()
	m.bank.TriggerID(g, at, id)
}

func (m *Machine) graphSource() visual.Source {
	if g := m.output.Current(); g != nil {
		return g.Analyser()
	}
	return nil
}

// trackSource is present only while a track is audibly playing, so a paused
// or ended track leaves no frozen frame behind.
func (m *Machine) trackSource() visual.Source {
	if m.player.Playing() && !m.player.Loading() {
		return m.trackAnalyser
	}
	return nil
}

// Start opens the output graph. It runs on the first pad hit or Play, and
// may be called earlier. A missing audio device is reported once and the
// machine keeps running silently.
func (m *Machine) Start() error {
	g, err := m.output.Initialize()
	if g != nil {
		g.SetGain(m.volume)
		if m.display == displayIdle {
			m.display = displayReady
		}
	}
	return err
}

// Graph returns the output graph, or nil before Start.
func (m *Machine) Graph() *intaudio.Graph { return m.output.Current() }

// Update drains one display frame: due steps fire and finished track loads
// are applied.
func (m *Machine) Update() {
	m.UpdateAt(m.clock.Now())
}

func (m *Machine) UpdateAt(now time.Time) {
	// Without a device nothing pulls the graph; keep it moving so voices end.
	if !m.lastUpdate.IsZero() {
		m.output.Advance(now.Sub(m.lastUpdate))
	}
	m.lastUpdate = now
	m.frames.RunFrame(now)
	m.player.Update()
}

// Run pumps Update at interval until ctx is done, for use without a window.
func (m *Machine) Run(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		interval = time.Second / 60
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			m.Update()
		}
	}
}

// Close stops everything and releases the device.
func (m *Machine) Close() error {
	m.engine.Stop()
	m.player.Eject()
	m.trackAnalyser.Reset()
	return m.output.Close()
}

// Hit plays a pad now. Unknown ids are ignored.
func (m *Machine) Hit(id string) bool {
	if _, ok := synth.Lookup(id); !ok {
		return false
	}
	_ = m.Start()
	g := m.output.Current()
	m.bank.TriggerID(g, g.Now(), id)
	m.display = "HIT: " + id
	m.lastPad = id
	m.padLit = m.clock.Now().Add(PadFlash)
	return true
}

// HitKey plays the pad bound to key.
func (m *Machine) HitKey(key string) bool {
	inst, ok := synth.ByKey(key)
	if !ok {
		return false
	}
	return m.Hit(inst.ID)
}

// Display is the pad screen text.
func (m *Machine) Display() string { return m.display }

// LitPad returns the pad that is still flashing from a hit.
func (m *Machine) LitPad() (string, bool) {
	if m.lastPad == "" || !m.clock.Now().Before(m.padLit) {
		return "", false
	}
	return m.lastPad, true
}

// SequencerDisplay is the sequencer screen text.
func (m *Machine) SequencerDisplay() string {
	if !m.engine.Playing() {
		return seqIdle
	}
	return fmt.Sprintf("PLAYING - STEP %d/%d", m.step+1, sequencer.StepCount)
}

// Step is the step that sounded last, or the cursor before the first one.
func (m *Machine) Step() int { return m.step }

func (m *Machine) Play() {
	if m.engine.Playing() {
		return
	}
	_ = m.Start()
	m.step = m.engine.Cursor()
	m.engine.Play()
}

func (m *Machine) Pause() { m.engine.Pause() }

func (m *Machine) Stop() {
	m.engine.Stop()
	m.step = 0
}

func (m *Machine) Toggle() {
	if m.engine.Playing() {
		m.Pause()
		return
	}
	m.Play()
}

func (m *Machine) Playing() bool          { return m.engine.Playing() }
func (m *Machine) State() sequencer.State { return m.engine.State() }

// Cursor is the index of the next step to fire.
func (m *Machine) Cursor() int { return m.engine.Cursor() }

func (m *Machine) SetCatchUp(c sequencer.CatchUp) { m.engine.SetCatchUp(c) }

// Pattern exposes the live grid for reading. Edit it through the Machine so
// changes are logged consistently.
func (m *Machine) Pattern() *pattern.Pattern { return m.pattern }

func (m *Machine) Tempo() int { return m.pattern.Tempo() }

// SetTempo clamps bpm and returns the applied value. A running sequence
// picks it up at the next step.
func (m *Machine) SetTempo(bpm int) int {
	return m.pattern.SetTempo(bpm)
}

func (m *Machine) Volume() float64 { return m.volume }

// SetVolume sets the master gain shared by pads and sequencer.
func (m *Machine) SetVolume(v float64) {
	m.volume = min(max(v, 0), 1)
	if g := m.output.Current(); g != nil {
		g.SetGain(m.volume)
	}
}

func (m *Machine) ToggleStep(id string, step int) bool {
	return m.pattern.Toggle(id, step)
}

func (m *Machine) Clear() { m.pattern.Clear() }

func (m *Machine) Randomize() { m.pattern.Randomize(m.density) }

// SavePattern stores a snapshot of the live grid under name.
func (m *Machine) SavePattern(name string) (pattern.Snapshot, error) {
	s, err := m.saved.Save(name, m.pattern)
	if err != nil {
		return pattern.Snapshot{}, err
	}
	m.logger.Info("pattern saved", "id", s.ID, "name", s.Name)
	return s, nil
}

// LoadPattern replaces the live grid with a snapshot. Playback stops and
// the cursor rewinds.
func (m *Machine) LoadPattern(id int64) (pattern.Snapshot, error) {
	if _, err := m.saved.Get(id); err != nil {
		return pattern.Snapshot{}, err
	}
	m.Stop()
	s, err := m.saved.Load(id, m.pattern)
	if err != nil {
		return pattern.Snapshot{}, err
	}
	m.logger.Info("pattern loaded", "id", s.ID, "name", s.Name)
	return s, nil
}

func (m *Machine) DeletePattern(id int64) error {
	if err := m.saved.Delete(id); err != nil {
		return err
	}
	m.logger.Info("pattern deleted", "id", id)
	return nil
}

func (m *Machine) Patterns() []pattern.Snapshot { return m.saved.List() }

// Tracks lists the bundled tracks followed by uploads.
func (m *Machine) Tracks() []tracks.Track {
	return append(tracks.Bundled(), m.uploads.List()...)
}

func (m *Machine) Uploads() []tracks.Track { return m.uploads.List() }

func (m *Machine) findTrack(id string) (tracks.Track, error) {
	for _, t := range tracks.Bundled() {
		if t.ID == id {
			return t, nil
		}
	}
	return m.uploads.Get(id)
}

// SelectTrack loads a bundled or uploaded track and starts it when ready.
func (m *Machine) SelectTrack(id string) error {
	t, err := m.findTrack(id)
	if err != nil {
		return err
	}
	if m.player.Select(t) {
		m.trackAnalyser.Reset()
	}
	m.player.Play()
	return nil
}

// Upload adds an in-memory audio file to the track list.
func (m *Machine) Upload(name, mimeType string, data []byte) (tracks.Track, error) {
	return m.uploads.Add(name, mimeType, data)
}

// UploadFile adds the audio file at path to the track list.
func (m *Machine) UploadFile(path string) (tracks.Track, error) {
	return m.uploads.AddFile(path)
}

// DeleteUpload removes an uploaded track, ejecting it first if it is the
// one loaded.
func (m *Machine) DeleteUpload(id string) error {
	if _, err := m.uploads.Get(id); err != nil {
		return err
	}
	if m.player.Release(id) {
		m.trackAnalyser.Reset()
		m.logger.Info("ejected playing upload", "id", id)
	}
	return m.uploads.Remove(id)
}

// Player is the track transport.
func (m *Machine) Player() *tracks.Player { return m.player }

// Visual is the merged analyser view of the pads and the track player.
func (m *Machine) Visual() *visual.Merger { return m.merger }

// Instruments lists every pad in display order.
func Instruments() []synth.Instrument { return synth.Catalog() }

// IsNotFound reports whether err names a missing pattern or track.
func IsNotFound(err error) bool {
	return ftag.Get(err) == ftag.NotFound
}

// UserMessage returns the text to show for err.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	if msg := fmsg.GetIssue(err); msg != "" {
		return msg
	}
	return strings.TrimSpace(err.Error())
}
