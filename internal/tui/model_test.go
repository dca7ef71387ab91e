package tui

import (
	"context"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/tracks"
)

type nopStream struct{ playing bool }

func (s *nopStream) Play()                           { s.playing = true }
func (s *nopStream) Pause()                          { s.playing = false }
func (s *nopStream) IsPlaying() bool                 { return s.playing }
func (s *nopStream) Position() time.Duration         { return 0 }
func (s *nopStream) Duration() time.Duration         { return time.Minute }
func (s *nopStream) SetVolume(float64)               {}
func (s *nopStream) SetPosition(time.Duration) error { return nil }
func (s *nopStream) Close() error                    { return nil }

type nopMedia struct{}

func (nopMedia) Open(ctx context.Context, t tracks.Track) (tracks.Stream, error) {
	return &nopStream{}, nil
}

func newModel(t *testing.T) (Model, *beatmaker.Machine) {
	t.Helper()
	m, err := beatmaker.New(
		beatmaker.WithDevice(false),
		beatmaker.WithSampleRate(8000),
		beatmaker.WithStore(&pattern.MemoryStore{}),
		beatmaker.WithMedia(nopMedia{}),
	)
	if err != nil {
		t.Fatalf("beatmaker.New() error = %v", err)
	}
	t.Cleanup(func() { m.Close() })
	return New(m), m
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func press(t *testing.T, model Model, msgs ...tea.Msg) Model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := model.Update(msg)
		model = next.(Model)
	}
	return model
}

func TestCursorMovesAndWraps(t *testing.T) {
	model, m := newModel(t)
	rows := m.Pattern().IDs()

	model = press(t, model, runes("k"), runes("h"))
	if model.row != len(rows)-1 || model.col != pattern.StepCount-1 {
		t.Fatalf("cursor = (%d,%d), want (%d,%d)", model.row, model.col, len(rows)-1, pattern.StepCount-1)
	}
	model = press(t, model, tea.KeyMsg{Type: tea.KeyDown}, tea.KeyMsg{Type: tea.KeyRight})
	if model.row != 0 || model.col != 0 {
		t.Fatalf("cursor = (%d,%d), want (0,0)", model.row, model.col)
	}
}

func TestToggleStepAtCursor(t *testing.T) {
	model, m := newModel(t)
	id := m.Pattern().IDs()[1]

	model = press(t, model, runes("j"), runes("l"), runes("l"), runes("x"))
	if !m.Pattern().Active(id, 2) {
		t.Fatalf("step %s/2 not active after toggle", id)
	}
	press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if m.Pattern().Active(id, 2) {
		t.Fatalf("step %s/2 still active after second toggle", id)
	}
}

func TestTransportAndTempo(t *testing.T) {
	model, m := newModel(t)

	model = press(t, model, tea.KeyMsg{Type: tea.KeySpace})
	if m.State() != sequencer.Playing {
		t.Fatalf("State() = %v after space, want playing", m.State())
	}
	if got := model.playhead(); got != 0 {
		t.Fatalf("playhead() = %d, want 0", got)
	}
	model = press(t, model, runes("z"))
	if m.State() != sequencer.Stopped || model.playhead() != -1 {
		t.Fatalf("State() = %v playhead %d after stop", m.State(), model.playhead())
	}

	press(t, model, runes("+"), runes("+"), runes("-"))
	if got := m.Tempo(); got != 125 {
		t.Fatalf("Tempo() = %d, want 125", got)
	}
	for i := 0; i < 50; i++ {
		model = press(t, model, runes("="))
	}
	if got := m.Tempo(); got != pattern.MaxTempo {
		t.Fatalf("Tempo() = %d, want clamp at %d", got, pattern.MaxTempo)
	}
}

func TestVolumeKeys(t *testing.T) {
	model, m := newModel(t)
	before := m.Volume()
	press(t, model, runes("["))
	if got := m.Volume(); got >= before {
		t.Fatalf("Volume() = %v, want below %v", got, before)
	}
}

func TestPadKeysHit(t *testing.T) {
	model, m := newModel(t)
	press(t, model, runes("q"))
	if got := m.Display(); got != "HIT: Kick" {
		t.Fatalf("Display() = %q, want HIT: Kick", got)
	}
	press(t, model, runes("w"))
	if got := m.Display(); got != "HIT: Snare" {
		t.Fatalf("Display() = %q, want HIT: Snare", got)
	}
}

func TestSaveLoadDelete(t *testing.T) {
	model, m := newModel(t)
	id := m.Pattern().IDs()[0]
	m.ToggleStep(id, 4)

	model = press(t, model, runes("n"))
	if !model.naming {
		t.Fatalf("naming = false after save key")
	}
	model = press(t, model, tea.KeyMsg{Type: tea.KeyEnter})
	if !model.naming || model.status != "Please enter a pattern name" {
		t.Fatalf("empty name: naming %v status %q", model.naming, model.status)
	}
	model = press(t, model, runes("groove"), tea.KeyMsg{Type: tea.KeyEnter})
	if model.naming {
		t.Fatalf("naming = true after a valid save")
	}
	if got := len(m.Patterns()); got != 1 {
		t.Fatalf("len(Patterns()) = %d, want 1", got)
	}
	if model.status != `Saved "groove"` {
		t.Fatalf("status = %q", model.status)
	}

	model = press(t, model, runes("c"))
	if m.Pattern().Count() != 0 {
		t.Fatalf("Count() = %d after clear", m.Pattern().Count())
	}
	model = press(t, model, runes("L"))
	if !m.Pattern().Active(id, 4) {
		t.Fatalf("load did not restore step %s/4", id)
	}
	model = press(t, model, runes("X"))
	if got := len(m.Patterns()); got != 0 {
		t.Fatalf("len(Patterns()) = %d after delete", got)
	}
	model = press(t, model, runes("L"))
	if model.status != "No saved patterns" {
		t.Fatalf("status = %q, want No saved patterns", model.status)
	}
}

func TestSaveCancel(t *testing.T) {
	model, m := newModel(t)
	model = press(t, model, runes("n"), runes("abc"), tea.KeyMsg{Type: tea.KeyEsc})
	if model.naming || len(m.Patterns()) != 0 {
		t.Fatalf("cancel left naming %v with %d patterns", model.naming, len(m.Patterns()))
	}
	// Pad keys go to the name field while naming.
	model = press(t, model, runes("n"), runes("q"))
	if m.Display() == "HIT: Kick" {
		t.Fatalf("pad fired while typing a name")
	}
	if got := model.input.Value(); got != "q" {
		t.Fatalf("input = %q, want q", got)
	}
}

func TestSelectionWraps(t *testing.T) {
	model, m := newModel(t)
	for _, name := range []string{"a", "b", "c"} {
		if _, err := m.SavePattern(name); err != nil {
			t.Fatalf("SavePattern(%q) error = %v", name, err)
		}
	}
	model = press(t, model, runes("<"))
	if model.selected != 2 {
		t.Fatalf("selected = %d, want 2", model.selected)
	}
	model = press(t, model, runes(">"))
	if model.selected != 0 {
		t.Fatalf("selected = %d, want 0", model.selected)
	}
}

func TestNextTrackCycles(t *testing.T) {
	model, m := newModel(t)
	list := m.Tracks()
	if len(list) < 2 {
		t.Fatalf("Tracks() = %d entries, want at least 2", len(list))
	}
	model = press(t, model, runes("t"))
	if cur, ok := m.Player().Current(); !ok || cur.ID != list[0].ID {
		t.Fatalf("Current() = %v %v, want %s", cur.ID, ok, list[0].ID)
	}
	model = press(t, model, runes("t"))
	if cur, _ := m.Player().Current(); cur.ID != list[1].ID {
		t.Fatalf("Current() = %s, want %s", cur.ID, list[1].ID)
	}
	if model.status != "Track: "+list[1].Title {
		t.Fatalf("status = %q", model.status)
	}
}

func TestFramesReschedule(t *testing.T) {
	model, _ := newModel(t)
	if model.Init() == nil {
		t.Fatalf("Init() returned no command")
	}
	_, cmd := model.Update(frameMsg(time.Now()))
	if cmd == nil {
		t.Fatalf("frame did not schedule the next one")
	}
	if _, cmd := model.Update(runes("?")); cmd != nil {
		t.Fatalf("help toggle returned a command")
	}
}

func TestView(t *testing.T) {
	model, m := newModel(t)
	m.ToggleStep(m.Pattern().IDs()[0], 0)
	out := model.View()
	for _, want := range []string{"BEATMAKER", "READY TO PLAY", "BEATMAKER - READY", "BPM 120", "nothing saved", "no signal"} {
		if !strings.Contains(out, want) {
			t.Errorf("View() missing %q", want)
		}
	}
}
