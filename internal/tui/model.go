// Package tui is a terminal front end for the drum machine: the step grid,
// the pads bound to their keys, a level meter and the saved pattern list.
package tui

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
)

const (
	FrameInterval = time.Second / 60

	tempoStep  = 5
	volumeStep = 0.05
	nameLimit  = 24
)

type frameMsg time.Time

func tick(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg { return frameMsg(t) })
}

type Option func(*Model)

func WithLogger(l *slog.Logger) Option {
	return func(m *Model) {
		if l != nil {
			m.logger = l
		}
	}
}

// WithFrameInterval sets how often the machine is pumped.
func WithFrameInterval(d time.Duration) Option {
	return func(m *Model) {
		if d > 0 {
			m.interval = d
		}
	}
}

type Model struct {
	machine  *beatmaker.Machine
	logger   *slog.Logger
	interval time.Duration

	help   help.Model
	input  textinput.Model
	naming bool

	row, col int
	selected int
	status   string
	width    int
}

func New(m *beatmaker.Machine, opts ...Option) Model {
	ti := textinput.New()
	ti.Placeholder = "pattern name"
	ti.Prompt = "name: "
	ti.CharLimit = nameLimit
	ti.Width = nameLimit

	model := Model{
		machine:  m,
		logger:   slog.Default(),
		interval: FrameInterval,
		help:     help.New(),
		input:    ti,
	}
	for _, opt := range opts {
		opt(&model)
	}
	return model
}

// Run owns the terminal until the user quits.
func Run(m *beatmaker.Machine, opts ...Option) error {
	_, err := tea.NewProgram(New(m, opts...), tea.WithAltScreen()).Run()
	return err
}

func (m Model) Init() tea.Cmd {
	return tick(m.interval)
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.machine.UpdateAt(time.Time(msg))
		return m, tick(m.interval)
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil
	case tea.KeyMsg:
		if m.naming {
			return m.updateName(msg)
		}
		return m.updateKey(msg)
	}
	return m, nil
}

func (m Model) rows() []string { return m.machine.Pattern().IDs() }

func (m Model) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	rows := m.rows()
	switch {
	case key.Matches(msg, keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, keys.Up):
		m.row = (m.row + len(rows) - 1) % len(rows)
	case key.Matches(msg, keys.Down):
		m.row = (m.row + 1) % len(rows)
	case key.Matches(msg, keys.Left):
		m.col = (m.col + pattern.StepCount - 1) % pattern.StepCount
	case key.Matches(msg, keys.Right):
		m.col = (m.col + 1) % pattern.StepCount
	case key.Matches(msg, keys.Toggle):
		m.machine.ToggleStep(rows[m.row], m.col)
	case key.Matches(msg, keys.Play):
		m.machine.Toggle()
	case key.Matches(msg, keys.Stop):
		m.machine.Stop()
	case key.Matches(msg, keys.Faster):
		m.machine.SetTempo(m.machine.Tempo() + tempoStep)
	case key.Matches(msg, keys.Slower):
		m.machine.SetTempo(m.machine.Tempo() - tempoStep)
	case key.Matches(msg, keys.Louder):
		m.machine.SetVolume(m.machine.Volume() + volumeStep)
	case key.Matches(msg, keys.Softer):
		m.machine.SetVolume(m.machine.Volume() - volumeStep)
	case key.Matches(msg, keys.Clear):
		m.machine.Clear()
		m.status = "Pattern cleared"
	case key.Matches(msg, keys.Random):
		m.machine.Randomize()
		m.status = "Pattern randomized"
	case key.Matches(msg, keys.Save):
		m.naming = true
		m.input.Reset()
		return m, m.input.Focus()
	case key.Matches(msg, keys.Prev):
		m.moveSelection(-1)
	case key.Matches(msg, keys.Next):
		m.moveSelection(1)
	case key.Matches(msg, keys.Load):
		m.loadSelected()
	case key.Matches(msg, keys.Delete):
		m.deleteSelected()
	case key.Matches(msg, keys.Track):
		m.nextTrack()
	case key.Matches(msg, keys.Listen):
		m.machine.Player().Toggle()
	case msg.Type == tea.KeyRunes && len(msg.Runes) == 1:
		m.machine.HitKey(string(msg.Runes))
	}
	return m, nil
}

func (m Model) updateName(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.naming = false
		m.input.Blur()
		return m, nil
	case tea.KeyEnter:
		snap, err := m.machine.SavePattern(m.input.Value())
		if err != nil {
			m.status = beatmaker.UserMessage(err)
			return m, nil
		}
		m.naming = false
		m.input.Blur()
		m.selected = len(m.machine.Patterns()) - 1
		m.status = fmt.Sprintf("Saved %q", snap.Name)
		return m, nil
	case tea.KeyCtrlC:
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m *Model) moveSelection(delta int) {
	n := len(m.machine.Patterns())
	if n == 0 {
		m.selected = 0
		return
	}
	m.selected = (m.selected + delta + n) % n
}

func (m *Model) selectedPattern() (pattern.Snapshot, bool) {
	list := m.machine.Patterns()
	if m.selected < 0 || m.selected >= len(list) {
		return pattern.Snapshot{}, false
	}
	return list[m.selected], true
}

func (m *Model) loadSelected() {
	snap, ok := m.selectedPattern()
	if !ok {
		m.status = "No saved patterns"
		return
	}
	if _, err := m.machine.LoadPattern(snap.ID); err != nil {
		m.status = beatmaker.UserMessage(err)
		return
	}
	m.status = fmt.Sprintf("Loaded %q", snap.Name)
}

func (m *Model) deleteSelected() {
	snap, ok := m.selectedPattern()
	if !ok {
		m.status = "No saved patterns"
		return
	}
	if err := m.machine.DeletePattern(snap.ID); err != nil {
		m.status = beatmaker.UserMessage(err)
		return
	}
	m.status = fmt.Sprintf("Deleted %q", snap.Name)
	if n := len(m.machine.Patterns()); m.selected >= n {
		m.selected = max(n-1, 0)
	}
}

func (m *Model) nextTrack() {
	list := m.machine.Tracks()
	if len(list) == 0 {
		return
	}
	next := 0
	if cur, ok := m.machine.Player().Current(); ok {
		for i, t := range list {
			if t.ID == cur.ID {
				next = (i + 1) % len(list)
				break
			}
		}
	}
	if err := m.machine.SelectTrack(list[next].ID); err != nil {
		m.logger.Warn("select track failed", "track", list[next].ID, "err", err)
		m.status = beatmaker.UserMessage(err)
		return
	}
	m.status = "Track: " + list[next].Title
}

// playhead is the grid column to highlight, or -1 when stopped.
func (m Model) playhead() int {
	if m.machine.State() == sequencer.Stopped {
		return -1
	}
	return m.machine.Step()
}
