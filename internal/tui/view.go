package tui

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/tracks"
	"github.com/cbegin/beatmaker-go/internal/visual"
)

const (
	labelWidth = 10
	meterWidth = 20
)

var (
	screenStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#9bbc0f")).
			Background(lipgloss.Color("#0f380f")).
			Padding(0, 1)
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#ff79c6"))
	labelStyle  = lipgloss.NewStyle().Width(labelWidth).Foreground(lipgloss.Color("#bbbbbb"))
	onStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("#ff8c00"))
	offStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#555555"))
	headStyle   = lipgloss.NewStyle().Background(lipgloss.Color("#333366"))
	cursorStyle = lipgloss.NewStyle().Reverse(true)
	dimStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
	panelStyle  = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
)

func hex(c color.Color) lipgloss.Color {
	r, g, b, _ := c.RGBA()
	return lipgloss.Color(fmt.Sprintf("#%02x%02x%02x", r>>8, g>>8, b>>8))
}

func (m Model) View() string {
	var buf strings.Builder
	buf.WriteString(titleStyle.Render("BEATMAKER"))
	buf.WriteString("\n\n")

	screens := lipgloss.JoinHorizontal(lipgloss.Top,
		screenStyle.Render(m.machine.Display()),
		"  ",
		screenStyle.Render(m.machine.SequencerDisplay()),
	)
	buf.WriteString(screens)
	buf.WriteString("\n\n")

	left := lipgloss.JoinVertical(lipgloss.Left, m.gridView(), "", m.mixView(), m.meterView())
	buf.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, panelStyle.Render(left), " ", panelStyle.Render(m.savedView())))
	buf.WriteString("\n")

	if m.naming {
		buf.WriteString(m.input.View())
		buf.WriteString("\n")
	}
	if m.status != "" {
		buf.WriteString(dimStyle.Render(m.status))
		buf.WriteString("\n")
	}
	buf.WriteString(m.help.View(keys))
	return buf.String()
}

func (m Model) gridView() string {
	p := m.machine.Pattern()
	head := m.playhead()
	var buf strings.Builder
	for r, id := range p.IDs() {
		buf.WriteString(labelStyle.Render(id))
		for s := 0; s < pattern.StepCount; s++ {
			if s > 0 && s%4 == 0 {
				buf.WriteString(" ")
			}
			cell := offStyle.Render("·")
			if p.Active(id, s) {
				cell = onStyle.Render("■")
			}
			switch {
			case r == m.row && s == m.col:
				cell = cursorStyle.Render(cell)
			case s == head:
				cell = headStyle.Render(cell)
			}
			buf.WriteString(cell)
		}
		buf.WriteString("\n")
	}
	return strings.TrimSuffix(buf.String(), "\n")
}

func (m Model) mixView() string {
	line := fmt.Sprintf("BPM %d   VOL %d%%", m.machine.Tempo(), int(m.machine.Volume()*100+0.5))
	player := m.machine.Player()
	if t, ok := player.Current(); ok {
		state := "paused"
		switch {
		case player.Loading():
			state = "loading"
		case player.Playing():
			state = "playing"
		}
		line += fmt.Sprintf("   ♪ %s (%s) %s/%s", t.Title, state, tracks.FormatTime(player.Position()), tracks.FormatTime(player.Duration()))
	}
	if msg := player.ErrorMessage(); msg != "" {
		line += "\n" + msg
	}
	return line
}

func (m Model) meterView() string {
	f, ok := m.machine.Visual().Read()
	if !ok {
		return dimStyle.Render("no signal")
	}
	lv := visual.Bands(f.Freq)
	return strings.Join([]string{
		meter("BASS", lv.Bass),
		meter("MID", lv.Mid),
		meter("HIGH", lv.High),
	}, "\n")
}

func meter(name string, v float64) string {
	n := min(max(int(v*meterWidth+0.5), 0), meterWidth)
	bar := lipgloss.NewStyle().Foreground(hex(visual.LevelColor(v))).Render(strings.Repeat("█", n))
	return labelStyle.Render(name) + bar + offStyle.Render(strings.Repeat("░", meterWidth-n))
}

func (m Model) savedView() string {
	list := m.machine.Patterns()
	lines := []string{titleStyle.Render("SAVED")}
	if len(list) == 0 {
		lines = append(lines, dimStyle.Render("nothing saved"))
	}
	for i, s := range list {
		line := fmt.Sprintf("%-*s %3d", nameLimit, s.Name, s.Tempo)
		if i == m.selected {
			line = cursorStyle.Render(line)
		}
		lines = append(lines, line)
	}
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}
