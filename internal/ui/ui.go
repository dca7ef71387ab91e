// Package ui is the desktop front end. ebiten calls Update once per display
// refresh; that call is the frame opportunity the sequencer runs on.
package ui

import (
	"fmt"
	"image"
	"image/color"
	"io/fs"
	"log/slog"
	"time"

	"github.com/hajimehoshi/ebiten/v2"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/synth"
	"github.com/cbegin/beatmaker-go/internal/tracks"
	"github.com/cbegin/beatmaker-go/internal/visual"
)

const nameMaxLen = 24

type drag int

const (
	dragNone drag = iota
	dragVolume
	dragBPM
	dragTrackVolume
	dragProgress
)

type Option func(*Game)

// WithVisualizer selects the starting visualizer by registry name.
func WithVisualizer(name string) Option {
	return func(g *Game) {
		g.visName = name
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(g *Game) {
		if l != nil {
			g.logger = l
		}
	}
}

// Game implements ebiten.Game over a Machine.
type Game struct {
	m      *beatmaker.Machine
	logger *slog.Logger
	text   *textPainter

	registry *visual.Registry
	visName  string
	vis      visual.Visualizer
	visImg   *ebiten.Image

	dragging    drag
	nameFocus   bool
	name        []rune
	savedScroll int
	trackScroll int

	status    string
	statusErr bool
	lastErr   string

	viewW, viewH int
}

func New(m *beatmaker.Machine, opts ...Option) *Game {
	g := &Game{
		m:        m,
		logger:   slog.Default(),
		text:     newTextPainter(),
		registry: visual.DefaultRegistry(),
		visName:  "bars",
		status:   "Click a pad or press PLAY",
		viewW:    windowW,
		viewH:    windowH,
	}
	for _, opt := range opts {
		opt(g)
	}
	g.setVisualizer(g.visName)
	return g
}

// Run opens the window and blocks until it is closed.
func Run(m *beatmaker.Machine, opts ...Option) error {
	g := New(m, opts...)
	ebiten.SetWindowSize(windowW, windowH)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSizeLimits(minWindowW, minWindowH, -1, -1)
	ebiten.SetWindowTitle("beatmaker")
	return ebiten.RunGame(g)
}

func (g *Game) setVisualizer(name string) {
	v, err := g.registry.New(name)
	if err != nil {
		g.logger.Warn("unknown visualizer, using default", "name", name)
		name = g.registry.Names()[0]
		v, _ = g.registry.New(name)
	}
	g.visName, g.vis = name, v
}

func (g *Game) Update() error {
	g.m.Update()
	g.handleDrops()
	g.handleKeys()
	g.handleMouse()
	g.watchPlayer()
	return nil
}

func (g *Game) Layout(outsideW, outsideH int) (int, int) {
	g.viewW = max(outsideW, minWindowW)
	g.viewH = max(outsideH, minWindowH)
	return g.viewW, g.viewH
}

func (g *Game) setStatus(msg string) {
	g.status, g.statusErr = msg, false
}

func (g *Game) setError(err error) {
	g.status, g.statusErr = beatmaker.UserMessage(err), true
	g.logger.Debug("ui error", "error", err)
}

// watchPlayer surfaces track load failures once.
func (g *Game) watchPlayer() {
	msg := g.m.Player().ErrorMessage()
	if msg != "" && msg != g.lastErr {
		g.status, g.statusErr = msg, true
	}
	g.lastErr = msg
}

// handleDrops uploads files dropped onto the window.
func (g *Game) handleDrops() {
	files := ebiten.DroppedFiles()
	if files == nil {
		return
	}
	entries, err := fs.ReadDir(files, ".")
	if err != nil {
		g.setError(err)
		return
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		data, err := fs.ReadFile(files, e.Name())
		if err != nil {
			g.setError(err)
			continue
		}
		t, err := g.m.Upload(e.Name(), "", data)
		if err != nil {
			g.setError(err)
			continue
		}
		g.setStatus("Uploaded " + t.Title)
	}
}

func (g *Game) hitPad(id string) {
	if g.m.Hit(id) {
		g.setStatus(g.m.Display())
	}
}

func (g *Game) togglePlay() {
	g.m.Toggle()
	switch g.m.State() {
	case sequencer.Playing:
		g.setStatus(fmt.Sprintf("Playing at %d BPM", g.m.Tempo()))
	case sequencer.Paused:
		g.setStatus("Paused")
	}
}

func (g *Game) saveName() {
	s, err := g.m.SavePattern(string(g.name))
	if err != nil {
		g.setError(err)
		return
	}
	g.name = g.name[:0]
	g.nameFocus = false
	g.setStatus(fmt.Sprintf("Saved %q", s.Name))
}

func (g *Game) loadSaved(s pattern.Snapshot) {
	if _, err := g.m.LoadPattern(s.ID); err != nil {
		g.setError(err)
		return
	}
	g.setStatus(fmt.Sprintf("Loaded %q (%d BPM)", s.Name, s.Tempo))
}

func (g *Game) deleteSaved(s pattern.Snapshot) {
	if err := g.m.DeletePattern(s.ID); err != nil {
		g.setError(err)
		return
	}
	g.setStatus(fmt.Sprintf("Deleted %q", s.Name))
}

func (g *Game) selectTrack(t tracks.Track) {
	if err := g.m.SelectTrack(t.ID); err != nil {
		g.setError(err)
		return
	}
	g.setStatus("Loading " + t.Title)
}

func (g *Game) deleteTrack(t tracks.Track) {
	if err := g.m.DeleteUpload(t.ID); err != nil {
		g.setError(err)
		return
	}
	g.setStatus("Removed " + t.Title)
}

func (g *Game) cycleVisualizer() {
	g.setVisualizer(g.registry.Next(g.visName))
	g.setStatus("Visualizer: " + g.visName)
}

func (g *Game) Draw(screen *ebiten.Image) {
	screen.Fill(bgColor)
	l := layoutRects(g.viewW, g.viewH)

	g.drawScreen(screen, l.padScreen, g.m.Display())
	g.drawPads(screen, l)
	g.text.drawSlider(screen, l.volume, fmt.Sprintf("Vol %3d%%", percent(g.m.Volume())), g.m.Volume())
	g.drawTracks(screen, l.tracks)
	g.drawPlayer(screen, l)

	g.drawScreen(screen, l.seqScreen, g.m.SequencerDisplay())
	g.text.drawButton(screen, l.play, playLabel(g.m.State()), g.m.Playing())
	g.text.drawButton(screen, l.stop, "STOP", false)
	g.text.drawButton(screen, l.clear, "CLEAR", false)
	g.text.drawButton(screen, l.random, "RANDOM", false)
	g.text.drawSlider(screen, l.bpm, fmt.Sprintf("%3d BPM", g.m.Tempo()), bpmFrac(g.m.Tempo()))
	g.drawGrid(screen, l)

	g.drawNameField(screen, l.name)
	g.text.drawButton(screen, l.save, "SAVE", false)
	g.drawSaved(screen, l.saved)
	g.drawVisual(screen, l.visual)
	g.drawStatus(screen, l.status)
}

func (g *Game) drawScreen(screen *ebiten.Image, rect image.Rectangle, msg string) {
	drawSunkenPanel(screen, rect, screenColor)
	g.text.centered(screen, msg, rect, screenTextColor)
}

func (g *Game) drawPads(screen *ebiten.Image, l uiLayout) {
	lit, isLit := g.m.LitPad()
	for i, inst := range synth.Catalog() {
		r := l.pads[i]
		down := isLit && lit == inst.ID
		fill := panelColor
		if down {
			fill = padLitColor
		}
		fillRect(screen, r, fill)
		if down {
			drawSunkenBorder(screen, r)
		} else {
			drawBorder(screen, r)
		}
		g.text.draw(screen, inst.Key, r.Min.X+6, r.Min.Y+4, color.White)
		g.text.centered(screen, inst.ID, image.Rect(r.Min.X, r.Min.Y+18, r.Max.X, r.Max.Y), color.White)
	}
}

func (g *Game) drawGrid(screen *ebiten.Image, l uiLayout) {
	drawSunkenPanel(screen, l.grid, sunkenBgColor)
	p := g.m.Pattern()
	playing := g.m.Playing()
	for r, id := range p.IDs() {
		g.text.centered(screen, id, l.rowLabel(r), color.White)
		for s := 0; s < sequencer.StepCount; s++ {
			c := l.cellRect(r, s)
			fill := cellOff
			switch {
			case p.Active(id, s):
				fill = cellOn
			case playing && s == g.m.Step():
				fill = cellCursor
			}
			fillRect(screen, c, fill)
			if s%4 == 0 {
				fillRect(screen, image.Rect(c.Min.X-1, c.Min.Y, c.Min.X, c.Max.Y), borderColor)
			}
		}
	}
}

func (g *Game) drawNameField(screen *ebiten.Image, rect image.Rectangle) {
	drawSunkenPanel(screen, rect, sunkenBgColor)
	msg := string(g.name)
	switch {
	case g.nameFocus && time.Now().UnixMilli()/500%2 == 0:
		msg += "_"
	case msg == "" && !g.nameFocus:
		msg = "Pattern name..."
	}
	maxChars := max(4, (rect.Dx()-16)/charW)
	g.text.draw(screen, shortenEnd(msg, maxChars), rect.Min.X+8, rect.Min.Y+(rect.Dy()-lineH)/2, color.White)
}

func (g *Game) drawSaved(screen *ebiten.Image, rect image.Rectangle) {
	drawSunkenPanel(screen, rect, sunkenBgColor)
	saved := g.m.Patterns()
	g.text.draw(screen, fmt.Sprintf("Saved patterns (%d)", len(saved)), rect.Min.X+8, rect.Min.Y+8, color.White)
	if len(saved) == 0 {
		return
	}
	g.savedScroll = min(g.savedScroll, max(0, len(saved)-listRows(rect)))
	maxChars := max(8, (rect.Dx()-deleteW-24)/charW)
	for i := 0; i < listRows(rect); i++ {
		idx := g.savedScroll + i
		if idx >= len(saved) {
			break
		}
		s := saved[idx]
		y := rect.Min.Y + 8 + lineH + 4 + i*listRowH
		label := fmt.Sprintf("%s  %d BPM", s.Name, s.Tempo)
		g.text.draw(screen, shortenEnd(label, maxChars), rect.Min.X+10, y, color.White)
		g.text.draw(screen, "DEL", rect.Max.X-deleteW, y, errTextColor)
	}
}

func (g *Game) drawTracks(screen *ebiten.Image, rect image.Rectangle) {
	drawSunkenPanel(screen, rect, sunkenBgColor)
	list := g.m.Tracks()
	g.text.draw(screen, "Tracks (drop files to add)", rect.Min.X+8, rect.Min.Y+8, color.White)
	cur, hasCur := g.m.Player().Current()
	g.trackScroll = min(g.trackScroll, max(0, len(list)-listRows(rect)))
	maxChars := max(8, (rect.Dx()-deleteW-24)/charW)
	for i := 0; i < listRows(rect); i++ {
		idx := g.trackScroll + i
		if idx >= len(list) {
			break
		}
		t := list[idx]
		y := rect.Min.Y + 8 + lineH + 4 + i*listRowH
		if hasCur && cur.ID == t.ID {
			fillRect(screen, image.Rect(rect.Min.X+6, y-2, rect.Max.X-6, y+lineH), highlightColor)
		}
		label := fmt.Sprintf("%s - %s [%s]", t.Title, t.Author, t.TempoLabel)
		g.text.draw(screen, shortenEnd(label, maxChars), rect.Min.X+10, y, color.White)
		if t.Uploaded() {
			g.text.draw(screen, "DEL", rect.Max.X-deleteW, y, errTextColor)
		}
	}
}

func (g *Game) drawPlayer(screen *ebiten.Image, l uiLayout) {
	drawPanel(screen, l.player)
	p := g.m.Player()
	title := "No track selected"
	if t, ok := p.Current(); ok {
		title = t.Title + " - " + t.Author
		if p.Loading() {
			title = "Loading " + t.Title + "..."
		}
	}
	maxChars := max(8, (l.player.Dx()-16)/charW)
	g.text.draw(screen, shortenEnd(title, maxChars), l.player.Min.X+8, l.player.Min.Y+8, color.White)

	label := "PLAY"
	if p.Playing() {
		label = "PAUSE"
	}
	g.text.drawButton(screen, l.trackPlay, label, p.Playing())

	fillRect(screen, l.progress, bevelDarker)
	if w := int(float64(l.progress.Dx()) * p.Progress()); w > 0 {
		fillRect(screen, image.Rect(l.progress.Min.X, l.progress.Min.Y, l.progress.Min.X+w, l.progress.Max.Y), sliderFillColor)
	}
	drawSunkenBorder(screen, l.progress)

	times := tracks.FormatTime(p.Position()) + " / " + tracks.FormatTime(p.Duration())
	g.text.draw(screen, times, l.player.Min.X+8, l.trackVolume.rect.Min.Y+3, color.White)
	g.text.drawSlider(screen, l.trackVolume, fmt.Sprintf("%3d%%", percent(p.Volume())), p.Volume())
}

func (g *Game) drawVisual(screen *ebiten.Image, rect image.Rectangle) {
	drawSunkenPanel(screen, rect, color.Black)
	inner := rect.Inset(4)
	if inner.Dx() <= 0 || inner.Dy() <= 0 {
		return
	}
	if g.visImg == nil || g.visImg.Bounds().Dx() != inner.Dx() || g.visImg.Bounds().Dy() != inner.Dy() {
		g.visImg = ebiten.NewImage(inner.Dx(), inner.Dy())
	}
	g.visImg.Clear()
	// Nothing is drawn while neither source exists.
	if f, ok := g.m.Visual().Read(); ok {
		g.vis.Render(imageCanvas{img: g.visImg}, f)
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(float64(inner.Min.X), float64(inner.Min.Y))
	screen.DrawImage(g.visImg, op)
	g.text.draw(screen, g.visName, inner.Max.X-len(g.visName)*charW-8, inner.Min.Y+4, color.White)
}

func (g *Game) drawStatus(screen *ebiten.Image, rect image.Rectangle) {
	drawSunkenPanel(screen, rect, sunkenBgColor)
	msg := "Status: " + g.status
	clr := color.Color(color.White)
	if g.statusErr {
		msg = "Status: ERROR - " + g.status
		clr = errTextColor
	}
	maxChars := max(8, (rect.Dx()-16)/charW)
	g.text.draw(screen, shortenEnd(msg, maxChars), rect.Min.X+8, rect.Min.Y+6, clr)
}

func playLabel(s sequencer.State) string {
	switch s {
	case sequencer.Playing:
		return "PAUSE"
	case sequencer.Paused:
		return "RESUME"
	}
	return "PLAY"
}

func percent(v float64) int { return int(v*100 + 0.5) }

func bpmFrac(bpm int) float64 {
	return float64(bpm-pattern.MinTempo) / float64(pattern.MaxTempo-pattern.MinTempo)
}

func bpmFromFrac(f float64) int {
	return pattern.MinTempo + int(f*float64(pattern.MaxTempo-pattern.MinTempo)+0.5)
}
