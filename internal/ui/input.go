package ui

import (
	"image"
	"unicode"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/cbegin/beatmaker-go/internal/synth"
	"github.com/cbegin/beatmaker-go/internal/tracks"
)

var padKeys = map[ebiten.Key]string{
	ebiten.KeyQ:      "Q",
	ebiten.KeyW:      "W",
	ebiten.KeyE:      "E",
	ebiten.KeyA:      "A",
	ebiten.KeyS:      "S",
	ebiten.KeyD:      "D",
	ebiten.KeyDigit1: "1",
	ebiten.KeyDigit2: "2",
	ebiten.KeyDigit3: "3",
	ebiten.KeyDigit4: "4",
	ebiten.KeyDigit5: "5",
	ebiten.KeyDigit6: "6",
	ebiten.KeyDigit7: "7",
	ebiten.KeyDigit8: "8",
}

func (g *Game) handleKeys() {
	if g.nameFocus {
		g.handleNameKeys()
		return
	}
	for k, name := range padKeys {
		if inpututil.IsKeyJustPressed(k) {
			if inst, ok := synth.ByKey(name); ok {
				g.hitPad(inst.ID)
			}
		}
	}
	// Track transport keys only apply with a track selected.
	p := g.m.Player()
	if !p.HasTrack() {
		return
	}
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeySpace):
		p.Toggle()
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowLeft):
		p.SeekBy(-tracks.SeekStep)
	case inpututil.IsKeyJustPressed(ebiten.KeyArrowRight):
		p.SeekBy(tracks.SeekStep)
	}
}

func (g *Game) handleNameKeys() {
	g.name = appendName(g.name, ebiten.AppendInputChars(nil))
	switch {
	case inpututil.IsKeyJustPressed(ebiten.KeyBackspace) && len(g.name) > 0:
		g.name = g.name[:len(g.name)-1]
	case inpututil.IsKeyJustPressed(ebiten.KeyEnter):
		g.saveName()
	case inpututil.IsKeyJustPressed(ebiten.KeyEscape):
		g.nameFocus = false
	}
}

// appendName adds printable runes up to nameMaxLen.
func appendName(name, typed []rune) []rune {
	for _, r := range typed {
		if len(name) >= nameMaxLen {
			break
		}
		if unicode.IsPrint(r) {
			name = append(name, r)
		}
	}
	return name
}

func (g *Game) handleMouse() {
	mx, my := ebiten.CursorPosition()
	l := layoutRects(g.viewW, g.viewH)

	if inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft) {
		g.click(mx, my, l)
	}
	if !ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft) {
		g.dragging = dragNone
	}
	switch g.dragging {
	case dragVolume:
		g.m.SetVolume(l.volume.value(mx))
	case dragBPM:
		g.m.SetTempo(bpmFromFrac(l.bpm.value(mx)))
	case dragTrackVolume:
		g.m.Player().SetVolume(l.trackVolume.value(mx))
	case dragProgress:
		g.m.Player().SeekTo(clamp(float64(mx-l.progress.Min.X)/float64(l.progress.Dx()), 0, 1))
	}

	_, wy := ebiten.Wheel()
	if wy == 0 {
		return
	}
	step := -int(wy * 2)
	switch {
	case pointInRect(mx, my, l.saved):
		g.savedScroll = max(0, g.savedScroll+step)
	case pointInRect(mx, my, l.tracks):
		g.trackScroll = max(0, g.trackScroll+step)
	}
}

func (g *Game) click(mx, my int, l uiLayout) {
	g.nameFocus = pointInRect(mx, my, l.name)
	if g.nameFocus {
		return
	}
	if i, ok := l.padAt(mx, my); ok {
		g.hitPad(synth.Catalog()[i].ID)
		return
	}
	if r, s, ok := l.cellAt(mx, my); ok {
		g.m.ToggleStep(g.m.Pattern().IDs()[r], s)
		return
	}
	switch {
	case pointInRect(mx, my, l.play):
		g.togglePlay()
	case pointInRect(mx, my, l.stop):
		g.m.Stop()
		g.setStatus("Stopped")
	case pointInRect(mx, my, l.clear):
		g.m.Clear()
		g.setStatus("Pattern cleared")
	case pointInRect(mx, my, l.random):
		g.m.Randomize()
		g.setStatus("Pattern randomized")
	case pointInRect(mx, my, l.save):
		g.saveName()
	case pointInRect(mx, my, l.volume.rect):
		g.dragging = dragVolume
	case pointInRect(mx, my, l.bpm.rect):
		g.dragging = dragBPM
	case pointInRect(mx, my, l.trackVolume.rect):
		g.dragging = dragTrackVolume
	case pointInRect(mx, my, l.progress):
		g.dragging = dragProgress
	case pointInRect(mx, my, l.trackPlay):
		g.m.Player().Toggle()
	case pointInRect(mx, my, l.saved):
		g.clickSaved(mx, my, l.saved)
	case pointInRect(mx, my, l.tracks):
		g.clickTracks(mx, my, l.tracks)
	case pointInRect(mx, my, l.visual):
		g.cycleVisualizer()
	}
}

func (g *Game) clickSaved(mx, my int, rect image.Rectangle) {
	idx, ok := listRow(rect, my, g.savedScroll)
	saved := g.m.Patterns()
	if !ok || idx >= len(saved) {
		return
	}
	if deleteHit(rect, mx) {
		g.deleteSaved(saved[idx])
		return
	}
	g.loadSaved(saved[idx])
}

func (g *Game) clickTracks(mx, my int, rect image.Rectangle) {
	idx, ok := listRow(rect, my, g.trackScroll)
	list := g.m.Tracks()
	if !ok || idx >= len(list) {
		return
	}
	t := list[idx]
	if t.Uploaded() && deleteHit(rect, mx) {
		g.deleteTrack(t)
		return
	}
	g.selectTrack(t)
}
