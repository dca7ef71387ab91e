package ui

import (
	"image"

	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/synth"
)

const (
	windowW    = 1280
	windowH    = 860
	minWindowW = 1280
	minWindowH = 820

	pad       = 16
	gap       = 8
	rowH      = 44
	padCols   = 4
	padH      = 56
	leftW     = 472
	gridRowH  = 32
	gridLabel = 100
	listRowH  = lineH + 4
	deleteW   = 60
	statusH   = 40
	playerH   = 120
	savedH    = 148
)

type uiLayout struct {
	padScreen image.Rectangle
	pads      []image.Rectangle
	volume    slider

	tracks      image.Rectangle
	player      image.Rectangle
	trackPlay   image.Rectangle
	progress    image.Rectangle
	trackVolume slider

	seqScreen image.Rectangle
	play      image.Rectangle
	stop      image.Rectangle
	clear     image.Rectangle
	random    image.Rectangle
	bpm       slider
	grid      image.Rectangle

	name   image.Rectangle
	save   image.Rectangle
	saved  image.Rectangle
	visual image.Rectangle
	status image.Rectangle
}

func layoutRects(w, h int) uiLayout {
	w = max(w, minWindowW)
	h = max(h, minWindowH)
	var l uiLayout

	statusTop := h - pad - statusH
	l.status = image.Rect(pad, statusTop, w-pad, statusTop+statusH)
	bottom := statusTop - gap

	// Left column: pads, master volume, tracks, player.
	x0, x1 := pad, pad+leftW
	l.padScreen = image.Rect(x0, pad, x1, pad+60)
	padW := (leftW - (padCols-1)*gap) / padCols
	y := l.padScreen.Max.Y + 12
	for i := range synth.Kinds() {
		r, c := i/padCols, i%padCols
		px := x0 + c*(padW+gap)
		py := y + r*(padH+gap)
		l.pads = append(l.pads, image.Rect(px, py, px+padW, py+padH))
	}
	rows := (len(l.pads) + padCols - 1) / padCols
	y += rows*(padH+gap) + 4
	l.volume = slider{rect: image.Rect(x0, y, x1, y+rowH), labelW: 150}
	y += rowH + 12

	l.player = image.Rect(x0, bottom-playerH, x1, bottom)
	l.tracks = image.Rect(x0, y, x1, l.player.Min.Y-12)
	py := l.player.Min.Y + 8 + lineH + 6
	l.trackPlay = image.Rect(x0+8, py, x0+108, py+36)
	l.progress = image.Rect(l.trackPlay.Max.X+12, py+10, x1-12, py+26)
	vy := py + 36 + 4
	l.trackVolume = slider{rect: image.Rect(x0+200, vy, x1-4, l.player.Max.Y-4), labelW: 110}

	// Right column: sequencer, patterns, visualizer.
	rx0, rx1 := x1+32, w-pad
	l.seqScreen = image.Rect(rx0, pad, rx1, pad+60)
	ty := l.seqScreen.Max.Y + 12
	l.play = image.Rect(rx0, ty, rx0+110, ty+rowH)
	l.stop = image.Rect(l.play.Max.X+gap, ty, l.play.Max.X+gap+90, ty+rowH)
	l.clear = image.Rect(l.stop.Max.X+gap, ty, l.stop.Max.X+gap+100, ty+rowH)
	l.random = image.Rect(l.clear.Max.X+gap, ty, l.clear.Max.X+gap+110, ty+rowH)
	l.bpm = slider{rect: image.Rect(l.random.Max.X+gap, ty, rx1, ty+rowH), labelW: 130}

	gy := ty + rowH + 12
	l.grid = image.Rect(rx0, gy, rx1, gy+synth.SequencerRows*gridRowH+8)

	sy := l.grid.Max.Y + 12
	l.save = image.Rect(rx1-110, sy, rx1, sy+rowH)
	l.name = image.Rect(rx0, sy, l.save.Min.X-gap, sy+rowH)
	l.saved = image.Rect(rx0, sy+rowH+12, rx1, sy+rowH+12+savedH)
	l.visual = image.Rect(rx0, l.saved.Max.Y+12, rx1, bottom)
	return l
}

// cellRect is the grid cell for instrument row r and step s.
func (l uiLayout) cellRect(r, s int) image.Rectangle {
	inner := l.grid.Inset(4)
	cellW := (inner.Dx() - gridLabel) / sequencer.StepCount
	x := inner.Min.X + gridLabel + s*cellW
	y := inner.Min.Y + r*gridRowH
	return image.Rect(x+1, y+1, x+cellW-1, y+gridRowH-1)
}

func (l uiLayout) rowLabel(r int) image.Rectangle {
	inner := l.grid.Inset(4)
	y := inner.Min.Y + r*gridRowH
	return image.Rect(inner.Min.X, y+1, inner.Min.X+gridLabel-4, y+gridRowH-1)
}

// cellAt returns the grid cell under (x, y).
func (l uiLayout) cellAt(x, y int) (row, step int, ok bool) {
	for r := 0; r < synth.SequencerRows; r++ {
		for s := 0; s < sequencer.StepCount; s++ {
			if pointInRect(x, y, l.cellRect(r, s)) {
				return r, s, true
			}
		}
	}
	return 0, 0, false
}

// padAt returns the pad index under (x, y).
func (l uiLayout) padAt(x, y int) (int, bool) {
	for i, r := range l.pads {
		if pointInRect(x, y, r) {
			return i, true
		}
	}
	return 0, false
}

// listRow returns the list row index under y for a list drawn in rect
// with a title line, offset by scroll.
func listRow(rect image.Rectangle, y, scroll int) (int, bool) {
	top := rect.Min.Y + 8 + lineH + 4
	if y < top || y >= rect.Max.Y {
		return 0, false
	}
	return scroll + (y-top)/listRowH, true
}

func listRows(rect image.Rectangle) int {
	return max(1, (rect.Dy()-lineH-16)/listRowH)
}

// deleteHit reports whether x falls on the DEL column of a list row.
func deleteHit(rect image.Rectangle, x int) bool {
	return x >= rect.Max.X-deleteW-8 && x < rect.Max.X
}
