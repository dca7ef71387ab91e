package ui

import (
	"image"
	"testing"

	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/synth"
)

func TestLayoutFitsWindow(t *testing.T) {
	for _, size := range []image.Point{{minWindowW, minWindowH}, {windowW, windowH}, {1920, 1080}} {
		l := layoutRects(size.X, size.Y)
		screen := image.Rect(0, 0, size.X, size.Y)
		rects := map[string]image.Rectangle{
			"tracks": l.tracks, "player": l.player, "grid": l.grid,
			"saved": l.saved, "visual": l.visual, "status": l.status,
		}
		for name, r := range rects {
			if r.Empty() || !r.In(screen) {
				t.Errorf("%v: %s = %v outside window", size, name, r)
			}
		}
		if l.tracks.Overlaps(l.player) || l.saved.Overlaps(l.visual) || l.grid.Overlaps(l.name) {
			t.Errorf("%v: panels overlap", size)
		}
	}
}

func TestPadsDoNotOverlap(t *testing.T) {
	l := layoutRects(windowW, windowH)
	if len(l.pads) != len(synth.Catalog()) {
		t.Fatalf("pads = %d, want %d", len(l.pads), len(synth.Catalog()))
	}
	for i, a := range l.pads {
		for j, b := range l.pads[i+1:] {
			if a.Overlaps(b) {
				t.Fatalf("pad %d overlaps pad %d", i, i+1+j)
			}
		}
		c := image.Pt((a.Min.X+a.Max.X)/2, (a.Min.Y+a.Max.Y)/2)
		if got, ok := l.padAt(c.X, c.Y); !ok || got != i {
			t.Fatalf("padAt(center of %d) = %d, %v", i, got, ok)
		}
	}
}

func TestCellHitTesting(t *testing.T) {
	l := layoutRects(windowW, windowH)
	for r := 0; r < synth.SequencerRows; r++ {
		for s := 0; s < sequencer.StepCount; s++ {
			c := l.cellRect(r, s)
			if !c.In(l.grid) {
				t.Fatalf("cell %d/%d = %v outside grid %v", r, s, c, l.grid)
			}
			gr, gs, ok := l.cellAt(c.Min.X+2, c.Min.Y+2)
			if !ok || gr != r || gs != s {
				t.Fatalf("cellAt(%d/%d) = %d/%d, %v", r, s, gr, gs, ok)
			}
		}
	}
	if _, _, ok := l.cellAt(l.rowLabel(0).Min.X+2, l.rowLabel(0).Min.Y+2); ok {
		t.Fatalf("row label counted as a cell")
	}
}

func TestListRows(t *testing.T) {
	rect := image.Rect(0, 100, 400, 300)
	top := rect.Min.Y + 8 + lineH + 4
	if _, ok := listRow(rect, top-1, 0); ok {
		t.Fatalf("title line counted as a row")
	}
	if got, ok := listRow(rect, top+listRowH+1, 3); !ok || got != 4 {
		t.Fatalf("listRow() = %d, %v; want 4", got, ok)
	}
	if !deleteHit(rect, 390) || deleteHit(rect, 100) {
		t.Fatalf("deleteHit() wrong")
	}
}

func TestSliderAndTempoMapping(t *testing.T) {
	s := slider{rect: image.Rect(0, 0, 300, 40), labelW: 100}
	tr := s.track()
	if got := s.value(tr.Min.X - 50); got != 0 {
		t.Errorf("value(left) = %v", got)
	}
	if got := s.value(tr.Max.X + 50); got != 1 {
		t.Errorf("value(right) = %v", got)
	}
	for _, bpm := range []int{pattern.MinTempo, 120, pattern.MaxTempo} {
		if got := bpmFromFrac(bpmFrac(bpm)); got != bpm {
			t.Errorf("bpm round trip %d -> %d", bpm, got)
		}
	}
}

func TestAppendName(t *testing.T) {
	got := appendName([]rune("ab"), []rune("c\x01d"))
	if string(got) != "abcd" {
		t.Fatalf("appendName() = %q", string(got))
	}
	long := appendName(nil, []rune("abcdefghijklmnopqrstuvwxyz0123"))
	if len(long) != nameMaxLen {
		t.Fatalf("len = %d, want %d", len(long), nameMaxLen)
	}
	if got := shortenEnd("Crystal Cave", 8); got != "Cryst..." {
		t.Fatalf("shortenEnd() = %q", got)
	}
}
