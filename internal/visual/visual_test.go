package visual

import (
	"image/color"
	"testing"
)

type fakeSource struct {
	freq []byte
	wave []byte
}

func (s *fakeSource) BinCount() int { return len(s.freq) }

func (s *fakeSource) ByteFrequencyData(dst []byte) { copy(dst, s.freq) }

func (s *fakeSource) ByteTimeDomainData(dst []byte) { copy(dst, s.wave) }

func provide(s Source) Provider { return func() Source { return s } }

type fakeCanvas struct {
	w, h  int
	rects int
	lines int
}

func (c *fakeCanvas) Size() (int, int) { return c.w, c.h }

func (c *fakeCanvas) FillRect(x, y, w, h float64, col color.Color) { c.rects++ }

func (c *fakeCanvas) Line(x0, y0, x1, y1 float64, col color.Color) { c.lines++ }

func TestMergerNoSources(t *testing.T) {
	m := NewMerger(provide(nil), nil)
	if m.Available() {
		t.Fatalf("Available() = true with no sources")
	}
	if f, ok := m.Read(); ok || f.Freq != nil {
		t.Fatalf("Read() = %v, %v; want absent", f, ok)
	}
	if got := m.BinCount(); got != 0 {
		t.Fatalf("BinCount() = %d, want 0", got)
	}
}

func TestMergerPassThrough(t *testing.T) {
	src := &fakeSource{freq: []byte{1, 2, 3}, wave: []byte{128, 129, 130, 131, 132, 133}}
	for name, m := range map[string]*Merger{
		"first":  NewMerger(provide(src), provide(nil)),
		"second": NewMerger(provide(nil), provide(src)),
	} {
		f, ok := m.Read()
		if !ok {
			t.Fatalf("%s: Read() absent", name)
		}
		if string(f.Freq) != string(src.freq) || string(f.Wave) != string(src.wave) {
			t.Fatalf("%s: frame = %v, want source data", name, f)
		}
	}
}

func TestMergerCombines(t *testing.T) {
	a := &fakeSource{freq: []byte{10, 200, 30}, wave: []byte{128, 100, 200, 128, 0, 0}}
	b := &fakeSource{freq: []byte{50, 20}, wave: []byte{255, 120, 150, 10}}
	m := NewMerger(provide(a), provide(b))

	if got := m.BinCount(); got != 2 {
		t.Fatalf("BinCount() = %d, want 2", got)
	}
	f, ok := m.Read()
	if !ok {
		t.Fatalf("Read() absent")
	}
	if want := []byte{50, 200}; string(f.Freq) != string(want) {
		t.Errorf("freq = %v, want %v", f.Freq, want)
	}
	if want := []byte{255, 100, 200, 10}; string(f.Wave) != string(want) {
		t.Errorf("wave = %v, want %v", f.Wave, want)
	}
}

func TestMergerFollowsProviders(t *testing.T) {
	src := &fakeSource{freq: []byte{7}, wave: []byte{128, 128}}
	var current Source
	m := NewMerger(func() Source { return current }, nil)
	if _, ok := m.Read(); ok {
		t.Fatalf("Read() before source appeared")
	}
	current = src
	if f, ok := m.Read(); !ok || f.Freq[0] != 7 {
		t.Fatalf("Read() = %v, %v; want source", f, ok)
	}
}

func TestBands(t *testing.T) {
	freq := make([]byte, 100)
	for i := range freq[:15] {
		freq[i] = 255
	}
	l := Bands(freq)
	if l.Bass != 1 || l.Mid != 0 || l.High != 0 {
		t.Fatalf("Bands() = %+v", l)
	}
	if got, want := Average(freq), 0.15; got != want {
		t.Fatalf("Average() = %v, want %v", got, want)
	}
	if got := Bands(nil); got != (Levels{}) {
		t.Fatalf("Bands(nil) = %+v", got)
	}
}

func TestColors(t *testing.T) {
	cases := []struct {
		v    float64
		want color.RGBA
	}{{0.9, Magenta}, {0.6, Orange}, {0.4, Yellow}, {0.1, Cyan}}
	for _, c := range cases {
		if got := LevelColor(c.v); got != c.want {
			t.Errorf("LevelColor(%v) = %v, want %v", c.v, got, c.want)
		}
	}
	if BarColor(255) != Magenta || BarColor(0) != Blue {
		t.Errorf("BarColor ramp endpoints wrong")
	}
}

func TestRegistry(t *testing.T) {
	r := DefaultRegistry()
	names := r.Names()
	if len(names) != 3 || names[0] != "bars" {
		t.Fatalf("Names() = %v", names)
	}
	if got := r.Next("rings"); got != "bars" {
		t.Fatalf("Next(rings) = %q, want bars", got)
	}
	if got := r.Next("nope"); got != "bars" {
		t.Fatalf("Next(nope) = %q, want bars", got)
	}
	for _, n := range names {
		if v, err := r.New(n); err != nil || v == nil {
			t.Fatalf("New(%q) = %v, %v", n, v, err)
		}
	}
	if _, err := r.New("nope"); err == nil {
		t.Fatalf("New(nope) succeeded")
	}
}

func TestBarsChaseSpectrum(t *testing.T) {
	b := NewBars()
	c := &fakeCanvas{w: 320, h: 100}
	f := Frame{Freq: []byte{255, 0, 128, 64}, Wave: make([]byte, 8)}
	for range 120 {
		b.Render(c, f)
	}
	h := b.Heights()
	for i, v := range f.Freq {
		if d := h[i] - float64(v); d > 2 || d < -2 {
			t.Errorf("bar %d = %.1f, want ~%d", i, h[i], v)
		}
	}
}

func TestScope(t *testing.T) {
	wave := []byte{100, 90, 120, 140, 150, 130, 110, 100}
	if got := ZeroCrossing(wave); got != 3 {
		t.Fatalf("ZeroCrossing() = %d, want 3", got)
	}
	c := &fakeCanvas{w: 100, h: 50}
	NewScope().Render(c, Frame{Freq: make([]byte, 4), Wave: wave})
	if c.lines != 1+len(wave)-3-1 {
		t.Fatalf("lines = %d", c.lines)
	}
}

func TestRingsSpawnWithCooldown(t *testing.T) {
	r := NewRings()
	c := &fakeCanvas{w: 400, h: 400}
	loud := make([]byte, 128)
	for i := range loud[:19] {
		loud[i] = 255
	}
	f := Frame{Freq: loud, Wave: make([]byte, 256)}

	for range 5 {
		r.Render(c, f)
	}
	if r.Len() != 1 {
		t.Fatalf("rings after 5 frames = %d, want 1", r.Len())
	}

	quiet := Frame{Freq: make([]byte, 128), Wave: make([]byte, 256)}
	for range 400 {
		r.Render(c, quiet)
	}
	if r.Len() != 0 {
		t.Fatalf("rings after decay = %d, want 0", r.Len())
	}
}
