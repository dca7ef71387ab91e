package pattern

import (
	"testing"
)

var ids = []string{"Kick", "Snare", "HiHat", "Clap", "Tom", "Cowbell", "Blip", "Perc"}

func checkShape(t *testing.T, p *Pattern) {
	t.Helper()
	data := p.Data()
	if len(data) != len(ids) {
		t.Fatalf("rows = %d, want %d", len(data), len(ids))
	}
	for _, id := range ids {
		if got := len(data[id]); got != StepCount {
			t.Fatalf("%s has %d steps, want %d", id, got, StepCount)
		}
	}
}

func TestNewPatternIsEmpty(t *testing.T) {
	p := New(ids...)
	checkShape(t, p)
	if p.Count() != 0 {
		t.Fatalf("count = %d, want 0", p.Count())
	}
	if p.Tempo() != DefaultTempo {
		t.Fatalf("tempo = %d, want %d", p.Tempo(), DefaultTempo)
	}
	if got := New("Kick", "Kick").IDs(); len(got) != 1 {
		t.Fatalf("duplicate ids not collapsed: %v", got)
	}
}

func TestToggleFlipsExactlyOneStep(t *testing.T) {
	p := New(ids...)
	p.Set("Snare", 4, true)
	before := p.Data()

	if !p.Toggle("Kick", 3) {
		t.Fatal("Toggle(Kick, 3) should succeed")
	}
	after := p.Data()
	for _, id := range ids {
		for i := 0; i < StepCount; i++ {
			changed := before[id][i] != after[id][i]
			if changed != (id == "Kick" && i == 3) {
				t.Fatalf("%s[%d] changed=%v", id, i, changed)
			}
		}
	}
	p.Toggle("Kick", 3)
	if p.Active("Kick", 3) {
		t.Fatal("second toggle should turn the step off")
	}
}

func TestToggleOutOfRangeIsNoop(t *testing.T) {
	p := New(ids...)
	p.Set("Kick", 15, true)
	for _, step := range []int{StepCount, -1, 100} {
		if p.Toggle("Kick", step) {
			t.Errorf("Toggle(Kick, %d) should be a no-op", step)
		}
	}
	if p.Toggle("Cymbal", 0) {
		t.Error("Toggle on unknown id should be a no-op")
	}
	if p.Count() != 1 || !p.Active("Kick", 15) {
		t.Fatalf("pattern changed: count=%d", p.Count())
	}
	checkShape(t, p)
}

func TestClearKeepsTempo(t *testing.T) {
	p := New(ids...)
	p.SetTempo(150)
	p.Randomize(1)
	p.Clear()
	checkShape(t, p)
	if p.Count() != 0 {
		t.Fatalf("count after clear = %d", p.Count())
	}
	if p.Tempo() != 150 {
		t.Fatalf("tempo after clear = %d, want 150", p.Tempo())
	}
}

func TestRandomizeDensity(t *testing.T) {
	p := New(ids...)
	p.Randomize(0)
	if p.Count() != 0 {
		t.Fatalf("density 0: count = %d", p.Count())
	}
	p.Randomize(1)
	if want := len(ids) * StepCount; p.Count() != want {
		t.Fatalf("density 1: count = %d, want %d", p.Count(), want)
	}
	p.Randomize(7)
	checkShape(t, p)

	// 128 cells per run; average over many runs should sit near the density.
	total := 0
	const runs = 200
	for i := 0; i < runs; i++ {
		p.Randomize(DefaultDensity)
		total += p.Count()
	}
	mean := float64(total) / runs / float64(len(ids)*StepCount)
	if mean < 0.25 || mean > 0.35 {
		t.Fatalf("mean density = %f, want ~%f", mean, DefaultDensity)
	}
}

func TestTempoClamp(t *testing.T) {
	p := New(ids...)
	cases := []struct{ in, want int }{{30, 60}, {60, 60}, {128, 128}, {200, 200}, {999, 200}}
	for _, c := range cases {
		if got := p.SetTempo(c.in); got != c.want {
			t.Errorf("SetTempo(%d) = %d, want %d", c.in, got, c.want)
		}
	}
}

func TestCloneIsIndependent(t *testing.T) {
	p := New(ids...)
	p.Set("Tom", 2, true)
	c := p.Clone()
	p.Toggle("Tom", 2)
	p.SetTempo(90)
	if !c.Active("Tom", 2) || c.Tempo() != DefaultTempo {
		t.Fatal("clone should not follow the original")
	}
}

func TestActiveAtAndReplaceNormalizes(t *testing.T) {
	p := New(ids...)
	p.Replace(500, map[string][]bool{
		"Kick":   {true, false, false, false, true},
		"Snare":  make([]bool, 40),
		"Cymbal": {true},
	})
	checkShape(t, p)
	if p.Tempo() != MaxTempo {
		t.Fatalf("tempo = %d, want %d", p.Tempo(), MaxTempo)
	}
	if got := p.ActiveAt(4); len(got) != 1 || got[0] != "Kick" {
		t.Fatalf("ActiveAt(4) = %v, want [Kick]", got)
	}
	if got := p.ActiveAt(StepCount); got != nil {
		t.Fatalf("ActiveAt(out of range) = %v", got)
	}
}
