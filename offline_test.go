package beatmaker

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-audio/wav"

	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/synth"
)

func peak(s []float32) float64 {
	m := 0.0
	for _, v := range s {
		m = max(m, math.Abs(float64(v)))
	}
	return m
}

func TestRenderPatternLandsOnGrid(t *testing.T) {
	const sr = 8000
	p := pattern.New(synth.SequencerIDs()...)
	p.Set("Kick", 0, true)
	p.Set("Kick", 8, true)

	out, err := RenderPattern(p, sr, 1)
	if err != nil {
		t.Fatalf("RenderPattern() error = %v", err)
	}
	// 16 steps at 120 bpm plus the kick tail.
	if got, want := len(out), int((2.0+Tail().Seconds())*sr); got != want {
		t.Fatalf("len = %d, want %d", got, want)
	}
	if peak(out[:200]) < 0.1 {
		t.Fatalf("first kick missing")
	}
	if got := peak(out[4900:8000]); got != 0 {
		t.Fatalf("gap between kicks peak = %v, want silence", got)
	}
	if peak(out[8000:8200]) < 0.1 {
		t.Fatalf("second kick missing at step 8")
	}
	if got := peak(out[12900:]); got != 0 {
		t.Fatalf("tail after last kick peak = %v, want silence", got)
	}
}

func TestRenderPatternRejectsBadInput(t *testing.T) {
	p := pattern.New("Kick")
	if _, err := RenderPattern(p, 0, 1); err == nil {
		t.Errorf("sample rate 0 accepted")
	}
	if _, err := RenderPattern(p, 8000, 0); err == nil {
		t.Errorf("0 bars accepted")
	}
	if _, err := RenderPattern(p, 8000, 1, "flanger"); err == nil {
		t.Errorf("unknown effect accepted")
	}
}

func TestWriteWAV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bounce.wav")
	f, err := os.Create(path)
	if err != nil {
		t.Fatal(err)
	}
	samples := []float32{0, 0.5, -0.5, 2}
	if err := WriteWAV(f, samples, 8000); err != nil {
		t.Fatalf("WriteWAV() error = %v", err)
	}
	f.Close()

	r, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	dec := wav.NewDecoder(r)
	if !dec.IsValidFile() {
		t.Fatalf("written file is not a valid wav")
	}
	buf, err := dec.FullPCMBuffer()
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if dec.SampleRate != 8000 || dec.NumChans != 1 || dec.BitDepth != 16 {
		t.Fatalf("format = %d Hz, %d ch, %d bit", dec.SampleRate, dec.NumChans, dec.BitDepth)
	}
	want := []int{0, 16383, -16383, 32767}
	if len(buf.Data) != len(want) {
		t.Fatalf("frames = %d, want %d", len(buf.Data), len(want))
	}
	for i := range want {
		if buf.Data[i] != want[i] {
			t.Errorf("sample %d = %d, want %d", i, buf.Data[i], want[i])
		}
	}
}
