package audio

import (
	"encoding/binary"
	"io"
	"math"
	"testing"
	"time"

	"github.com/cbegin/beatmaker-go/internal/effects"
)

// constVoice adds a constant for a fixed number of frames from its start.
type constVoice struct {
	start, length int64
	value         float32
}

func (v *constVoice) Process(dst []float32, start int64) bool {
	end := v.start + v.length
	for i := range dst {
		f := start + int64(i)
		if f >= v.start && f < end {
			dst[i] += v.value
		}
	}
	return start+int64(len(dst)) < end
}

func TestGraphMixesAndDropsFinishedVoices(t *testing.T) {
	g := NewGraph(1000, WithGain(1))
	g.Add(&constVoice{start: 0, length: 4, value: 0.25})
	g.Add(&constVoice{start: 2, length: 100, value: 0.5})

	dst := make([]float32, 8)
	g.RenderMono(dst)
	want := []float32{0.25, 0.25, 0.75, 0.75, 0.5, 0.5, 0.5, 0.5}
	for i := range want {
		if math.Abs(float64(dst[i]-want[i])) > 1e-6 {
			t.Fatalf("dst[%d] = %f, want %f", i, dst[i], want[i])
		}
	}
	if got := g.Active(); got != 1 {
		t.Fatalf("active voices = %d, want 1", got)
	}
	if got := g.Frame(); got != 8 {
		t.Fatalf("frame = %d, want 8", got)
	}
	if got := g.Now(); math.Abs(got-0.008) > 1e-12 {
		t.Fatalf("now = %f, want 0.008", got)
	}
}

func TestGraphGainClampAndLastWriteWins(t *testing.T) {
	g := NewGraph(1000)
	if got := g.Gain(); math.Abs(got-DefaultGain) > 1e-6 {
		t.Fatalf("default gain = %f, want %f", got, DefaultGain)
	}
	g.SetGain(1.7)
	if got := g.Gain(); got != 1 {
		t.Fatalf("gain = %f, want 1", got)
	}
	g.SetGain(-3)
	if got := g.Gain(); got != 0 {
		t.Fatalf("gain = %f, want 0", got)
	}
	g.SetGain(0.3)
	g.SetGain(0.5)
	if got := g.Gain(); math.Abs(got-0.5) > 1e-6 {
		t.Fatalf("gain = %f, want 0.5", got)
	}

	g.Add(&constVoice{start: 0, length: 10, value: 1})
	dst := make([]float32, 4)
	g.Process(dst)
	for i, s := range dst {
		if math.Abs(float64(s)-0.5) > 1e-6 {
			t.Fatalf("stereo dst[%d] = %f, want 0.5", i, s)
		}
	}
}

func TestGraphAppliesEffectsBeforeGain(t *testing.T) {
	chain := effects.NewChain(effects.NewDistortion(1000, 10, 0.5, 0))
	g := NewGraph(1000, WithGain(1), WithEffects(chain))
	g.Add(&constVoice{start: 0, length: 10, value: 1})
	dst := make([]float32, 1)
	g.RenderMono(dst)
	if dst[0] > 0.5 || dst[0] < 0.49 {
		t.Fatalf("driven sample = %f, want ~0.5", dst[0])
	}
}

func TestStreamReaderEncodesFloat32LE(t *testing.T) {
	g := NewGraph(1000, WithGain(1))
	g.Add(&constVoice{start: 0, length: 10, value: 0.5})
	r := NewStreamReader(g)

	p := make([]byte, 19)
	n, err := r.Read(p)
	if err != nil {
		t.Fatalf("Read: %v", err)
	}
	if n != 16 {
		t.Fatalf("n = %d, want 16 (two whole frames)", n)
	}
	for i := 0; i < 4; i++ {
		got := math.Float32frombits(binary.LittleEndian.Uint32(p[i*4:]))
		if got != 0.5 {
			t.Fatalf("sample %d = %f, want 0.5", i, got)
		}
	}

	r.Close()
	if _, err := r.Read(p); err != io.EOF {
		t.Fatalf("read after close: err = %v, want EOF", err)
	}
}

func TestAnalyserSilence(t *testing.T) {
	a := NewAnalyser(DefaultFFTSize)
	if got := a.BinCount(); got != 128 {
		t.Fatalf("bins = %d, want 128", got)
	}
	a.Write(make([]float32, 512))

	freq := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	for i, v := range freq {
		if v != 0 {
			t.Fatalf("freq[%d] = %d, want 0 for silence", i, v)
		}
	}
	wave := make([]byte, a.FFTSize())
	a.ByteTimeDomainData(wave)
	for i, v := range wave {
		if v != 128 {
			t.Fatalf("wave[%d] = %d, want 128 for silence", i, v)
		}
	}
}

func TestAnalyserFindsSinePeak(t *testing.T) {
	a := NewAnalyser(256)
	samples := make([]float32, 256)
	for i := range samples {
		samples[i] = float32(math.Sin(2 * math.Pi * 16 * float64(i) / 256))
	}
	a.Write(samples)

	freq := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	if freq[16] < 200 {
		t.Fatalf("peak bin = %d, want >= 200", freq[16])
	}
	if freq[64] >= freq[16]/2 {
		t.Fatalf("far bin %d should be well below peak %d", freq[64], freq[16])
	}

	wave := make([]byte, 256)
	a.ByteTimeDomainData(wave)
	if wave[0] != 128 || wave[4] != 255 {
		t.Fatalf("wave[0]=%d wave[4]=%d, want 128 and 255", wave[0], wave[4])
	}
}

func TestOutputLifecycle(t *testing.T) {
	o := NewOutput(8000, WithDevice(false), WithGraphOptions(WithGain(0.4)))
	if o.Current() != nil {
		t.Fatal("Current should be nil before Initialize")
	}
	g, err := o.Initialize()
	if err != nil {
		t.Fatalf("Initialize: %v", err)
	}
	if g == nil || o.Current() != g {
		t.Fatal("Current should return the initialized graph")
	}
	again, _ := o.Initialize()
	if again != g {
		t.Fatal("Initialize should be idempotent")
	}
	if math.Abs(g.Gain()-0.4) > 1e-6 {
		t.Fatalf("gain = %f, want 0.4", g.Gain())
	}
	if err := o.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}

func TestSilentOutputStillDisposesVoices(t *testing.T) {
	o := NewOutput(8000, WithDevice(false))
	o.Advance(time.Second) // no graph yet
	g, _ := o.Initialize()
	if !o.Silent() {
		t.Fatal("output without a device should be silent")
	}
	for i := 0; i < 100; i++ {
		g.Add(&constVoice{start: 0, length: 800, value: 0.01})
	}
	o.Advance(50 * time.Millisecond)
	if got := g.Active(); got != 100 {
		t.Fatalf("Active() after 400 frames = %d, want 100", got)
	}
	o.Advance(100 * time.Millisecond)
	if got := g.Active(); got != 0 {
		t.Fatalf("Active() after 1200 frames = %d, want 0", got)
	}
	if got := g.Frame(); got != 1200 {
		t.Fatalf("Frame() = %d, want 1200", got)
	}
	o.Advance(time.Hour)
	if got := g.Frame(); got != 1200+2*8000 {
		t.Fatalf("Frame() after a long stall = %d, want %d", got, 1200+2*8000)
	}
}

func TestAnalyserResetForgetsSignal(t *testing.T) {
	a := NewAnalyser(DefaultFFTSize)
	sig := make([]float32, DefaultFFTSize)
	for i := range sig {
		sig[i] = float32(math.Sin(2 * math.Pi * float64(i) / 8))
	}
	a.Write(sig)
	freq := make([]byte, a.BinCount())
	a.ByteFrequencyData(freq)
	a.Reset()

	wave := make([]byte, a.FFTSize())
	a.ByteTimeDomainData(wave)
	a.ByteFrequencyData(freq)
	for i, v := range wave {
		if v != 128 {
			t.Fatalf("wave[%d] = %d after Reset, want 128", i, v)
		}
	}
	for i, v := range freq {
		if v != 0 {
			t.Fatalf("freq[%d] = %d after Reset, want 0", i, v)
		}
	}
}
