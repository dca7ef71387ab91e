package lfo

import (
	"math"
	"testing"
)

func TestLFOSineStartsAtZeroAndPeaksAtQuarter(t *testing.T) {
	l := New(WaveSine, 1.0, 20.0)

	sr := 100.0
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = l.Sample(sr)
	}
	if math.Abs(samples[0]) > 1e-9 {
		t.Errorf("sine at phase 0: got %f, want 0", samples[0])
	}
	if math.Abs(samples[25]-20.0) > 0.05 {
		t.Errorf("sine at phase 0.25: got %f, want 20", samples[25])
	}
	if math.Abs(samples[75]+20.0) > 0.05 {
		t.Errorf("sine at phase 0.75: got %f, want -20", samples[75])
	}
}

func TestLFOTriangleBasicShape(t *testing.T) {
	l := New(WaveTriangle, 1.0, 1.0)

	sr := 100.0
	samples := make([]float64, 100)
	for i := range samples {
		samples[i] = l.Sample(sr)
	}
	if math.Abs(samples[0]+1.0) > 0.05 {
		t.Errorf("triangle at phase 0: got %f, want -1.0", samples[0])
	}
	if math.Abs(samples[25]) > 0.05 {
		t.Errorf("triangle at phase 0.25: got %f, want ~0", samples[25])
	}
	if math.Abs(samples[50]-1.0) > 0.05 {
		t.Errorf("triangle at phase 0.5: got %f, want 1.0", samples[50])
	}
}

func TestLFOSquareShape(t *testing.T) {
	l := New(WaveSquare, 1.0, 2.0)

	sr := 100.0
	if v := l.Sample(sr); math.Abs(v-2.0) > 0.01 {
		t.Errorf("square first half: got %f, want 2.0", v)
	}
	for i := 1; i < 50; i++ {
		l.Sample(sr)
	}
	if v := l.Sample(sr); math.Abs(v+2.0) > 0.01 {
		t.Errorf("square second half: got %f, want -2.0", v)
	}
}

func TestLFOZeroDepthOrRateIsSilent(t *testing.T) {
	l := New(WaveSine, 5.0, 0)
	if v := l.Sample(44100); v != 0 {
		t.Errorf("zero depth should return 0, got %f", v)
	}
	l = New(WaveSine, 0, 1.0)
	if v := l.Sample(44100); v != 0 {
		t.Errorf("zero rate should return 0, got %f", v)
	}
	if l.Active() {
		t.Error("zero-rate LFO should not be active")
	}
}

func TestLFOUnknownWaveFallsBackToSine(t *testing.T) {
	l := New(Waveform(42), 1.0, 1.0)
	if l.wave != WaveSine {
		t.Fatalf("wave = %d, want sine", l.wave)
	}
}

func TestLFOReset(t *testing.T) {
	l := New(WaveSaw, 10.0, 1.0)
	for i := 0; i < 37; i++ {
		l.Sample(1000)
	}
	l.Reset()
	if v := l.Sample(1000); math.Abs(v-1.0) > 1e-9 {
		t.Errorf("saw after reset: got %f, want 1.0", v)
	}
}
