// Package visual turns analyser data into pictures. The Merger folds the
// pad/sequencer graph and the track player into one view, and visualizers
// draw that view onto a Canvas.
package visual

// Silence is the time-domain byte value of a zero sample.
const Silence = 128

// Source is anything that reports analyser snapshots in the byte scale of
// audio.Analyser.
type Source interface {
	BinCount() int
	ByteFrequencyData(dst []byte)
	ByteTimeDomainData(dst []byte)
}

// Provider returns the current source, or nil when it is not available.
type Provider func() Source

// Frame is one merged snapshot. Freq has BinCount entries and Wave has
// twice as many.
type Frame struct {
	Freq []byte
	Wave []byte
}

func (f Frame) BinCount() int { return len(f.Freq) }

// Merger reads two sources as one. Frequencies merge by per-bin maximum;
// waveforms keep whichever sample sits further from Silence. With one source
// available it is passed through unchanged.
type Merger struct {
	a, b Provider

	freqA, waveA []byte
	freqB, waveB []byte
}

func NewMerger(a, b Provider) *Merger {
	return &Merger{a: a, b: b}
}

func get(p Provider) Source {
	if p == nil {
		return nil
	}
	return p()
}

// Available reports whether at least one source can be read.
func (m *Merger) Available() bool {
	return get(m.a) != nil || get(m.b) != nil
}

// BinCount returns the merged bin count, or 0 when nothing is available.
func (m *Merger) BinCount() int {
	a, b := get(m.a), get(m.b)
	switch {
	case a != nil && b != nil:
		return min(a.BinCount(), b.BinCount())
	case a != nil:
		return a.BinCount()
	case b != nil:
		return b.BinCount()
	}
	return 0
}

// Read takes a snapshot. It returns false when neither source is available.
// The returned slices are reused by the next call.
func (m *Merger) Read() (Frame, bool) {
	a, b := get(m.a), get(m.b)
	switch {
	case a == nil && b == nil:
		return Frame{}, false
	case b == nil:
		return read(a, &m.freqA, &m.waveA, a.BinCount()), true
	case a == nil:
		return read(b, &m.freqB, &m.waveB, b.BinCount()), true
	}

	n := min(a.BinCount(), b.BinCount())
	fa := read(a, &m.freqA, &m.waveA, n)
	fb := read(b, &m.freqB, &m.waveB, n)
	for i := range fa.Freq {
		fa.Freq[i] = max(fa.Freq[i], fb.Freq[i])
	}
	for i := range fa.Wave {
		if deviation(fb.Wave[i]) > deviation(fa.Wave[i]) {
			fa.Wave[i] = fb.Wave[i]
		}
	}
	return fa, true
}

func read(s Source, freq, wave *[]byte, bins int) Frame {
	*freq = grow(*freq, bins)
	*wave = grow(*wave, 2*bins)
	s.ByteFrequencyData(*freq)
	s.ByteTimeDomainData(*wave)
	return Frame{Freq: *freq, Wave: *wave}
}

func grow(b []byte, n int) []byte {
	if cap(b) < n {
		return make([]byte, n)
	}
	return b[:n]
}

func deviation(v byte) int {
	d := int(v) - Silence
	if d < 0 {
		return -d
	}
	return d
}
