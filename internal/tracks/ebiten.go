package tracks

import (
	"bytes"
	"context"
	"encoding/binary"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	ebitaudio "github.com/hajimehoshi/ebiten/v2/audio"
	"github.com/hajimehoshi/ebiten/v2/audio/mp3"
	"github.com/hajimehoshi/ebiten/v2/audio/vorbis"
	"github.com/hajimehoshi/ebiten/v2/audio/wav"

	"github.com/cbegin/beatmaker-go/internal/audio"
)

// decoded streams are 16-bit little-endian stereo.
const bytesPerFrame = 4

// trackBuffer is how far the player reads ahead of the speaker. The analyser
// tap sees audio that early, so it is kept short.
const trackBuffer = 50 * time.Millisecond

// EbitenMedia decodes tracks with ebiten's decoders and plays them on the
// shared audio context. Decoded audio is copied into the analyser so the
// visualizer can follow the track.
type EbitenMedia struct {
	sampleRate int
	assetsDir  string
	analyser   *audio.Analyser
}

func NewEbitenMedia(sampleRate int, assetsDir string, analyser *audio.Analyser) *EbitenMedia {
	return &EbitenMedia{sampleRate: sampleRate, assetsDir: assetsDir, analyser: analyser}
}

func (m *EbitenMedia) Open(ctx context.Context, t Track) (Stream, error) {
	src, closer, err := m.source(t)
	if err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		closer.Close()
		return nil, err
	}
	format := t.Format
	if format == FormatUnknown {
		format = DetectFormat(t.Src, "", nil)
	}
	decoded, length, err := decode(format, m.sampleRate, src)
	if err != nil {
		closer.Close()
		return nil, fault.Wrap(err, fmsg.With("decode "+t.Src))
	}
	actx, err := audio.SharedContext(m.sampleRate)
	if err != nil {
		closer.Close()
		return nil, err
	}
	tap := &tapReader{src: decoded, analyser: m.analyser}
	pl, err := actx.NewPlayer(tap)
	if err != nil {
		closer.Close()
		return nil, fault.Wrap(err, fmsg.With("create player"))
	}
	pl.SetBufferSize(trackBuffer)
	var dur time.Duration
	if length > 0 {
		frames := length / bytesPerFrame
		dur = time.Duration(frames) * time.Second / time.Duration(m.sampleRate)
	}
	return &ebitenStream{player: pl, closer: closer, duration: dur}, nil
}

func (m *EbitenMedia) source(t Track) (io.ReadSeeker, io.Closer, error) {
	if t.Data != nil {
		return bytes.NewReader(t.Data), io.NopCloser(nil), nil
	}
	path := t.Src
	if !filepath.IsAbs(path) {
		path = filepath.Join(m.assetsDir, path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fault.Wrap(err, fmsg.With("open "+path))
	}
	return f, f, nil
}

func decode(format Format, sampleRate int, src io.ReadSeeker) (io.ReadSeeker, int64, error) {
	switch format {
	case FormatMP3:
		s, err := mp3.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, 0, err
		}
		return s, s.Length(), nil
	case FormatWAV:
		s, err := wav.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, 0, err
		}
		return s, s.Length(), nil
	case FormatOgg:
		s, err := vorbis.DecodeWithSampleRate(sampleRate, src)
		if err != nil {
			return nil, 0, err
		}
		return s, s.Length(), nil
	}
	return nil, 0, fault.New("unsupported format", ftag.With(ftag.InvalidArgument))
}

// tapReader feeds 16-bit stereo bytes through to the player and folds each
// read into the analyser as mono floats. Reads run up to trackBuffer ahead of
// what is heard.
type tapReader struct {
	src      io.ReadSeeker
	analyser *audio.Analyser
	mono     []float32
	carry    []byte
}

func (r *tapReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	if n > 0 && r.analyser != nil {
		r.feed(p[:n])
	}
	return n, err
}

func (r *tapReader) feed(b []byte) {
	if len(r.carry) > 0 {
		b = append(r.carry, b...)
		r.carry = nil
	}
	frames := len(b) / bytesPerFrame
	if rem := len(b) % bytesPerFrame; rem > 0 {
		r.carry = append([]byte(nil), b[len(b)-rem:]...)
	}
	if cap(r.mono) < frames {
		r.mono = make([]float32, frames)
	}
	mono := r.mono[:frames]
	for i := range mono {
		l := int16(binary.LittleEndian.Uint16(b[i*4:]))
		rr := int16(binary.LittleEndian.Uint16(b[i*4+2:]))
		mono[i] = (float32(l) + float32(rr)) / (2 * 32768)
	}
	r.analyser.Write(mono)
}

func (r *tapReader) Seek(offset int64, whence int) (int64, error) {
	r.carry = nil
	return r.src.Seek(offset, whence)
}

type ebitenStream struct {
	player   *ebitaudio.Player
	closer   io.Closer
	duration time.Duration
}

func (s *ebitenStream) Play()                            { s.player.Play() }
func (s *ebitenStream) Pause()                           { s.player.Pause() }
func (s *ebitenStream) IsPlaying() bool                  { return s.player.IsPlaying() }
func (s *ebitenStream) Position() time.Duration          { return s.player.Position() }
func (s *ebitenStream) SetPosition(d time.Duration) error { return s.player.SetPosition(d) }
func (s *ebitenStream) Duration() time.Duration          { return s.duration }
func (s *ebitenStream) SetVolume(v float64)              { s.player.SetVolume(v) }

func (s *ebitenStream) Close() error {
	err := s.player.Close()
	if cerr := s.closer.Close(); err == nil {
		err = cerr
	}
	return err
}
