package beatmaker

import (
	"io"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	intaudio "github.com/cbegin/beatmaker-go/internal/audio"
	intfx "github.com/cbegin/beatmaker-go/internal/effects"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
	"github.com/cbegin/beatmaker-go/internal/synth"
)

// renderBlock is the number of frames rendered per simulated display frame.
const renderBlock = 128

// simClock is a clock the offline renderer moves by hand.
type simClock struct{ now time.Time }

func (c *simClock) Now() time.Time { return c.now }

// Tail returns how long the longest instrument rings after its trigger.
func Tail() time.Duration {
	longest := 0.0
	for _, k := range synth.Kinds() {
		if r, ok := synth.RecipeFor(k); ok {
			longest = max(longest, r.Duration())
		}
	}
	return time.Duration(longest * float64(time.Second))
}

// RenderPattern bounces bars loops of p at its tempo to mono samples.
// Steps are driven by the real timing engine over a simulated clock, so every
// hit lands on its exact grid frame. The last hits ring out for Tail.
func RenderPattern(p *pattern.Pattern, sampleRate, bars int, effectSpecs ...string) ([]float32, error) {
	if sampleRate <= 0 {
		return nil, fault.New("sample rate must be positive")
	}
	if bars <= 0 {
		return nil, fault.New("bars must be positive")
	}
	chain, err := intfx.ParseChain(effectSpecs, sampleRate)
	if err != nil {
		return nil, err
	}
	g := intaudio.NewGraph(sampleRate, intaudio.WithEffects(chain), intaudio.WithGain(1))

	epoch := time.Unix(0, 0)
	clock := &simClock{now: epoch}
	frames := sequencer.NewFrameQueue()
	bank := synth.NewBank()
	trigger := sequencer.TriggerFunc(func(id string, due time.Time) {
		bank.TriggerID(g, due.Sub(epoch).Seconds(), id)
	})
	eng := sequencer.New(p, trigger, clock, frames, sequencer.Options{
		CatchUp:  sequencer.CatchUpBurst,
		MaxBurst: sequencer.StepCount,
	})

	length := time.Duration(bars*sequencer.StepCount) * sequencer.StepInterval(p.Tempo())
	stopAt := epoch.Add(length)
	total := frameOf(length+Tail(), sampleRate)
	out := make([]float32, total)

	eng.Play()
	for off := 0; off < total; off += renderBlock {
		n := min(renderBlock, total-off)
		if eng.Playing() {
			// Fire everything due before the end of the block, but nothing
			// past the last bar.
			end := epoch.Add(durationOf(off+n, sampleRate))
			last := !end.Before(stopAt)
			if last {
				end = stopAt.Add(-time.Nanosecond)
			}
			clock.now = end
			frames.RunFrame(end)
			if last {
				eng.Stop()
			}
		}
		g.RenderMono(out[off : off+n])
	}
	return out, nil
}

func frameOf(d time.Duration, sampleRate int) int {
	return int(d.Seconds() * float64(sampleRate))
}

func durationOf(frames, sampleRate int) time.Duration {
	return time.Duration(float64(frames) / float64(sampleRate) * float64(time.Second))
}

// WriteWAV encodes mono samples as 16-bit PCM.
func WriteWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	enc := wav.NewEncoder(w, sampleRate, 16, 1, 1)
	buf := &audio.IntBuffer{
		Format: &audio.Format{
			NumChannels: 1,
			SampleRate:  sampleRate,
		},
		Data:           make([]int, len(samples)),
		SourceBitDepth: 16,
	}
	for i, s := range samples {
		s = min(max(s, -1), 1)
		buf.Data[i] = int(s * 32767)
	}
	if err := enc.Write(buf); err != nil {
		return fault.Wrap(err, fmsg.With("encode wav"))
	}
	if err := enc.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("finish wav"))
	}
	return nil
}
