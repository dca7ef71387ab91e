// Package synth generates the pad sounds. Every trigger builds fresh voices
// from a fixed recipe table and hands them to the output graph.
package synth

import (
	"github.com/cbegin/beatmaker-go/internal/audio"
)

// Bank triggers instrument recipes into a graph. It holds no per-trigger
// state and is safe for concurrent use.
type Bank struct{}

func NewBank() *Bank { return &Bank{} }

// Trigger schedules kind k to start at graph time at (seconds). Times in the
// past start immediately. A nil graph or an invalid kind is a no-op.
func (b *Bank) Trigger(g *audio.Graph, at float64, k Kind) {
	if g == nil || !k.Valid() {
		return
	}
	start := max(g.FrameAt(at), g.Frame())
	for _, layer := range recipes[k].Layers {
		g.Add(newLayerVoice(layer, g.SampleRate(), start))
	}
}

// TriggerID is Trigger keyed by instrument id. Unknown ids are ignored and
// reported as false.
func (b *Bank) TriggerID(g *audio.Graph, at float64, id string) bool {
	k, ok := ParseKind(id)
	if !ok {
		return false
	}
	b.Trigger(g, at, k)
	return true
}

// Render plays k alone into a fresh graph and returns its mono samples at
// unity gain. Used for previews and sample export.
func (b *Bank) Render(k Kind, sampleRate int) []float32 {
	r, ok := RecipeFor(k)
	if !ok {
		return nil
	}
	g := audio.NewGraph(sampleRate, audio.WithGain(1))
	b.Trigger(g, 0, k)
	out := make([]float32, int(r.Duration()*float64(sampleRate))+1)
	g.RenderMono(out)
	return out
}
