// Package pattern holds the editable step grid and its saved snapshots.
package pattern

import (
	"math/rand/v2"
	"slices"
)

const (
	StepCount = 16

	MinTempo     = 60
	MaxTempo     = 200
	DefaultTempo = 120

	DefaultDensity = 0.3
)

// Row is one instrument's step activations.
type Row [StepCount]bool

// Pattern maps instrument ids to rows. The set of ids is fixed at creation,
// so every instrument always has exactly StepCount steps.
type Pattern struct {
	ids   []string
	rows  map[string]*Row
	tempo int
}

// New returns an empty pattern at the default tempo. Duplicate ids are
// collapsed.
func New(ids ...string) *Pattern {
	p := &Pattern{rows: make(map[string]*Row, len(ids)), tempo: DefaultTempo}
	for _, id := range ids {
		if _, dup := p.rows[id]; dup {
			continue
		}
		p.ids = append(p.ids, id)
		p.rows[id] = &Row{}
	}
	return p
}

// IDs returns the instrument ids in row order.
func (p *Pattern) IDs() []string {
	return slices.Clone(p.ids)
}

func (p *Pattern) Has(id string) bool {
	_, ok := p.rows[id]
	return ok
}

func (p *Pattern) Tempo() int { return p.tempo }

// SetTempo stores bpm clamped to [MinTempo, MaxTempo] and returns it.
func (p *Pattern) SetTempo(bpm int) int {
	p.tempo = ClampTempo(bpm)
	return p.tempo
}

func ClampTempo(bpm int) int {
	return min(max(bpm, MinTempo), MaxTempo)
}

// Toggle flips one step. Unknown ids and out-of-range steps are ignored and
// reported as false.
func (p *Pattern) Toggle(id string, step int) bool {
	row, ok := p.rows[id]
	if !ok || step < 0 || step >= StepCount {
		return false
	}
	row[step] = !row[step]
	return true
}

// Set forces one step on or off with the same bounds rules as Toggle.
func (p *Pattern) Set(id string, step int, on bool) bool {
	row, ok := p.rows[id]
	if !ok || step < 0 || step >= StepCount {
		return false
	}
	row[step] = on
	return true
}

func (p *Pattern) Active(id string, step int) bool {
	row, ok := p.rows[id]
	if !ok || step < 0 || step >= StepCount {
		return false
	}
	return row[step]
}

// ActiveAt returns the ids with a set step, in row order.
func (p *Pattern) ActiveAt(step int) []string {
	if step < 0 || step >= StepCount {
		return nil
	}
	var out []string
	for _, id := range p.ids {
		if p.rows[id][step] {
			out = append(out, id)
		}
	}
	return out
}

// Row returns a copy of one instrument's steps.
func (p *Pattern) Row(id string) (Row, bool) {
	row, ok := p.rows[id]
	if !ok {
		return Row{}, false
	}
	return *row, true
}

// Count returns the number of set steps across all rows.
func (p *Pattern) Count() int {
	n := 0
	for _, row := range p.rows {
		for _, on := range row {
			if on {
				n++
			}
		}
	}
	return n
}

// Clear turns every step off. Tempo is kept.
func (p *Pattern) Clear() {
	for _, row := range p.rows {
		*row = Row{}
	}
}

// Randomize sets each step independently with probability density.
// Out-of-range densities are clamped to [0, 1].
func (p *Pattern) Randomize(density float64) {
	density = min(max(density, 0), 1)
	for _, id := range p.ids {
		row := p.rows[id]
		for i := range row {
			row[i] = rand.Float64() < density
		}
	}
}

// Clone returns an independent copy.
func (p *Pattern) Clone() *Pattern {
	c := New(p.ids...)
	c.tempo = p.tempo
	for id, row := range p.rows {
		*c.rows[id] = *row
	}
	return c
}

// Data returns the step data keyed by id as plain slices.
func (p *Pattern) Data() map[string][]bool {
	out := make(map[string][]bool, len(p.ids))
	for id, row := range p.rows {
		out[id] = slices.Clone(row[:])
	}
	return out
}

// Replace overwrites steps and tempo from data. Ids the pattern does not
// know are ignored, missing ids are cleared, and each row is truncated or
// padded to StepCount.
func (p *Pattern) Replace(tempo int, data map[string][]bool) {
	p.SetTempo(tempo)
	for id, row := range p.rows {
		*row = Row{}
		copy(row[:], data[id])
	}
}
