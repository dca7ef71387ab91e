package synth

import "strings"

// Kind is the closed set of instruments the bank can play.
type Kind int

const (
	Kick Kind = iota
	Snare
	HiHat
	Clap
	Tom
	Cowbell
	Blip
	Perc
	Sweep
	Buzz
	Pluck
	Bass
	Chime
	Zap

	numKinds
)

var kindNames = [numKinds]string{
	Kick:    "Kick",
	Snare:   "Snare",
	HiHat:   "HiHat",
	Clap:    "Clap",
	Tom:     "Tom",
	Cowbell: "Cowbell",
	Blip:    "Blip",
	Perc:    "Perc",
	Sweep:   "Sweep",
	Buzz:    "Buzz",
	Pluck:   "Pluck",
	Bass:    "Bass",
	Chime:   "Chime",
	Zap:     "Zap",
}

func (k Kind) Valid() bool { return k >= 0 && k < numKinds }

func (k Kind) String() string {
	if !k.Valid() {
		return "unknown"
	}
	return kindNames[k]
}

// Kinds returns every kind in catalog order.
func Kinds() []Kind {
	out := make([]Kind, numKinds)
	for i := range out {
		out[i] = Kind(i)
	}
	return out
}

var kindByName = func() map[string]Kind {
	m := make(map[string]Kind, numKinds)
	for k, name := range kindNames {
		m[name] = Kind(k)
	}
	return m
}()

// ParseKind resolves an instrument id such as "Kick".
func ParseKind(id string) (Kind, bool) {
	k, ok := kindByName[id]
	return k, ok
}

// Instrument is one pad: its id, the key that triggers it and the sample
// asset shipped alongside it.
type Instrument struct {
	ID    string
	Kind  Kind
	Key   string
	Asset string
}

// SequencerRows is how many catalog instruments get a row in the step grid.
const SequencerRows = 8

var padKeys = [numKinds]string{"Q", "W", "E", "A", "S", "D", "1", "2", "3", "4", "5", "6", "7", "8"}

var catalog = func() []Instrument {
	out := make([]Instrument, numKinds)
	for i := range out {
		k := Kind(i)
		out[i] = Instrument{
			ID:    k.String(),
			Kind:  k,
			Key:   padKeys[k],
			Asset: "/drums/" + k.String() + ".wav",
		}
	}
	return out
}()

// Catalog returns a copy of the pad catalog.
func Catalog() []Instrument {
	return append([]Instrument(nil), catalog...)
}

// SequencerIDs returns the ids of the instruments shown in the step grid.
func SequencerIDs() []string {
	ids := make([]string, SequencerRows)
	for i := range ids {
		ids[i] = catalog[i].ID
	}
	return ids
}

// Lookup finds an instrument by id.
func Lookup(id string) (Instrument, bool) {
	k, ok := ParseKind(id)
	if !ok {
		return Instrument{}, false
	}
	return catalog[k], true
}

// ByKey finds the instrument bound to a key, ignoring case.
func ByKey(key string) (Instrument, bool) {
	key = strings.ToUpper(strings.TrimSpace(key))
	for _, in := range catalog {
		if in.Key == key {
			return in, true
		}
	}
	return Instrument{}, false
}
