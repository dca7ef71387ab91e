package pattern

import (
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

var (
	ErrEmptyName = fault.New("empty pattern name",
		fmsg.WithDesc("empty pattern name", "Please enter a pattern name"),
		ftag.With(ftag.InvalidArgument))

	ErrNotFound = fault.New("pattern not found", ftag.With(ftag.NotFound))
)

// Snapshot is an immutable saved copy of a pattern and its tempo.
type Snapshot struct {
	ID    int64             `json:"id"`
	Name  string            `json:"name"`
	Tempo int               `json:"tempo"`
	Data  map[string][]bool `json:"data"`
}

func (s Snapshot) clone() Snapshot {
	c := s
	c.Data = make(map[string][]bool, len(s.Data))
	for id, row := range s.Data {
		c.Data[id] = slices.Clone(row)
	}
	return c
}

// Store persists the whole snapshot collection at once.
type Store interface {
	Load() ([]Snapshot, error)
	Save([]Snapshot) error
}

// Library is the saved pattern collection. Every change rewrites the store.
type Library struct {
	store  Store
	snaps  []Snapshot
	now    func() time.Time
	logger *slog.Logger
}

type LibraryOption func(*Library)

// WithClock overrides the time source used for snapshot ids.
func WithClock(now func() time.Time) LibraryOption {
	return func(l *Library) {
		l.now = now
	}
}

func WithLogger(logger *slog.Logger) LibraryOption {
	return func(l *Library) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// NewLibrary reads the existing collection from store.
func NewLibrary(store Store, opts ...LibraryOption) (*Library, error) {
	l := &Library{store: store, now: time.Now, logger: slog.Default()}
	for _, opt := range opts {
		opt(l)
	}
	snaps, err := store.Load()
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("load saved patterns"))
	}
	l.snaps = snaps
	return l, nil
}

// List returns copies of the saved snapshots in save order.
func (l *Library) List() []Snapshot {
	out := make([]Snapshot, len(l.snaps))
	for i, s := range l.snaps {
		out[i] = s.clone()
	}
	return out
}

func (l *Library) Len() int { return len(l.snaps) }

// Save snapshots p under a trimmed, non-empty name.
func (l *Library) Save(name string, p *Pattern) (Snapshot, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Snapshot{}, ErrEmptyName
	}
	snap := Snapshot{
		ID:    l.nextID(),
		Name:  name,
		Tempo: p.Tempo(),
		Data:  p.Data(),
	}
	next := append(slices.Clone(l.snaps), snap)
	if err := l.store.Save(next); err != nil {
		return Snapshot{}, fault.Wrap(err, fmsg.With("save pattern"))
	}
	l.snaps = next
	l.logger.Debug("pattern saved", "id", snap.ID, "name", snap.Name)
	return snap.clone(), nil
}

func (l *Library) nextID() int64 {
	id := l.now().UnixMilli()
	for _, s := range l.snaps {
		if s.ID >= id {
			id = s.ID + 1
		}
	}
	return id
}

func (l *Library) index(id int64) int {
	return slices.IndexFunc(l.snaps, func(s Snapshot) bool { return s.ID == id })
}

// Get returns a copy of one snapshot.
func (l *Library) Get(id int64) (Snapshot, error) {
	i := l.index(id)
	if i < 0 {
		return Snapshot{}, fault.Wrap(ErrNotFound, fmsg.With("pattern "+strconv.FormatInt(id, 10)))
	}
	return l.snaps[i].clone(), nil
}

// Load copies snapshot id into p. p keeps its own instrument set.
func (l *Library) Load(id int64, p *Pattern) (Snapshot, error) {
	snap, err := l.Get(id)
	if err != nil {
		return Snapshot{}, err
	}
	p.Replace(snap.Tempo, snap.Data)
	return snap, nil
}

// Delete removes one snapshot.
func (l *Library) Delete(id int64) error {
	i := l.index(id)
	if i < 0 {
		return fault.Wrap(ErrNotFound, fmsg.With("pattern "+strconv.FormatInt(id, 10)))
	}
	next := slices.Delete(slices.Clone(l.snaps), i, i+1)
	if err := l.store.Save(next); err != nil {
		return fault.Wrap(err, fmsg.With("delete pattern"))
	}
	l.snaps = next
	l.logger.Debug("pattern deleted", "id", id)
	return nil
}
