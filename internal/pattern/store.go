package pattern

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"slices"
	"sync"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
)

// StoreKey is the file name the collection is kept under.
const StoreKey = "beatPatterns.json"

// FileStore keeps the collection as one JSON array in dir/StoreKey.
type FileStore struct {
	path string
}

func NewFileStore(dir string) *FileStore {
	return &FileStore{path: filepath.Join(dir, StoreKey)}
}

func (s *FileStore) Path() string { return s.path }

// Load returns an empty collection when the file does not exist yet.
func (s *FileStore) Load() ([]Snapshot, error) {
	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("read "+s.path))
	}
	var snaps []Snapshot
	if err := json.Unmarshal(data, &snaps); err != nil {
		return nil, fault.Wrap(err, fmsg.WithDesc("decode "+s.path, "Saved patterns are unreadable"))
	}
	return snaps, nil
}

// Save rewrites the whole file through a temp file and rename.
func (s *FileStore) Save(snaps []Snapshot) error {
	if snaps == nil {
		snaps = []Snapshot{}
	}
	data, err := json.Marshal(snaps)
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode patterns"))
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fault.Wrap(err, fmsg.With("create data dir"))
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fault.Wrap(err, fmsg.With("write "+tmp))
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fault.Wrap(err, fmsg.With("replace "+s.path))
	}
	return nil
}

// MemoryStore keeps the collection in memory.
type MemoryStore struct {
	mu    sync.Mutex
	snaps []Snapshot
	saves int
}

func (m *MemoryStore) Load() ([]Snapshot, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Clone(m.snaps), nil
}

func (m *MemoryStore) Save(snaps []Snapshot) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.snaps = slices.Clone(snaps)
	m.saves++
	return nil
}

// Saves reports how many times the collection was rewritten.
func (m *MemoryStore) Saves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}
