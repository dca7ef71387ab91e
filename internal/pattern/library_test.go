package pattern

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
)

func fixedClock(ms int64) func() time.Time {
	return func() time.Time { return time.UnixMilli(ms) }
}

func TestSaveLoadRoundTrip(t *testing.T) {
	lib, err := NewLibrary(&MemoryStore{}, WithClock(fixedClock(1700000000000)))
	if err != nil {
		t.Fatalf("NewLibrary: %v", err)
	}
	p := New(ids...)
	p.Set("Kick", 0, true)
	p.Set("HiHat", 7, true)
	p.SetTempo(132)
	want := p.Data()

	snap, err := lib.Save("  groove  ", p)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if snap.Name != "groove" {
		t.Fatalf("name = %q, want trimmed", snap.Name)
	}
	if snap.ID != 1700000000000 {
		t.Fatalf("id = %d, want the creation time in ms", snap.ID)
	}

	p.Clear()
	p.Set("Perc", 3, true)
	p.SetTempo(61)

	if _, err := lib.Load(snap.ID, p); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if p.Tempo() != 132 {
		t.Fatalf("tempo = %d, want 132", p.Tempo())
	}
	got := p.Data()
	for _, id := range ids {
		for i := 0; i < StepCount; i++ {
			if got[id][i] != want[id][i] {
				t.Fatalf("%s[%d] = %v, want %v", id, i, got[id][i], want[id][i])
			}
		}
	}
}

func TestSnapshotsAreIndependentCopies(t *testing.T) {
	lib, _ := NewLibrary(&MemoryStore{})
	p := New(ids...)
	snap, err := lib.Save("a", p)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	p.Set("Kick", 0, true)
	snap.Data["Kick"][1] = true

	stored, err := lib.Get(snap.ID)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if stored.Data["Kick"][0] || stored.Data["Kick"][1] {
		t.Fatal("stored snapshot should not see later edits")
	}
}

func TestSaveRejectsEmptyName(t *testing.T) {
	store := &MemoryStore{}
	lib, _ := NewLibrary(store)
	for _, name := range []string{"", "   ", "\t\n"} {
		_, err := lib.Save(name, New(ids...))
		if !errors.Is(err, ErrEmptyName) {
			t.Fatalf("Save(%q): err = %v, want ErrEmptyName", name, err)
		}
		if ftag.Get(err) != ftag.InvalidArgument {
			t.Errorf("tag = %v, want InvalidArgument", ftag.Get(err))
		}
		if got := fmsg.GetIssue(err); got != "Please enter a pattern name" {
			t.Errorf("issue = %q", got)
		}
	}
	if lib.Len() != 0 || store.Saves() != 0 {
		t.Fatal("nothing should be persisted")
	}
}

func TestIDsStayUniqueWithinOneMillisecond(t *testing.T) {
	lib, _ := NewLibrary(&MemoryStore{}, WithClock(fixedClock(5000)))
	a, _ := lib.Save("a", New(ids...))
	b, _ := lib.Save("b", New(ids...))
	if a.ID == b.ID {
		t.Fatalf("duplicate ids %d", a.ID)
	}
}

func TestDeleteLeavesLivePatternAlone(t *testing.T) {
	store := &MemoryStore{}
	lib, _ := NewLibrary(store)
	p := New(ids...)
	p.Set("Clap", 9, true)
	snap, _ := lib.Save("x", p)

	if err := lib.Delete(snap.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if lib.Len() != 0 {
		t.Fatalf("len = %d, want 0", lib.Len())
	}
	if !p.Active("Clap", 9) {
		t.Fatal("live pattern should be untouched")
	}
	if store.Saves() != 2 {
		t.Fatalf("saves = %d, want one rewrite per save and delete", store.Saves())
	}

	err := lib.Delete(snap.ID)
	if !errors.Is(err, ErrNotFound) || ftag.Get(err) != ftag.NotFound {
		t.Fatalf("second delete: err = %v, want not found", err)
	}
	if _, err := lib.Load(snap.ID, p); !errors.Is(err, ErrNotFound) {
		t.Fatalf("load deleted: err = %v", err)
	}
}

func TestFileStorePersistsCollection(t *testing.T) {
	dir := t.TempDir()
	store := NewFileStore(filepath.Join(dir, "nested"))
	lib, err := NewLibrary(store, WithClock(fixedClock(42)))
	if err != nil {
		t.Fatalf("NewLibrary on missing file: %v", err)
	}
	p := New(ids...)
	p.Set("Snare", 4, true)
	p.SetTempo(99)
	if _, err := lib.Save("keep", p); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reopened, err := NewLibrary(NewFileStore(filepath.Join(dir, "nested")))
	if err != nil {
		t.Fatalf("reopen: %v", err)
	}
	list := reopened.List()
	if len(list) != 1 || list[0].Name != "keep" || list[0].Tempo != 99 || list[0].ID != 42 {
		t.Fatalf("reloaded = %+v", list)
	}
	if !list[0].Data["Snare"][4] {
		t.Fatal("step data not persisted")
	}
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, StoreKey), []byte("{not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := NewLibrary(NewFileStore(dir)); err == nil {
		t.Fatal("expected decode error")
	}
}
