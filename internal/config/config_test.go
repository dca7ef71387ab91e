package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "none.json"))
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := Default()
	if cfg.SampleRate != want.SampleRate || cfg.BPM != 120 || cfg.Volume != 0.8 || cfg.CatchUp != "skip" || cfg.Visualizer != "bars" {
		t.Fatalf("Load() = %+v, want defaults", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", FileName)
	cfg := Default()
	cfg.BPM = 140
	cfg.Effects = []string{"delay 200,0.4,0.3"}
	if err := cfg.Save(path); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got.BPM != 140 || len(got.Effects) != 1 || got.Effects[0] != "delay 200,0.4,0.3" {
		t.Fatalf("Load() = %+v", got)
	}
}

func TestPartialFileKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte(`{"bpm": 90}`), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.BPM != 90 || cfg.SampleRate != DefaultRate || cfg.Density != 0.3 {
		t.Fatalf("Load() = %+v", cfg)
	}
}

func TestLoadRejectsGarbage(t *testing.T) {
	path := filepath.Join(t.TempDir(), FileName)
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(path); err == nil {
		t.Fatalf("Load() accepted a corrupt file")
	}
}

func TestPathUnderHome(t *testing.T) {
	p, err := Path()
	if err != nil {
		t.Fatalf("Path() error = %v", err)
	}
	if filepath.Base(p) != FileName || filepath.Base(filepath.Dir(p)) != "beatmaker" {
		t.Fatalf("Path() = %q", p)
	}
}
