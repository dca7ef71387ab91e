// Package config loads and saves the beatmaker settings file.
package config

import (
	"encoding/json"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/mitchellh/go-homedir"
)

const (
	DefaultDir  = "~/.config/beatmaker"
	FileName    = "config.json"
	DefaultRate = 48000
)

// Config is the persisted settings file. Paths may start with ~.
type Config struct {
	SampleRate int      `json:"sampleRate"`
	DataDir    string   `json:"dataDir"`
	AssetsDir  string   `json:"assetsDir"`
	Volume     float64  `json:"volume"`
	BPM        int      `json:"bpm"`
	CatchUp    string   `json:"catchUp"`
	Visualizer string   `json:"visualizer"`
	LogLevel   string   `json:"logLevel"`
	LogFile    string   `json:"logFile,omitempty"`
	Effects    []string `json:"effects,omitempty"`
	Density    float64  `json:"randomDensity"`
}

func Default() *Config {
	return &Config{
		SampleRate: DefaultRate,
		DataDir:    DefaultDir,
		AssetsDir:  "assets",
		Volume:     0.8,
		BPM:        120,
		CatchUp:    "skip",
		Visualizer: "bars",
		LogLevel:   "info",
		Effects:    []string{"limiter -1,100"},
		Density:    0.3,
	}
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := homedir.Expand(DefaultDir)
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("resolve config dir"))
	}
	return filepath.Join(dir, FileName), nil
}

// Load reads path over the defaults. A missing file is not an error.
func Load(path string) (*Config, error) {
	cfg := Default()
	p, err := homedir.Expand(path)
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("expand config path"))
	}
	data, err := os.ReadFile(p)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fault.Wrap(err, fmsg.With("read config"))
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fault.Wrap(err, fmsg.With("parse config "+p))
	}
	return cfg, nil
}

func (c *Config) Save(path string) error {
	p, err := homedir.Expand(path)
	if err != nil {
		return fault.Wrap(err, fmsg.With("expand config path"))
	}
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
		return fault.Wrap(err, fmsg.With("create config dir"))
	}
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return fault.Wrap(err, fmsg.With("encode config"))
	}
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return fault.Wrap(err, fmsg.With("write config"))
	}
	return nil
}

// ResolvedDataDir expands DataDir.
func (c *Config) ResolvedDataDir() (string, error) {
	dir, err := homedir.Expand(c.DataDir)
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("expand data dir"))
	}
	return dir, nil
}

// ResolvedAssetsDir expands AssetsDir.
func (c *Config) ResolvedAssetsDir() (string, error) {
	dir, err := homedir.Expand(c.AssetsDir)
	if err != nil {
		return "", fault.Wrap(err, fmsg.With("expand assets dir"))
	}
	return dir, nil
}
