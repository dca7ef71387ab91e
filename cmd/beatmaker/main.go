package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/config"
	"github.com/cbegin/beatmaker-go/internal/logging"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/sequencer"
)

const logFileName = "beatmaker.log"

var flags struct {
	config     string
	sampleRate int
	bpm        int
	volume     float64
	catchUp    string
	logLevel   string
	logFile    string
	noDevice   bool
}

var rootCmd = &cobra.Command{
	Use:   "beatmaker",
	Short: "A sixteen-step drum machine with synthesized pads",
	Long: `beatmaker is a drum machine: fourteen synthesized pads, a sixteen-step
sequencer over eight of them, saved patterns, a backing track player and a
live visualizer.

With no subcommand it opens the window.`,
	SilenceUsage: true,
	RunE:         runUI,
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&flags.config, "config", "", "settings file (default ~/.config/beatmaker/config.json)")
	pf.IntVar(&flags.sampleRate, "sample-rate", config.DefaultRate, "output sample rate")
	pf.IntVar(&flags.bpm, "bpm", 120, "starting tempo")
	pf.Float64Var(&flags.volume, "volume", 0.8, "master volume 0..1")
	pf.StringVar(&flags.catchUp, "catch-up", "skip", "late step policy: skip|burst|resync")
	pf.StringVar(&flags.logLevel, "log-level", "info", "debug|info|warn|error")
	pf.StringVar(&flags.logFile, "log-file", "", "log to this file instead of stderr")
	pf.BoolVar(&flags.noDevice, "no-device", false, "run without opening the audio device")
}

// settings loads the config file and applies any flags set on the command line.
func settings(cmd *cobra.Command) (*config.Config, error) {
	path := flags.config
	if path == "" {
		p, err := config.Path()
		if err != nil {
			return nil, err
		}
		path = p
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}
	f := cmd.Flags()
	if f.Changed("sample-rate") {
		cfg.SampleRate = flags.sampleRate
	}
	if f.Changed("bpm") {
		cfg.BPM = flags.bpm
	}
	if f.Changed("volume") {
		cfg.Volume = flags.volume
	}
	if f.Changed("catch-up") {
		cfg.CatchUp = flags.catchUp
	}
	if f.Changed("log-level") {
		cfg.LogLevel = flags.logLevel
	}
	if f.Changed("log-file") {
		cfg.LogFile = flags.logFile
	}
	return cfg, nil
}

// setupLogging writes to stderr, or to a file when the front end owns the
// terminal. The returned closer is never nil.
func setupLogging(cfg *config.Config, ownsTerminal bool) (*slog.Logger, io.Closer, error) {
	path := cfg.LogFile
	if path == "" && ownsTerminal {
		dir, err := cfg.ResolvedDataDir()
		if err != nil {
			return nil, nil, err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, nil, fault.Wrap(err, fmsg.With("create data dir"))
		}
		path = filepath.Join(dir, logFileName)
	}
	if path == "" {
		logger, err := logging.Setup(os.Stderr, cfg.LogLevel)
		return logger, io.NopCloser(nil), err
	}
	f, err := logging.OpenFile(path)
	if err != nil {
		return nil, nil, err
	}
	logger, err := logging.Setup(f, cfg.LogLevel)
	if err != nil {
		f.Close()
		return nil, nil, err
	}
	return logger, f, nil
}

func patternStore(cfg *config.Config) (*pattern.FileStore, error) {
	dir, err := cfg.ResolvedDataDir()
	if err != nil {
		return nil, err
	}
	return pattern.NewFileStore(dir), nil
}

func newMachine(cfg *config.Config, logger *slog.Logger) (*beatmaker.Machine, error) {
	store, err := patternStore(cfg)
	if err != nil {
		return nil, err
	}
	assets, err := cfg.ResolvedAssetsDir()
	if err != nil {
		return nil, err
	}
	return beatmaker.New(
		beatmaker.WithSampleRate(cfg.SampleRate),
		beatmaker.WithDevice(!flags.noDevice),
		beatmaker.WithLogger(logger),
		beatmaker.WithStore(store),
		beatmaker.WithAssetsDir(assets),
		beatmaker.WithEffects(cfg.Effects...),
		beatmaker.WithVolume(cfg.Volume),
		beatmaker.WithTempo(cfg.BPM),
		beatmaker.WithDensity(cfg.Density),
		beatmaker.WithCatchUp(sequencer.ParseCatchUp(cfg.CatchUp)),
	)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, beatmaker.UserMessage(err))
		os.Exit(1)
	}
}
