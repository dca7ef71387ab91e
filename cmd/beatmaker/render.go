package main

import (
	"fmt"
	"os"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/spf13/cobra"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/pattern"
	"github.com/cbegin/beatmaker-go/internal/synth"
)

var renderFlags struct {
	out     string
	bars    int
	pattern int64
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render a pattern to a WAV file",
	Long: `Render a saved pattern, or a random one, offline through the master
effects chain and write it as 16-bit mono WAV.

Example:
  beatmaker render --pattern 1718000000000 --bars 4 --out groove.wav`,
	Args: cobra.NoArgs,
	RunE: runRender,
}

func init() {
	f := renderCmd.Flags()
	f.StringVarP(&renderFlags.out, "out", "o", "pattern.wav", "output file")
	f.IntVar(&renderFlags.bars, "bars", 1, "how many times to play the sixteen steps")
	f.Int64Var(&renderFlags.pattern, "pattern", 0, "saved pattern id (random when unset)")
	rootCmd.AddCommand(renderCmd)
}

func runRender(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	p := pattern.New(synth.SequencerIDs()...)
	p.SetTempo(cfg.BPM)
	if renderFlags.pattern != 0 {
		store, err := patternStore(cfg)
		if err != nil {
			return err
		}
		lib, err := pattern.NewLibrary(store, pattern.WithLogger(logger))
		if err != nil {
			return err
		}
		if _, err := lib.Load(renderFlags.pattern, p); err != nil {
			return err
		}
	} else {
		p.Randomize(cfg.Density)
	}

	samples, err := beatmaker.RenderPattern(p, cfg.SampleRate, renderFlags.bars, cfg.Effects...)
	if err != nil {
		return err
	}
	f, err := os.Create(renderFlags.out)
	if err != nil {
		return fault.Wrap(err, fmsg.With("create output"))
	}
	if err := beatmaker.WriteWAV(f, samples, cfg.SampleRate); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return fault.Wrap(err, fmsg.With("close output"))
	}
	logger.Info("rendered", "file", renderFlags.out, "frames", len(samples), "bpm", p.Tempo())
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%.2fs)\n", renderFlags.out, float64(len(samples))/float64(cfg.SampleRate))
	return nil
}
