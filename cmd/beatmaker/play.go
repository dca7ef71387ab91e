package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/ftag"
	"github.com/spf13/cobra"

	beatmaker "github.com/cbegin/beatmaker-go"
	"github.com/cbegin/beatmaker-go/internal/pattern"
)

var playFlags struct {
	duration time.Duration
	pattern  int64
	random   bool
	track    string
}

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a pattern without a window",
	Long: `Play a saved or random pattern until interrupted or --duration elapses.

Example:
  beatmaker play --pattern 1718000000000 --duration 30s
  beatmaker play --random --track 1`,
	RunE: runPlay,
}

var padsCmd = &cobra.Command{
	Use:   "pads",
	Short: "List the pads and their keys",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		w := cmd.OutOrStdout()
		for _, in := range beatmaker.Instruments() {
			fmt.Fprintf(w, "%-3s %s\n", in.Key, in.ID)
		}
	},
}

func init() {
	f := playCmd.Flags()
	f.DurationVar(&playFlags.duration, "duration", 0, "stop after this long (0 plays until interrupted)")
	f.Int64Var(&playFlags.pattern, "pattern", 0, "saved pattern id to load")
	f.BoolVar(&playFlags.random, "random", false, "start from a random pattern")
	f.StringVar(&playFlags.track, "track", "", "track id to play along")
	rootCmd.AddCommand(playCmd, padsCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := setupLogging(cfg, false)
	if err != nil {
		return err
	}
	defer closer.Close()

	m, err := newMachine(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()

	switch {
	case playFlags.pattern != 0:
		if _, err := m.LoadPattern(playFlags.pattern); err != nil {
			return err
		}
	case playFlags.random:
		m.Randomize()
	}
	if m.Pattern().Count() == 0 {
		return fault.New("pattern is empty", ftag.With(ftag.InvalidArgument))
	}
	if playFlags.track != "" {
		if err := m.SelectTrack(playFlags.track); err != nil {
			return err
		}
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	if playFlags.duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, playFlags.duration)
		defer cancel()
	}

	fmt.Fprint(cmd.OutOrStdout(), gridText(m.Pattern()))
	m.Play()
	logger.Info("playing", "bpm", m.Tempo(), "steps", m.Pattern().Count())
	err = m.Run(ctx, 0)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return nil
	}
	return err
}

// gridText renders a pattern as one row of x and . per instrument.
func gridText(p *pattern.Pattern) string {
	var b strings.Builder
	b.WriteString(strings.Repeat(" ", 8) + "BPM " + strconv.Itoa(p.Tempo()) + "\n")
	for _, id := range p.IDs() {
		fmt.Fprintf(&b, "%-8s", id)
		for s := 0; s < pattern.StepCount; s++ {
			if s > 0 && s%4 == 0 {
				b.WriteByte(' ')
			}
			if p.Active(id, s) {
				b.WriteByte('x')
			} else {
				b.WriteByte('.')
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}
