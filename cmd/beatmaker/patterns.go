package main

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/Southclaws/fault"
	"github.com/Southclaws/fault/fmsg"
	"github.com/Southclaws/fault/ftag"
	"github.com/spf13/cobra"

	"github.com/cbegin/beatmaker-go/internal/config"
	"github.com/cbegin/beatmaker-go/internal/pattern"
)

var patternsCmd = &cobra.Command{
	Use:     "patterns",
	Aliases: []string{"pattern"},
	Short:   "List or delete saved patterns",
}

var patternsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved patterns",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, closer, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tBPM")
		for _, s := range lib.List() {
			fmt.Fprintf(w, "%d\t%s\t%d\n", s.ID, s.Name, s.Tempo)
		}
		return w.Flush()
	},
}

var patternsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a saved pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			return fault.Wrap(err, fmsg.WithDesc("parse id", "Pattern id must be a number"), ftag.With(ftag.InvalidArgument))
		}
		lib, closer, err := openLibrary(cmd)
		if err != nil {
			return err
		}
		defer closer.Close()
		snap, err := lib.Get(id)
		if err != nil {
			return err
		}
		if err := lib.Delete(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "deleted %q\n", snap.Name)
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Write the current settings to the settings file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := settings(cmd)
		if err != nil {
			return err
		}
		path := flags.config
		if path == "" {
			if path, err = config.Path(); err != nil {
				return err
			}
		}
		if err := cfg.Save(path); err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), path)
		return nil
	},
}

func openLibrary(cmd *cobra.Command) (*pattern.Library, io.Closer, error) {
	cfg, err := settings(cmd)
	if err != nil {
		return nil, nil, err
	}
	logger, closer, err := setupLogging(cfg, false)
	if err != nil {
		return nil, nil, err
	}
	store, err := patternStore(cfg)
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	lib, err := pattern.NewLibrary(store, pattern.WithLogger(logger))
	if err != nil {
		closer.Close()
		return nil, nil, err
	}
	return lib, closer, nil
}

func init() {
	patternsCmd.AddCommand(patternsListCmd, patternsDeleteCmd)
	rootCmd.AddCommand(patternsCmd, configCmd)
}
