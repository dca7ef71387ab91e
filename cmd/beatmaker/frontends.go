package main

import (
	"github.com/spf13/cobra"

	"github.com/cbegin/beatmaker-go/internal/tui"
	"github.com/cbegin/beatmaker-go/internal/ui"
)

var visualizer string

var uiCmd = &cobra.Command{
	Use:   "ui",
	Short: "Open the drum machine window",
	RunE:  runUI,
}

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Run the drum machine in the terminal",
	Long: `Run the drum machine in the terminal. Logs go to the data directory
unless --log-file is set.`,
	RunE: runTUI,
}

func init() {
	for _, c := range []*cobra.Command{rootCmd, uiCmd} {
		c.Flags().StringVar(&visualizer, "visualizer", "", "bars|scope|rings (default from settings)")
	}
	rootCmd.AddCommand(uiCmd, tuiCmd)
}

func runUI(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	if cmd.Flags().Changed("visualizer") {
		cfg.Visualizer = visualizer
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
	return ui.Run(m, ui.WithVisualizer(cfg.Visualizer), ui.WithLogger(logger))
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := settings(cmd)
	if err != nil {
		return err
	}
	logger, closer, err := setupLogging(cfg, true)
	if err != nil {
		return err
	}
	defer closer.Close()

	m, err := newMachine(cfg, logger)
	if err != nil {
		return err
	}
	defer m.Close()
	return tui.Run(m, tui.WithLogger(logger))
}
