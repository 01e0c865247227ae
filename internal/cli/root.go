// Package cli wires configuration, logging and the in-memory store into the
// taskdeck command.
package cli

import (
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/taskdeck/internal/config"
	"github.com/sadopc/taskdeck/internal/logging"
	"github.com/sadopc/taskdeck/internal/store"
	"github.com/sadopc/taskdeck/internal/tui"
	"github.com/spf13/cobra"
)

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "taskdeck",
		Short: "taskdeck - a terminal task tracker",
		Long: `taskdeck tracks tasks by day and by project in the terminal.

Tasks live in memory only: everything is gone when taskdeck exits.
Use the export picker (e) to write a copy to disk.`,
		Args:          cobra.NoArgs,
		RunE:          func(cmd *cobra.Command, _ []string) error { return run(cmd, version) },
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
	}

	flags := cmd.Flags()
	flags.String("config", "", "config file (default <user config dir>/taskdeck/config.toml)")
	flags.String("view", "", "start view: today, upcoming, projects or settings")
	flags.String("log-file", "", "write logs to this file")
	flags.String("log-level", "", "log level: debug, info, warn or error")
	flags.String("export-dir", "", "directory for exported files")

	cmd.AddCommand(newVersionCmd(version))
	return cmd
}

func newVersionCmd(version string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the taskdeck version",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "taskdeck %s\n", version)
		},
	}
}

// Execute runs the root command
func Execute(version string) error {
	if err := newRootCmd(version).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

// flagOverrides maps command-line flags onto config fields.
var flagOverrides = []struct {
	name  string
	field func(*config.Config) *string
}{
	{"view", func(c *config.Config) *string { return &c.View }},
	{"log-file", func(c *config.Config) *string { return &c.LogFile }},
	{"log-level", func(c *config.Config) *string { return &c.LogLevel }},
	{"export-dir", func(c *config.Config) *string { return &c.ExportDir }},
}

// resolveConfig loads the config file and environment, then applies flags
// the user actually set.
func resolveConfig(cmd *cobra.Command) (*config.Config, error) {
	flags := cmd.Flags()

	path, err := flags.GetString("config")
	if err != nil {
		return nil, err
	}
	cfg, err := config.Load(path)
	if err != nil {
		return nil, err
	}

	for _, o := range flagOverrides {
		if !flags.Changed(o.name) {
			continue
		}
		v, err := flags.GetString(o.name)
		if err != nil {
			return nil, err
		}
		*o.field(cfg) = v
	}

	if err := cfg.Finalize(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func run(cmd *cobra.Command, version string) error {
	cfg, err := resolveConfig(cmd)
	if err != nil {
		return err
	}

	logger, closer, err := logging.Open(cfg.LogFile, cfg.LogLevel)
	if err != nil {
		return err
	}
	defer closer.Close()

	logger.Info("starting", "version", version, "view", cfg.View)

	s, err := store.NewMemory(store.WithLogger(logger))
	if err != nil {
		logger.Error("open store", "err", err)
		return fmt.Errorf("open store: %w", err)
	}
	defer s.Close()

	p := tea.NewProgram(tui.NewApp(s, *cfg, logger), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		logger.Error("tui exited", "err", err)
		return fmt.Errorf("run tui: %w", err)
	}

	logger.Info("exiting")
	return nil
}
