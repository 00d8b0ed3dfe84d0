// Package cmd holds the recordbook command line.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"recordbook/config"
)

func NewRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "recordbook",
		Short:         "Manage bills and items through a record store API",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCommand(), newConsoleCommand())
	return root
}

// loadConfig also installs the logger, so every command logs the same way.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.SetupLogging(os.Stderr, cfg.LogLevel)
	return cfg, nil
}
