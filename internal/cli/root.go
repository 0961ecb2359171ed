package cli

import (
	"github.com/spf13/cobra"

	"github.com/statelab/statelab/internal/config"
)

// RootOptions holds global flags for all commands.
type RootOptions struct {
	ConfigPath string
}

func (o *RootOptions) loadConfig() (config.Config, error) {
	return config.Load(o.ConfigPath)
}

// NewRootCommand creates the root command for the statelab CLI.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "statelab",
		Short: "statelab - CRUD demo API and client state toolkit",
		Long:  "A demonstration service exposing posts and users over a JSON REST API, with a cached-fetch client and local UI state stores.",
	}

	cmd.PersistentFlags().StringVarP(&opts.ConfigPath, "config", "c", "", "path to YAML config file (env overrides)")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSeedCommand(opts))

	return cmd
}
