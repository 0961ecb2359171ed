package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/statelab/statelab/internal/db"
	"github.com/statelab/statelab/internal/seed"
)

// NewSeedCommand loads the demo data set.
func NewSeedCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "seed",
		Short: "Insert the demo users and posts",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			ctx := context.Background()
			store, err := db.NewStore(ctx, cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer store.Close()

			if err := store.Migrate(ctx); err != nil {
				return err
			}
			if err := seed.Run(ctx, store); err != nil {
				return err
			}
			cmd.Println("database seeded")
			return nil
		},
	}
}
