package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/statelab/statelab/internal/db"
)

// NewMigrateCommand creates the tables and indexes.
func NewMigrateCommand(opts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the database tables and indexes",
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
			cmd.Println("migrations applied")
			return nil
		},
	}
}
