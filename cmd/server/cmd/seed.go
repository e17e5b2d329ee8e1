package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"gatherly/config"
	"gatherly/internal/adapters/auth"
	"gatherly/internal/repository/postgres"
	"gatherly/internal/services"
)

func newSeedCommand() *cobra.Command {
	counts := services.DefaultSeedCounts()
	var seed uint64
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Replace all data with a synthetic development dataset",
		Long: `Apply pending migrations, truncate every table and insert synthetic users,
groups, events, RSVPs, comments and invitations.

Every seeded user has the password "` + services.SeedPassword + `".`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config error: %w", err)
			}
			if cfg.IsProduction() {
				return fmt.Errorf("refusing to seed in production")
			}
			logger := config.NewLogger()

			if err := postgres.MigrateUp(cfg.DBUrl, cfg.MigrationsPath); err != nil {
				return err
			}
			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			db, err := postgres.Open(ctx, cfg.DBUrl)
			if err != nil {
				return err
			}
			defer db.Close()

			if seed == 0 {
				seed = uint64(time.Now().UnixNano())
			}
			// Seeded users only need to log in locally.
			hasher := auth.NewBcryptHasher(auth.MinPasswordCost)
			seeder := services.NewSeeder(postgres.NewStore(db), hasher, logger, seed)
			if err := seeder.Seed(ctx, counts); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "seeded database (seed %d)\n", seed)
			return nil
		},
	}
	f := cmd.Flags()
	f.Uint64Var(&seed, "seed", 0, "random seed (default: current time)")
	f.IntVar(&counts.Users, "users", counts.Users, "number of users")
	f.IntVar(&counts.Groups, "groups", counts.Groups, "number of groups")
	f.IntVar(&counts.Events, "events", counts.Events, "number of events")
	f.IntVar(&counts.RSVPs, "rsvps", counts.RSVPs, "number of RSVPs")
	f.IntVar(&counts.Comments, "comments", counts.Comments, "number of comments")
	f.IntVar(&counts.Invitations, "invitations", counts.Invitations, "number of invitations")
	return cmd
}
