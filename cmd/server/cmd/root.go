package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. Running it without a subcommand serves the API.
func newRootCommand() *cobra.Command {
	serve := newServeCommand()
	root := &cobra.Command{
		Use:   "server",
		Short: "Gatherly event management API",
		Long: `Gatherly serves the event management REST API: users, events, groups,
group invitations, RSVPs and comments, authenticated with cookie-delivered JWTs.

Configuration is read from the environment (and a .env file outside production).`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return serve.RunE(cmd, args)
		},
	}
	root.AddCommand(serve, newMigrateCommand(), newSeedCommand())
	return root
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := newRootCommand().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
