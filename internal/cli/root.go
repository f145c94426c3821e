package cli

import (
	"github.com/spf13/cobra"
)

// NewRoot builds the reservd command tree. Running it without a subcommand
// starts the HTTP server.
func NewRoot() *cobra.Command {
	serve := NewServeCmd()
	cmd := &cobra.Command{
		Use:          "reservd",
		Short:        "Restaurant table reservation service",
		SilenceUsage: true,
		RunE:         serve.RunE,
	}
	cmd.AddCommand(serve)
	cmd.AddCommand(NewMigrateCmd())
	cmd.AddCommand(NewUserCmd())
	cmd.AddCommand(NewAvailabilityCmd())
	cmd.AddCommand(NewConsumeCmd())
	return cmd
}
