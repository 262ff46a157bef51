// Package audit implements "spawn audit": the local history of launch,
// provision, and destroy operations.
package audit

import "github.com/spf13/cobra"

// NewCommand returns the "audit" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "audit",
		Short: "View and manage launch history",
		Long: "View a local audit trail of spawn operations and prune old entries.\n\n" +
			"History is stored locally in ~/.config/spawn/spawn.db.",
		SilenceUsage: true,
	}

	cmd.AddCommand(ListCommand())
	cmd.AddCommand(PruneCommand())

	return cmd
}
