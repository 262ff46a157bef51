// Package server implements "spawn server": direct provision, access,
// and destroy operations against a cloud vendor, outside the launcher
// pipeline.
package server

import "github.com/spf13/cobra"

// NewCommand returns the "server" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "server",
		Short:        "Provision and destroy cloud servers directly",
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("cloud", "", "Cloud vendor (e.g. hetzner, digitalocean)")

	cmd.AddCommand(CreateCommand())
	cmd.AddCommand(DestroyCommand())
	cmd.AddCommand(SSHCommand())

	return cmd
}
