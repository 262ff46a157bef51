// Package config implements "spawn config": persistent user
// preferences.
package config

import "github.com/spf13/cobra"

// NewCommand returns the "config" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "config",
		Short:        "Get and set persistent preferences",
		Long:         "Get and set preferences stored in ~/.config/spawn/config.json.\n\nKeys: default_cloud, ssh_public_key_path",
		SilenceUsage: true,
	}

	cmd.AddCommand(GetCommand())
	cmd.AddCommand(SetCommand())

	return cmd
}
