// Package auth implements "spawn auth": storing and inspecting cloud
// vendor API tokens.
package auth

import "github.com/spf13/cobra"

// NewCommand returns the "auth" parent command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:          "auth",
		Short:        "Manage cloud API credentials",
		Long:         "Store, inspect, and remove API tokens for cloud vendors.\n\nTokens live in the OS keychain; a per-vendor environment variable\n(e.g. HETZNER_API_TOKEN) always takes precedence when set.",
		SilenceUsage: true,
	}

	cmd.AddCommand(LoginCommand())
	cmd.AddCommand(LogoutCommand())
	cmd.AddCommand(StatusCommand())

	return cmd
}
