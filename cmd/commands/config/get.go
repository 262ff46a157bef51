package config

import (
	"fmt"

	"github.com/OpenRouterTeam/spawn-sub007/internal/config"

	"github.com/spf13/cobra"
)

func GetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "get [key]",
		Short: "Show one preference, or all of them",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}

			if len(args) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "default_cloud: %s\n", orUnset(cfg.DefaultCloud))
				fmt.Fprintf(cmd.OutOrStdout(), "ssh_public_key_path: %s\n", orUnset(cfg.SSHPublicKeyPath))
				return nil
			}

			switch args[0] {
			case "default_cloud":
				fmt.Fprintln(cmd.OutOrStdout(), orUnset(cfg.DefaultCloud))
			case "ssh_public_key_path":
				fmt.Fprintln(cmd.OutOrStdout(), orUnset(cfg.SSHPublicKeyPath))
			default:
				return fmt.Errorf("unknown config key %q", args[0])
			}
			return nil
		},
		SilenceUsage: true,
	}
}

func orUnset(v string) string {
	if v == "" {
		return "(unset)"
	}
	return v
}
