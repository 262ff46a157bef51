package config

import (
	"fmt"

	"github.com/OpenRouterTeam/spawn-sub007/internal/config"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
	"github.com/OpenRouterTeam/spawn-sub007/internal/sshkeys"

	"github.com/spf13/cobra"
)

func SetCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "set <key> <value>",
		Short: "Set a preference",
		Long: `Set a preference.

Examples:
  spawn config set default_cloud hetzner
  spawn config set ssh_public_key_path ~/.ssh/id_ed25519.pub`,
		Args:         cobra.ExactArgs(2),
		RunE:         runSet,
		SilenceUsage: true,
	}
}

func runSet(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	key, value := args[0], args[1]
	switch key {
	case "default_cloud":
		cfg.DefaultCloud = auth.NormalizeCloud(value)
	case "ssh_public_key_path":
		expanded, err := sshkeys.ExpandHomePath(value)
		if err != nil {
			return err
		}
		if _, err := sshkeys.ReadAndValidatePublicKey(expanded); err != nil {
			return err
		}
		cfg.SSHPublicKeyPath = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}

	if err := cfg.Save(); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s\n", key)
	return nil
}
