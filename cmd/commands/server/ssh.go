package server

import (
	"fmt"
	"strings"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/providers"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"

	"github.com/spf13/cobra"
)

func SSHCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "ssh <ip> [command...]",
		Short: "Open an interactive session on a server",
		Long: `Open an interactive SSH session on a server, or run a one-off command
when extra arguments are given.

Examples:
  spawn server ssh 203.0.113.10 --cloud hetzner
  spawn server ssh 203.0.113.10 --cloud hetzner uptime`,
		Args:         cobra.MinimumNArgs(1),
		RunE:         runSSH,
		SilenceUsage: true,
	}

	cmd.Flags().String("user", "root", "SSH user")

	return cmd
}

func runSSH(cmd *cobra.Command, args []string) error {
	cloud, err := resolveCloud(cmd)
	if err != nil {
		return err
	}

	provider, err := providers.Get(cloud, auth.DefaultStore())
	if err != nil {
		return err
	}

	user, _ := cmd.Flags().GetString("user")
	info := &domain.ServerInfo{IP: args[0], User: user, Cloud: cloud}

	if len(args) > 1 {
		out, err := provider.Run(cmd.Context(), info, strings.Join(args[1:], " "))
		if out != "" {
			fmt.Fprint(cmd.OutOrStdout(), out)
		}
		return err
	}
	return provider.Interactive(cmd.Context(), info, "")
}
