package auth

import (
	"fmt"
	"os"
	"strings"

	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"

	"golang.org/x/term"

	"github.com/spf13/cobra"
)

func LoginCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "login <cloud>",
		Short: "Store an API token for a cloud",
		Long: `Store an API token for a cloud using the local keychain.

Example:
  spawn auth login hetzner`,
		Args:         cobra.ExactArgs(1),
		RunE:         runLogin,
		SilenceUsage: true,
	}

	cmd.Flags().String("token", "", "API token (optional, overrides prompt)")

	return cmd
}

func runLogin(cmd *cobra.Command, args []string) error {
	cloud := auth.NormalizeCloud(args[0])
	if cloud == "" {
		return fmt.Errorf("cloud is required")
	}

	token, _ := cmd.Flags().GetString("token")
	token = strings.TrimSpace(token)
	if token == "" {
		if !term.IsTerminal(int(os.Stdin.Fd())) {
			return fmt.Errorf("no terminal available; pass the token with --token")
		}
		fmt.Fprint(cmd.OutOrStdout(), "Enter API token: ")
		raw, err := term.ReadPassword(int(os.Stdin.Fd()))
		fmt.Fprintln(cmd.OutOrStdout())
		if err != nil {
			return err
		}
		token = strings.TrimSpace(string(raw))
	}
	if token == "" {
		return fmt.Errorf("token cannot be empty")
	}

	if err := auth.DefaultStore().SetToken(cloud, token); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Saved token for %s\n", cloud)
	return nil
}
