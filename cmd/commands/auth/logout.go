package auth

import (
	"fmt"

	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"

	"github.com/spf13/cobra"
)

func LogoutCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "logout <cloud>",
		Short: "Remove the stored API token for a cloud",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cloud := auth.NormalizeCloud(args[0])
			if err := auth.DefaultStore().DeleteToken(cloud); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed token for %s\n", cloud)
			return nil
		},
		SilenceUsage: true,
	}
}
