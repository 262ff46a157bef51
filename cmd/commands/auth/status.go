package auth

import (
	"errors"
	"fmt"
	"os"

	"github.com/OpenRouterTeam/spawn-sub007/internal/providers"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"

	"github.com/spf13/cobra"
)

func StatusCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which clouds have credentials available",
		Long: `Show, for each registered cloud vendor, whether a credential is
available and where it comes from (environment variable or keychain).

Example:
  spawn auth status`,
		RunE:         runStatus,
		SilenceUsage: true,
	}
}

func runStatus(cmd *cobra.Command, args []string) error {
	store := auth.DefaultStore()
	clouds := providers.List()
	if len(clouds) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No cloud vendors registered.")
		return nil
	}

	for _, cloud := range clouds {
		if os.Getenv(auth.EnvVar(cloud)) != "" {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: using %s\n", cloud, auth.EnvVar(cloud))
			continue
		}
		_, err := store.GetToken(cloud)
		switch {
		case err == nil:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: logged in (keychain)\n", cloud)
		case errors.Is(err, auth.ErrTokenNotFound):
			fmt.Fprintf(cmd.OutOrStdout(), "%s: not logged in\n", cloud)
		default:
			fmt.Fprintf(cmd.OutOrStdout(), "%s: error (%v)\n", cloud, err)
		}
	}
	return nil
}
