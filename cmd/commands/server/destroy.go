package server

import (
	"fmt"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/providers"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"

	"github.com/spf13/cobra"
)

func DestroyCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "destroy <id>",
		Short: "Destroy a server by its vendor id",
		Long: `Destroy a server on the chosen cloud.

Example:
  spawn server destroy 12345 --cloud hetzner`,
		Args:         cobra.ExactArgs(1),
		RunE:         runDestroy,
		SilenceUsage: true,
	}

	return cmd
}

func runDestroy(cmd *cobra.Command, args []string) error {
	cloud, err := resolveCloud(cmd)
	if err != nil {
		return err
	}

	provider, err := providers.Get(cloud, auth.DefaultStore())
	if err != nil {
		return err
	}

	ctx := cmd.Context()
	start := time.Now()
	err = provider.Destroy(ctx, &domain.ServerInfo{ID: args[0], Cloud: cloud})
	recordServerOp(ctx, "server destroy", cloud, args[0], "", err, time.Since(start))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Destroyed server %s\n", args[0])
	return nil
}
