package server

import (
	"context"
	"fmt"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/internal/auditlog"
	"github.com/OpenRouterTeam/spawn-sub007/internal/config"
	"github.com/OpenRouterTeam/spawn-sub007/internal/domain"
	"github.com/OpenRouterTeam/spawn-sub007/internal/providers"
	"github.com/OpenRouterTeam/spawn-sub007/internal/services/auth"
	"github.com/OpenRouterTeam/spawn-sub007/internal/sshkeys"
	"github.com/OpenRouterTeam/spawn-sub007/internal/util"

	"github.com/spf13/cobra"
)

func CreateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Provision a server and wait until it accepts SSH",
		Long: `Provision a server on the chosen cloud, register the local SSH public
key, and wait until the server accepts SSH connections.

Examples:
  spawn server create my-box --cloud hetzner
  spawn server create my-box --cloud digitalocean --type s-2vcpu-2gb --region ams3`,
		Args:         cobra.ExactArgs(1),
		RunE:         runCreate,
		SilenceUsage: true,
	}

	cmd.Flags().String("type", "", "Server type/size (vendor default when empty)")
	cmd.Flags().String("region", "", "Region/location (vendor default when empty)")
	cmd.Flags().String("image", "", "OS image (vendor default when empty)")
	cmd.Flags().String("ssh-key", "", "Path to the SSH public key to register")

	return cmd
}

func runCreate(cmd *cobra.Command, args []string) error {
	name := args[0]
	if err := util.ValidateServerName(name); err != nil {
		return err
	}

	cloud, err := resolveCloud(cmd)
	if err != nil {
		return err
	}

	provider, err := providers.Get(cloud, auth.DefaultStore())
	if err != nil {
		return err
	}

	keyPath, _ := cmd.Flags().GetString("ssh-key")
	if keyPath == "" {
		if cfg, err := config.Load(); err == nil {
			keyPath = cfg.SSHPublicKeyPath
		}
	}
	publicKey, err := sshkeys.Locate(keyPath)
	if err != nil {
		return err
	}

	serverType, _ := cmd.Flags().GetString("type")
	region, _ := cmd.Flags().GetString("region")
	image, _ := cmd.Flags().GetString("image")

	ctx := cmd.Context()
	start := time.Now()
	info, err := provider.Provision(ctx, name, domain.CloudProviderConfig{
		ServerType:   serverType,
		Region:       region,
		Image:        image,
		SSHPublicKey: publicKey,
	})
	if err != nil {
		recordServerOp(ctx, "server create", cloud, "", name, err, time.Since(start))
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Created server %s (%s) at %s\n", info.Name, info.ID, info.IP)
	fmt.Fprintln(cmd.OutOrStdout(), "Waiting for SSH...")
	err = provider.WaitReady(ctx, info)
	recordServerOp(ctx, "server create", cloud, info.ID, info.Name, err, time.Since(start))
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Ready: ssh %s\n", info.Address())
	return nil
}

func resolveCloud(cmd *cobra.Command) (string, error) {
	cloud, _ := cmd.Flags().GetString("cloud")
	if cloud == "" {
		if cfg, err := config.Load(); err == nil {
			cloud = cfg.DefaultCloud
		}
	}
	if cloud == "" {
		return "", fmt.Errorf("--cloud is required (or set default_cloud in the config file)")
	}
	return auth.NormalizeCloud(cloud), nil
}

// recordServerOp appends an audit entry for a provision or destroy,
// never masking the operation's own outcome.
func recordServerOp(ctx context.Context, command, cloud, id, name string, opErr error, elapsed time.Duration) {
	repo, err := auditlog.Open()
	if err != nil {
		return
	}
	defer repo.Close()

	rec := &auditlog.Record{
		Command:      command,
		Cloud:        cloud,
		ResourceID:   id,
		ResourceName: name,
		Outcome:      auditlog.OutcomeSuccess,
		DurationMs:   elapsed.Milliseconds(),
	}
	if opErr != nil {
		rec.Outcome = auditlog.OutcomeError
		rec.Detail = opErr.Error()
	}
	_ = repo.Append(ctx, rec)
}
