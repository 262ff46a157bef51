package cmd

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/OpenRouterTeam/spawn-sub007/cmd/commands/audit"
	"github.com/OpenRouterTeam/spawn-sub007/cmd/commands/auth"
	cfgcmd "github.com/OpenRouterTeam/spawn-sub007/cmd/commands/config"
	"github.com/OpenRouterTeam/spawn-sub007/cmd/commands/list"
	"github.com/OpenRouterTeam/spawn-sub007/cmd/commands/server"
	"github.com/OpenRouterTeam/spawn-sub007/internal/auditlog"
	"github.com/OpenRouterTeam/spawn-sub007/internal/config"
	"github.com/OpenRouterTeam/spawn-sub007/internal/launch"
	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"
	"github.com/OpenRouterTeam/spawn-sub007/internal/providers"
	"github.com/OpenRouterTeam/spawn-sub007/internal/update"

	"github.com/spf13/cobra"
)

// version is stamped at build time via -ldflags.
var version = "dev"

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "spawn <agent> <cloud>",
		Short: "Launch AI coding agents on cloud compute",
		Long: `spawn launches an AI coding agent inside freshly provisioned cloud
compute, identified by an <agent> <cloud> pair.

Quick start:
  spawn list                       # Show agents, clouds, and the matrix
  spawn auth login hetzner         # Store your API token
  spawn claude hetzner             # Launch Claude Code on Hetzner`,
		Args:          cobra.RangeArgs(0, 2),
		RunE:          runLaunch,
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.Flags().Bool("refresh", false, "Force a manifest refresh before resolving")

	cmd.AddCommand(list.NewCommand())
	cmd.AddCommand(auth.NewCommand())
	cmd.AddCommand(cfgcmd.NewCommand())
	cmd.AddCommand(server.NewCommand())
	cmd.AddCommand(audit.NewCommand())

	return cmd
}

func runLaunch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	if len(args) == 1 {
		cfg, err := config.Load()
		if err != nil {
			return err
		}
		if cfg.DefaultCloud == "" {
			return fmt.Errorf("no cloud given and no default configured; run 'spawn %s <cloud>' or 'spawn config set default_cloud <cloud>'", args[0])
		}
		args = append(args, cfg.DefaultCloud)
	}
	forceRefresh, _ := cmd.Flags().GetBool("refresh")

	svc := &launch.Service{
		Manifest: manifest.NewStore(),
		Warnf: func(format string, a ...any) {
			fmt.Fprintf(cmd.ErrOrStderr(), "Warning: "+format+"\n", a...)
		},
	}

	ctx := auditlog.WithMetadata(cmd.Context(), auditlog.Metadata{
		Command: "launch",
		Agent:   args[0],
		Cloud:   args[1],
	})

	start := time.Now()
	res, err := svc.Run(ctx, launch.Options{
		Agent:        args[0],
		Cloud:        args[1],
		ForceRefresh: forceRefresh,
	})
	recordLaunch(ctx, res, err, time.Since(start))
	return err
}

// recordLaunch appends an audit entry. Audit failures never mask the
// launch outcome.
func recordLaunch(ctx context.Context, res *launch.Result, launchErr error, elapsed time.Duration) {
	repo, err := auditlog.Open()
	if err != nil {
		if config.Debug() {
			fmt.Fprintf(os.Stderr, "audit: %v\n", err)
		}
		return
	}
	defer repo.Close()

	rec := &auditlog.Record{
		Command:    "launch",
		Outcome:    auditlog.OutcomeSuccess,
		DurationMs: elapsed.Milliseconds(),
	}
	if invocation := auditlog.SanitizeArgs(os.Args[1:]); len(invocation) > 0 {
		rec.Command = strings.Join(invocation, " ")
	}
	if md, ok := auditlog.MetadataFromContext(ctx); ok {
		rec.Agent = md.Agent
		rec.Cloud = md.Cloud
	}
	// Prefer the resolved keys over raw user input.
	if res != nil {
		rec.Agent = res.Agent
		rec.Cloud = res.Cloud
	}
	if launchErr != nil {
		rec.Outcome = auditlog.OutcomeError
		rec.Detail = launchErr.Error()
	}
	if err := repo.Append(ctx, rec); err != nil && config.Debug() {
		fmt.Fprintf(os.Stderr, "audit: %v\n", err)
	}
}

func notifyUpdate() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	checker := &update.Checker{}
	notice, err := checker.Check(ctx, version)
	if err != nil {
		if config.Debug() {
			fmt.Fprintf(os.Stderr, "update check: %v\n", err)
		}
		return
	}
	if notice != nil {
		fmt.Fprintf(os.Stderr, "\nA new version of spawn is available: %s (you have %s)\n%s\n",
			notice.LatestVersion, notice.CurrentVersion, notice.ReleaseURL)
	}
}

// Execute runs the CLI and exits the process with a code derived from
// the error taxonomy.
func Execute() {
	providers.RegisterAll()

	root := rootCmd()
	err := root.Execute()
	notifyUpdate()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		if hint := remediation(err); hint != "" {
			fmt.Fprintln(os.Stderr, hint)
		}
		os.Exit(exitCode(err))
	}
}
