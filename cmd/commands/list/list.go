// Package list implements "spawn list": the agents, clouds, and
// capability matrix known to the manifest.
package list

import (
	"encoding/json"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"

	"github.com/spf13/cobra"
)

// NewCommand returns the "list" command.
func NewCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List agents, clouds, and supported combinations",
		Long: `List every agent and cloud the capability manifest knows, and which
combinations are implemented.

Examples:
  spawn list
  spawn list --refresh
  spawn list -o json`,
		RunE:         runList,
		SilenceUsage: true,
	}

	cmd.Flags().Bool("refresh", false, "Force a manifest refresh")
	cmd.Flags().StringP("output", "o", "table", "Output format: table or json")

	return cmd
}

func runList(cmd *cobra.Command, args []string) error {
	forceRefresh, _ := cmd.Flags().GetBool("refresh")
	output, _ := cmd.Flags().GetString("output")

	m, err := manifest.NewStore().Load(cmd.Context(), forceRefresh)
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), m, output)
}

func render(out io.Writer, m *manifest.Manifest, output string) error {
	switch output {
	case "json":
		encoder := json.NewEncoder(out)
		encoder.SetIndent("", "  ")
		return encoder.Encode(m)
	case "table", "":
	default:
		return fmt.Errorf("unsupported output format %q", output)
	}

	agents := m.AgentKeys()
	clouds := m.CloudKeys()

	w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "AGENT\tNAME")
	for _, key := range agents {
		fmt.Fprintf(w, "%s\t%s\n", key, m.Agents[key].Name)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "CLOUD\tNAME")
	for _, key := range clouds {
		fmt.Fprintf(w, "%s\t%s\n", key, m.Clouds[key].Name)
	}
	fmt.Fprintln(w)

	header := "AGENT"
	for _, cloud := range clouds {
		header += "\t" + cloud
	}
	fmt.Fprintln(w, header)
	for _, agent := range agents {
		row := agent
		for _, cloud := range clouds {
			if m.Status(cloud, agent) == manifest.StatusImplemented {
				row += "\tyes"
			} else {
				row += "\t-"
			}
		}
		fmt.Fprintln(w, row)
	}
	return w.Flush()
}
