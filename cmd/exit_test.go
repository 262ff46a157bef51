package cmd

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/OpenRouterTeam/spawn-sub007/internal/executor"
	"github.com/OpenRouterTeam/spawn-sub007/internal/httpjson"
	"github.com/OpenRouterTeam/spawn-sub007/internal/launch"
	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"
	"github.com/OpenRouterTeam/spawn-sub007/internal/resolve"
	"github.com/OpenRouterTeam/spawn-sub007/internal/script"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"invalid identifier", &resolve.InvalidIdentifierError{Input: "UPPER", Reason: "uppercase"}, exitUsage},
		{"unknown entity", &resolve.UnknownEntityError{Kind: "agent", Input: "claud"}, exitUsage},
		{"swapped arguments", &resolve.SwappedArgumentsError{Agent: "claude", Cloud: "hetzner"}, exitUsage},
		{"wrapped unknown", fmt.Errorf("resolving: %w", &resolve.UnknownEntityError{Kind: "cloud", Input: "hetznr"}), exitUsage},
		{"not supported", &launch.NotSupportedError{Agent: "claude", Cloud: "fly"}, exitFailure},
		{"download failure", &script.DownloadError{Cause: script.CauseNotFound}, exitFailure},
		{"script rejected", &script.RejectedError{Reason: script.ReasonMissingShebang}, exitFailure},
		{"execution failure", &executor.ExitError{Code: 1}, exitFailure},
		{"api error", &httpjson.APIError{Method: "GET", Path: "/account", Status: 401}, exitFailure},
		{"no manifest", manifest.ErrNoManifest, exitFailure},
		{"generic", errors.New("boom"), exitFailure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := exitCode(tt.err); got != tt.want {
				t.Errorf("exitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestRemediation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{
			name: "unknown with suggestion",
			err:  &resolve.UnknownEntityError{Kind: "agent", Input: "claud", Suggestion: "claude"},
			want: `"claude"`,
		},
		{
			name: "unknown without suggestion",
			err:  &resolve.UnknownEntityError{Kind: "agent", Input: "zzz"},
			want: "spawn list",
		},
		{
			name: "swapped names corrected order",
			err:  &resolve.SwappedArgumentsError{Agent: "claude", Cloud: "hetzner"},
			want: "spawn claude hetzner",
		},
		{
			name: "download carries its own remediation",
			err:  &script.DownloadError{Cause: script.CauseServerError},
			want: (&script.DownloadError{Cause: script.CauseServerError}).Remediation(),
		},
		{
			name: "execution failure suggests rerun",
			err:  &executor.ExitError{Code: 255},
			want: "Re-run the same command",
		},
		{
			name: "manifest failure names every source",
			err:  fmt.Errorf("%w: dial tcp: timeout", manifest.ErrNoManifest),
			want: "bundled snapshot",
		},
		{
			name: "generic has no hint",
			err:  errors.New("boom"),
			want: "",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := remediation(tt.err)
			if tt.want == "" {
				if got != "" {
					t.Errorf("remediation = %q, want empty", got)
				}
				return
			}
			if !strings.Contains(got, tt.want) {
				t.Errorf("remediation = %q, want containing %q", got, tt.want)
			}
		})
	}
}
