package cmd

import (
	"errors"
	"fmt"

	"github.com/OpenRouterTeam/spawn-sub007/internal/executor"
	"github.com/OpenRouterTeam/spawn-sub007/internal/httpjson"
	"github.com/OpenRouterTeam/spawn-sub007/internal/launch"
	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"
	"github.com/OpenRouterTeam/spawn-sub007/internal/resolve"
	"github.com/OpenRouterTeam/spawn-sub007/internal/script"
)

// Exit codes: 2 for usage-level problems caught before any network or
// subprocess activity, 1 for everything else.
const (
	exitFailure = 1
	exitUsage   = 2
)

func exitCode(err error) int {
	var invalid *resolve.InvalidIdentifierError
	var unknown *resolve.UnknownEntityError
	var swapped *resolve.SwappedArgumentsError
	switch {
	case errors.As(err, &invalid), errors.As(err, &unknown), errors.As(err, &swapped):
		return exitUsage
	default:
		return exitFailure
	}
}

// remediation returns a one-paragraph follow-up hint for known failure
// classes, or empty when the error speaks for itself.
func remediation(err error) string {
	var unknown *resolve.UnknownEntityError
	if errors.As(err, &unknown) {
		if unknown.Suggestion != "" {
			return fmt.Sprintf("Did you mean %q? Run 'spawn list' to see every known agent and cloud.", unknown.Suggestion)
		}
		return "Run 'spawn list' to see every known agent and cloud."
	}

	var swapped *resolve.SwappedArgumentsError
	if errors.As(err, &swapped) {
		return fmt.Sprintf("The arguments appear swapped. Try: spawn %s %s", swapped.Agent, swapped.Cloud)
	}

	var invalid *resolve.InvalidIdentifierError
	if errors.As(err, &invalid) {
		return "Identifiers are lowercase letters, digits, and hyphens, at most 64 characters."
	}

	var notSupported *launch.NotSupportedError
	if errors.As(err, &notSupported) {
		return "Run 'spawn list' to see which combinations are implemented."
	}

	var download *script.DownloadError
	if errors.As(err, &download) {
		return download.Remediation()
	}

	var rejected *script.RejectedError
	if errors.As(err, &rejected) {
		return "The launcher script failed safety validation and was not executed. This usually indicates a corrupted download or an upstream problem."
	}

	var exit *executor.ExitError
	if errors.As(err, &exit) || executor.IsRetryableExitCode(err.Error()) {
		return "Re-run the same command; if the failure persists, run 'spawn list' to confirm the combination is supported."
	}

	var api *httpjson.APIError
	if errors.As(err, &api) {
		return "The cloud API rejected the request; the vendor message above has the details. Verify your token with 'spawn auth status'."
	}

	if errors.Is(err, manifest.ErrNoManifest) {
		return "The capability manifest could not be loaded from the network, disk cache, or bundled snapshot. Check your connection and retry."
	}

	return ""
}
