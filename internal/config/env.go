package config

import "os"

// Environment switches consumed by the pipeline.
const (
	// EnvDebug enables verbose diagnostic output on stderr.
	EnvDebug = "SPAWN_DEBUG"

	// EnvNoUpdateCheck suppresses the release update check entirely.
	EnvNoUpdateCheck = "SPAWN_NO_UPDATE_CHECK"
)

// Debug reports whether verbose diagnostics are enabled.
func Debug() bool {
	return truthy(os.Getenv(EnvDebug))
}

// UpdateCheckDisabled reports whether the update check is suppressed.
func UpdateCheckDisabled() bool {
	return truthy(os.Getenv(EnvNoUpdateCheck))
}

func truthy(v string) bool {
	switch v {
	case "", "0", "false", "no", "off":
		return false
	}
	return true
}
