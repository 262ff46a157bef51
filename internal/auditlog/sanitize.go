package auditlog

import "strings"

// Flags whose values must never be written to the audit log.
var sensitiveFlags = map[string]bool{
	"--token":      true,
	"--api-token":  true,
	"--public-key": true,
	"--user-data":  true,
}

// SanitizeArgs replaces the values of sensitive flags with a
// placeholder. Both "--token abc" and "--token=abc" forms are handled.
func SanitizeArgs(args []string) []string {
	out := make([]string, len(args))
	redactNext := false
	for i, arg := range args {
		if redactNext {
			out[i] = "[REDACTED]"
			redactNext = false
			continue
		}
		if flag, _, found := strings.Cut(arg, "="); found && sensitiveFlags[flag] {
			out[i] = flag + "=[REDACTED]"
			continue
		}
		if sensitiveFlags[arg] {
			out[i] = arg
			redactNext = true
			continue
		}
		out[i] = arg
	}
	return out
}
