// Package script acquires launcher payloads for a resolved (cloud, agent)
// pair and statically vets them before execution is permitted.
package script

import "fmt"

const (
	primaryBase = "https://raw.githubusercontent.com/OpenRouterTeam/spawn/main"
	mirrorBase  = "https://cdn.jsdelivr.net/gh/OpenRouterTeam/spawn@main"
)

// URLs derives the primary and mirror download URLs for a launcher
// payload. Both are deterministic functions of the resolved pair.
func URLs(cloud, agent string) (primary, fallback string) {
	primary = fmt.Sprintf("%s/%s/%s.sh", primaryBase, cloud, agent)
	fallback = fmt.Sprintf("%s/%s/%s.sh", mirrorBase, cloud, agent)
	return primary, fallback
}
