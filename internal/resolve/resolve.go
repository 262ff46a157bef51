// Package resolve validates user-supplied agent/cloud identifiers against
// the capability matrix and suggests corrections for near-miss input.
package resolve

import (
	"fmt"
	"strings"

	"github.com/OpenRouterTeam/spawn-sub007/internal/manifest"
)

const (
	// maxIdentifierLen bounds raw identifier input before any lookup.
	maxIdentifierLen = 64

	// maxDistance is the largest edit distance still considered a
	// plausible typo.
	maxDistance = 3
)

// InvalidIdentifierError reports a shape, length, or charset violation.
type InvalidIdentifierError struct {
	Input  string
	Reason string
}

func (e *InvalidIdentifierError) Error() string {
	return fmt.Sprintf("invalid identifier %q: %s", e.Input, e.Reason)
}

// UnknownEntityError reports a well-formed identifier the manifest does
// not know. Suggestion is the closest known key, empty when nothing is
// within the fuzzy-match threshold.
type UnknownEntityError struct {
	Kind       string // "agent" or "cloud"
	Input      string
	Suggestion string
}

func (e *UnknownEntityError) Error() string {
	if e.Suggestion != "" {
		return fmt.Sprintf("unknown %s %q (did you mean %q?)", e.Kind, e.Input, e.Suggestion)
	}
	return fmt.Sprintf("unknown %s %q", e.Kind, e.Input)
}

// SwappedArgumentsError reports that the user most likely passed the
// cloud first and the agent second.
type SwappedArgumentsError struct {
	Agent string // the corrected agent key
	Cloud string // the corrected cloud key
}

func (e *SwappedArgumentsError) Error() string {
	return fmt.Sprintf("arguments appear swapped: try %q %q (agent first, then cloud)", e.Agent, e.Cloud)
}

// ValidateIdentifier checks raw identifier shape before any manifest or
// network work. Case is significant: uppercase input is rejected, not
// normalized.
func ValidateIdentifier(s string) error {
	if strings.TrimSpace(s) == "" {
		return &InvalidIdentifierError{Input: s, Reason: "must not be empty"}
	}
	if len(s) > maxIdentifierLen {
		return &InvalidIdentifierError{Input: s, Reason: fmt.Sprintf("exceeds %d characters", maxIdentifierLen)}
	}
	for i := 0; i < len(s); i++ {
		ch := s[i]
		if (ch >= 'a' && ch <= 'z') || (ch >= '0' && ch <= '9') || ch == '-' {
			continue
		}
		return &InvalidIdentifierError{Input: s, Reason: "only lowercase letters, digits, and hyphens are allowed"}
	}
	return nil
}

// ClosestKey finds the candidate whose key or display name is nearest to
// input by case-insensitive edit distance. It returns "" when no
// candidate is within the threshold or the candidate list is empty. Ties
// resolve to the first candidate encountered.
func ClosestKey(input string, keys []string, nameOf func(string) string) string {
	best := ""
	bestDist := maxDistance + 1
	lowered := strings.ToLower(input)

	for _, key := range keys {
		d := editDistance(lowered, strings.ToLower(key))
		if nameOf != nil {
			if nd := editDistance(lowered, strings.ToLower(nameOf(key))); nd < d {
				d = nd
			}
		}
		if d < bestDist {
			best = key
			bestDist = d
		}
	}

	if bestDist > maxDistance {
		return ""
	}
	return best
}

// ResolvePair validates (agent, cloud) input against the manifest. Both
// identifiers are shape-checked before any lookup, and the swap heuristic
// fires only when the first argument is not a valid agent but names a
// known cloud while the second names a known agent.
func ResolvePair(m *manifest.Manifest, agentIn, cloudIn string) (agent, cloud string, err error) {
	if err := ValidateIdentifier(agentIn); err != nil {
		return "", "", err
	}
	if err := ValidateIdentifier(cloudIn); err != nil {
		return "", "", err
	}

	agentName := func(k string) string { return m.Agents[k].Name }
	cloudName := func(k string) string { return m.Clouds[k].Name }

	if _, ok := m.Agents[agentIn]; !ok {
		// The user may have typed "spawn <cloud> <agent>".
		if swappedCloud, swapped := matchesCloud(m, agentIn, cloudName); swapped {
			if _, secondIsAgent := m.Agents[cloudIn]; secondIsAgent {
				return "", "", &SwappedArgumentsError{Agent: cloudIn, Cloud: swappedCloud}
			}
		}
		return "", "", &UnknownEntityError{
			Kind:       "agent",
			Input:      agentIn,
			Suggestion: ClosestKey(agentIn, m.AgentKeys(), agentName),
		}
	}

	if _, ok := m.Clouds[cloudIn]; !ok {
		return "", "", &UnknownEntityError{
			Kind:       "cloud",
			Input:      cloudIn,
			Suggestion: ClosestKey(cloudIn, m.CloudKeys(), cloudName),
		}
	}

	return agentIn, cloudIn, nil
}

// matchesCloud reports whether input names a known cloud exactly or by
// fuzzy match, returning the matched cloud key.
func matchesCloud(m *manifest.Manifest, input string, nameOf func(string) string) (string, bool) {
	if _, ok := m.Clouds[input]; ok {
		return input, true
	}
	if key := ClosestKey(input, m.CloudKeys(), nameOf); key != "" {
		return key, true
	}
	return "", false
}
