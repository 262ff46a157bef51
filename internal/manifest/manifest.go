// Package manifest loads and caches the agent×cloud capability matrix that
// drives identifier validation and launcher selection.
package manifest

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
)

// Status records whether a launcher exists for a (cloud, agent) pair.
type Status string

const (
	StatusImplemented Status = "implemented"
	StatusMissing     Status = "missing"
)

// ErrMalformed marks a manifest payload missing one of its required
// top-level keys. A malformed payload is never promoted to any cache.
var ErrMalformed = errors.New("manifest missing required agents/clouds/matrix keys")

// AgentDef describes one launchable coding agent. Only Name is interpreted
// by the pipeline (fuzzy matching and messages); the install/launch
// metadata is passed through to launcher payloads untouched.
type AgentDef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
	Install     string `json:"install,omitempty"`
	Launch      string `json:"launch,omitempty"`
}

// CloudDef describes one cloud backend.
type CloudDef struct {
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// Manifest is the versioned capability matrix: known agents, known clouds,
// and per-pair launcher status.
type Manifest struct {
	Agents map[string]AgentDef `json:"agents"`
	Clouds map[string]CloudDef `json:"clouds"`
	Matrix map[string]Status   `json:"matrix"`
}

// MatrixKey builds the "cloud/agent" key used in Matrix.
func MatrixKey(cloud, agent string) string {
	return cloud + "/" + agent
}

// Status reports the launcher status for a pair. Keys absent from the
// matrix are missing, never an error.
func (m *Manifest) Status(cloud, agent string) Status {
	if s, ok := m.Matrix[MatrixKey(cloud, agent)]; ok && s == StatusImplemented {
		return StatusImplemented
	}
	return StatusMissing
}

// Parse decodes and shape-checks a manifest payload. A manifest is
// well-formed only when agents, clouds, and matrix are all present,
// possibly empty.
func Parse(data []byte) (*Manifest, error) {
	var probe struct {
		Agents json.RawMessage `json:"agents"`
		Clouds json.RawMessage `json:"clouds"`
		Matrix json.RawMessage `json:"matrix"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		return nil, fmt.Errorf("manifest: invalid JSON: %w", err)
	}
	if probe.Agents == nil || probe.Clouds == nil || probe.Matrix == nil {
		return nil, ErrMalformed
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("manifest: invalid structure: %w", err)
	}
	if m.Agents == nil {
		m.Agents = map[string]AgentDef{}
	}
	if m.Clouds == nil {
		m.Clouds = map[string]CloudDef{}
	}
	if m.Matrix == nil {
		m.Matrix = map[string]Status{}
	}
	return &m, nil
}

// AgentKeys returns the manifest's agent keys in sorted order, so fuzzy
// matching iterates candidates deterministically.
func (m *Manifest) AgentKeys() []string {
	return sortedKeys(m.Agents)
}

// CloudKeys returns the manifest's cloud keys in sorted order.
func (m *Manifest) CloudKeys() []string {
	return sortedKeys(m.Clouds)
}

func sortedKeys[V any](in map[string]V) []string {
	keys := make([]string, 0, len(in))
	for k := range in {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
