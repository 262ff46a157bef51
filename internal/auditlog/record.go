// Package auditlog records launch and server lifecycle actions to the
// local database so users can review what spawn did on their behalf.
package auditlog

import "time"

// Outcome classifies how a recorded action finished.
type Outcome string

const (
	OutcomeSuccess Outcome = "success"
	OutcomeError   Outcome = "error"
)

// Record is one audited action.
type Record struct {
	ID           int64
	Timestamp    time.Time
	Command      string
	Agent        string
	Cloud        string
	ResourceID   string
	ResourceName string
	Outcome      Outcome
	Detail       string
	DurationMs   int64
}
