// Package domain defines the audit trail model: one record per authorization
// decision the gateway makes.
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Outcome states whether an operation was allowed or denied.
type Outcome string

const (
	// OutcomeAllow records an operation the gate permitted.
	OutcomeAllow Outcome = "allow"

	// OutcomeDeny records an operation the gate refused.
	OutcomeDeny Outcome = "deny"
)

// DecisionRecord captures a single authorization decision for later review.
// Records are written best-effort after the decision is made; they never
// influence the decision itself.
type DecisionRecord struct {
	ID         uuid.UUID
	RequestID  string
	EndpointID string
	Verb       string
	Level      string
	Outcome    Outcome
	Reason     string
	CreatedAt  time.Time
}
