// Package usecase implements recording, listing and retention of
// authorization decision records.
package usecase

import (
	"context"
	"time"

	auditDomain "github.com/allisson/appgate/internal/audit/domain"
)

// DecisionRepository persists authorization decision records.
type DecisionRepository interface {
	// Create inserts a new decision record.
	Create(ctx context.Context, record *auditDomain.DecisionRecord) error

	// List retrieves records ordered by ID descending (newest first) with
	// pagination.
	List(ctx context.Context, offset, limit int) ([]*auditDomain.DecisionRecord, error)

	// DeleteOlderThan removes records created before the cutoff and returns
	// the number of rows deleted.
	DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error)
}

// DecisionUseCase is the application-facing audit trail API.
type DecisionUseCase interface {
	// Record stores one authorization decision.
	Record(ctx context.Context, requestID, endpointID, verb, level string, outcome auditDomain.Outcome, reason string) error

	// List retrieves decision records, newest first, with pagination.
	List(ctx context.Context, offset, limit int) ([]*auditDomain.DecisionRecord, error)

	// Clean deletes records older than the given number of days and returns
	// the number of rows deleted.
	Clean(ctx context.Context, olderThanDays int) (int64, error)
}
