package usecase

import (
	"context"
	"time"

	"github.com/google/uuid"

	auditDomain "github.com/allisson/appgate/internal/audit/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// decisionUseCase implements DecisionUseCase on a decision repository.
type decisionUseCase struct {
	decisionRepo DecisionRepository
}

// Record stores one authorization decision with a fresh UUIDv7 identifier.
// Callers treat failures as best-effort: log and move on, the decision
// already happened.
func (d *decisionUseCase) Record(
	ctx context.Context,
	requestID, endpointID, verb, level string,
	outcome auditDomain.Outcome,
	reason string,
) error {
	record := &auditDomain.DecisionRecord{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  requestID,
		EndpointID: endpointID,
		Verb:       verb,
		Level:      level,
		Outcome:    outcome,
		Reason:     reason,
		CreatedAt:  time.Now().UTC(),
	}

	if err := d.decisionRepo.Create(ctx, record); err != nil {
		return apperrors.Wrap(err, "failed to record decision")
	}

	return nil
}

// List retrieves decision records, newest first, with pagination.
func (d *decisionUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.DecisionRecord, error) {
	records, err := d.decisionRepo.List(ctx, offset, limit)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list decisions")
	}

	return records, nil
}

// Clean deletes records created more than olderThanDays days ago.
func (d *decisionUseCase) Clean(ctx context.Context, olderThanDays int) (int64, error) {
	if olderThanDays < 1 {
		return 0, apperrors.Wrap(apperrors.ErrInvalidInput, "olderThanDays must be at least 1")
	}

	cutoff := time.Now().UTC().AddDate(0, 0, -olderThanDays)
	deleted, err := d.decisionRepo.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to clean decisions")
	}

	return deleted, nil
}

// NewDecisionUseCase creates a DecisionUseCase with the provided repository.
func NewDecisionUseCase(decisionRepo DecisionRepository) DecisionUseCase {
	return &decisionUseCase{
		decisionRepo: decisionRepo,
	}
}

// NoOpDecisionUseCase is used when the audit trail is disabled. Record and
// Clean succeed without doing anything; List returns an empty page.
type NoOpDecisionUseCase struct{}

// NewNoOpDecisionUseCase creates a DecisionUseCase that discards everything.
func NewNoOpDecisionUseCase() DecisionUseCase {
	return &NoOpDecisionUseCase{}
}

// Record discards the decision.
func (n *NoOpDecisionUseCase) Record(
	ctx context.Context,
	requestID, endpointID, verb, level string,
	outcome auditDomain.Outcome,
	reason string,
) error {
	return nil
}

// List returns an empty page.
func (n *NoOpDecisionUseCase) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.DecisionRecord, error) {
	return []*auditDomain.DecisionRecord{}, nil
}

// Clean reports zero deletions.
func (n *NoOpDecisionUseCase) Clean(ctx context.Context, olderThanDays int) (int64, error) {
	return 0, nil
}
