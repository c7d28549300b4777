// Package repository provides PostgreSQL and MySQL persistence for
// authorization decision records.
package repository

import (
	"context"
	"database/sql"
	"time"

	auditDomain "github.com/allisson/appgate/internal/audit/domain"
	apperrors "github.com/allisson/appgate/internal/errors"
)

// PostgreSQLDecisionRepository implements decision record persistence for
// PostgreSQL.
type PostgreSQLDecisionRepository struct {
	db *sql.DB
}

// Create inserts a new decision record.
func (p *PostgreSQLDecisionRepository) Create(
	ctx context.Context,
	record *auditDomain.DecisionRecord,
) error {
	query := `INSERT INTO decision_records (id, request_id, endpoint_id, verb, level, outcome, reason, created_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := p.db.ExecContext(
		ctx,
		query,
		record.ID,
		record.RequestID,
		record.EndpointID,
		record.Verb,
		record.Level,
		string(record.Outcome),
		record.Reason,
		record.CreatedAt,
	)
	if err != nil {
		return apperrors.Wrap(err, "failed to create decision record")
	}

	return nil
}

// List retrieves decision records ordered by ID descending (newest first,
// UUIDv7 ids are time ordered) with pagination.
func (p *PostgreSQLDecisionRepository) List(
	ctx context.Context,
	offset, limit int,
) ([]*auditDomain.DecisionRecord, error) {
	query := `SELECT id, request_id, endpoint_id, verb, level, outcome, reason, created_at
			  FROM decision_records
			  ORDER BY id DESC
			  LIMIT $1 OFFSET $2`

	rows, err := p.db.QueryContext(ctx, query, limit, offset)
	if err != nil {
		return nil, apperrors.Wrap(err, "failed to list decision records")
	}
	defer func() {
		_ = rows.Close()
	}()

	records := make([]*auditDomain.DecisionRecord, 0)
	for rows.Next() {
		var record auditDomain.DecisionRecord
		var outcome string

		err := rows.Scan(
			&record.ID,
			&record.RequestID,
			&record.EndpointID,
			&record.Verb,
			&record.Level,
			&outcome,
			&record.Reason,
			&record.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.Wrap(err, "failed to scan decision record")
		}

		record.Outcome = auditDomain.Outcome(outcome)
		records = append(records, &record)
	}

	if err := rows.Err(); err != nil {
		return nil, apperrors.Wrap(err, "failed to iterate decision records")
	}

	return records, nil
}

// DeleteOlderThan removes decision records created before the cutoff and
// returns the number of rows deleted.
func (p *PostgreSQLDecisionRepository) DeleteOlderThan(
	ctx context.Context,
	cutoff time.Time,
) (int64, error) {
	query := `DELETE FROM decision_records WHERE created_at < $1`

	result, err := p.db.ExecContext(ctx, query, cutoff)
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to delete decision records")
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, apperrors.Wrap(err, "failed to count deleted decision records")
	}

	return deleted, nil
}

// NewPostgreSQLDecisionRepository creates a new PostgreSQL decision
// repository.
func NewPostgreSQLDecisionRepository(db *sql.DB) *PostgreSQLDecisionRepository {
	return &PostgreSQLDecisionRepository{db: db}
}
