package repository

import (
	"context"
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	auditDomain "github.com/allisson/appgate/internal/audit/domain"
)

func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = db.Close()
	})
	return db, mock
}

func sampleRecord() *auditDomain.DecisionRecord {
	return &auditDomain.DecisionRecord{
		ID:         uuid.Must(uuid.NewV7()),
		RequestID:  "req-1",
		EndpointID: "env",
		Verb:       "READ",
		Level:      "restricted",
		Outcome:    auditDomain.OutcomeAllow,
		Reason:     "",
		CreatedAt:  time.Now().UTC(),
	}
}

func TestPostgreSQLDecisionRepositoryCreate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDecisionRepository(db)
	record := sampleRecord()

	mock.ExpectExec("INSERT INTO decision_records").
		WithArgs(
			record.ID,
			record.RequestID,
			record.EndpointID,
			record.Verb,
			record.Level,
			string(record.Outcome),
			record.Reason,
			record.CreatedAt,
		).
		WillReturnResult(sqlmock.NewResult(0, 1))

	require.NoError(t, repo.Create(context.Background(), record))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDecisionRepositoryCreateFailure(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDecisionRepository(db)

	mock.ExpectExec("INSERT INTO decision_records").
		WillReturnError(errors.New("connection reset"))

	err := repo.Create(context.Background(), sampleRecord())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to create decision record")
}

func TestPostgreSQLDecisionRepositoryList(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDecisionRepository(db)

	first := sampleRecord()
	second := sampleRecord()
	second.Outcome = auditDomain.OutcomeDeny
	second.Reason = "access_denied"

	rows := sqlmock.NewRows([]string{
		"id", "request_id", "endpoint_id", "verb", "level", "outcome", "reason", "created_at",
	}).
		AddRow(second.ID, second.RequestID, second.EndpointID, second.Verb, second.Level,
			string(second.Outcome), second.Reason, second.CreatedAt).
		AddRow(first.ID, first.RequestID, first.EndpointID, first.Verb, first.Level,
			string(first.Outcome), first.Reason, first.CreatedAt)

	mock.ExpectQuery("SELECT (.+) FROM decision_records").
		WithArgs(50, 0).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, auditDomain.OutcomeDeny, records[0].Outcome)
	assert.Equal(t, "access_denied", records[0].Reason)
	assert.Equal(t, first.ID, records[1].ID)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestPostgreSQLDecisionRepositoryListEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDecisionRepository(db)

	rows := sqlmock.NewRows([]string{
		"id", "request_id", "endpoint_id", "verb", "level", "outcome", "reason", "created_at",
	})
	mock.ExpectQuery("SELECT (.+) FROM decision_records").
		WithArgs(50, 0).
		WillReturnRows(rows)

	records, err := repo.List(context.Background(), 0, 50)
	require.NoError(t, err)
	assert.NotNil(t, records)
	assert.Empty(t, records)
}

func TestPostgreSQLDecisionRepositoryDeleteOlderThan(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewPostgreSQLDecisionRepository(db)
	cutoff := time.Now().UTC().AddDate(0, 0, -30)

	mock.ExpectExec("DELETE FROM decision_records").
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 7))

	deleted, err := repo.DeleteOlderThan(context.Background(), cutoff)
	require.NoError(t, err)
	assert.Equal(t, int64(7), deleted)
	assert.NoError(t, mock.ExpectationsWereMet())
}
