package repository

import (
	"context"
	"errors"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/models"
)

func newVisitRepoMock(t *testing.T) (*sqlx.DB, sqlmock.Sqlmock, func()) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	sqlxDB := sqlx.NewDb(db, "postgres")
	cleanup := func() {
		_ = sqlxDB.Close()
		db.Close()
	}
	return sqlxDB, mock, cleanup
}

func sampleReport() *models.VisitReport {
	return &models.VisitReport{
		SalesRep:      "Anan",
		Customer:      "ACME Hardware",
		TopicsCovered: "Collect payment, Present promotion",
		Sentiment:     models.SentimentPositive,
		Summary:       "Payment collected, promotion well received.",
	}
}

func TestVisitRepositoryFileOutcomeAllWrites(t *testing.T) {
	db, mock, cleanup := newVisitRepoMock(t)
	defer cleanup()
	repo := NewVisitRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO visit_reports")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE missions SET status = $1, completed_at = $2 WHERE id IN ($3, $4) AND status = $5")).
		WithArgs(string(models.MissionStatusCompleted), sqlmock.AnyArg(), "m-1", "m-2", string(models.MissionStatusPending)).
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO missions")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	report := sampleReport()
	followUp := &models.MissionSpec{
		Customer: "ACME Hardware",
		Topic:    "Follow up on 5/12/2568",
		Description: "Customer asked to revisit the bundle quote.",
	}
	err := repo.FileOutcome(context.Background(), report, []string{"m-1", "m-2"}, followUp)
	require.NoError(t, err)
	assert.NotEmpty(t, report.ID)
	assert.Equal(t, models.ReportStatusCompleted, report.Status)
	assert.False(t, report.ReportedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitRepositoryFileOutcomeNoMissionsNoFollowUp(t *testing.T) {
	db, mock, cleanup := newVisitRepoMock(t)
	defer cleanup()
	repo := NewVisitRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO visit_reports")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	err := repo.FileOutcome(context.Background(), sampleReport(), nil, nil)
	require.NoError(t, err)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestVisitRepositoryFileOutcomeRollsBackOnFailure(t *testing.T) {
	db, mock, cleanup := newVisitRepoMock(t)
	defer cleanup()
	repo := NewVisitRepository(db)

	mock.ExpectBegin()
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO visit_reports")).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(regexp.QuoteMeta("UPDATE missions")).
		WillReturnError(errors.New("connection reset"))
	mock.ExpectRollback()

	err := repo.FileOutcome(context.Background(), sampleReport(), []string{"m-1"}, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "complete missions")
	require.NoError(t, mock.ExpectationsWereMet())
}
