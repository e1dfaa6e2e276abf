package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siamfield/salesflow/internal/models"
)

// VisitRepository commits visit outcomes. Filing the report, completing
// the addressed missions, and creating the follow-up happen in a single
// transaction so a visit can never be half-recorded.
type VisitRepository struct {
	db *sqlx.DB
}

// NewVisitRepository constructs the repository.
func NewVisitRepository(db *sqlx.DB) *VisitRepository {
	return &VisitRepository{db: db}
}

// FileOutcome persists the visit closure atomically. missionIDs are the
// pending missions covered by the visit. followUp, when non-nil, becomes
// a new pending mission credited to the reporting rep.
func (r *VisitRepository) FileOutcome(ctx context.Context, report *models.VisitReport, missionIDs []string, followUp *models.MissionSpec) error {
	if report.ID == "" {
		report.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if report.CreatedAt.IsZero() {
		report.CreatedAt = now
	}
	if report.ReportedAt.IsZero() {
		report.ReportedAt = now
	}
	if report.Status == "" {
		report.Status = models.ReportStatusCompleted
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin visit closure: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const insertReport = `INSERT INTO visit_reports (id, reported_at, sales_rep, customer, topics_covered, status, sentiment, summary, created_at)
VALUES (:id, :reported_at, :sales_rep, :customer, :topics_covered, :status, :sentiment, :summary, :created_at)`
	if _, err := tx.NamedExecContext(ctx, insertReport, report); err != nil {
		return fmt.Errorf("insert visit report: %w", err)
	}

	if len(missionIDs) > 0 {
		query, args, err := sqlx.In(
			"UPDATE missions SET status = ?, completed_at = ? WHERE id IN (?) AND status = ?",
			models.MissionStatusCompleted, now, missionIDs, models.MissionStatusPending)
		if err != nil {
			return fmt.Errorf("build mission completion: %w", err)
		}
		if _, err := tx.ExecContext(ctx, tx.Rebind(query), args...); err != nil {
			return fmt.Errorf("complete missions: %w", err)
		}
	}

	if followUp != nil {
		mission := models.Mission{
			ID:          uuid.NewString(),
			Customer:    followUp.Customer,
			Topic:       followUp.Topic,
			Description: followUp.Description,
			Status:      models.MissionStatusPending,
			CreatedBy:   report.SalesRep,
			CreatedAt:   now,
		}
		const insertMission = `INSERT INTO missions (id, customer, topic, description, status, created_by, created_at, completed_at)
VALUES (:id, :customer, :topic, :description, :status, :created_by, :created_at, :completed_at)`
		if _, err := tx.NamedExecContext(ctx, insertMission, &mission); err != nil {
			return fmt.Errorf("insert follow-up mission: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit visit closure: %w", err)
	}
	return nil
}
