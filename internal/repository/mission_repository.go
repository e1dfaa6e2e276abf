package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siamfield/salesflow/internal/models"
)

// MissionRepository manages persistence for missions. Completion is a
// status transition, never a row deletion.
type MissionRepository struct {
	db *sqlx.DB
}

// NewMissionRepository constructs the repository.
func NewMissionRepository(db *sqlx.DB) *MissionRepository {
	return &MissionRepository{db: db}
}

const missionColumns = "id, customer, topic, description, status, created_by, created_at, completed_at"

// Create inserts a new mission row with generated defaults.
func (r *MissionRepository) Create(ctx context.Context, mission *models.Mission) error {
	if mission.ID == "" {
		mission.ID = uuid.NewString()
	}
	if mission.Status == "" {
		mission.Status = models.MissionStatusPending
	}
	if mission.CreatedAt.IsZero() {
		mission.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO missions (id, customer, topic, description, status, created_by, created_at, completed_at)
VALUES (:id, :customer, :topic, :description, :status, :created_by, :created_at, :completed_at)`
	if _, err := r.db.NamedExecContext(ctx, query, mission); err != nil {
		return fmt.Errorf("create mission: %w", err)
	}
	return nil
}

// GetByID returns a mission row by its identifier.
func (r *MissionRepository) GetByID(ctx context.Context, id string) (*models.Mission, error) {
	query := fmt.Sprintf("SELECT %s FROM missions WHERE id = $1", missionColumns)
	var mission models.Mission
	if err := r.db.GetContext(ctx, &mission, query, id); err != nil {
		return nil, fmt.Errorf("get mission: %w", err)
	}
	return &mission, nil
}

// ListByCustomer returns a customer's missions with the given status,
// oldest first.
func (r *MissionRepository) ListByCustomer(ctx context.Context, customer string, status models.MissionStatus) ([]models.Mission, error) {
	query := fmt.Sprintf("SELECT %s FROM missions WHERE customer = $1 AND status = $2 ORDER BY created_at ASC", missionColumns)
	var missions []models.Mission
	if err := r.db.SelectContext(ctx, &missions, query, customer, status); err != nil {
		return nil, fmt.Errorf("list missions: %w", err)
	}
	return missions, nil
}

// ListPending returns all pending missions, for the manager's raw view.
func (r *MissionRepository) ListPending(ctx context.Context, page, size int) ([]models.Mission, int, error) {
	if page < 1 {
		page = 1
	}
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size
	query := fmt.Sprintf("SELECT %s FROM missions WHERE status = $1 ORDER BY customer ASC, created_at ASC LIMIT %d OFFSET %d", missionColumns, size, offset)
	var missions []models.Mission
	if err := r.db.SelectContext(ctx, &missions, query, models.MissionStatusPending); err != nil {
		return nil, 0, fmt.Errorf("list pending missions: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) FROM missions WHERE status = $1", models.MissionStatusPending); err != nil {
		return nil, 0, fmt.Errorf("count pending missions: %w", err)
	}
	return missions, total, nil
}

// Archive soft-deletes a mission (manager withdrawal).
func (r *MissionRepository) Archive(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, "UPDATE missions SET status = $1 WHERE id = $2 AND status = $3",
		models.MissionStatusArchived, id, models.MissionStatusPending)
	if err != nil {
		return fmt.Errorf("archive mission: %w", err)
	}
	if affected, err := res.RowsAffected(); err == nil && affected == 0 {
		return fmt.Errorf("archive mission: no pending mission %s", id)
	}
	return nil
}
