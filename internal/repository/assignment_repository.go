package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/siamfield/salesflow/internal/models"
)

// AssignmentRepository manages the rep-to-customer map.
type AssignmentRepository struct {
	db *sqlx.DB
}

// NewAssignmentRepository constructs the repository.
func NewAssignmentRepository(db *sqlx.DB) *AssignmentRepository {
	return &AssignmentRepository{db: db}
}

// Create inserts a new assignment.
func (r *AssignmentRepository) Create(ctx context.Context, assignment *models.Assignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	if assignment.CreatedAt.IsZero() {
		assignment.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO assignments (id, sales_rep, customer, created_at)
VALUES (:id, :sales_rep, :customer, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create assignment: %w", err)
	}
	return nil
}

// ListReps returns the distinct sales reps, for login-style dropdowns.
func (r *AssignmentRepository) ListReps(ctx context.Context) ([]string, error) {
	var reps []string
	if err := r.db.SelectContext(ctx, &reps, "SELECT DISTINCT sales_rep FROM assignments ORDER BY sales_rep ASC"); err != nil {
		return nil, fmt.Errorf("list sales reps: %w", err)
	}
	return reps, nil
}

// ListCustomers returns the customers assigned to a rep.
func (r *AssignmentRepository) ListCustomers(ctx context.Context, salesRep string) ([]string, error) {
	var customers []string
	if err := r.db.SelectContext(ctx, &customers, "SELECT customer FROM assignments WHERE sales_rep = $1 ORDER BY customer ASC", salesRep); err != nil {
		return nil, fmt.Errorf("list customers: %w", err)
	}
	return customers, nil
}

// HasCustomer reports whether the rep services the given customer.
func (r *AssignmentRepository) HasCustomer(ctx context.Context, salesRep, customer string) (bool, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, "SELECT COUNT(*) FROM assignments WHERE sales_rep = $1 AND customer = $2", salesRep, customer); err != nil {
		return false, fmt.Errorf("check assignment: %w", err)
	}
	return count > 0, nil
}
