package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/siamfield/salesflow/internal/models"
)

// ReportRepository reads persisted visit reports. Writes happen only
// inside the visit closure transaction, so this repository is read-only.
type ReportRepository struct {
	db *sqlx.DB
}

// NewReportRepository constructs the repository.
func NewReportRepository(db *sqlx.DB) *ReportRepository {
	return &ReportRepository{db: db}
}

const reportColumns = "id, reported_at, sales_rep, customer, topics_covered, status, sentiment, summary, created_at"

// GetByID returns a visit report by its identifier.
func (r *ReportRepository) GetByID(ctx context.Context, id string) (*models.VisitReport, error) {
	query := fmt.Sprintf("SELECT %s FROM visit_reports WHERE id = $1", reportColumns)
	var report models.VisitReport
	if err := r.db.GetContext(ctx, &report, query, id); err != nil {
		return nil, fmt.Errorf("get visit report: %w", err)
	}
	return &report, nil
}

// List returns filtered visit reports, newest first, with a total count
// for pagination.
func (r *ReportRepository) List(ctx context.Context, filter models.VisitReportFilter) ([]models.VisitReport, int, error) {
	where, args := reportFilterClauses(filter)

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}

	countQuery := "SELECT COUNT(*) FROM visit_reports" + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count visit reports: %w", err)
	}

	query := fmt.Sprintf("SELECT %s FROM visit_reports%s ORDER BY reported_at DESC LIMIT %d OFFSET %d",
		reportColumns, where, size, (page-1)*size)
	var reports []models.VisitReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list visit reports: %w", err)
	}
	return reports, total, nil
}

// ListForExport returns every report matching the filter, oldest first,
// without pagination. Used by the export worker.
func (r *ReportRepository) ListForExport(ctx context.Context, filter models.VisitReportFilter) ([]models.VisitReport, error) {
	where, args := reportFilterClauses(filter)
	query := fmt.Sprintf("SELECT %s FROM visit_reports%s ORDER BY reported_at ASC", reportColumns, where)
	var reports []models.VisitReport
	if err := r.db.SelectContext(ctx, &reports, query, args...); err != nil {
		return nil, fmt.Errorf("list visit reports for export: %w", err)
	}
	return reports, nil
}

func reportFilterClauses(filter models.VisitReportFilter) (string, []interface{}) {
	clauses := make([]string, 0, 4)
	args := make([]interface{}, 0, 4)
	argPos := 1

	if filter.SalesRep != "" {
		clauses = append(clauses, fmt.Sprintf("sales_rep = $%d", argPos))
		args = append(args, filter.SalesRep)
		argPos++
	}
	if filter.Customer != "" {
		clauses = append(clauses, fmt.Sprintf("customer = $%d", argPos))
		args = append(args, filter.Customer)
		argPos++
	}
	if filter.From != nil {
		clauses = append(clauses, fmt.Sprintf("reported_at >= $%d", argPos))
		args = append(args, *filter.From)
		argPos++
	}
	if filter.To != nil {
		clauses = append(clauses, fmt.Sprintf("reported_at < $%d", argPos))
		args = append(args, *filter.To)
		argPos++
	}

	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}
