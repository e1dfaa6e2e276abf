package dto

import (
	"time"

	"github.com/siamfield/salesflow/internal/models"
)

// ExportRequest asks for a report export job.
type ExportRequest struct {
	SalesRep string     `json:"sales_rep"`
	Customer string     `json:"customer"`
	From     *time.Time `json:"from"`
	To       *time.Time `json:"to"`
	Format   string     `json:"format" binding:"required"`
}

// ExportJobResponse is the client view of an export job.
type ExportJobResponse struct {
	ID        string              `json:"id"`
	Status    models.ExportStatus `json:"status"`
	Progress  int                 `json:"progress"`
	ResultURL *string             `json:"result_url,omitempty"`
	Error     *string             `json:"error,omitempty"`
}

// FromExportJob maps the persisted job onto the response shape.
func FromExportJob(job *models.ExportJob) *ExportJobResponse {
	resp := &ExportJobResponse{
		ID:       job.ID,
		Status:   job.Status,
		Progress: job.Progress,
	}
	if job.ResultURL != nil {
		resp.ResultURL = job.ResultURL
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp
}
