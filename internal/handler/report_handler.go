package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/siamfield/salesflow/internal/dto"
	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/service"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/response"
)

type reportService interface {
	List(ctx context.Context, filter models.VisitReportFilter) ([]models.VisitReport, *models.Pagination, error)
	CreateExport(ctx context.Context, req service.ExportRequest, actor string) (*models.ExportJob, error)
	GetExportStatus(ctx context.Context, id string) (*models.ExportJob, error)
	ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error)
}

// ReportHandler serves filed visit reports and exports.
type ReportHandler struct {
	reports reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(reports reportService) *ReportHandler {
	return &ReportHandler{reports: reports}
}

// List godoc
// @Summary List filed visit reports
// @Tags Reports
// @Produce json
// @Param salesRep query string false "Sales rep"
// @Param customer query string false "Customer"
// @Param from query string false "RFC3339 lower bound"
// @Param to query string false "RFC3339 upper bound"
// @Success 200 {object} response.Envelope
// @Router /reports [get]
func (h *ReportHandler) List(c *gin.Context) {
	filter := models.VisitReportFilter{
		SalesRep: c.Query("salesRep"),
		Customer: c.Query("customer"),
	}
	if raw := c.Query("from"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "from must be RFC3339"))
			return
		}
		filter.From = &ts
	}
	if raw := c.Query("to"); raw != "" {
		ts, err := time.Parse(time.RFC3339, raw)
		if err != nil {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "to must be RFC3339"))
			return
		}
		filter.To = &ts
	}
	filter.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filter.PageSize, _ = strconv.Atoi(c.DefaultQuery("pageSize", "50"))

	reports, pagination, err := h.reports.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reports, pagination)
}

// CreateExport godoc
// @Summary Request a report export
// @Tags Reports
// @Accept json
// @Produce json
// @Param payload body dto.ExportRequest true "Export"
// @Success 201 {object} response.Envelope
// @Router /reports/export [post]
func (h *ReportHandler) CreateExport(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid export payload"))
		return
	}
	job, err := h.reports.CreateExport(c.Request.Context(), service.ExportRequest{
		SalesRep: req.SalesRep,
		Customer: req.Customer,
		From:     req.From,
		To:       req.To,
		Format:   req.Format,
	}, actorName(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, dto.FromExportJob(job))
}

// ExportStatus godoc
// @Summary Export job status
// @Tags Reports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/export/{id} [get]
func (h *ReportHandler) ExportStatus(c *gin.Context) {
	job, err := h.reports.GetExportStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, dto.FromExportJob(job), nil)
}

// Download godoc
// @Summary Download a finished export
// @Tags Reports
// @Produce octet-stream
// @Param token path string true "Download token"
// @Success 200
// @Router /reports/export/download/{token} [get]
func (h *ReportHandler) Download(c *gin.Context) {
	download, err := h.reports.ResolveDownload(c.Request.Context(), c.Param("token"))
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	contentType := "text/csv"
	if download.Format == models.ExportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", "attachment; filename="+download.Filename)
	c.Header("Content-Type", contentType)
	c.File(download.File.Name())
}
