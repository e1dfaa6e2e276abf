package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/dto"
	"github.com/siamfield/salesflow/internal/middleware"
	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/service"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
)

type reportServiceMock struct {
	reports    []models.VisitReport
	filter     models.VisitReportFilter
	job        *models.ExportJob
	exportReq  *service.ExportRequest
	exportedBy string
	download   *service.ReportDownload
	err        error
}

func (m *reportServiceMock) List(ctx context.Context, filter models.VisitReportFilter) ([]models.VisitReport, *models.Pagination, error) {
	m.filter = filter
	return m.reports, &models.Pagination{Page: filter.Page, PageSize: filter.PageSize}, m.err
}

func (m *reportServiceMock) CreateExport(ctx context.Context, req service.ExportRequest, actor string) (*models.ExportJob, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.exportReq, m.exportedBy = &req, actor
	return m.job, nil
}

func (m *reportServiceMock) GetExportStatus(ctx context.Context, id string) (*models.ExportJob, error) {
	return m.job, m.err
}

func (m *reportServiceMock) ResolveDownload(ctx context.Context, token string) (*service.ReportDownload, error) {
	return m.download, m.err
}

func TestReportHandlerListParsesFilters(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{reports: []models.VisitReport{{ID: "r-1", Customer: "ACME Hardware"}}}
	handler := NewReportHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports?salesRep=somchai&customer=ACME+Hardware&from=2025-11-01T00:00:00Z&to=2025-12-01T00:00:00Z", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "somchai", mock.filter.SalesRep)
	assert.Equal(t, "ACME Hardware", mock.filter.Customer)
	require.NotNil(t, mock.filter.From)
	require.NotNil(t, mock.filter.To)
	assert.Equal(t, 1, mock.filter.Page)
	assert.Equal(t, 50, mock.filter.PageSize)
}

func TestReportHandlerListRejectsBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports?from=yesterday", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerCreateExport(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &reportServiceMock{job: &models.ExportJob{ID: "job-1", Status: models.ExportStatusQueued}}
	handler := NewReportHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.ExportRequest{Customer: "ACME Hardware", Format: "csv"})
	req, _ := http.NewRequest(http.MethodPost, "/reports/export", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, "manager.a")

	handler.CreateExport(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.exportReq)
	assert.Equal(t, "csv", mock.exportReq.Format)
	assert.Equal(t, "manager.a", mock.exportedBy)
}

func TestReportHandlerCreateExportMissingFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/reports/export", bytes.NewReader([]byte(`{"customer":"ACME"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.CreateExport(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReportHandlerExportStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{err: appErrors.ErrNotFound})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports/export/nope", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "nope"}}

	handler.ExportStatus(c)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportHandlerDownloadForbiddenToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewReportHandler(&reportServiceMock{err: appErrors.ErrForbidden})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/reports/export/download/bad-token", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "token", Value: "bad-token"}}

	handler.Download(c)
	assert.Equal(t, http.StatusForbidden, w.Code)
}
