package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/repository"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/jobs"
)

type stubReportLister struct {
	reports []models.VisitReport
	err     error
}

func (s *stubReportLister) List(_ context.Context, _ models.VisitReportFilter) ([]models.VisitReport, int, error) {
	return s.reports, len(s.reports), s.err
}

type stubExportJobStore struct {
	jobs    map[string]*models.ExportJob
	updates []repository.UpdateExportJobParams
}

func newStubExportJobStore() *stubExportJobStore {
	return &stubExportJobStore{jobs: make(map[string]*models.ExportJob)}
}

func (s *stubExportJobStore) Create(_ context.Context, job *models.ExportJob) error {
	if job.ID == "" {
		job.ID = "job-1"
	}
	s.jobs[job.ID] = job
	return nil
}

func (s *stubExportJobStore) GetByID(_ context.Context, id string) (*models.ExportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, errors.New("not found")
	}
	return job, nil
}

func (s *stubExportJobStore) Update(_ context.Context, id string, params repository.UpdateExportJobParams) error {
	s.updates = append(s.updates, params)
	if job, ok := s.jobs[id]; ok {
		if params.Status != nil {
			job.Status = *params.Status
		}
		if params.Progress != nil {
			job.Progress = *params.Progress
		}
		if params.ResultURL != nil {
			job.ResultURL = params.ResultURL
		}
	}
	return nil
}

func (s *stubExportJobStore) ListQueued(_ context.Context, _ int) ([]models.ExportJob, error) {
	var queued []models.ExportJob
	for _, job := range s.jobs {
		if job.Status == models.ExportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (s *stubExportJobStore) ListFinishedBefore(_ context.Context, _ time.Time, _ int) ([]models.ExportJob, error) {
	return nil, nil
}

type stubDispatcher struct {
	enqueued []jobs.Job
	err      error
}

func (s *stubDispatcher) Enqueue(job jobs.Job) error {
	if s.err != nil {
		return s.err
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

type stubGenerator struct {
	result *ExportResult
	err    error
}

func (s *stubGenerator) Generate(_ context.Context, _ *models.ExportJob) (*ExportResult, error) {
	return s.result, s.err
}

func TestCreateExportRejectsBadFormat(t *testing.T) {
	svc := NewReportService(&stubReportLister{}, newStubExportJobStore(), &stubDispatcher{}, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateExport(context.Background(), ExportRequest{Format: "xlsx"}, "manager")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestCreateExportRejectsInvertedRange(t *testing.T) {
	svc := NewReportService(&stubReportLister{}, newStubExportJobStore(), &stubDispatcher{}, nil, nil, ReportServiceConfig{})

	from := time.Date(2025, 12, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2025, 11, 1, 0, 0, 0, 0, time.UTC)
	_, err := svc.CreateExport(context.Background(), ExportRequest{Format: "csv", From: &from, To: &to}, "manager")
	require.Error(t, err)
}

func TestCreateExportEnqueues(t *testing.T) {
	store := newStubExportJobStore()
	dispatcher := &stubDispatcher{}
	svc := NewReportService(&stubReportLister{}, store, dispatcher, nil, nil, ReportServiceConfig{})

	job, err := svc.CreateExport(context.Background(), ExportRequest{Format: "csv", SalesRep: "Anan"}, "manager")
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
	require.Len(t, dispatcher.enqueued, 1)
	assert.Equal(t, job.ID, dispatcher.enqueued[0].ID)
}

func TestCreateExportMarksFailedWhenEnqueueFails(t *testing.T) {
	store := newStubExportJobStore()
	dispatcher := &stubDispatcher{err: errors.New("queue stopped")}
	svc := NewReportService(&stubReportLister{}, store, dispatcher, nil, nil, ReportServiceConfig{})

	_, err := svc.CreateExport(context.Background(), ExportRequest{Format: "pdf"}, "manager")
	require.Error(t, err)
	stored := store.jobs["job-1"]
	require.NotNil(t, stored)
	assert.Equal(t, models.ExportStatusFailed, stored.Status)
}

func TestExportWorkerHandleSuccess(t *testing.T) {
	store := newStubExportJobStore()
	job := &models.ExportJob{ID: "job-1", Params: models.ExportJobParams{Format: models.ExportFormatCSV}, Status: models.ExportStatusQueued}
	store.jobs[job.ID] = job

	worker := NewExportWorker(store, &stubGenerator{result: &ExportResult{URL: "/api/v1/reports/export/download/tok"}}, 3, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1"})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusFinished, job.Status)
	assert.Equal(t, 100, job.Progress)
	require.NotNil(t, job.ResultURL)
}

func TestExportWorkerRequeuesOnTransientFailure(t *testing.T) {
	store := newStubExportJobStore()
	job := &models.ExportJob{ID: "job-1", Params: models.ExportJobParams{Format: models.ExportFormatCSV}}
	store.jobs[job.ID] = job

	worker := NewExportWorker(store, &stubGenerator{err: errors.New("render failed")}, 3, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 0})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)
}

func TestExportWorkerFailsAfterMaxRetries(t *testing.T) {
	store := newStubExportJobStore()
	job := &models.ExportJob{ID: "job-1", Params: models.ExportJobParams{Format: models.ExportFormatCSV}}
	store.jobs[job.ID] = job

	worker := NewExportWorker(store, &stubGenerator{err: errors.New("render failed")}, 3, nil)
	err := worker.Handle(context.Background(), jobs.Job{ID: "job-1", Attempt: 3})
	require.Error(t, err)
	assert.Equal(t, models.ExportStatusFailed, job.Status)
}

func TestReportServiceListWrapsErrors(t *testing.T) {
	svc := NewReportService(&stubReportLister{err: errors.New("db down")}, newStubExportJobStore(), &stubDispatcher{}, nil, nil, ReportServiceConfig{})

	_, _, err := svc.List(context.Background(), models.VisitReportFilter{})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrInternal.Code, appErrors.FromError(err).Code)
}

func TestReportServiceListPaginates(t *testing.T) {
	lister := &stubReportLister{reports: []models.VisitReport{{ID: "r-1"}}}
	svc := NewReportService(lister, newStubExportJobStore(), &stubDispatcher{}, nil, nil, ReportServiceConfig{})

	reports, pagination, err := svc.List(context.Background(), models.VisitReportFilter{})
	require.NoError(t, err)
	assert.Len(t, reports, 1)
	assert.Equal(t, 1, pagination.Page)
	assert.Equal(t, 50, pagination.PageSize)
}
