package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/siamfield/salesflow/internal/dto"
	"github.com/siamfield/salesflow/internal/middleware"
	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/service"
)

type missionServiceMock struct {
	assigned  *service.AssignMissionRequest
	archiveID string
	dueToday  []models.ClassifiedMission
	dueFuture []models.ClassifiedMission
	pending   []models.Mission
	err       error
}

func (m *missionServiceMock) Assign(ctx context.Context, req service.AssignMissionRequest) (*models.Mission, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.assigned = &req
	return &models.Mission{ID: "m-1", Customer: req.Customer, Topic: req.Topic}, nil
}

func (m *missionServiceMock) Archive(ctx context.Context, id string) error {
	m.archiveID = id
	return m.err
}

func (m *missionServiceMock) ListPending(ctx context.Context, page, size int) ([]models.Mission, *models.Pagination, error) {
	return m.pending, &models.Pagination{Page: page, PageSize: size}, m.err
}

func (m *missionServiceMock) ListForCustomer(ctx context.Context, customer string, today time.Time) ([]models.ClassifiedMission, []models.ClassifiedMission, error) {
	return m.dueToday, m.dueFuture, m.err
}

func TestMissionHandlerAssignUsesActor(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &missionServiceMock{}
	handler := NewMissionHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.AssignMissionRequest{Customer: "ACME Hardware", Topic: "Present promotion"})
	req, _ := http.NewRequest(http.MethodPost, "/missions", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req
	c.Set(middleware.ContextUserKey, "manager.a")

	handler.Assign(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.assigned)
	assert.Equal(t, "manager.a", mock.assigned.CreatedBy)
	assert.Equal(t, "ACME Hardware", mock.assigned.Customer)
}

func TestMissionHandlerAssignInvalidBody(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewMissionHandler(&missionServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/missions", bytes.NewReader([]byte(`{"topic":""}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Assign(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestMissionHandlerListByCustomerBuckets(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &missionServiceMock{
		dueToday:  []models.ClassifiedMission{{Mission: models.Mission{ID: "m-1", Topic: "Collect payment"}, Bucket: models.DueToday}},
		dueFuture: []models.ClassifiedMission{{Mission: models.Mission{ID: "m-2", Topic: "Present promotion (5/12/68)"}, Bucket: models.DueFuture}},
	}
	handler := NewMissionHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/missions?customer=ACME+Hardware", nil)
	c.Request = req

	handler.List(c)

	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data dto.MissionListResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "ACME Hardware", envelope.Data.Customer)
	require.Len(t, envelope.Data.DueToday, 1)
	require.Len(t, envelope.Data.DueFuture, 1)
	assert.Equal(t, "m-1", envelope.Data.DueToday[0].ID)
}

func TestMissionHandlerListPendingDefaults(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &missionServiceMock{pending: []models.Mission{{ID: "m-1"}}}
	handler := NewMissionHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/missions", nil)
	c.Request = req

	handler.List(c)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestMissionHandlerArchive(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &missionServiceMock{}
	handler := NewMissionHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodDelete, "/missions/m-9", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "id", Value: "m-9"}}

	handler.Archive(c)
	c.Writer.WriteHeaderNow()

	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "m-9", mock.archiveID)
}
