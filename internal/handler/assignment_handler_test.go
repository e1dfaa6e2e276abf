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
	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/service"
)

type assignmentServiceMock struct {
	created   *service.CreateAssignmentRequest
	reps      []string
	customers []string
	err       error
}

func (m *assignmentServiceMock) Create(ctx context.Context, req service.CreateAssignmentRequest) (*models.Assignment, error) {
	if m.err != nil {
		return nil, m.err
	}
	m.created = &req
	return &models.Assignment{ID: "a-1", SalesRep: req.SalesRep, Customer: req.Customer}, nil
}

func (m *assignmentServiceMock) Reps(ctx context.Context) ([]string, error) {
	return m.reps, m.err
}

func (m *assignmentServiceMock) Customers(ctx context.Context, salesRep string) ([]string, error) {
	return m.customers, m.err
}

func TestAssignmentHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &assignmentServiceMock{}
	handler := NewAssignmentHandler(mock)
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	body, _ := json.Marshal(dto.CreateAssignmentRequest{SalesRep: "somchai", Customer: "ACME Hardware"})
	req, _ := http.NewRequest(http.MethodPost, "/assignments", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)

	require.Equal(t, http.StatusCreated, w.Code)
	require.NotNil(t, mock.created)
	assert.Equal(t, "somchai", mock.created.SalesRep)
}

func TestAssignmentHandlerCreateMissingFields(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewAssignmentHandler(&assignmentServiceMock{})
	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodPost, "/assignments", bytes.NewReader([]byte(`{"sales_rep":"somchai"}`)))
	req.Header.Set("Content-Type", "application/json")
	c.Request = req

	handler.Create(c)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAssignmentHandlerListings(t *testing.T) {
	gin.SetMode(gin.TestMode)
	mock := &assignmentServiceMock{
		reps:      []string{"somchai", "suda"},
		customers: []string{"ACME Hardware"},
	}
	handler := NewAssignmentHandler(mock)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)
	req, _ := http.NewRequest(http.MethodGet, "/assignments/reps", nil)
	c.Request = req
	handler.Reps(c)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	c, _ = gin.CreateTestContext(w)
	req, _ = http.NewRequest(http.MethodGet, "/assignments/reps/somchai/customers", nil)
	c.Request = req
	c.Params = gin.Params{{Key: "rep", Value: "somchai"}}
	handler.Customers(c)
	assert.Equal(t, http.StatusOK, w.Code)
}
