package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siamfield/salesflow/internal/dto"
	"github.com/siamfield/salesflow/internal/models"
	"github.com/siamfield/salesflow/internal/service"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/response"
)

type assignmentService interface {
	Create(ctx context.Context, req service.CreateAssignmentRequest) (*models.Assignment, error)
	Reps(ctx context.Context) ([]string, error)
	Customers(ctx context.Context, salesRep string) ([]string, error)
}

// AssignmentHandler exposes the rep-to-customer map.
type AssignmentHandler struct {
	assignments assignmentService
}

// NewAssignmentHandler constructs the handler.
func NewAssignmentHandler(assignments assignmentService) *AssignmentHandler {
	return &AssignmentHandler{assignments: assignments}
}

// Create godoc
// @Summary Assign a customer to a sales rep
// @Tags Assignments
// @Accept json
// @Produce json
// @Param payload body dto.CreateAssignmentRequest true "Assignment"
// @Success 201 {object} response.Envelope
// @Router /assignments [post]
func (h *AssignmentHandler) Create(c *gin.Context) {
	var req dto.CreateAssignmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid assignment payload"))
		return
	}
	assignment, err := h.assignments.Create(c.Request.Context(), service.CreateAssignmentRequest{
		SalesRep: req.SalesRep,
		Customer: req.Customer,
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, assignment)
}

// Reps godoc
// @Summary List sales reps
// @Tags Assignments
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /assignments/reps [get]
func (h *AssignmentHandler) Reps(c *gin.Context) {
	reps, err := h.assignments.Reps(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, reps, nil)
}

// Customers godoc
// @Summary List customers for a sales rep
// @Tags Assignments
// @Produce json
// @Param rep path string true "Sales rep"
// @Success 200 {object} response.Envelope
// @Router /assignments/reps/{rep}/customers [get]
func (h *AssignmentHandler) Customers(c *gin.Context) {
	customers, err := h.assignments.Customers(c.Request.Context(), c.Param("rep"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, customers, nil)
}
