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

type missionService interface {
	Assign(ctx context.Context, req service.AssignMissionRequest) (*models.Mission, error)
	Archive(ctx context.Context, id string) error
	ListPending(ctx context.Context, page, size int) ([]models.Mission, *models.Pagination, error)
	ListForCustomer(ctx context.Context, customer string, today time.Time) ([]models.ClassifiedMission, []models.ClassifiedMission, error)
}

// MissionHandler exposes mission management endpoints.
type MissionHandler struct {
	missions missionService
}

// NewMissionHandler constructs the handler.
func NewMissionHandler(missions missionService) *MissionHandler {
	return &MissionHandler{missions: missions}
}

// Assign godoc
// @Summary Assign a mission to a customer
// @Tags Missions
// @Accept json
// @Produce json
// @Param payload body dto.AssignMissionRequest true "Mission"
// @Success 201 {object} response.Envelope
// @Router /missions [post]
func (h *MissionHandler) Assign(c *gin.Context) {
	var req dto.AssignMissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid mission payload"))
		return
	}
	mission, err := h.missions.Assign(c.Request.Context(), service.AssignMissionRequest{
		Customer:    req.Customer,
		Topic:       req.Topic,
		Description: req.Description,
		CreatedBy:   actorName(c),
	})
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, mission)
}

// List godoc
// @Summary List missions
// @Description With ?customer= returns the customer's pending missions bucketed by due date; otherwise the raw pending list.
// @Tags Missions
// @Produce json
// @Param customer query string false "Customer name"
// @Param page query int false "Page"
// @Param pageSize query int false "Page size"
// @Success 200 {object} response.Envelope
// @Router /missions [get]
func (h *MissionHandler) List(c *gin.Context) {
	customer := c.Query("customer")
	if customer != "" {
		dueToday, dueFuture, err := h.missions.ListForCustomer(c.Request.Context(), customer, time.Now())
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, dto.MissionListResponse{
			Customer:  customer,
			DueToday:  dueToday,
			DueFuture: dueFuture,
		}, nil)
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	size, _ := strconv.Atoi(c.DefaultQuery("pageSize", "50"))
	missions, pagination, err := h.missions.ListPending(c.Request.Context(), page, size)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, missions, pagination)
}

// Archive godoc
// @Summary Withdraw a pending mission
// @Tags Missions
// @Param id path string true "Mission ID"
// @Success 204
// @Router /missions/{id} [delete]
func (h *MissionHandler) Archive(c *gin.Context) {
	if err := h.missions.Archive(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
