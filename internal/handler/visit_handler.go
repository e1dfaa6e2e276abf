package handler

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/siamfield/salesflow/internal/dto"
	"github.com/siamfield/salesflow/internal/models"
	appErrors "github.com/siamfield/salesflow/pkg/errors"
	"github.com/siamfield/salesflow/pkg/response"
)

type visitService interface {
	Open(ctx context.Context, salesRep, customer string) (*models.VisitSession, error)
	Get(ctx context.Context, id string) (*models.VisitSession, error)
	Reset(ctx context.Context, id string) error
	SubmitReport(ctx context.Context, id, text string) (*models.VisitSession, error)
	SubmitVoice(ctx context.Context, id string, audio []byte, languageHint string) (*models.VisitSession, error)
	Close(ctx context.Context, id string) (*models.VisitReport, error)
}

type visitAuthorizer interface {
	Authorize(ctx context.Context, salesRep, customer string) error
}

// VisitHandler drives the visit lifecycle over HTTP.
type VisitHandler struct {
	visits      visitService
	assignments visitAuthorizer
}

// NewVisitHandler constructs the handler.
func NewVisitHandler(visits visitService, assignments visitAuthorizer) *VisitHandler {
	return &VisitHandler{visits: visits, assignments: assignments}
}

// Open godoc
// @Summary Open a visit session
// @Tags Visits
// @Accept json
// @Produce json
// @Param payload body dto.OpenVisitRequest true "Visit"
// @Success 201 {object} response.Envelope
// @Router /visits [post]
func (h *VisitHandler) Open(c *gin.Context) {
	var req dto.OpenVisitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid visit payload"))
		return
	}
	salesRep := actorName(c)
	if h.assignments != nil {
		if err := h.assignments.Authorize(c.Request.Context(), salesRep, req.Customer); err != nil {
			response.Error(c, err)
			return
		}
	}
	session, err := h.visits.Open(c.Request.Context(), salesRep, req.Customer)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, session)
}

// Get godoc
// @Summary Visit session status
// @Tags Visits
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /visits/{id} [get]
func (h *VisitHandler) Get(c *gin.Context) {
	session, err := h.visits.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// SubmitReport godoc
// @Summary Submit a typed report draft
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.VisitReportRequest true "Report"
// @Success 200 {object} response.Envelope
// @Router /visits/{id}/report [post]
func (h *VisitHandler) SubmitReport(c *gin.Context) {
	var req dto.VisitReportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid report payload"))
		return
	}
	session, err := h.visits.SubmitReport(c.Request.Context(), c.Param("id"), req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// SubmitVoice godoc
// @Summary Submit a voice report
// @Tags Visits
// @Accept json
// @Produce json
// @Param id path string true "Session ID"
// @Param payload body dto.VisitVoiceRequest true "Audio"
// @Success 200 {object} response.Envelope
// @Router /visits/{id}/voice [post]
func (h *VisitHandler) SubmitVoice(c *gin.Context) {
	var req dto.VisitVoiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid voice payload"))
		return
	}
	audio, err := base64.StdEncoding.DecodeString(req.AudioBase64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "audio must be base64 encoded"))
		return
	}
	session, err := h.visits.SubmitVoice(c.Request.Context(), c.Param("id"), audio, req.Language)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session, nil)
}

// Close godoc
// @Summary Close a visit and file the outcome
// @Tags Visits
// @Produce json
// @Param id path string true "Session ID"
// @Success 200 {object} response.Envelope
// @Router /visits/{id}/close [post]
func (h *VisitHandler) Close(c *gin.Context) {
	report, err := h.visits.Close(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, report, nil)
}

// Reset godoc
// @Summary Discard a visit session
// @Tags Visits
// @Param id path string true "Session ID"
// @Success 204
// @Router /visits/{id} [delete]
func (h *VisitHandler) Reset(c *gin.Context) {
	if err := h.visits.Reset(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
