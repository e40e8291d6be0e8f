package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/models"
	"github.com/cineboard/cineboard-api/internal/service"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
	"github.com/cineboard/cineboard-api/pkg/response"
)

type scheduler interface {
	ClusterBreakdown(ctx context.Context) (*dto.ClusterBreakdownResponse, error)
	Generate(ctx context.Context, req dto.GenerateScheduleRequest) (*dto.ScheduleResponse, error)
	Optimize(ctx context.Context, req dto.OptimizeScheduleRequest) (*dto.ScheduleResponse, string, error)
	Events(ctx context.Context) ([]models.ScheduleEvent, error)
}

// ScheduleHandler exposes schedule generation endpoints.
type ScheduleHandler struct {
	service scheduler
}

// NewScheduleHandler constructs the handler.
func NewScheduleHandler(svc *service.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{service: svc}
}

// Clusters godoc
// @Summary Location cluster breakdown
// @Description Group scenes by location with per-cluster day estimates
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/clusters [get]
func (h *ScheduleHandler) Clusters(c *gin.Context) {
	result, err := h.service.ClusterBreakdown(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Generate godoc
// @Summary Generate shooting schedule
// @Description Build day-by-day shooting schedule from location clusters using the local heuristic
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.GenerateScheduleRequest true "Generate payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /schedule/generate [post]
func (h *ScheduleHandler) Generate(c *gin.Context) {
	var req dto.GenerateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid generate payload"))
		return
	}
	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Optimize godoc
// @Summary Optimize schedule remotely
// @Description Request an AI-optimized schedule from the remote optimizer service
// @Tags Schedule
// @Accept json
// @Produce json
// @Param payload body dto.OptimizeScheduleRequest true "Constraints payload"
// @Success 200 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Router /schedule/optimize [post]
func (h *ScheduleHandler) Optimize(c *gin.Context) {
	var req dto.OptimizeScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid constraints payload"))
		return
	}
	result, warning, err := h.service.Optimize(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	if warning != "" {
		response.JSONWithWarning(c, http.StatusOK, result, warning)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// Events godoc
// @Summary List schedule events
// @Tags Schedule
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /schedule/events [get]
func (h *ScheduleHandler) Events(c *gin.Context) {
	events, err := h.service.Events(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, events)
}
