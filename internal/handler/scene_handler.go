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

type sceneCatalog interface {
	List(ctx context.Context, filter models.SceneFilter) ([]models.Scene, error)
	Import(ctx context.Context, req dto.ImportScenesRequest) (int, error)
	UpdateStatus(ctx context.Context, id string, req dto.UpdateSceneStatusRequest) error
}

// SceneHandler exposes the scene catalog endpoints.
type SceneHandler struct {
	service sceneCatalog
}

// NewSceneHandler constructs the handler.
func NewSceneHandler(svc *service.SceneService) *SceneHandler {
	return &SceneHandler{service: svc}
}

// List godoc
// @Summary List scenes
// @Description List scenes filtered by location, status, or VFX requirement
// @Tags Scenes
// @Produce json
// @Param location query string false "Filter by location"
// @Param status query string false "Filter by status"
// @Param vfx query bool false "Only VFX scenes"
// @Success 200 {object} response.Envelope
// @Router /scenes [get]
func (h *SceneHandler) List(c *gin.Context) {
	filter := models.SceneFilter{
		Location: c.Query("location"),
		Status:   models.SceneStatus(c.Query("status")),
		VFXOnly:  c.Query("vfx") == "true",
	}
	scenes, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, scenes)
}

// Import godoc
// @Summary Import scenes
// @Description Bulk import or update scenes from a script breakdown
// @Tags Scenes
// @Accept json
// @Produce json
// @Param payload body dto.ImportScenesRequest true "Scenes payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /scenes/import [post]
func (h *SceneHandler) Import(c *gin.Context) {
	var req dto.ImportScenesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid scenes payload"))
		return
	}
	count, err := h.service.Import(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, gin.H{"imported": count})
}

// UpdateStatus godoc
// @Summary Update scene status
// @Tags Scenes
// @Accept json
// @Produce json
// @Param id path string true "Scene ID"
// @Param payload body dto.UpdateSceneStatusRequest true "Status payload"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /scenes/{id}/status [patch]
func (h *SceneHandler) UpdateStatus(c *gin.Context) {
	var req dto.UpdateSceneStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid status payload"))
		return
	}
	if err := h.service.UpdateStatus(c.Request.Context(), c.Param("id"), req); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, gin.H{"id": c.Param("id"), "status": req.Status})
}
