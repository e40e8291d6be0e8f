package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/cineboard/cineboard-api/internal/dto"
	"github.com/cineboard/cineboard-api/internal/service"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
	"github.com/cineboard/cineboard-api/pkg/response"
)

// EditorHandler exposes the event edit session endpoints.
type EditorHandler struct {
	service *service.EditorService
}

// NewEditorHandler constructs the handler.
func NewEditorHandler(svc *service.EditorService) *EditorHandler {
	return &EditorHandler{service: svc}
}

// Begin godoc
// @Summary Begin editing an event
// @Description Open an edit session with a draft copy of the event
// @Tags Editor
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/edit [post]
func (h *EditorHandler) Begin(c *gin.Context) {
	session, err := h.service.Begin(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// UpdateDraft godoc
// @Summary Update the draft of an open edit session
// @Description Apply field changes to the draft; invalid fields are reported and left unchanged
// @Tags Editor
// @Accept json
// @Produce json
// @Param id path string true "Event ID"
// @Param payload body dto.UpdateDraftRequest true "Draft changes"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /events/{id}/draft [patch]
func (h *EditorHandler) UpdateDraft(c *gin.Context) {
	var req dto.UpdateDraftRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid draft payload"))
		return
	}
	session, err := h.service.UpdateDraft(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, session)
}

// Save godoc
// @Summary Save an edit session
// @Description Persist the draft and close the session
// @Tags Editor
// @Produce json
// @Param id path string true "Event ID"
// @Success 200 {object} response.Envelope
// @Failure 412 {object} response.Envelope
// @Router /events/{id}/save [post]
func (h *EditorHandler) Save(c *gin.Context) {
	event, err := h.service.Save(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, event)
}

// Cancel godoc
// @Summary Cancel an edit session
// @Description Discard the draft without persisting changes
// @Tags Editor
// @Param id path string true "Event ID"
// @Success 204
// @Failure 412 {object} response.Envelope
// @Router /events/{id}/cancel [post]
func (h *EditorHandler) Cancel(c *gin.Context) {
	if err := h.service.Cancel(c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
