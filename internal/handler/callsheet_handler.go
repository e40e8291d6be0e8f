package handler

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/cineboard/cineboard-api/internal/service"
	appErrors "github.com/cineboard/cineboard-api/pkg/errors"
	"github.com/cineboard/cineboard-api/pkg/response"
)

// CallSheetHandler exposes call sheet export endpoints.
type CallSheetHandler struct {
	service *service.CallSheetService
}

// NewCallSheetHandler constructs the handler.
func NewCallSheetHandler(svc *service.CallSheetService) *CallSheetHandler {
	return &CallSheetHandler{service: svc}
}

// Generate godoc
// @Summary Generate a call sheet
// @Description Render a call sheet for one event and return a signed download token
// @Tags CallSheets
// @Produce json
// @Param id path string true "Event ID"
// @Param format query string false "text or pdf" default(text)
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /events/{id}/call-sheet [post]
func (h *CallSheetHandler) Generate(c *gin.Context) {
	format := c.DefaultQuery("format", service.CallSheetFormatText)
	result, err := h.service.Generate(c.Request.Context(), c.Param("id"), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

// ExportAll godoc
// @Summary Batch export call sheets
// @Description Queue call sheet rendering for every scheduled event
// @Tags CallSheets
// @Produce json
// @Param format query string false "text or pdf" default(text)
// @Success 202 {object} response.Envelope
// @Router /call-sheets/export [post]
func (h *CallSheetHandler) ExportAll(c *gin.Context) {
	format := c.DefaultQuery("format", service.CallSheetFormatText)
	result, err := h.service.ExportAll(c.Request.Context(), format)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, result)
}

// Download godoc
// @Summary Download a call sheet
// @Description Stream a previously generated call sheet using a signed token
// @Tags CallSheets
// @Produce octet-stream
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Failure 401 {object} response.Envelope
// @Router /call-sheets/download [get]
func (h *CallSheetHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}

	file, fileName, err := h.service.Download(token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer file.Close()

	contentType := "text/plain; charset=utf-8"
	if strings.HasSuffix(fileName, ".pdf") {
		contentType = "application/pdf"
	}

	info, err := file.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, http.StatusInternalServerError, "failed to stat call sheet"))
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", fileName))
	c.DataFromReader(http.StatusOK, info.Size(), contentType, file, nil)
}
