// Package handler exposes the HTTP API of the document renderer.
package handler

import (
	"net/http"
	"regexp"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/facturio/backend/internal/application/rendering"
	"github.com/facturio/backend/internal/interfaces/http/dto"
)

var (
	yearPattern     = regexp.MustCompile(`^\d{4}$`)
	monthPattern    = regexp.MustCompile(`^(0[1-9]|1[0-2])$`)
	filenamePattern = regexp.MustCompile(`^[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}\.pdf$`)
)

// RenderHandler handles document rendering endpoints
type RenderHandler struct {
	BaseHandler
	service *rendering.RenderService
}

// NewRenderHandler creates a new RenderHandler
func NewRenderHandler(service *rendering.RenderService) *RenderHandler {
	return &RenderHandler{service: service}
}

// Render handles POST /api/v1/documents/render
// It streams the generated PDF inline. Clients sending
// "Accept: application/json" receive the render metadata instead.
func (h *RenderHandler) Render(c *gin.Context) {
	var req rendering.RenderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeInvalidJSON), dto.ErrCodeInvalidJSON, err.Error())
		return
	}

	result, err := h.service.Render(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	if strings.Contains(c.GetHeader("Accept"), "application/json") {
		h.Success(c, result)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "inline; filename=\""+result.Filename+"\"")
	c.Header("X-Document-ID", result.DocumentID)
	c.Header("X-Page-Count", strconv.Itoa(result.PageCount))
	c.Data(http.StatusOK, "application/pdf", result.PDF)
}

// Types handles GET /api/v1/documents/types
func (h *RenderHandler) Types(c *gin.Context) {
	h.Success(c, h.service.DocumentTypes())
}

// Download handles GET /api/v1/documents/:year/:month/:filename
// It streams a previously persisted PDF.
func (h *RenderHandler) Download(c *gin.Context) {
	year := c.Param("year")
	month := c.Param("month")
	filename := c.Param("filename")

	if !yearPattern.MatchString(year) {
		h.BadRequest(c, "Invalid year format")
		return
	}
	if !monthPattern.MatchString(month) {
		h.BadRequest(c, "Invalid month format")
		return
	}
	if !filenamePattern.MatchString(filename) {
		h.BadRequest(c, "Invalid filename format")
		return
	}

	path := year + "/" + month + "/" + filename
	data, err := h.service.GetDocument(c.Request.Context(), path)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	c.Header("Content-Type", "application/pdf")
	c.Header("Content-Disposition", "inline; filename=\""+filename+"\"")
	if _, err := c.Writer.Write(data); err != nil {
		_ = c.Error(err)
	}
}
