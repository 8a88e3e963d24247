package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/facturio/backend/internal/domain/document"
	"github.com/facturio/backend/internal/domain/shared"
	"github.com/facturio/backend/internal/infrastructure/render"
	"github.com/facturio/backend/internal/infrastructure/storage"
	"github.com/facturio/backend/internal/interfaces/http/dto"
)

// BaseHandler provides common handler utilities
type BaseHandler struct{}

// getRequestID extracts the request ID from the context
func getRequestID(c *gin.Context) string {
	if id := c.GetString("request_id"); id != "" {
		return id
	}
	return c.GetHeader("X-Request-ID")
}

// Success sends a success response
func (h *BaseHandler) Success(c *gin.Context, data any) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// Error sends an error response with the appropriate status code
func (h *BaseHandler) Error(c *gin.Context, statusCode int, code, message string) {
	c.JSON(statusCode, dto.NewErrorResponseWithRequestID(code, message, getRequestID(c)))
}

// BadRequest sends a 400 bad request response
func (h *BaseHandler) BadRequest(c *gin.Context, message string) {
	h.Error(c, http.StatusBadRequest, dto.ErrCodeBadRequest, message)
}

// NotFound sends a 404 not found response
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	h.Error(c, http.StatusNotFound, dto.ErrCodeNotFound, message)
}

// InternalError sends a 500 internal server error response
func (h *BaseHandler) InternalError(c *gin.Context, message string) {
	h.Error(c, http.StatusInternalServerError, dto.ErrCodeInternal, message)
}

// HandleError converts domain and rendering errors to HTTP responses
func (h *BaseHandler) HandleError(c *gin.Context, err error) {
	if err == nil {
		return
	}

	var validationErr *document.ValidationError
	if errors.As(err, &validationErr) {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeValidationFailed), dto.ErrCodeValidationFailed, validationErr.Error())
		return
	}

	var overflowErr *render.LayoutOverflowError
	if errors.As(err, &overflowErr) {
		h.Error(c, dto.GetHTTPStatus(dto.ErrCodeLayoutOverflow), dto.ErrCodeLayoutOverflow, overflowErr.Error())
		return
	}

	var renderErr *render.RenderError
	if errors.As(err, &renderErr) {
		code := dto.NormalizeErrorCode(renderErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, renderErr.Message)
		return
	}

	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		code := dto.NormalizeErrorCode(domainErr.Code)
		h.Error(c, dto.GetHTTPStatus(code), code, domainErr.Message)
		return
	}

	if errors.Is(err, storage.ErrDocumentNotFound) {
		h.NotFound(c, "Document not found")
		return
	}

	h.InternalError(c, "An unexpected error occurred")
}
