package render

import "fmt"

// Error codes for rendering failures
const (
	ErrCodeRenderFailed   = "RENDER_FAILED"
	ErrCodeCanvasFailed   = "CANVAS_FAILED"
	ErrCodeLayoutOverflow = "LAYOUT_OVERFLOW"
	ErrCodeStorageFailed  = "STORAGE_FAILED"
)

// RenderError represents an error during PDF rendering
type RenderError struct {
	Code    string
	Message string
	Cause   error
}

func (e *RenderError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

func (e *RenderError) Unwrap() error {
	return e.Cause
}

// NewRenderError creates a new RenderError
func NewRenderError(code, message string, cause error) *RenderError {
	return &RenderError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// LayoutOverflowError signals that layout exceeded the maximum page count.
// It indicates pathological input rather than a renderer defect, and is
// never retried automatically.
type LayoutOverflowError struct {
	Pages    int
	MaxPages int
}

func (e *LayoutOverflowError) Error() string {
	return fmt.Sprintf("layout exceeded maximum page count: %d pages rendered, limit is %d", e.Pages, e.MaxPages)
}
