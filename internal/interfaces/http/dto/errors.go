package dto

import "net/http"

// Error code constants organized by category
// Format: ERR_<CATEGORY>_<DESCRIPTION>

// General error codes
const (
	// ErrCodeUnknown is used when the error type is unknown
	ErrCodeUnknown = "ERR_UNKNOWN"
	// ErrCodeInternal is used for internal server errors
	ErrCodeInternal = "ERR_INTERNAL"
)

// Input error codes
const (
	// ErrCodeBadRequest is used for malformed requests
	ErrCodeBadRequest = "ERR_BAD_REQUEST"
	// ErrCodeInvalidInput is used for invalid input data
	ErrCodeInvalidInput = "ERR_INVALID_INPUT"
	// ErrCodeInvalidJSON is used when JSON parsing fails
	ErrCodeInvalidJSON = "ERR_INVALID_JSON"
	// ErrCodeNotANumber is used when a monetary amount cannot be parsed
	ErrCodeNotANumber = "ERR_NOT_A_NUMBER"
)

// Resource error codes
const (
	// ErrCodeNotFound is used when a resource is not found
	ErrCodeNotFound = "ERR_NOT_FOUND"
)

// Rendering error codes
const (
	// ErrCodeValidationFailed is used when the payload fails domain validation
	ErrCodeValidationFailed = "ERR_VALIDATION_FAILED"
	// ErrCodeLayoutOverflow is used when a document exceeds the page limit
	ErrCodeLayoutOverflow = "ERR_LAYOUT_OVERFLOW"
	// ErrCodeRenderFailed is used when PDF generation fails
	ErrCodeRenderFailed = "ERR_RENDER_FAILED"
	// ErrCodeStorageFailed is used when persisting the PDF fails
	ErrCodeStorageFailed = "ERR_STORAGE_FAILED"
)

// ErrorCodeHTTPStatus maps error codes to HTTP status codes
var ErrorCodeHTTPStatus = map[string]int{
	ErrCodeUnknown:  http.StatusInternalServerError,
	ErrCodeInternal: http.StatusInternalServerError,

	// Input errors -> 400 Bad Request
	ErrCodeBadRequest:   http.StatusBadRequest,
	ErrCodeInvalidInput: http.StatusBadRequest,
	ErrCodeInvalidJSON:  http.StatusBadRequest,
	ErrCodeNotANumber:   http.StatusBadRequest,

	ErrCodeNotFound: http.StatusNotFound,

	// Rendering errors: payload problems -> 422, pipeline failures -> 500
	ErrCodeValidationFailed: http.StatusUnprocessableEntity,
	ErrCodeLayoutOverflow:   http.StatusUnprocessableEntity,
	ErrCodeRenderFailed:     http.StatusInternalServerError,
	ErrCodeStorageFailed:    http.StatusInternalServerError,
}

// GetHTTPStatus returns the HTTP status code for an error code
// Returns 500 Internal Server Error if the error code is not found
func GetHTTPStatus(code string) int {
	if status, ok := ErrorCodeHTTPStatus[code]; ok {
		return status
	}
	return http.StatusInternalServerError
}

// LegacyErrorCodeMapping maps domain error codes to the standardized codes
var LegacyErrorCodeMapping = map[string]string{
	"NOT_FOUND":         ErrCodeNotFound,
	"INVALID_INPUT":     ErrCodeInvalidInput,
	"NOT_A_NUMBER":      ErrCodeNotANumber,
	"VALIDATION_FAILED": ErrCodeValidationFailed,
	"LAYOUT_OVERFLOW":   ErrCodeLayoutOverflow,
	"RENDER_FAILED":     ErrCodeRenderFailed,
	"CANVAS_FAILED":     ErrCodeRenderFailed,
	"STORAGE_FAILED":    ErrCodeStorageFailed,
	"BAD_REQUEST":       ErrCodeBadRequest,
	"INTERNAL_ERROR":    ErrCodeInternal,
}

// NormalizeErrorCode converts a domain error code to the standardized format
// If the code is already in the new format or unknown, returns it as-is
func NormalizeErrorCode(code string) string {
	if newCode, ok := LegacyErrorCodeMapping[code]; ok {
		return newCode
	}
	return code
}
