package errors

import (
	"context"
	stderrors "errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/render"
)

// APIError represents a structured API error response
type APIError struct {
	StatusCode int         `json:"status_code"`
	ErrorCode  string      `json:"error_code"`
	Message    string      `json:"message"`
	Details    interface{} `json:"details,omitempty"`
	Cause      error       `json:"-"`
}

// Error implements the error interface
func (e *APIError) Error() string {
	return e.Message
}

// Unwrap returns the domain error behind the API error
func (e *APIError) Unwrap() error {
	return e.Cause
}

// WithCause returns a copy of e that unwraps to cause
func (e *APIError) WithCause(cause error) *APIError {
	cp := *e
	cp.Cause = cause
	return &cp
}

// Render implements the render.Renderer interface for chi/render
func (e *APIError) Render(w http.ResponseWriter, r *http.Request) error {
	render.Status(r, e.StatusCode)
	return nil
}

// ValidationError describes one rejected request field
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationErrors represents multiple validation errors
type ValidationErrors struct {
	Errors []ValidationError `json:"errors"`
}

// New creates a new APIError with the given parameters
func New(statusCode int, errorCode, message string) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
	}
}

// NewWithDetails creates a new APIError with additional details
func NewWithDetails(statusCode int, errorCode, message string, details interface{}) *APIError {
	return &APIError{
		StatusCode: statusCode,
		ErrorCode:  errorCode,
		Message:    message,
		Details:    details,
	}
}

// Error codes
const (
	CodeInvalidRequest   = "INVALID_REQUEST"
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeInvalidRange     = "INVALID_RANGE"
	CodeUnknownTenure    = "UNKNOWN_TENURE"
	CodeNotFound         = "NOT_FOUND"
	CodeNoValidData      = "NO_VALID_DATA"
	CodeJoinFailed       = "JOIN_FAILED"
	CodeNothingToPlot    = "NOTHING_TO_PLOT"
	CodeRateLimited      = "RATE_LIMIT_EXCEEDED"
	CodeInternal         = "INTERNAL_SERVER_ERROR"
	CodeUnavailable      = "SERVICE_UNAVAILABLE"
)

// Predefined error types for common scenarios
var (
	ErrInvalidRequest     = New(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format")
	ErrNotFound           = New(http.StatusNotFound, CodeNotFound, "Resource not found")
	ErrRateLimitExceeded  = New(http.StatusTooManyRequests, CodeRateLimited, "Rate limit exceeded")
	ErrInternalServer     = New(http.StatusInternalServerError, CodeInternal, "Internal server error")
	ErrServiceUnavailable = New(http.StatusServiceUnavailable, CodeUnavailable, "Service temporarily unavailable")
)

// InvalidRequestWithError creates an invalid request error with details
func InvalidRequestWithError(err error) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRequest, "Invalid request format", err.Error())
}

// ErrValidation creates a validation error with field details
func ErrValidation(field, message string) *APIError {
	return NewValidationErrors([]ValidationError{{Field: field, Message: message}})
}

// NewValidationErrors creates validation errors from multiple fields
func NewValidationErrors(errs []ValidationError) *APIError {
	return NewWithDetails(
		http.StatusBadRequest,
		CodeValidationFailed,
		"Request validation failed",
		ValidationErrors{Errors: errs},
	)
}

// InvalidRange reports a start date after the end date.
func InvalidRange(start, end string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeInvalidRange,
		fmt.Sprintf("start date %s is after end date %s", start, end),
		map[string]string{"start_date": start, "end_date": end})
}

// UnknownTenure reports an unrecognized tenure label.
func UnknownTenure(label string, known []string) *APIError {
	return NewWithDetails(http.StatusBadRequest, CodeUnknownTenure,
		fmt.Sprintf("unknown tenure %q", label),
		map[string]interface{}{"tenure": label, "supported": known})
}

// NoValidData reports a run in which no requested ticker had usable data.
func NoValidData(message string, excluded []string) *APIError {
	return NewWithDetails(http.StatusUnprocessableEntity, CodeNoValidData, message,
		map[string]interface{}{"excluded": excluded})
}

// JoinFailed reports a run whose series could not be combined.
func JoinFailed(message string) *APIError {
	return New(http.StatusUnprocessableEntity, CodeJoinFailed, message)
}

// NothingToPlot reports a table without a single plottable point.
func NothingToPlot() *APIError {
	return New(http.StatusUnprocessableEntity, CodeNothingToPlot, "the selected range has no data to plot")
}

// UserMessage returns the text shown to dashboard users for err. Validation
// failures list every rejected field; errors that are not APIErrors get a
// generic message so internals do not leak.
func UserMessage(err error) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if !stderrors.As(err, &apiErr) {
		if stderrors.Is(err, context.DeadlineExceeded) {
			return "The request timed out."
		}
		return ErrInternalServer.Message
	}
	if details, ok := apiErr.Details.(ValidationErrors); ok && len(details.Errors) > 0 {
		msgs := make([]string, len(details.Errors))
		for i, e := range details.Errors {
			msgs[i] = e.Message
		}
		return strings.Join(msgs, "; ")
	}
	return apiErr.Message
}
