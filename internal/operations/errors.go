package operations

import (
	"context"
	"errors"
	"fmt"

	"github.com/PredictRAM-Org/PredictRAM-Index-Charts-Analysis/internal/dataprocessing"
)

// ErrorType represents the type of run error
type ErrorType string

const (
	ErrorTypeNoValidData  ErrorType = "no_valid_data"
	ErrorTypeJoinFailure  ErrorType = "join_failure"
	ErrorTypeCancellation ErrorType = "cancellation"
	ErrorTypeTimeout      ErrorType = "timeout"
	ErrorTypeExecution    ErrorType = "execution"
)

// OperationError describes why a run ended early
type OperationError struct {
	Type    ErrorType
	Step    string
	Message string
	Cause   error
}

// Error implements the error interface
func (e *OperationError) Error() string {
	if e == nil {
		return "unknown operation error"
	}
	if e.Step != "" {
		return fmt.Sprintf("[%s] %s: %s", e.Type, e.Step, e.Message)
	}
	return fmt.Sprintf("[%s] %s", e.Type, e.Message)
}

// Unwrap returns the underlying error
func (e *OperationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// NewNoValidDataError creates the error of a run where every ticker was excluded
func NewNoValidDataError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeNoValidData,
		Step:    step,
		Message: MessageNoValidData,
		Cause:   cause,
	}
}

// NewJoinFailureError creates the error of a run whose series could not be joined
func NewJoinFailureError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeJoinFailure,
		Step:    step,
		Message: MessageJoinFailure,
		Cause:   cause,
	}
}

// NewCancellationError creates a new cancellation error
func NewCancellationError(step string, cause error) *OperationError {
	errType := ErrorTypeCancellation
	if errors.Is(cause, context.DeadlineExceeded) {
		errType = ErrorTypeTimeout
	}
	return &OperationError{
		Type:    errType,
		Step:    step,
		Message: MessageCancelled,
		Cause:   cause,
	}
}

// NewExecutionError creates a new execution error
func NewExecutionError(step string, cause error) *OperationError {
	return &OperationError{
		Type:    ErrorTypeExecution,
		Step:    step,
		Message: "step execution failed",
		Cause:   cause,
	}
}

// WrapError classifies err as returned by a step
func WrapError(err error, step string) *OperationError {
	if err == nil {
		return nil
	}

	var opErr *OperationError
	if errors.As(err, &opErr) {
		if opErr.Step == "" {
			opErr.Step = step
		}
		return opErr
	}

	var joinErr *dataprocessing.JoinError
	switch {
	case errors.Is(err, dataprocessing.ErrNoValidData):
		return NewNoValidDataError(step, err)
	case errors.As(err, &joinErr):
		return NewJoinFailureError(step, err)
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return NewCancellationError(step, err)
	default:
		return NewExecutionError(step, err)
	}
}

// GetErrorType returns the type of the error
func GetErrorType(err error) ErrorType {
	if err == nil {
		return ""
	}
	var opErr *OperationError
	if errors.As(err, &opErr) {
		return opErr.Type
	}
	return ErrorTypeExecution
}

// Status maps an error type to the run status it ends in
func (t ErrorType) Status() RunStatus {
	switch t {
	case ErrorTypeNoValidData:
		return RunStatusNoValidData
	case ErrorTypeJoinFailure:
		return RunStatusJoinFailure
	case ErrorTypeCancellation, ErrorTypeTimeout:
		return RunStatusCancelled
	default:
		return RunStatusFailed
	}
}
