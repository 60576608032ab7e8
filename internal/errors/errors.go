package errors

import (
	"fmt"

	"golife/domain/core"
)

// AppError represents a structured application error
type AppError struct {
	Code    string
	Message string
	Cause   error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// New creates a new AppError
func New(code, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return &AppError{
		Code:    CodeFor(err),
		Message: message,
		Cause:   err,
	}
}

// Wrapf wraps an error with formatted additional context
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return Wrap(err, fmt.Sprintf(format, args...))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// GetCode returns the error code if it's an AppError, otherwise derives one
func GetCode(err error) string {
	if appErr, ok := err.(*AppError); ok {
		return appErr.Code
	}
	return CodeFor(err)
}

// Predefined error codes
const (
	CodeInsufficientData  = "INSUFFICIENT_DATA"
	CodeNonConvergent     = "NON_CONVERGENT"
	CodeDomainError       = "DOMAIN_ERROR"
	CodeIncompatibleInput = "INCOMPATIBLE_INPUT"
	CodeConfigInvalid     = "CONFIG_INVALID"
	CodeReadError         = "READ_ERROR"
	CodeInternalError     = "INTERNAL_ERROR"
)

// CodeFor maps a domain error to its boundary code
func CodeFor(err error) string {
	switch {
	case err == nil:
		return ""
	case core.IsInsufficientData(err):
		return CodeInsufficientData
	case core.IsNonConvergent(err):
		return CodeNonConvergent
	case core.IsDomainError(err):
		return CodeDomainError
	case core.IsIncompatibleInput(err):
		return CodeIncompatibleInput
	default:
		return CodeInternalError
	}
}

// Common error constructors
func ConfigInvalid(message string) *AppError {
	return New(CodeConfigInvalid, message)
}

func ReadError(path string, cause error) *AppError {
	return &AppError{
		Code:    CodeReadError,
		Message: fmt.Sprintf("failed to read %s", path),
		Cause:   cause,
	}
}

func InternalError(message string) *AppError {
	return New(CodeInternalError, message)
}
