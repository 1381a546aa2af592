// Package errors provides custom error types for the application.
// It defines domain-specific errors with error codes for better error handling and CLI exit behavior.
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode represents application error codes
type ErrorCode string

// Error codes for different error categories
const (
	// General errors (1xxx)
	ErrCodeInternal   ErrorCode = "E1000"
	ErrCodeValidation ErrorCode = "E1001"
	ErrCodeNotFound   ErrorCode = "E1002"

	// Report errors (2xxx)
	ErrCodeInputParse   ErrorCode = "E2001"
	ErrCodeInputInvalid ErrorCode = "E2002"
	ErrCodeOutputWrite  ErrorCode = "E2003"

	// Git errors (3xxx)
	ErrCodeGitCommand  ErrorCode = "E3001"
	ErrCodeGitRemote   ErrorCode = "E3002"
	ErrCodeGitNoBranch ErrorCode = "E3003"

	// GitHub API errors (4xxx)
	ErrCodeGitHubAuth    ErrorCode = "E4001"
	ErrCodeGitHubAPI     ErrorCode = "E4002"
	ErrCodeGitHubGraphQL ErrorCode = "E4003"
	ErrCodePRNotFound    ErrorCode = "E4004"

	// Configuration errors (6xxx)
	ErrCodeConfigNotFound ErrorCode = "E6001"
	ErrCodeConfigInvalid  ErrorCode = "E6002"
	ErrCodeConfigParse    ErrorCode = "E6003"
)

// Exit codes for CLI failures
const (
	// ExitCodeInputParse indicates the report input could not be parsed at all
	ExitCodeInputParse = 2

	// ExitCodeInputInvalid indicates the report input parsed but failed validation
	ExitCodeInputInvalid = 3
)

// AppError represents an application-level error with code and context
type AppError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
	Details any       `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.Err
}

// HTTPStatus returns the HTTP status code for the error.
// Only the codes the preview server surfaces map to non-500 statuses.
func (e *AppError) HTTPStatus() int {
	switch e.Code {
	case ErrCodeNotFound, ErrCodePRNotFound:
		return http.StatusNotFound
	case ErrCodeValidation, ErrCodeInputInvalid, ErrCodeInputParse:
		return http.StatusBadRequest
	case ErrCodeGitHubAuth:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with AppError
func Wrap(code ErrorCode, message string, err error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithDetails adds details to the error
func (e *AppError) WithDetails(details any) *AppError {
	e.Details = details
	return e
}

// Common error constructors for convenience

// ErrInternal creates an internal error
func ErrInternal(message string, err error) *AppError {
	return Wrap(ErrCodeInternal, message, err)
}

// ErrValidation creates a validation error
func ErrValidation(message string) *AppError {
	return New(ErrCodeValidation, message)
}

// ErrNotFound creates a not found error
func ErrNotFound(resource string) *AppError {
	return New(ErrCodeNotFound, fmt.Sprintf("%s not found", resource))
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError attempts to convert an error to AppError
func AsAppError(err error) (*AppError, bool) {
	appErr, ok := err.(*AppError)
	return appErr, ok
}
