package models

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"

	"numbertalk/internal/authz"
	"numbertalk/internal/calc"
)

// ErrCrossRootViolation is returned when a reply names a parent under a different root.
var ErrCrossRootViolation = errors.New("parent belongs to a different thread")

const (
	CodeNotFound             = "NOT_FOUND"
	CodeValidation           = "VALIDATION_ERROR"
	CodeUnauthorized         = "UNAUTHORIZED"
	CodePermissionDenied     = "PERMISSION_DENIED"
	CodeCrossRootViolation   = "CROSS_ROOT_VIOLATION"
	CodeDivisionByZero       = "DIVISION_BY_ZERO"
	CodeUnsupportedOperation = "UNSUPPORTED_OPERATION"
	CodeConflict             = "CONFLICT"
	CodeInternal             = "INTERNAL_ERROR"
)

// ErrorResponse represents a standardized API error response
type ErrorResponse struct {
	Error   string `json:"error"`
	Code    string `json:"code,omitempty"`
	Details string `json:"details,omitempty"`
}

// AppError represents a custom application error
type AppError struct {
	Code    string
	Message string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// Status maps the error code to an HTTP status.
func (e *AppError) Status() int {
	switch e.Code {
	case CodeNotFound:
		return fiber.StatusNotFound
	case CodeValidation, CodeCrossRootViolation, CodeDivisionByZero, CodeUnsupportedOperation:
		return fiber.StatusBadRequest
	case CodeUnauthorized:
		return fiber.StatusUnauthorized
	case CodePermissionDenied:
		return fiber.StatusForbidden
	case CodeConflict:
		return fiber.StatusConflict
	default:
		return fiber.StatusInternalServerError
	}
}

func NewNotFoundError(resource string, id interface{}) *AppError {
	return &AppError{
		Code:    CodeNotFound,
		Message: fmt.Sprintf("%s with ID %v not found", resource, id),
	}
}

func NewValidationError(message string) *AppError {
	return &AppError{
		Code:    CodeValidation,
		Message: message,
	}
}

func NewUnauthorizedError(message string) *AppError {
	return &AppError{
		Code:    CodeUnauthorized,
		Message: message,
	}
}

func NewPermissionDeniedError(message string) *AppError {
	return &AppError{
		Code:    CodePermissionDenied,
		Message: message,
		Err:     authz.ErrPermissionDenied,
	}
}

func NewCrossRootError() *AppError {
	return &AppError{
		Code:    CodeCrossRootViolation,
		Message: "Parent comment does not belong to this post",
		Err:     ErrCrossRootViolation,
	}
}

// NewCalculationError wraps a calc failure, keeping the sentinel reachable through errors.Is.
func NewCalculationError(err error) *AppError {
	switch {
	case errors.Is(err, calc.ErrDivisionByZero):
		return &AppError{Code: CodeDivisionByZero, Message: "Cannot divide by zero", Err: err}
	case errors.Is(err, calc.ErrUnsupportedOperation):
		return &AppError{Code: CodeUnsupportedOperation, Message: "Unsupported operation", Err: err}
	default:
		return NewInternalError(err)
	}
}

func NewConflictError(message string) *AppError {
	return &AppError{
		Code:    CodeConflict,
		Message: message,
	}
}

func NewInternalError(err error) *AppError {
	return &AppError{
		Code:    CodeInternal,
		Message: "Internal server error",
		Err:     err,
	}
}

// RespondWithError creates a standardized error response
func RespondWithError(c *fiber.Ctx, status int, err error) error {
	var response ErrorResponse

	var appErr *AppError
	if errors.As(err, &appErr) {
		response = ErrorResponse{
			Error: appErr.Message,
			Code:  appErr.Code,
		}
		// internal causes stay in the logs
		if appErr.Err != nil && appErr.Code != CodeInternal {
			response.Details = appErr.Err.Error()
		}
	} else {
		response = ErrorResponse{
			Error: err.Error(),
		}
	}

	return c.Status(status).JSON(response)
}

// RespondWithAppError picks the status from the error code.
func RespondWithAppError(c *fiber.Ctx, err error) error {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return RespondWithError(c, appErr.Status(), appErr)
	}
	return RespondWithError(c, fiber.StatusInternalServerError, NewInternalError(err))
}
