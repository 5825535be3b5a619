package errors

import (
	"errors"
	"net/http"
)

// Domain errors
var (
	ErrNotFound         = errors.New("resource not found")
	ErrAlreadyExists    = errors.New("resource already exists")
	ErrDuplicateKey     = errors.New("duplicate key")
	ErrInvalidInput     = errors.New("invalid input")
	ErrUnauthorized     = errors.New("unauthorized")
	ErrForbidden        = errors.New("forbidden")
	ErrAccountNotFound  = errors.New("account not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrEmailNotVerified = errors.New("email not verified")
	ErrAlreadyVerified  = errors.New("email already verified")
	ErrInvalidToken     = errors.New("invalid token")
	ErrTokenExpired     = errors.New("token expired")
	ErrAlreadyLoggedIn  = errors.New("already logged in")
	ErrTooManyRequests  = errors.New("too many requests")
)

// Error codes rendered in the "code" field of error bodies
const (
	CodeInvalidInput    = "INVALID_INPUT"
	CodeValidation      = "VALIDATION_ERROR"
	CodeUnauthorized    = "UNAUTHORIZED"
	CodeForbidden       = "FORBIDDEN"
	CodeNotFound        = "NOT_FOUND"
	CodeConflict        = "CONFLICT"
	CodeTooManyRequests = "TOO_MANY_REQUESTS"
	CodeInternalError   = "INTERNAL_ERROR"
)

// FieldError describes a single invalid request field
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// AppError represents application error with HTTP status
type AppError struct {
	Status  int          `json:"-"`
	Code    string       `json:"code"`
	Message string       `json:"message"`
	Err     error        `json:"-"`
	Details []FieldError `json:"errors,omitempty"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// Common error constructors
func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidInput, message, ErrInvalidInput)
}

// Validation builds a 400 carrying per-field messages
func Validation(details []FieldError) *AppError {
	e := NewAppError(http.StatusBadRequest, CodeValidation, "Validation failed", ErrInvalidInput)
	e.Details = details
	return e
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Conflict(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeConflict, message, ErrAlreadyExists)
}

func TooManyRequests(message string) *AppError {
	return NewAppError(http.StatusTooManyRequests, CodeTooManyRequests, message, ErrTooManyRequests)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternalError, "Internal Server Error", err)
}

// Wrap keeps the given sentinel reachable through errors.Is while
// replacing the HTTP-facing status and message.
func Wrap(status int, code, message string, err error) *AppError {
	return NewAppError(status, code, message, err)
}
