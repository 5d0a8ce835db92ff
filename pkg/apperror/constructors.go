package apperror

import (
	"errors"
	"net/http"

	"github.com/morshed33/xprs-go/pkg/validator"
)

// New creates an operational error. This is the only way application code
// should build an error destined for a client-visible 4xx response.
func New(statusCode int, message string, details ...Detail) *Error {
	return newError(statusCode, message, nil, details)
}

// Wrap creates an operational error that keeps the underlying cause.
func Wrap(statusCode int, message string, cause error) *Error {
	return newError(statusCode, message, cause, nil)
}

// Internal creates an explicit non-operational 500.
func Internal(message string, cause error) *Error {
	e := newError(http.StatusInternalServerError, message, cause, nil)
	e.Operational = false
	return e
}

func BadRequest(message string) *Error {
	return newError(http.StatusBadRequest, message, nil, nil)
}

func Unauthorized(message string) *Error {
	return newError(http.StatusUnauthorized, message, nil, nil)
}

func Forbidden(message string) *Error {
	return newError(http.StatusForbidden, message, nil, nil)
}

// NotFound creates a 404 operational error.
func NotFound(message string) *Error {
	return newError(http.StatusNotFound, message, nil, nil)
}

func MethodNotAllowed(message string) *Error {
	return newError(http.StatusMethodNotAllowed, message, nil, nil)
}

func Conflict(message string) *Error {
	return newError(http.StatusConflict, message, nil, nil)
}

func UnsupportedMediaType(message string) *Error {
	return newError(http.StatusUnsupportedMediaType, message, nil, nil)
}

func UnprocessableEntity(message string) *Error {
	return newError(http.StatusUnprocessableEntity, message, nil, nil)
}

func TooManyRequests(message string) *Error {
	return newError(http.StatusTooManyRequests, message, nil, nil)
}

// Validation creates a 422 operational error carrying field details.
func Validation(message string, details ...Detail) *Error {
	return newError(http.StatusUnprocessableEntity, message, nil, details)
}

// FromValidation converts validator errors found in err into a validation
// error. location names where the fields came from ("body", "query", ...).
// Returns nil if err carries no validation errors.
func FromValidation(err error, location string) *Error {
	verrs := validator.ExtractValidationErrors(err)
	if len(verrs) == 0 {
		return nil
	}

	details := make([]Detail, 0, len(verrs))
	for _, ve := range verrs {
		details = append(details, Detail{
			Field:    ve.Field,
			Message:  ve.Message,
			Location: location,
		})
	}

	return newError(http.StatusUnprocessableEntity, "Validation failed", err, details)
}

// IsOperational reports whether err is, or wraps, an operational *Error.
func IsOperational(err error) bool {
	var appErr *Error
	if errors.As(err, &appErr) {
		return appErr.Operational
	}
	return false
}

func newError(statusCode int, message string, cause error, details []Detail) *Error {
	if statusCode == 0 {
		statusCode = http.StatusInternalServerError
	}
	return &Error{
		StatusCode:  statusCode,
		Operational: true,
		Message:     message,
		Details:     details,
		Stack:       callers(2),
		Cause:       cause,
	}
}
