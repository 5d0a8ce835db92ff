package apperror

import (
	"net/http"
)

// Detail describes a single field-level problem of a validation error.
type Detail struct {
	Field    string `json:"field"`
	Message  string `json:"message"`
	Location string `json:"location"`
}

// Error is the normalized application error.
type Error struct {
	// StatusCode is the HTTP status reported to the client.
	StatusCode int
	// Operational marks expected failures that are safe to report and do not
	// threaten the process.
	Operational bool
	// Message is the human-readable summary.
	Message string
	// Details carries field-level validation problems.
	Details []Detail
	// Stack is the call stack captured when the error was created.
	// It is exposed to clients only in development mode.
	Stack string
	// CorrelationID is stamped by the HTTP boundary, never by constructors.
	CorrelationID string
	// Cause is the underlying failure, if any.
	Cause error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	return e.Message
}

// Unwrap returns the underlying cause, enabling errors.Is / errors.As chains.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Cause
}

// Success is always false for an application error.
func (e *Error) Success() bool { return false }

// Status returns the HTTP status code, falling back to 500 when the stored
// code is not a valid error status.
func (e *Error) Status() int {
	if e == nil || e.StatusCode < http.StatusBadRequest || e.StatusCode > 599 {
		return http.StatusInternalServerError
	}
	return e.StatusCode
}

// WithCorrelationID returns a shallow copy of e stamped with the given id.
func (e *Error) WithCorrelationID(id string) *Error {
	cp := *e
	cp.CorrelationID = id
	return &cp
}

// WithDetails returns a shallow copy of e with the details appended.
func (e *Error) WithDetails(details ...Detail) *Error {
	cp := *e
	cp.Details = append(append([]Detail(nil), e.Details...), details...)
	return &cp
}
