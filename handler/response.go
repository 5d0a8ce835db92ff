package handler

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

// Pagination describes a page of a list response.
type Pagination struct {
	Limit  int `json:"limit"`
	Offset int `json:"offset"`
	Total  int `json:"total"`
}

// SuccessEnvelope is the wire shape of every successful JSON response.
type SuccessEnvelope struct {
	Success       bool              `json:"success"`
	StatusCode    int               `json:"statusCode"`
	Message       string            `json:"message"`
	CorrelationID string            `json:"correlationId"`
	Data          any               `json:"data,omitempty"`
	Links         map[string]string `json:"links,omitempty"`
	Pagination    *Pagination       `json:"pagination,omitempty"`
}

// SuccessOption customizes a success response.
type SuccessOption func(*SuccessEnvelope)

// WithLinks attaches hypermedia links.
func WithLinks(links map[string]string) SuccessOption {
	return func(e *SuccessEnvelope) { e.Links = links }
}

// WithPagination attaches pagination metadata.
func WithPagination(p Pagination) SuccessOption {
	return func(e *SuccessEnvelope) { e.Pagination = &p }
}

type successResponse struct {
	envelope SuccessEnvelope
}

// Success builds a success envelope with the given status.
func Success(status int, message string, data any, opts ...SuccessOption) Response {
	e := SuccessEnvelope{Success: true, StatusCode: status, Message: message, Data: data}
	for _, opt := range opts {
		opt(&e)
	}
	return successResponse{envelope: e}
}

// OK is Success with status 200.
func OK(message string, data any, opts ...SuccessOption) Response {
	return Success(http.StatusOK, message, data, opts...)
}

// Created is Success with status 201.
func Created(message string, data any, opts ...SuccessOption) Response {
	return Success(http.StatusCreated, message, data, opts...)
}

func (s successResponse) Render(w http.ResponseWriter, r *http.Request) error {
	e := s.envelope
	e.CorrelationID = requestid.FromContext(r.Context())

	body, err := json.Marshal(e)
	if err != nil {
		return apperror.Internal("failed to encode response", err)
	}

	slog.InfoContext(r.Context(), e.Message,
		slog.Int("status", e.StatusCode),
		slog.String("url", r.URL.RequestURI()))

	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(e.StatusCode)
	// Headers are sent; a failed write means the client is gone.
	_, _ = w.Write(append(body, '\n'))
	return nil
}

// failResponse hands a failure to the error handler from Render.
type failResponse struct {
	err *apperror.Error
}

// Fail returns a Response that reports v to the error handler. v may be any
// value; it is normalized into an *apperror.Error at the call site.
func Fail(v any) Response {
	return failResponse{err: apperror.Normalize(v)}
}

func (f failResponse) Render(http.ResponseWriter, *http.Request) error {
	return f.err
}
