package handler

import (
	"encoding/json"
	"log/slog"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/httplog"
	"github.com/morshed33/xprs-go/pkg/logger"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

// GenericErrorMessage replaces messages of non-operational errors outside
// development mode.
const GenericErrorMessage = "An unexpected error occurred"

// ErrorHandlerConfig configures NewErrorHandler.
type ErrorHandlerConfig struct {
	// Development exposes stack traces and raw messages of non-operational
	// errors to clients.
	Development bool
	// OnError is called with every normalized error before it is written.
	OnError func(*apperror.Error)
}

// ErrorBody is the "errors" member of the error envelope.
type ErrorBody struct {
	Message string            `json:"message"`
	Details []apperror.Detail `json:"details,omitempty"`
}

// ErrorEnvelope is the wire shape of every error response.
type ErrorEnvelope struct {
	Success       bool      `json:"success"`
	StatusCode    int       `json:"statusCode"`
	Errors        ErrorBody `json:"errors"`
	Operational   bool      `json:"operational"`
	CorrelationID string    `json:"correlationId"`
	Stack         string    `json:"stack,omitempty"`
}

// NewErrorHandler returns the terminal error handler. For each failure it
// normalizes the value, stamps the request's correlation id, logs the error
// and then writes the envelope. If the response was already started the
// envelope is dropped and only a warning is logged.
func NewErrorHandler(cfg ErrorHandlerConfig, log *httplog.Logger) ErrorHandler[Context] {
	if log == nil {
		log = httplog.New(nil)
	}
	return func(ctx Context, err error) {
		r := ctx.Request()
		w := ctx.ResponseWriter()

		appErr := apperror.Normalize(err).WithCorrelationID(requestid.FromContext(r.Context()))

		log.LogError(r.Context(), httplog.NewErrorRecord(r, appErr))
		if cfg.OnError != nil {
			cfg.OnError(appErr)
		}

		if ww, ok := w.(interface{ Written() bool }); ok && ww.Written() {
			log.Logger().WarnContext(r.Context(), "response already written, dropping error response",
				slog.Int("status", appErr.Status()),
				logger.CorrelationID(appErr.CorrelationID))
			return
		}

		envelope := ErrorEnvelope{
			Success:       false,
			StatusCode:    appErr.Status(),
			Errors:        ErrorBody{Message: appErr.Message, Details: appErr.Details},
			Operational:   appErr.Operational,
			CorrelationID: appErr.CorrelationID,
		}
		if cfg.Development {
			envelope.Stack = appErr.Stack
		} else if !appErr.Operational {
			envelope.Errors.Message = GenericErrorMessage
		}

		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.WriteHeader(envelope.StatusCode)
		if err := json.NewEncoder(w).Encode(envelope); err != nil {
			log.Logger().WarnContext(r.Context(), "failed to write error response", logger.Error(err))
		}
	}
}
