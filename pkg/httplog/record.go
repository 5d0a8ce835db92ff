package httplog

import (
	"net/http"
	"net/url"
	"time"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/clientip"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

// RequestRecord describes one completed request.
type RequestRecord struct {
	Method        string
	Path          string
	Query         url.Values
	StatusCode    int
	Latency       time.Duration
	CorrelationID string
	ClientIP      string
	UserAgent     string
	Body          []byte
}

// ErrorRecord describes one failed request.
type ErrorRecord struct {
	Err           *apperror.Error
	Method        string
	Path          string
	Query         url.Values
	CorrelationID string
	ClientIP      string
	UserAgent     string
	Body          []byte
}

// NewErrorRecord fills an ErrorRecord from the request and whatever the
// middleware stack stored in its context.
func NewErrorRecord(r *http.Request, err *apperror.Error) ErrorRecord {
	ctx := r.Context()
	return ErrorRecord{
		Err:           err,
		Method:        r.Method,
		Path:          r.URL.Path,
		Query:         r.URL.Query(),
		CorrelationID: requestid.FromContext(ctx),
		ClientIP:      clientip.GetIPFromContext(ctx),
		UserAgent:     r.UserAgent(),
		Body:          CapturedBody(ctx),
	}
}

// bodyless methods never have their body logged.
func bodyless(method string) bool {
	switch method {
	case http.MethodGet, http.MethodHead, http.MethodDelete, http.MethodOptions:
		return true
	}
	return false
}
