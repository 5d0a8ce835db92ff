package httplog

import (
	"net/http"
)

// ResponseWriter records the status code and whether anything was sent.
type ResponseWriter struct {
	http.ResponseWriter
	status  int
	written bool
	bytes   int
}

// NewResponseWriter wraps w. An already wrapped writer is returned as is.
func NewResponseWriter(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, status: http.StatusOK}
}

func (w *ResponseWriter) WriteHeader(code int) {
	if w.written {
		return
	}
	w.status = code
	w.written = true
	w.ResponseWriter.WriteHeader(code)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.written {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytes += n
	return n, err
}

// Flush implements http.Flusher when the underlying writer does.
func (w *ResponseWriter) Flush() {
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		if !w.written {
			w.WriteHeader(http.StatusOK)
		}
		f.Flush()
	}
}

// Status returns the status code sent, or 200 if none was sent yet.
func (w *ResponseWriter) Status() int { return w.status }

// Written reports whether the response headers have been sent.
func (w *ResponseWriter) Written() bool { return w.written }

// BytesWritten returns the number of body bytes sent.
func (w *ResponseWriter) BytesWritten() int { return w.bytes }

// Unwrap supports http.ResponseController.
func (w *ResponseWriter) Unwrap() http.ResponseWriter { return w.ResponseWriter }
