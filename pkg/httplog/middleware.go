package httplog

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"

	"github.com/morshed33/xprs-go/pkg/clientip"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

// MaxBodyCapture caps how much of a request body is kept for logging.
const MaxBodyCapture = 64 << 10

type bodyKey struct{}

// capture keeps the first MaxBodyCapture bytes read from the body.
type capture struct {
	io.ReadCloser
	buf bytes.Buffer
}

func (c *capture) Read(p []byte) (int, error) {
	n, err := c.ReadCloser.Read(p)
	if n > 0 && c.buf.Len() < MaxBodyCapture {
		room := MaxBodyCapture - c.buf.Len()
		c.buf.Write(p[:min(n, room)])
	}
	return n, err
}

// CapturedBody returns the part of the request body read so far by the
// handler chain, or nil outside Middleware.
func CapturedBody(ctx context.Context) []byte {
	if c, ok := ctx.Value(bodyKey{}).(*capture); ok && c.buf.Len() > 0 {
		return c.buf.Bytes()
	}
	return nil
}

// Middleware logs one RequestRecord per completed request. The body is
// observed as the handler reads it, so the handler sees it unchanged.
func Middleware(l *Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rw := NewResponseWriter(w)

			ctx := r.Context()
			if r.Body != nil && r.Body != http.NoBody && !bodyless(r.Method) {
				c := &capture{ReadCloser: r.Body}
				r.Body = c
				ctx = context.WithValue(ctx, bodyKey{}, c)
				r = r.WithContext(ctx)
			}

			defer func() {
				l.LogRequest(ctx, RequestRecord{
					Method:        r.Method,
					Path:          r.URL.Path,
					Query:         r.URL.Query(),
					StatusCode:    rw.Status(),
					Latency:       time.Since(start),
					CorrelationID: requestid.FromContext(ctx),
					ClientIP:      clientip.GetIPFromContext(ctx),
					UserAgent:     r.UserAgent(),
					Body:          CapturedBody(ctx),
				})
			}()

			next.ServeHTTP(rw, r)
		})
	}
}
