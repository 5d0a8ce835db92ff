package requestid

import (
	"net/http"
	"regexp"

	"github.com/google/uuid"
)

const (
	Header      = "X-Request-ID"
	maxIDLength = 128
	idPattern   = "^[a-zA-Z0-9_-]+$"
)

var validIDRegex = regexp.MustCompile(idPattern)

// Option configures the request id middleware.
type Option func(*config)

type config struct {
	trustHeader bool
	generate    func() string
}

// WithTrustedHeader reuses a valid inbound X-Request-ID header instead of
// generating a fresh id. Enable it only behind a gateway that sets the
// header itself; otherwise clients could force id collisions.
func WithTrustedHeader() Option {
	return func(c *config) { c.trustHeader = true }
}

// WithGenerator replaces the UUIDv4 generator. Nil is ignored.
func WithGenerator(fn func() string) Option {
	return func(c *config) {
		if fn != nil {
			c.generate = fn
		}
	}
}

// Middleware assigns a fresh request id to every request using the defaults.
func Middleware(next http.Handler) http.Handler {
	return New()(next)
}

// New returns the request id middleware configured with opts.
func New(opts ...Option) func(http.Handler) http.Handler {
	cfg := &config{generate: newID}
	for _, opt := range opts {
		opt(cfg)
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			var requestID string
			if cfg.trustHeader {
				if inbound := r.Header.Get(Header); isValidRequestID(inbound) {
					requestID = inbound
				}
			}
			if requestID == "" {
				requestID = cfg.generate()
			}

			w.Header().Set(Header, requestID)
			next.ServeHTTP(w, r.WithContext(WithContext(r.Context(), requestID)))
		})
	}
}

func newID() string {
	return uuid.New().String()
}

func isValidRequestID(id string) bool {
	if len(id) == 0 || len(id) > maxIDLength {
		return false
	}
	return validIDRegex.MatchString(id)
}
