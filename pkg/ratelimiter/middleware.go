package ratelimiter

import (
	"math"
	"net/http"
	"strconv"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/clientip"
)

// TooManyRequestsMessage is the message of a refused request.
const TooManyRequestsMessage = "Too many requests, please try again later"

// KeyFunc picks the bucket of a request. An empty key skips limiting.
type KeyFunc func(r *http.Request) string

// ByClientIP keys buckets by the IP stored by clientip.Middleware, falling
// back to the remote address.
func ByClientIP(r *http.Request) string {
	if ip := clientip.GetIPFromContext(r.Context()); ip != "" {
		return ip
	}
	return clientip.GetIP(r)
}

// ErrorFunc renders a failure of the limiter or a refusal.
type ErrorFunc func(w http.ResponseWriter, r *http.Request, err error)

// Middleware limits requests per key. Refusals reach onError as an
// operational 429; store failures reach it unchanged.
func Middleware(b *Bucket, key KeyFunc, onError ErrorFunc) func(http.Handler) http.Handler {
	if onError == nil {
		onError = func(w http.ResponseWriter, r *http.Request, err error) {
			e := apperror.Normalize(err)
			http.Error(w, e.Message, e.Status())
		}
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			k := key(r)
			if k == "" {
				next.ServeHTTP(w, r)
				return
			}

			res, err := b.Allow(r.Context(), k)
			if err != nil {
				onError(w, r, err)
				return
			}

			h := w.Header()
			h.Set("X-RateLimit-Limit", strconv.Itoa(res.Limit))
			h.Set("X-RateLimit-Remaining", strconv.Itoa(max(res.Remaining, 0)))
			h.Set("X-RateLimit-Reset", strconv.FormatInt(res.ResetAt.Unix(), 10))

			if !res.Allowed() {
				if secs := int(math.Ceil(res.RetryAfter().Seconds())); secs > 0 {
					h.Set("Retry-After", strconv.Itoa(secs))
				}
				onError(w, r, apperror.TooManyRequests(TooManyRequestsMessage))
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
