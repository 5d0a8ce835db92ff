package handler

import (
	"fmt"
	"net/http"

	"github.com/morshed33/xprs-go/pkg/apperror"
)

// Recoverer recovers panics from the rest of the chain and hands them to eh.
// http.ErrAbortHandler is re-raised so net/http can abort the connection.
func Recoverer(eh ErrorHandler[Context]) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler {
						panic(rec)
					}
					eh(NewContext(w, r), apperror.Normalize(rec))
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// NotFound answers unknown routes with an operational 404.
func NotFound(eh ErrorHandler[Context]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := fmt.Sprintf("Can't find your requested url: '%s' in the server", r.URL.RequestURI())
		eh(NewContext(w, r), apperror.NotFound(msg))
	}
}

// MethodNotAllowed answers known routes hit with an unsupported method.
func MethodNotAllowed(eh ErrorHandler[Context]) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		msg := fmt.Sprintf("Method %s is not allowed on '%s'", r.Method, r.URL.Path)
		eh(NewContext(w, r), apperror.MethodNotAllowed(msg))
	}
}
