package clientip

import "net/http"

// Middleware stores the connection peer address in the request context.
func Middleware(next http.Handler) http.Handler {
	return New(false)(next)
}

// New returns middleware that stores the client address in the request
// context. With trustProxy set, X-Forwarded-For and X-Real-IP are honored.
func New(trustProxy bool) func(http.Handler) http.Handler {
	resolve := GetIP
	if trustProxy {
		resolve = GetForwardedIP
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := SetIPToContext(r.Context(), resolve(r))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
