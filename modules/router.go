// Package modules assembles the HTTP surface of the service: the middleware
// chain, service endpoints and the versioned resource API.
package modules

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/morshed33/xprs-go/handler"
	"github.com/morshed33/xprs-go/modules/post"
	"github.com/morshed33/xprs-go/modules/user"
	"github.com/morshed33/xprs-go/pkg/clientip"
	"github.com/morshed33/xprs-go/pkg/environment"
	"github.com/morshed33/xprs-go/pkg/httplog"
	"github.com/morshed33/xprs-go/pkg/httpserver"
	"github.com/morshed33/xprs-go/pkg/metrics"
	"github.com/morshed33/xprs-go/pkg/ratelimiter"
	"github.com/morshed33/xprs-go/pkg/requestid"
)

// RootMessage is the message of GET /.
const RootMessage = "Server is running... 🚀"

// RouterOptions configures Router. Resource routers are mounted only when
// their storage is set.
type RouterOptions struct {
	Logger      *slog.Logger
	Environment environment.Environment
	// Metrics enables request instrumentation and GET /metrics.
	Metrics *metrics.Metrics
	// TrustProxy takes the client IP from X-Forwarded-For / X-Real-IP.
	TrustProxy bool
	// ReadinessChecks back GET /readyz.
	ReadinessChecks []func(context.Context) error
	// RateLimiter throttles /api/v1 per client IP when set.
	RateLimiter *ratelimiter.Bucket

	Users user.Storage
	Posts post.Storage
}

// Router builds the root handler.
//
// Middleware order: metrics, correlation id, client IP, environment, request
// log, panic recovery. Every failure below the recoverer ends in one error
// envelope.
func Router(opts RouterOptions) chi.Router {
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	hl := httplog.New(log)

	ehCfg := handler.ErrorHandlerConfig{Development: opts.Environment.IsDevelopment()}
	if opts.Metrics != nil {
		ehCfg.OnError = opts.Metrics.ObserveError
	}
	eh := handler.NewErrorHandler(ehCfg, hl)

	r := chi.NewRouter()
	if opts.Metrics != nil {
		r.Use(opts.Metrics.Middleware)
	}
	r.Use(
		requestid.Middleware,
		clientip.New(opts.TrustProxy),
		environment.Middleware(opts.Environment),
		httplog.Middleware(hl),
		handler.Recoverer(eh),
	)
	r.NotFound(handler.NotFound(eh))
	r.MethodNotAllowed(handler.MethodNotAllowed(eh))

	r.Get("/", handler.Endpoint(eh, func(handler.Context, struct{}) handler.Response {
		return handler.OK(RootMessage, nil)
	}))
	r.Get("/healthz", httpserver.HealthCheckHandler(log))
	r.Get("/readyz", httpserver.HealthCheckHandler(log, opts.ReadinessChecks...))
	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/v1", func(api chi.Router) {
		if opts.RateLimiter != nil {
			api.Use(ratelimiter.Middleware(opts.RateLimiter, ratelimiter.ByClientIP,
				func(w http.ResponseWriter, r *http.Request, err error) {
					eh(handler.NewContext(w, r), err)
				}))
		}
		if opts.Users != nil {
			api.Mount("/users", user.Router(opts.Users, eh))
		}
		if opts.Posts != nil {
			api.Mount("/posts", post.Router(opts.Posts, eh))
		}
	})

	return r
}
