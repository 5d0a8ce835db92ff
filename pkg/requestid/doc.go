// Package requestid provides HTTP middleware and helpers for request
// correlation identifiers.
//
// The middleware runs first in the chain. It assigns every inbound request an
// opaque id (a UUIDv4 by default), stores it in the request context and
// echoes it in the X-Request-ID response header. The same id is attached to
// every log record of the request through LoggerExtractor and to every error
// response body, so a caller can hand the id to an operator who then finds
// the matching log lines.
//
// By default inbound X-Request-ID headers are ignored so ids are never reused
// across requests. WithTrustedHeader opts into reusing a validated header for
// deployments behind a gateway that already assigns ids.
//
// # Usage
//
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
package requestid
