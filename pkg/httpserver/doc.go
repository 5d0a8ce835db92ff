// Package httpserver wraps net/http with an explicit lifecycle:
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	addr, err := srv.Listen()      // bind only, errors wrap ErrStart
//	go srv.Serve(router)           // returns nil after Shutdown, else wraps ErrServe
//	err = srv.Shutdown(ctx)        // idempotent drain bounded by the shutdown timeout
//
// Shutdown stops accepting new connections and waits for in-flight requests.
// When the shutdown timeout elapses first, remaining connections are closed
// and the result wraps ErrDrainTimeout.
//
// Run combines the three steps for callers that only need context-driven
// shutdown. Signal handling is left to the caller.
//
// HealthCheckHandler serves liveness and readiness probes.
package httpserver
