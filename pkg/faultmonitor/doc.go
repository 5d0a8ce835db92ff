// Package faultmonitor owns the process lifecycle of the HTTP server.
//
// A Monitor moves through Starting, Listening, Draining and Stopped. It
// reacts to four kinds of process-level events:
//
//   - panics in background goroutines, recovered by Go or a deferred Recover
//   - errors nobody handled, returned from Go or passed to Report
//   - termination signals (SIGINT, SIGTERM)
//   - listener failures, passed to ListenerFailed
//
// Every fault is normalized into an *apperror.Error and logged at ERROR.
// Operational faults are only logged and the server keeps running.
// Non-operational faults and signals start a drain: the attached Drainer
// stops accepting connections and finishes in-flight requests within the
// drain timeout. The drain runs once, no matter how many events arrive.
//
// Faults inside individual requests never reach the monitor; they are
// answered by the request's error handler.
//
//	mon := faultmonitor.New(log)
//	if _, err := srv.Listen(); err != nil {
//	    mon.ListenerFailed(err)
//	    os.Exit(mon.Wait(ctx))
//	}
//	_ = mon.Attach(srv)
//	mon.Go(func() error { return srv.Serve(router) })
//	os.Exit(mon.Wait(ctx))
package faultmonitor
