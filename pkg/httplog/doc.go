// Package httplog records HTTP traffic and HTTP failures through the
// process logger.
//
// Middleware emits exactly one RequestRecord per completed request at
// logger.LevelHTTP, so rotating file sinks can route access logs to their
// own file. Logger.LogError emits an ErrorRecord at ERROR with the full
// normalized error, including its stack.
//
// Neither call ever panics or returns an error: a failure while logging is
// written to a fallback writer and the request carries on.
package httplog
