// Package logger builds the process-wide structured logger on top of log/slog.
//
// A logger created by New fans every record out to a console sink and any
// number of extra sinks, typically the rotating files from OpenFileSinks:
//
//	application.log  INFO and above
//	requests.log     HTTP access records (LevelHTTP) only
//	error.log        ERROR and above
//
// Records at LevelHTTP are rendered with the level name "HTTP".
//
// Logging never fails the caller. Sink errors and sink panics are absorbed
// by SafeHandler and reported to a fallback writer (stderr by default).
//
// ContextExtractor callbacks registered with WithContextExtractors add
// request-scoped attributes, such as the correlation id, to every record
// logged with a context.
//
//	files, err := logger.OpenFileSinks(cfg.Log)
//	if err != nil { ... }
//	defer files.Close()
//
//	log := logger.New(
//	    logger.WithEnvironment(env, "xprs-go"),
//	    logger.WithSinks(files.Handlers()...),
//	    logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
package logger
