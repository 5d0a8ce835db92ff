package logger

import "log/slog"

// LevelHTTP sits between DEBUG and INFO. It is reserved for access records so
// request logs can be routed to their own sink and filtered independently of
// application logs.
const LevelHTTP = slog.Level(-2)

// replaceLevel renders LevelHTTP as "HTTP" instead of "DEBUG+2".
func replaceLevel(groups []string, a slog.Attr) slog.Attr {
	if len(groups) == 0 && a.Key == slog.LevelKey {
		if lvl, ok := a.Value.Any().(slog.Level); ok && lvl == LevelHTTP {
			a.Value = slog.StringValue("HTTP")
		}
	}
	return a
}

// LevelName returns the display name used in log output for l.
func LevelName(l slog.Level) string {
	if l == LevelHTTP {
		return "HTTP"
	}
	return l.String()
}
