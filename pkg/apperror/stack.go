package apperror

import (
	"fmt"
	"runtime"
	"strings"
)

const maxStackDepth = 32

// callers renders the current goroutine's stack, skipping skip frames above
// the caller of callers.
func callers(skip int) string {
	pcs := make([]uintptr, maxStackDepth)
	n := runtime.Callers(skip+2, pcs)
	if n == 0 {
		return ""
	}

	frames := runtime.CallersFrames(pcs[:n])
	var b strings.Builder
	for {
		frame, more := frames.Next()
		fmt.Fprintf(&b, "%s\n\t%s:%d\n", frame.Function, frame.File, frame.Line)
		if !more {
			break
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
