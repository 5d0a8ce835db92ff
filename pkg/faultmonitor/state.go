package faultmonitor

import (
	"context"
	"os"
	"time"

	"github.com/morshed33/xprs-go/pkg/apperror"
)

// State is the lifecycle state of the served process.
type State int32

const (
	Starting State = iota
	Listening
	Draining
	Stopped
)

func (s State) String() string {
	switch s {
	case Starting:
		return "starting"
	case Listening:
		return "listening"
	case Draining:
		return "draining"
	case Stopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Class identifies where a fault came from.
type Class int

const (
	// ClassPanic is a panic recovered outside any request.
	ClassPanic Class = iota
	// ClassRejection is an error no caller handled.
	ClassRejection
	// ClassSignal is a termination signal.
	ClassSignal
	// ClassListener is a failure of the listening socket or serve loop.
	ClassListener
)

func (c Class) String() string {
	switch c {
	case ClassPanic:
		return "uncaught_panic"
	case ClassRejection:
		return "unhandled_rejection"
	case ClassSignal:
		return "signal"
	case ClassListener:
		return "listener"
	default:
		return "unknown"
	}
}

// Fault is a single process-level event delivered to observers.
type Fault struct {
	Class Class
	// Err is nil for signals.
	Err *apperror.Error
	// Signal is set for ClassSignal only.
	Signal os.Signal
	Time   time.Time
}

// Drainer stops a server gracefully. httpserver.Server satisfies it.
type Drainer interface {
	Shutdown(ctx context.Context) error
}
