package faultmonitor

import "errors"

var (
	// ErrAlreadyAttached is returned by a second Attach call.
	ErrAlreadyAttached = errors.New("drainer already attached")
	// ErrNotStarting is returned by Attach once the monitor left the Starting state.
	ErrNotStarting = errors.New("monitor is no longer starting")
	// ErrNilDrainer is returned by Attach with a nil drainer.
	ErrNilDrainer = errors.New("nil drainer")
)
