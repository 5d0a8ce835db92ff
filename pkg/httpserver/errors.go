package httpserver

import "errors"

var (
	// ErrStart indicates that the listener could not be bound.
	ErrStart = errors.New("failed to start HTTP server")
	// ErrServe indicates that the serve loop stopped for a reason other than shutdown.
	ErrServe = errors.New("HTTP server stopped serving")
	// ErrShutdown indicates that graceful shutdown failed.
	ErrShutdown = errors.New("failed to shutdown HTTP server gracefully")
	// ErrDrainTimeout indicates that in-flight requests outlived the shutdown
	// timeout and their connections were closed forcibly.
	ErrDrainTimeout = errors.New("drain deadline exceeded, connections force-closed")
	// ErrNotListening is returned by Serve before a successful Listen.
	ErrNotListening = errors.New("server is not listening")
)
