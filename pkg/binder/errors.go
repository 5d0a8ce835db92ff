package binder

import "errors"

// Binding errors. The handler layer maps them onto client errors:
// ErrUnsupportedMediaType and ErrMissingContentType to 415,
// ErrBodyTooLarge to 413, the rest to 400.
var (
	ErrUnsupportedMediaType = errors.New("unsupported media type")
	ErrMissingContentType   = errors.New("missing content type")
	ErrBodyTooLarge         = errors.New("request body too large")
	ErrFailedToParseJSON    = errors.New("failed to parse JSON request body")
	ErrInvalidQuery         = errors.New("invalid query parameter")
	ErrInvalidPath          = errors.New("invalid path parameter")
)
