package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/binder"
	"github.com/morshed33/xprs-go/pkg/httplog"
)

// HandlerFunc handles a request of type R with a context of type C.
type HandlerFunc[C Context, R any] func(ctx C, req R) Response

// Response renders itself to an http.ResponseWriter. A non-nil error from
// Render is handed to the error handler.
type Response interface {
	Render(w http.ResponseWriter, r *http.Request) error
}

// Bind parses HTTP requests into typed values.
type Bind func(r *http.Request, v any) error

// ErrorHandler is the terminal handler for any failure of a request.
type ErrorHandler[C Context] func(ctx C, err error)

// WrapOption configures the Wrap function.
type WrapOption[C Context, R any] func(*wrapConfig[C, R])

type wrapConfig[C Context, R any] struct {
	binders      []Bind
	errorHandler ErrorHandler[C]
}

// WithBinder sets a single request binder.
func WithBinder[C Context, R any](b Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if b != nil {
			c.binders = []Bind{b}
		}
	}
}

// WithBinders sets multiple request binders applied in order. Each binder
// processes only its own struct tags.
func WithBinders[C Context, R any](binders ...Bind) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		c.binders = append(c.binders, binders...)
	}
}

// WithErrorHandler sets the error handler.
func WithErrorHandler[C Context, R any](h ErrorHandler[C]) WrapOption[C, R] {
	return func(c *wrapConfig[C, R]) {
		if h != nil {
			c.errorHandler = h
		}
	}
}

// Wrap converts a typed HandlerFunc to an http.HandlerFunc.
//
// Binder failures become operational 4xx errors. Panics raised by binders,
// the handler or Render are recovered and handed to the error
// handler, except http.ErrAbortHandler which is re-raised.
func Wrap[C Context, R any](h HandlerFunc[C, R], opts ...WrapOption[C, R]) http.HandlerFunc {
	cfg := &wrapConfig[C, R]{}
	for _, opt := range opts {
		opt(cfg)
	}

	if cfg.errorHandler == nil {
		fallback := NewErrorHandler(ErrorHandlerConfig{}, httplog.New(slog.Default()))
		cfg.errorHandler = func(ctx C, err error) { fallback(ctx, err) }
	}

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, ok := any(NewContext(w, r)).(C)
		if !ok {
			panic("handler: Wrap supports only handler.Context")
		}
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				cfg.errorHandler(ctx, apperror.Normalize(rec))
			}
		}()

		var req R
		for _, bind := range cfg.binders {
			if err := bind(r, &req); err != nil {
				cfg.errorHandler(ctx, bindError(err))
				return
			}
		}

		response := h(ctx, req)
		if response == nil {
			cfg.errorHandler(ctx, ErrNilResponse)
			return
		}
		if err := response.Render(w, r); err != nil {
			cfg.errorHandler(ctx, err)
		}
	}
}

// bindError maps binder failures onto client errors.
func bindError(err error) *apperror.Error {
	switch {
	case errors.Is(err, binder.ErrUnsupportedMediaType), errors.Is(err, binder.ErrMissingContentType):
		return apperror.Wrap(http.StatusUnsupportedMediaType, "Content-Type must be application/json", err)
	case errors.Is(err, binder.ErrBodyTooLarge):
		return apperror.Wrap(http.StatusRequestEntityTooLarge, "Request body too large", err)
	default:
		return apperror.Wrap(http.StatusBadRequest, err.Error(), err)
	}
}
