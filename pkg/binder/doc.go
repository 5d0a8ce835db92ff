// Package binder populates request structs from an *http.Request.
//
// Each binder has the signature func(*http.Request, any) error and is plugged
// into handler.Wrap with handler.WithBinder. Available binders:
//
//   - JSON: strict application/json body decoding with a size limit.
//   - Query: URL query parameters via `query:"name"` tags.
//   - Path: router path parameters via `path:"name"` tags.
//
// Errors wrap the sentinels in errors.go so callers can classify them with
// errors.Is.
package binder
