package binder

import "net/http"

// Query binds URL query parameters to struct fields tagged `query:"name"`.
// Missing parameters leave fields untouched, so defaults can be preset.
//
//	type ListRequest struct {
//		Limit  int `query:"limit"`
//		Offset int `query:"offset"`
//	}
func Query() func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		return bindToStruct(v, "query", r.URL.Query(), ErrInvalidQuery)
	}
}
