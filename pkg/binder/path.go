package binder

import (
	"fmt"
	"net/http"
)

// Path binds router path parameters to struct fields tagged `path:"name"`.
// The extractor looks a parameter up by name, e.g. chi.URLParam.
//
//	type GetPostRequest struct {
//		ID string `path:"id"`
//	}
//
//	r.Get("/{id}", handler.Wrap(getPost, handler.WithBinder(binder.Path(chi.URLParam))))
func Path(extractor func(r *http.Request, name string) string) func(r *http.Request, v any) error {
	return func(r *http.Request, v any) error {
		if extractor == nil {
			return fmt.Errorf("%w: extractor function is nil", ErrInvalidPath)
		}
		values, err := collectTagged(v, "path", func(name string) (string, bool) {
			s := extractor(r, name)
			return s, s != ""
		})
		if err != nil {
			return fmt.Errorf("%w: %v", ErrInvalidPath, err)
		}
		return bindToStruct(v, "path", values, ErrInvalidPath)
	}
}
