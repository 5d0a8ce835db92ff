package user

import (
	"github.com/go-chi/chi/v5"

	"github.com/morshed33/xprs-go/handler"
	"github.com/morshed33/xprs-go/pkg/binder"
)

// Router serves the user resource. Mount it under /users.
func Router(store Storage, eh handler.ErrorHandler[handler.Context]) chi.Router {
	h := handlers{store: store}
	path := binder.Path(chi.URLParam)

	r := chi.NewRouter()
	r.Post("/", handler.Endpoint(eh, h.create, binder.JSON()))
	r.Get("/", handler.Endpoint(eh, h.list, binder.Query()))
	r.Get("/{id}", handler.Endpoint(eh, h.get, path))
	r.Delete("/{id}", handler.Endpoint(eh, h.softDelete, path))
	return r
}
