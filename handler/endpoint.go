package handler

import (
	"net/http"

	"github.com/google/uuid"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/validator"
)

// Endpoint is Wrap for the default Context: it binds R with binders in order
// and reports every failure to eh.
func Endpoint[R any](eh ErrorHandler[Context], h HandlerFunc[Context, R], binders ...Bind) http.HandlerFunc {
	return Wrap(h,
		WithBinders[Context, R](binders...),
		WithErrorHandler[Context, R](eh),
	)
}

// PathID is a request carrying a resource id in the {id} path segment.
type PathID struct {
	ID string `path:"id"`
}

// UUID parses the id. A malformed id is an operational 422 with a "path"
// detail.
func (p PathID) UUID() (uuid.UUID, error) {
	if err := validator.Apply(validator.ValidUUID("id", p.ID)); err != nil {
		return uuid.Nil, apperror.FromValidation(err, "path")
	}
	return uuid.Parse(p.ID)
}
