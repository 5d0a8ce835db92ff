package handler

import (
	"fmt"

	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/validator"
)

// Page size limits for list endpoints.
const (
	DefaultPageLimit = 20
	MaxPageLimit     = 100
)

// PageQuery is the query-string half of a list request. Bind it with
// binder.Query().
type PageQuery struct {
	Limit  int `query:"limit"`
	Offset int `query:"offset"`
}

// Resolve validates q and fills in the default limit. The returned error is
// an operational 422 with "query" details.
func (q PageQuery) Resolve() (PageQuery, error) {
	err := validator.Apply(
		validator.Rule{
			Check: func() bool { return q.Limit >= 0 && q.Limit <= MaxPageLimit },
			Error: validator.ValidationError{Field: "limit", Message: fmt.Sprintf("must be between 0 and %d, 0 means %d", MaxPageLimit, DefaultPageLimit)},
		},
		validator.Rule{
			Check: func() bool { return q.Offset >= 0 },
			Error: validator.ValidationError{Field: "offset", Message: "must not be negative"},
		},
	)
	if err != nil {
		return q, apperror.FromValidation(err, "query")
	}
	if q.Limit == 0 {
		q.Limit = DefaultPageLimit
	}
	return q, nil
}

// Pagination describes the page q produced out of total rows.
func (q PageQuery) Pagination(total int) Pagination {
	return Pagination{Limit: q.Limit, Offset: q.Offset, Total: total}
}
