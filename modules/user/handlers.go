package user

import (
	"context"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/morshed33/xprs-go/handler"
	"github.com/morshed33/xprs-go/pkg/apperror"
	"github.com/morshed33/xprs-go/pkg/pg"
	"github.com/morshed33/xprs-go/pkg/validator"
)

// Storage is the persistence the handlers need. *Store implements it.
type Storage interface {
	Create(ctx context.Context, p CreateParams) (User, error)
	List(ctx context.Context, limit, offset int) ([]User, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (User, error)
}

// CreateRequest is the body of POST /users.
type CreateRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

func (r CreateRequest) validate() error {
	rules := []validator.Rule{
		validator.Required("name", r.Name),
		validator.MaxLen("name", r.Name, 255),
		validator.Required("email", r.Email),
	}
	if strings.TrimSpace(r.Email) != "" {
		rules = append(rules, validator.ValidEmail("email", strings.TrimSpace(r.Email)))
	}
	return validator.Apply(rules...)
}

type handlers struct {
	store Storage
}

func (h handlers) create(ctx handler.Context, req CreateRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Fail(apperror.FromValidation(err, "body"))
	}

	u, err := h.store.Create(ctx, CreateParams{
		Name:  strings.TrimSpace(req.Name),
		Email: strings.ToLower(strings.TrimSpace(req.Email)),
	})
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.Created("User created successfully", u)
}

func (h handlers) list(ctx handler.Context, q handler.PageQuery) handler.Response {
	q, err := q.Resolve()
	if err != nil {
		return handler.Fail(err)
	}

	users, total, err := h.store.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.OK("Users retrieved successfully", users, handler.WithPagination(q.Pagination(total)))
}

func (h handlers) get(ctx handler.Context, req handler.PathID) handler.Response {
	id, err := req.UUID()
	if err != nil {
		return handler.Fail(err)
	}

	u, err := h.store.GetByID(ctx, id)
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.OK("User retrieved successfully", u)
}

func (h handlers) softDelete(ctx handler.Context, req handler.PathID) handler.Response {
	id, err := req.UUID()
	if err != nil {
		return handler.Fail(err)
	}

	u, err := h.store.SoftDelete(ctx, id)
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.OK("User deleted successfully", u)
}

// storeError maps expected store failures onto operational errors. Anything
// else stays a plain error and surfaces as a 500.
func storeError(err error) error {
	switch {
	case pg.IsNotFoundError(err):
		return apperror.Wrap(http.StatusNotFound, "User not found", err)
	case pg.IsDuplicateKeyError(err):
		return apperror.Wrap(http.StatusConflict, "User with this email already exists", err)
	default:
		return err
	}
}
