package post

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
	Create(ctx context.Context, p CreateParams) (Post, error)
	List(ctx context.Context, limit, offset int) ([]Post, int, error)
	GetByID(ctx context.Context, id uuid.UUID) (Post, error)
	SoftDelete(ctx context.Context, id uuid.UUID) (Post, error)
}

// CreateRequest is the body of POST /posts.
type CreateRequest struct {
	Title     string `json:"title"`
	Content   string `json:"content"`
	Published bool   `json:"published"`
	AuthorID  string `json:"authorId"`
}

func (r CreateRequest) validate() error {
	return validator.Apply(
		validator.Required("title", r.Title),
		validator.MaxLen("title", r.Title, 255),
		validator.ValidUUID("authorId", r.AuthorID),
	)
}

type handlers struct {
	store Storage
}

func (h handlers) create(ctx handler.Context, req CreateRequest) handler.Response {
	if err := req.validate(); err != nil {
		return handler.Fail(apperror.FromValidation(err, "body"))
	}

	p, err := h.store.Create(ctx, CreateParams{
		Title:     strings.TrimSpace(req.Title),
		Content:   req.Content,
		Published: req.Published,
		AuthorID:  uuid.MustParse(req.AuthorID),
	})
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.Created("Post created successfully", p)
}

func (h handlers) list(ctx handler.Context, q handler.PageQuery) handler.Response {
	q, err := q.Resolve()
	if err != nil {
		return handler.Fail(err)
	}

	posts, total, err := h.store.List(ctx, q.Limit, q.Offset)
	if err != nil {
		return handler.Fail(err)
	}
	return handler.OK("Posts retrieved successfully", posts, handler.WithPagination(q.Pagination(total)))
}

func (h handlers) get(ctx handler.Context, req handler.PathID) handler.Response {
	id, err := req.UUID()
	if err != nil {
		return handler.Fail(err)
	}

	p, err := h.store.GetByID(ctx, id)
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.OK("Post retrieved successfully", p)
}

func (h handlers) softDelete(ctx handler.Context, req handler.PathID) handler.Response {
	id, err := req.UUID()
	if err != nil {
		return handler.Fail(err)
	}

	p, err := h.store.SoftDelete(ctx, id)
	if err != nil {
		return handler.Fail(storeError(err))
	}
	return handler.OK("Post deleted successfully", p)
}

func storeError(err error) error {
	switch {
	case pg.IsNotFoundError(err):
		return apperror.Wrap(http.StatusNotFound, "Post not found", err)
	case pg.IsForeignKeyViolationError(err):
		return apperror.Wrap(http.StatusUnprocessableEntity, "Author does not exist", err).
			WithDetails(apperror.Detail{Field: "authorId", Message: "must reference an existing user", Location: "body"})
	default:
		return err
	}
}
