package post

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = "id, title, content, published, author_id, created_at, updated_at, deleted_at"

// Store persists posts in PostgreSQL.
type Store struct {
	db *sqlx.DB
}

func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

// Create inserts a post. An unknown author fails with a foreign key
// violation.
func (s *Store) Create(ctx context.Context, p CreateParams) (Post, error) {
	var out Post
	err := s.db.GetContext(ctx, &out,
		`INSERT INTO posts (title, content, published, author_id) VALUES ($1, $2, $3, $4) RETURNING `+columns,
		p.Title, p.Content, p.Published, p.AuthorID)
	if err != nil {
		return Post{}, fmt.Errorf("insert post: %w", err)
	}
	return out, nil
}

func (s *Store) List(ctx context.Context, limit, offset int) ([]Post, int, error) {
	posts := []Post{}
	err := s.db.SelectContext(ctx, &posts,
		`SELECT `+columns+` FROM posts WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list posts: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT count(*) FROM posts WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, fmt.Errorf("count posts: %w", err)
	}
	return posts, total, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (Post, error) {
	var out Post
	err := s.db.GetContext(ctx, &out,
		`SELECT `+columns+` FROM posts WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return Post{}, fmt.Errorf("get post %s: %w", id, err)
	}
	return out, nil
}

func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) (Post, error) {
	var out Post
	err := s.db.GetContext(ctx, &out,
		`UPDATE posts SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL RETURNING `+columns,
		id)
	if err != nil {
		return Post{}, fmt.Errorf("delete post %s: %w", id, err)
	}
	return out, nil
}
