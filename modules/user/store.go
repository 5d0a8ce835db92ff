package user

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
)

const columns = "id, name, email, created_at, updated_at, deleted_at"

// Store persists users in PostgreSQL. Soft-deleted rows are invisible to
// every read.
type Store struct {
	db *sqlx.DB
}

// NewStore creates a Store over db.
func NewStore(db *sqlx.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Create(ctx context.Context, p CreateParams) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		`INSERT INTO users (name, email) VALUES ($1, $2) RETURNING `+columns,
		p.Name, p.Email)
	if err != nil {
		return User{}, fmt.Errorf("insert user: %w", err)
	}
	return u, nil
}

// List returns one page of active users, newest first, and the number of
// active users overall.
func (s *Store) List(ctx context.Context, limit, offset int) ([]User, int, error) {
	users := []User{}
	err := s.db.SelectContext(ctx, &users,
		`SELECT `+columns+` FROM users WHERE deleted_at IS NULL ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("list users: %w", err)
	}

	var total int
	if err := s.db.GetContext(ctx, &total, `SELECT count(*) FROM users WHERE deleted_at IS NULL`); err != nil {
		return nil, 0, fmt.Errorf("count users: %w", err)
	}
	return users, total, nil
}

func (s *Store) GetByID(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		`SELECT `+columns+` FROM users WHERE id = $1 AND deleted_at IS NULL`, id)
	if err != nil {
		return User{}, fmt.Errorf("get user %s: %w", id, err)
	}
	return u, nil
}

// SoftDelete marks an active user deleted and returns the updated row.
func (s *Store) SoftDelete(ctx context.Context, id uuid.UUID) (User, error) {
	var u User
	err := s.db.GetContext(ctx, &u,
		`UPDATE users SET deleted_at = now(), updated_at = now() WHERE id = $1 AND deleted_at IS NULL RETURNING `+columns,
		id)
	if err != nil {
		return User{}, fmt.Errorf("delete user %s: %w", id, err)
	}
	return u, nil
}
