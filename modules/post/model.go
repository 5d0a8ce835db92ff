package post

import (
	"time"

	"github.com/google/uuid"
)

// Post is an article written by a user.
type Post struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Title     string     `db:"title" json:"title"`
	Content   string     `db:"content" json:"content"`
	Published bool       `db:"published" json:"published"`
	AuthorID  uuid.UUID  `db:"author_id" json:"authorId"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

type CreateParams struct {
	Title     string
	Content   string
	Published bool
	AuthorID  uuid.UUID
}
