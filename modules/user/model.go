package user

import (
	"time"

	"github.com/google/uuid"
)

// User is a registered user. A non-nil DeletedAt marks a soft-deleted row.
type User struct {
	ID        uuid.UUID  `db:"id" json:"id"`
	Name      string     `db:"name" json:"name"`
	Email     string     `db:"email" json:"email"`
	CreatedAt time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time  `db:"updated_at" json:"updatedAt"`
	DeletedAt *time.Time `db:"deleted_at" json:"deletedAt,omitempty"`
}

// CreateParams holds the fields of a new user.
type CreateParams struct {
	Name  string
	Email string
}
