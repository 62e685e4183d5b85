package note

import (
	"errors"
	"time"
)

// ErrNotFound is returned when a note does not exist or belongs to another user.
var ErrNotFound = errors.New("note not found")

// Note is a free-form annotation attached to a book, optionally pinned to a
// page.
type Note struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BookID    string    `json:"book_id"`
	Page      *int      `json:"page,omitempty"`
	Content   string    `json:"content"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
