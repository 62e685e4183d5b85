package note

import (
	"context"

	"booktrack/internal/book"
)

// Repository defines the contract for note storage, scoped to the owning user.
type Repository interface {
	Create(ctx context.Context, n *Note) error
	ListForBook(ctx context.Context, userID, bookID string) ([]Note, error)
	Update(ctx context.Context, n *Note) error
	Delete(ctx context.Context, userID, id string) error
}

// BookSource resolves the book a note belongs to.
type BookSource interface {
	GetByID(ctx context.Context, userID, id string) (book.Book, error)
}
