package readinglog

import (
	"context"

	"booktrack/internal/book"
)

// Repository defines the contract for reading session storage. Create runs in
// the same transaction as the owning book's progress advance.
type Repository interface {
	Create(ctx context.Context, l *Log) error
	GetByID(ctx context.Context, userID, id string) (Log, error)
	List(ctx context.Context, userID string, q Query) ([]Log, int, error)
	Delete(ctx context.Context, userID, id string) error
	CountForBook(ctx context.Context, bookID string) (int, error)
}

// BookSource resolves the book a session belongs to.
type BookSource interface {
	GetByID(ctx context.Context, userID, id string) (book.Book, error)
}
