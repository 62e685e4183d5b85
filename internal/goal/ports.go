package goal

import (
	"context"

	"booktrack/internal/book"
)

// Repository defines the contract for goal storage. Goals are scoped to the
// owning user.
type Repository interface {
	Create(ctx context.Context, g *Goal) error
	GetByID(ctx context.Context, userID, id string) (Goal, error)
	ListByUser(ctx context.Context, userID string) ([]Goal, error)
	Delete(ctx context.Context, userID, id string) error
}

// BookSource supplies the user's full library for evaluation.
type BookSource interface {
	ListAll(ctx context.Context, userID string) ([]book.Book, error)
}
