package book

import (
	"context"
)

// Repository defines the contract for book data storage. All lookups are
// scoped to the owning user; a row owned by someone else is ErrNotFound.
type Repository interface {
	Create(ctx context.Context, b *Book) error
	GetByID(ctx context.Context, userID, id string) (Book, error)
	List(ctx context.Context, userID string, q Query) ([]Book, int, error)
	ListAll(ctx context.Context, userID string) ([]Book, error)
	Update(ctx context.Context, b *Book) error
	Delete(ctx context.Context, userID, id string) error
}

// LogCounter reports how many reading sessions a book has. Used to guard the
// transition back to TO_READ.
type LogCounter interface {
	CountForBook(ctx context.Context, bookID string) (int, error)
}

// MetadataSource looks up book metadata by ISBN to enrich sparse add-book
// submissions. Implemented by the OpenLibrary client; may be nil.
type MetadataSource interface {
	Lookup(ctx context.Context, isbn string) (Metadata, error)
}

// Metadata is the subset of external book metadata the service consumes.
type Metadata struct {
	Title       string
	Subtitle    string
	Publisher   string
	PublishYear string
	PageCount   int
	CoverURL    string
}
