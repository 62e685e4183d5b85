package note

import (
	"context"
)

type Service struct {
	repo  Repository
	books BookSource
}

func NewService(repo Repository, books BookSource) *Service {
	return &Service{repo: repo, books: books}
}

func (s *Service) Create(ctx context.Context, userID, bookID string, page *int, content string) (Note, error) {
	b, err := s.books.GetByID(ctx, userID, bookID)
	if err != nil {
		return Note{}, err
	}

	n := Note{UserID: userID, BookID: b.ID, Page: page, Content: content}
	if err := s.repo.Create(ctx, &n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) ListForBook(ctx context.Context, userID, bookID string) ([]Note, error) {
	if _, err := s.books.GetByID(ctx, userID, bookID); err != nil {
		return nil, err
	}
	return s.repo.ListForBook(ctx, userID, bookID)
}

// Update replaces a note's content and page pin.
func (s *Service) Update(ctx context.Context, userID, id string, page *int, content string) (Note, error) {
	n := Note{ID: id, UserID: userID, Page: page, Content: content}
	if err := s.repo.Update(ctx, &n); err != nil {
		return Note{}, err
	}
	return n, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
