package stats

import (
	"context"
	"time"

	"booktrack/internal/book"
	"booktrack/internal/readinglog"
)

// BookSource supplies the user's full library.
type BookSource interface {
	ListAll(ctx context.Context, userID string) ([]book.Book, error)
}

// LogSource supplies the user's full session history.
type LogSource interface {
	ListAllForUser(ctx context.Context, userID string) ([]readinglog.Log, error)
}

type Service struct {
	books BookSource
	logs  LogSource
	now   func() time.Time
}

func NewService(books BookSource, logs LogSource) *Service {
	return &Service{books: books, logs: logs, now: time.Now}
}

// For computes the statistics view anchored at refDate, which defaults to
// today when empty or malformed.
func (s *Service) For(ctx context.Context, userID string, view View, refDate string) (Result, error) {
	books, err := s.books.ListAll(ctx, userID)
	if err != nil {
		return Result{}, err
	}
	logs, err := s.logs.ListAllForUser(ctx, userID)
	if err != nil {
		return Result{}, err
	}

	now := s.now().UTC()
	ref := now
	if refDate != "" {
		if t, err := time.Parse(dayFormat, refDate); err == nil {
			ref = t
		}
	}

	return Compute(books, logs, view, ref, now), nil
}
