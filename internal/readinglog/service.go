package readinglog

import (
	"context"
	"time"

	"booktrack/internal/book"
)

// Service validates reading sessions against the owning book and records
// them. Logging a session also advances the book's progress; the repository
// performs both writes in one transaction.
type Service struct {
	repo  Repository
	books BookSource
	now   func() time.Time
}

func NewService(repo Repository, books BookSource) *Service {
	return &Service{repo: repo, books: books, now: time.Now}
}

// CreateParams carries the log-session submission.
type CreateParams struct {
	BookID    string
	Date      string
	StartPage int
	EndPage   int
	StartTime *string
	EndTime   *string
	Notes     string
}

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (Log, error) {
	b, err := s.books.GetByID(ctx, userID, p.BookID)
	if err != nil {
		return Log{}, err
	}

	if p.EndPage <= p.StartPage || p.StartPage < 0 {
		return Log{}, ErrInvalidRange
	}
	if b.TotalPages != nil && p.EndPage > *b.TotalPages {
		return Log{}, ErrInvalidRange
	}

	l := Log{
		UserID:    userID,
		BookID:    b.ID,
		Date:      p.Date,
		StartPage: p.StartPage,
		EndPage:   p.EndPage,
		TotalRead: p.EndPage - p.StartPage,
		StartTime: p.StartTime,
		EndTime:   p.EndTime,
		Minutes:   sessionMinutes(p.StartTime, p.EndTime),
		Notes:     p.Notes,
	}
	if l.Date == "" {
		l.Date = s.now().UTC().Format("2006-01-02")
	}

	if err := s.repo.Create(ctx, &l); err != nil {
		return Log{}, err
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, userID string, q Query) ([]Log, int, error) {
	if q.BookID != "" {
		// Listing for a book the user does not own must 404, not come back empty.
		if _, err := s.books.GetByID(ctx, userID, q.BookID); err != nil {
			return nil, 0, err
		}
	}
	return s.repo.List(ctx, userID, q)
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

// ensure the service's book dependency matches the book package contract
var _ BookSource = book.Repository(nil)
