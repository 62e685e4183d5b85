package book

import (
	"context"
	"errors"
	"time"
)

// Service provides book-related business logic: lifecycle transitions,
// rating bookkeeping, and metadata enrichment on creation.
type Service struct {
	repo     Repository
	logs     LogCounter
	metadata MetadataSource
	now      func() time.Time
}

func NewService(repo Repository, logs LogCounter, metadata MetadataSource) *Service {
	return &Service{
		repo:     repo,
		logs:     logs,
		metadata: metadata,
		now:      time.Now,
	}
}

// CreateParams carries the add-book submission.
type CreateParams struct {
	Title          string
	Author         string
	Publisher      string
	ISBN           string
	Description    string
	PublishYear    string
	CoverURL       *string
	Status         Status
	TotalPages     *int
	Categories     []string
	ExpectedRating *float64
}

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (Book, error) {
	b := Book{
		UserID:         userID,
		Title:          p.Title,
		Author:         p.Author,
		Publisher:      p.Publisher,
		ISBN:           p.ISBN,
		Description:    p.Description,
		PublishYear:    p.PublishYear,
		CoverURL:       p.CoverURL,
		Status:         p.Status,
		TotalPages:     p.TotalPages,
		Categories:     NormalizeCategories(p.Categories),
		ExpectedRating: p.ExpectedRating,
	}
	if b.Status == "" {
		b.Status = StatusToRead
	}
	if !b.Status.Valid() {
		return Book{}, ErrInvalidTransition
	}

	s.enrichFromMetadata(ctx, &b)

	today := s.today()
	if b.Status == StatusReading {
		b.StartDate = &today
	}
	if b.Status == StatusFinished {
		b.StartDate = &today
		b.EndDate = &today
		if b.TotalPages != nil {
			b.PagesRead = *b.TotalPages
		}
	}

	b.RecomputeOverall()
	b.ClampPages()

	if err := s.repo.Create(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// enrichFromMetadata fills missing fields from an ISBN lookup. Lookup
// failures are ignored; the submission stands on its own.
func (s *Service) enrichFromMetadata(ctx context.Context, b *Book) {
	if s.metadata == nil || b.ISBN == "" {
		return
	}
	if b.Title != "" && b.TotalPages != nil && b.CoverURL != nil {
		return
	}
	meta, err := s.metadata.Lookup(ctx, b.ISBN)
	if err != nil {
		return
	}
	if b.Title == "" {
		b.Title = meta.Title
	}
	if b.Publisher == "" {
		b.Publisher = meta.Publisher
	}
	if b.PublishYear == "" {
		b.PublishYear = meta.PublishYear
	}
	if b.TotalPages == nil && meta.PageCount > 0 {
		pages := meta.PageCount
		b.TotalPages = &pages
	}
	if b.CoverURL == nil && meta.CoverURL != "" {
		cover := meta.CoverURL
		b.CoverURL = &cover
	}
}

func (s *Service) Get(ctx context.Context, userID, id string) (Book, error) {
	return s.repo.GetByID(ctx, userID, id)
}

func (s *Service) List(ctx context.Context, userID string, q Query) ([]Book, int, error) {
	return s.repo.List(ctx, userID, q)
}

// UpdateParams carries a partial edit; nil fields are left untouched.
type UpdateParams struct {
	Title       *string
	Author      *string
	Publisher   *string
	ISBN        *string
	Description *string
	PublishYear *string
	CoverURL    *string
	TotalPages  *int
	PagesRead   *int
	Categories  []string
	Review      *string
	StartDate   *string
	EndDate     *string
}

func (s *Service) Update(ctx context.Context, userID, id string, p UpdateParams) (Book, error) {
	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Book{}, err
	}

	if p.Title != nil {
		b.Title = *p.Title
	}
	if p.Author != nil {
		b.Author = *p.Author
	}
	if p.Publisher != nil {
		b.Publisher = *p.Publisher
	}
	if p.ISBN != nil {
		b.ISBN = *p.ISBN
	}
	if p.Description != nil {
		b.Description = *p.Description
	}
	if p.PublishYear != nil {
		b.PublishYear = *p.PublishYear
	}
	if p.CoverURL != nil {
		b.CoverURL = p.CoverURL
	}
	if p.TotalPages != nil {
		b.TotalPages = p.TotalPages
	}
	if p.PagesRead != nil {
		b.PagesRead = *p.PagesRead
	}
	if p.Categories != nil {
		b.Categories = NormalizeCategories(p.Categories)
	}
	if p.Review != nil {
		b.Review = *p.Review
	}
	if p.StartDate != nil {
		b.StartDate = p.StartDate
	}
	if p.EndDate != nil {
		b.EndDate = p.EndDate
	}

	b.ClampPages()

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// UpdateStatus applies the lifecycle rules:
//   - back to TO_READ is rejected once any reading progress or session exists
//   - entering READING stamps the start date
//   - entering FINISHED stamps the end date and completes the page count
//   - leaving FINISHED clears the final rating and end date
func (s *Service) UpdateStatus(ctx context.Context, userID, id string, newStatus Status) (Book, error) {
	if !newStatus.Valid() {
		return Book{}, ErrInvalidTransition
	}

	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Book{}, err
	}
	if b.Status == newStatus {
		return b, nil
	}

	if newStatus == StatusToRead {
		if b.PagesRead > 0 {
			return Book{}, ErrInvalidTransition
		}
		if s.logs != nil {
			n, err := s.logs.CountForBook(ctx, b.ID)
			if err != nil {
				return Book{}, err
			}
			if n > 0 {
				return Book{}, ErrInvalidTransition
			}
		}
	}

	today := s.today()
	leavingFinished := b.Status == StatusFinished

	b.Status = newStatus
	switch newStatus {
	case StatusReading:
		if b.StartDate == nil {
			b.StartDate = &today
		}
	case StatusFinished:
		if b.StartDate == nil {
			b.StartDate = &today
		}
		if b.EndDate == nil {
			b.EndDate = &today
		}
		if b.TotalPages != nil {
			b.PagesRead = *b.TotalPages
		}
	}

	if leavingFinished {
		b.FinalRating = nil
		b.EndDate = nil
		b.RecomputeOverall()
	}

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// SetRating stores a rating for one stage and refreshes the derived overall
// rating. A nil value clears the slot.
func (s *Service) SetRating(ctx context.Context, userID, id string, stage RatingStage, value *float64) (Book, error) {
	if !stage.Valid() {
		return Book{}, errors.New("unknown rating stage")
	}
	if value != nil && (*value < 0 || *value > 5) {
		return Book{}, errors.New("rating out of range")
	}

	b, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Book{}, err
	}

	switch stage {
	case StageExpected:
		b.ExpectedRating = value
	case StageProgress:
		b.ProgressRating = value
	case StageFinal:
		b.FinalRating = value
	}
	b.RecomputeOverall()

	if err := s.repo.Update(ctx, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// Delete removes the book; logs and notes go with it via FK cascade.
func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}
