package book

import (
	"errors"
	"strings"
	"time"
)

var (
	// ErrNotFound is returned when a book does not exist or belongs to another user.
	ErrNotFound = errors.New("book not found")
	// ErrInvalidTransition is returned when a status change breaks the lifecycle rules.
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Status is the reading lifecycle of a book.
type Status string

const (
	StatusToRead   Status = "TO_READ"
	StatusReading  Status = "READING"
	StatusFinished Status = "FINISHED"
)

// Valid reports whether s is one of the known statuses.
func (s Status) Valid() bool {
	switch s {
	case StatusToRead, StatusReading, StatusFinished:
		return true
	}
	return false
}

// RatingStage identifies which of the three rating slots a value targets.
type RatingStage string

const (
	StageExpected RatingStage = "expected" // pre-reading expectation
	StageProgress RatingStage = "progress" // mid-read sentiment
	StageFinal    RatingStage = "final"    // post-completion score
)

func (s RatingStage) Valid() bool {
	switch s {
	case StageExpected, StageProgress, StageFinal:
		return true
	}
	return false
}

// Book represents a book in a user's library. Calendar dates are stored as
// YYYY-MM-DD strings; StartDate is set when reading begins and EndDate only
// while the book is FINISHED.
type Book struct {
	ID             string    `json:"id"`
	UserID         string    `json:"-"`
	Title          string    `json:"title"`
	Author         string    `json:"author,omitempty"`
	Publisher      string    `json:"publisher,omitempty"`
	ISBN           string    `json:"isbn,omitempty"`
	Description    string    `json:"description,omitempty"`
	PublishYear    string    `json:"publish_year,omitempty"`
	CoverURL       *string   `json:"cover_url,omitempty"`
	Status         Status    `json:"status"`
	TotalPages     *int      `json:"total_pages,omitempty"`
	PagesRead      int       `json:"pages_read"`
	ExpectedRating *float64  `json:"expected_rating,omitempty"`
	ProgressRating *float64  `json:"progress_rating,omitempty"`
	FinalRating    *float64  `json:"final_rating,omitempty"`
	OverallRating  *float64  `json:"overall_rating,omitempty"`
	Categories     []string  `json:"categories"`
	StartDate      *string   `json:"start_date,omitempty"`
	EndDate        *string   `json:"end_date,omitempty"`
	Review         string    `json:"review,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// Overall returns the mean of whichever of the three ratings are set,
// or nil when none are.
func Overall(expected, progress, final *float64) *float64 {
	var sum float64
	var n int
	for _, v := range []*float64{expected, progress, final} {
		if v != nil {
			sum += *v
			n++
		}
	}
	if n == 0 {
		return nil
	}
	avg := sum / float64(n)
	return &avg
}

// RecomputeOverall refreshes b.OverallRating from the current rating slots.
func (b *Book) RecomputeOverall() {
	b.OverallRating = Overall(b.ExpectedRating, b.ProgressRating, b.FinalRating)
}

// ClampPages caps PagesRead at TotalPages when the page count is known.
func (b *Book) ClampPages() {
	if b.PagesRead < 0 {
		b.PagesRead = 0
	}
	if b.TotalPages != nil && b.PagesRead > *b.TotalPages {
		b.PagesRead = *b.TotalPages
	}
}

// NormalizeCategories trims, title-cases, and de-duplicates category labels.
func NormalizeCategories(in []string) []string {
	seen := make(map[string]bool)
	var out []string
	for _, c := range in {
		c = titleCase(strings.TrimSpace(c))
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	return out
}

func titleCase(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r := []rune(w)
		r[0] = []rune(strings.ToUpper(string(r[0])))[0]
		words[i] = string(r)
	}
	return strings.Join(words, " ")
}

// Query defines filters and pagination for listing a user's books.
type Query struct {
	Status   Status
	Category string
	Q        string
	Sort     string
	Desc     bool
	Limit    int
	Offset   int
}
