package recommend

import (
	"sort"

	"booktrack/internal/book"
)

// Candidate is a ranked pick from the user's own shelves.
type Candidate struct {
	BookID     string      `json:"book_id"`
	Title      string      `json:"title"`
	Author     string      `json:"author,omitempty"`
	Status     book.Status `json:"status"`
	TotalPages *int        `json:"total_pages,omitempty"`
	Categories []string    `json:"categories,omitempty"`
	Score      float64     `json:"score"`
}

// Ranking splits candidates into the headline picks and the runners-up.
type Ranking struct {
	MustRead     []Candidate `json:"must_read"`
	Alternatives []Candidate `json:"alternatives"`
}

// scoreBook weighs a shelf book against the reader profile. Books already in
// progress outrank waiting ones; favorite categories and a page count that
// fits the reader's pace pull a book up.
func scoreBook(b book.Book, p Profile) float64 {
	var score float64

	if b.Status == book.StatusReading {
		score += 8
	} else {
		score += 5
	}

	if r, ok := ratingOf(b); ok {
		score += r * 2
	}

	fav := make(map[string]bool, len(p.FavCategories))
	for _, c := range p.FavCategories {
		fav[c] = true
	}
	for _, c := range b.Categories {
		if fav[c] {
			score += 3
		}
	}

	// A comfortable length is between roughly four days and two weeks of
	// reading at the user's pace.
	if b.TotalPages != nil && p.AvgPagesPerDay > 0 {
		pages := float64(*b.TotalPages)
		if pages >= 4*p.AvgPagesPerDay && pages <= 12*p.AvgPagesPerDay {
			score += 4
		}
	}

	return score
}

// RankCandidates scores the TO_READ and READING shelves against the profile.
// The top three are the must-reads, the next three the alternatives. Pure.
func RankCandidates(books []book.Book, p Profile) Ranking {
	var scored []Candidate
	for _, b := range books {
		if b.Status != book.StatusToRead && b.Status != book.StatusReading {
			continue
		}
		scored = append(scored, Candidate{
			BookID:     b.ID,
			Title:      b.Title,
			Author:     b.Author,
			Status:     b.Status,
			TotalPages: b.TotalPages,
			Categories: b.Categories,
			Score:      scoreBook(b, p),
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })

	var r Ranking
	for i, c := range scored {
		switch {
		case i < 3:
			r.MustRead = append(r.MustRead, c)
		case i < 6:
			r.Alternatives = append(r.Alternatives, c)
		}
	}
	return r
}

// LuckyPick draws one of the must-reads at random. intn must be safe for
// concurrent use when the caller is; rand.Intn qualifies.
func LuckyPick(r Ranking, intn func(n int) int) (Candidate, bool) {
	if len(r.MustRead) == 0 {
		return Candidate{}, false
	}
	return r.MustRead[intn(len(r.MustRead))], true
}
