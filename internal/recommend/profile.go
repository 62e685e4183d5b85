package recommend

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"booktrack/internal/book"
)

// Profile condenses a user's library into the signals the ranking and the
// external assistant work from.
type Profile struct {
	ToRead         int      `json:"to_read"`
	Reading        int      `json:"reading"`
	Finished       int      `json:"finished"`
	PagesFinished  int      `json:"pages_finished"`
	AvgRating      float64  `json:"avg_rating"`
	FavCategories  []string `json:"fav_categories"`
	AvgPagesPerDay float64  `json:"avg_pages_per_day"`
	Speed          string   `json:"speed"` // relaxed, balanced, fast
	Summary        string   `json:"summary"`
	Samples        []string `json:"samples"`
}

const dayFormat = "2006-01-02"

// ratingOf prefers the derived overall rating, falling back to the final one.
func ratingOf(b book.Book) (float64, bool) {
	if b.OverallRating != nil {
		return *b.OverallRating, true
	}
	if b.FinalRating != nil {
		return *b.FinalRating, true
	}
	return 0, false
}

// BuildProfile derives the reader profile from the full library. Pure.
func BuildProfile(books []book.Book) Profile {
	var p Profile

	var ratingSum float64
	var rated int
	catCounts := make(map[string]int)

	var spanPages, spanDays int

	for _, b := range books {
		switch b.Status {
		case book.StatusToRead:
			p.ToRead++
		case book.StatusReading:
			p.Reading++
		case book.StatusFinished:
			p.Finished++
			if b.TotalPages != nil {
				p.PagesFinished += *b.TotalPages
			}
			if r, ok := ratingOf(b); ok {
				ratingSum += r
				rated++
			}
			if pages, days, ok := readingSpan(b); ok {
				// A span that implies an absurd daily rate is bad data
				// (backfilled same-day entries), not a signal.
				if float64(pages)/float64(days) < 1000 {
					spanPages += pages
					spanDays += days
				}
			}
		}

		if r, ok := ratingOf(b); ok && r >= 4 {
			for _, c := range b.Categories {
				catCounts[c]++
			}
		}
	}

	if rated > 0 {
		p.AvgRating = math.Round(ratingSum/float64(rated)*10) / 10
	}
	p.FavCategories = topCategories(catCounts, 5)

	if spanDays > 0 {
		p.AvgPagesPerDay = math.Round(float64(spanPages) / float64(spanDays))
	}

	switch {
	case p.AvgPagesPerDay < 10:
		p.Speed = "relaxed"
	case p.AvgPagesPerDay < 30:
		p.Speed = "balanced"
	default:
		p.Speed = "fast"
	}

	p.Summary = summaryFor(p)
	p.Samples = sampleLines(books, 10)
	return p
}

// readingSpan returns a finished book's page count over the days it took,
// minimum one day.
func readingSpan(b book.Book) (pages, days int, ok bool) {
	if b.TotalPages == nil || b.StartDate == nil || b.EndDate == nil {
		return 0, 0, false
	}
	start, err1 := time.Parse(dayFormat, *b.StartDate)
	end, err2 := time.Parse(dayFormat, *b.EndDate)
	if err1 != nil || err2 != nil || end.Before(start) {
		return 0, 0, false
	}
	days = int(end.Sub(start).Hours()/24) + 1
	return *b.TotalPages, days, true
}

func topCategories(counts map[string]int, n int) []string {
	type entry struct {
		name  string
		count int
	}
	entries := make([]entry, 0, len(counts))
	for name, count := range counts {
		entries = append(entries, entry{name, count})
	}
	sort.Slice(entries, func(i, j int) bool {
		if entries[i].count != entries[j].count {
			return entries[i].count > entries[j].count
		}
		return entries[i].name < entries[j].name
	})
	if len(entries) > n {
		entries = entries[:n]
	}
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.name
	}
	return out
}

func summaryFor(p Profile) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Library: %d finished, %d in progress, %d waiting.", p.Finished, p.Reading, p.ToRead)
	if p.AvgRating > 0 {
		fmt.Fprintf(&sb, " Average rating of finished books: %.1f/5.", p.AvgRating)
	}
	if len(p.FavCategories) > 0 {
		fmt.Fprintf(&sb, " Favorite categories: %s.", strings.Join(p.FavCategories, ", "))
	}
	if p.AvgPagesPerDay > 0 {
		fmt.Fprintf(&sb, " Reads about %.0f pages a day (%s reader).", p.AvgPagesPerDay, p.Speed)
	}
	return sb.String()
}

// sampleLines renders up to n one-line book descriptions for the assistant
// prompt, finished and rated books first.
func sampleLines(books []book.Book, n int) []string {
	sorted := make([]book.Book, len(books))
	copy(sorted, books)
	sort.SliceStable(sorted, func(i, j int) bool {
		ri, iok := ratingOf(sorted[i])
		rj, jok := ratingOf(sorted[j])
		if iok != jok {
			return iok
		}
		return ri > rj
	})

	var out []string
	for _, b := range sorted {
		if len(out) == n {
			break
		}
		line := b.Title
		if b.Author != "" {
			line += " by " + b.Author
		}
		if r, ok := ratingOf(b); ok {
			line += fmt.Sprintf(" (rated %.1f)", r)
		}
		if len(b.Categories) > 0 {
			line += " [" + strings.Join(b.Categories, ", ") + "]"
		}
		out = append(out, line)
	}
	return out
}
