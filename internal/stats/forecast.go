package stats

import (
	"math"
	"time"

	"booktrack/internal/book"
	"booktrack/internal/readinglog"
)

// Basis names which velocity source a forecast rests on.
type Basis string

const (
	BasisRecent  Basis = "recent"  // the book's own last three weeks
	BasisAverage Basis = "average" // the reader's overall pace
	BasisDefault Basis = "default" // no history at all
)

// defaultDailyPages is assumed for readers with no session history.
const defaultDailyPages = 20

// recentWindowDays bounds the per-book velocity sample.
const recentWindowDays = 21

// Forecast projects when a book in progress will be finished.
type Forecast struct {
	BookID     string  `json:"book_id"`
	Title      string  `json:"title"`
	Remaining  int     `json:"remaining_pages"`
	DailyPages float64 `json:"daily_pages"`
	DaysLeft   int     `json:"days_left"`
	FinishDate string  `json:"finish_date"`
	Basis      Basis   `json:"basis"`
}

// forecastFinish projects a single book. Velocity falls through three tiers:
// the book's own recent window, then the reader's average over all active
// days, then a flat default. Returns nil when the page count is unknown or
// nothing remains.
func forecastFinish(b book.Book, logs []readinglog.Log, avgPerActiveDay float64, now time.Time) *Forecast {
	if b.TotalPages == nil {
		return nil
	}
	remaining := *b.TotalPages - b.PagesRead
	if remaining <= 0 {
		return nil
	}

	f := &Forecast{BookID: b.ID, Title: b.Title, Remaining: remaining}

	cutoff := now.UTC().AddDate(0, 0, -recentWindowDays).Format(dayFormat)
	recentPages := 0
	activeDays := make(map[string]bool)
	for _, l := range logs {
		if l.BookID != b.ID || l.Date < cutoff {
			continue
		}
		recentPages += l.TotalRead
		activeDays[l.Date] = true
	}

	switch {
	case recentPages > 0:
		f.DailyPages = float64(recentPages) / float64(len(activeDays))
		f.Basis = BasisRecent
	case avgPerActiveDay > 0:
		f.DailyPages = avgPerActiveDay
		f.Basis = BasisAverage
	default:
		f.DailyPages = defaultDailyPages
		f.Basis = BasisDefault
	}

	f.DaysLeft = int(math.Ceil(float64(remaining) / f.DailyPages))
	f.FinishDate = now.UTC().AddDate(0, 0, f.DaysLeft).Format(dayFormat)
	return f
}

// forecasts projects every book currently being read.
func forecasts(books []book.Book, logs []readinglog.Log, now time.Time) []Forecast {
	totalPages := 0
	activeDays := make(map[string]bool)
	for _, l := range logs {
		if l.TotalRead > 0 {
			totalPages += l.TotalRead
			activeDays[l.Date] = true
		}
	}
	var avg float64
	if len(activeDays) > 0 {
		avg = float64(totalPages) / float64(len(activeDays))
	}

	var out []Forecast
	for _, b := range books {
		if b.Status != book.StatusReading {
			continue
		}
		if f := forecastFinish(b, logs, avg, now); f != nil {
			out = append(out, *f)
		}
	}
	return out
}
