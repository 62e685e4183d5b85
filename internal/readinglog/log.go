package readinglog

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a log does not exist or belongs to another user.
	ErrNotFound = errors.New("reading log not found")
	// ErrInvalidRange is returned when a session's page range does not advance.
	ErrInvalidRange = errors.New("end page must be greater than start page")
)

// Log is a single reading session: a page range on a calendar day, with
// optional clock times. TotalRead is always EndPage minus StartPage.
type Log struct {
	ID        string    `json:"id"`
	UserID    string    `json:"-"`
	BookID    string    `json:"book_id"`
	Date      string    `json:"date"` // YYYY-MM-DD
	StartPage int       `json:"start_page"`
	EndPage   int       `json:"end_page"`
	TotalRead int       `json:"total_read"`
	StartTime *string   `json:"start_time,omitempty"` // HH:MM
	EndTime   *string   `json:"end_time,omitempty"`
	Minutes   *int      `json:"minutes,omitempty"`
	Notes     string    `json:"notes,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// sessionMinutes derives the session length from the clock times. Sessions
// that run past midnight wrap forward.
func sessionMinutes(start, end *string) *int {
	if start == nil || end == nil {
		return nil
	}
	from, err1 := time.Parse("15:04", *start)
	to, err2 := time.Parse("15:04", *end)
	if err1 != nil || err2 != nil {
		return nil
	}
	mins := int(to.Sub(from).Minutes())
	if mins < 0 {
		mins += 24 * 60
	}
	return &mins
}

// Query filters a user's session history.
type Query struct {
	BookID string
	From   string // YYYY-MM-DD, inclusive
	To     string // YYYY-MM-DD, inclusive
	Limit  int
	Offset int
}
