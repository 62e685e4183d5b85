package stats

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktrack/internal/book"
	"booktrack/internal/readinglog"
)

func day(s string) time.Time {
	t, err := time.Parse(dayFormat, s)
	if err != nil {
		panic(err)
	}
	return t
}

func intPtr(v int) *int { return &v }

func logOn(bookID, date string, pages int, minutes *int) readinglog.Log {
	return readinglog.Log{BookID: bookID, Date: date, TotalRead: pages, Minutes: minutes}
}

func TestPeriodBounds(t *testing.T) {
	tests := []struct {
		name      string
		view      View
		ref       string
		wantStart string
		wantEnd   string
	}{
		{name: "week starts on Monday", view: ViewWeek, ref: "2025-06-12", wantStart: "2025-06-09", wantEnd: "2025-06-15"},
		{name: "week when ref is a Monday", view: ViewWeek, ref: "2025-06-09", wantStart: "2025-06-09", wantEnd: "2025-06-15"},
		{name: "week when ref is a Sunday", view: ViewWeek, ref: "2025-06-15", wantStart: "2025-06-09", wantEnd: "2025-06-15"},
		{name: "month", view: ViewMonth, ref: "2025-02-14", wantStart: "2025-02-01", wantEnd: "2025-02-28"},
		{name: "year", view: ViewYear, ref: "2025-06-12", wantStart: "2025-01-01", wantEnd: "2025-12-31"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			start, end := periodBounds(tt.view, day(tt.ref))
			assert.Equal(t, tt.wantStart, start.Format(dayFormat))
			assert.Equal(t, tt.wantEnd, end.Format(dayFormat))
		})
	}
}

func TestCompute_TotalsAndChart(t *testing.T) {
	logs := []readinglog.Log{
		logOn("b1", "2025-06-09", 30, intPtr(45)),
		logOn("b1", "2025-06-10", 20, intPtr(30)),
		logOn("b2", "2025-06-10", 10, nil),
		logOn("b1", "2025-05-01", 100, intPtr(60)), // outside the week
	}

	now := day("2025-06-10")
	res := Compute(nil, logs, ViewWeek, now, now)

	assert.Equal(t, "2025-06-09", res.PeriodStart)
	assert.Equal(t, "2025-06-15", res.PeriodEnd)

	assert.Equal(t, 160, res.Totals.Pages)
	assert.Equal(t, 135, res.Totals.Minutes)
	assert.Equal(t, 60, res.Totals.PeriodPages)
	assert.Equal(t, 75, res.Totals.PeriodMinutes)
	// 160 pages over 2.25 hours
	assert.Equal(t, 71, res.Totals.PagesPerHour)

	require.Len(t, res.Chart, 7)
	assert.Equal(t, 30, res.Chart[0].Pages)
	assert.Equal(t, 30, res.Chart[1].Pages)
	assert.Equal(t, 0, res.Chart[2].Pages)

	assert.Equal(t, 30, res.Today.Pages)
	assert.Equal(t, 30, res.Yesterday.Pages)
}

func TestCompute_InvalidViewFallsBackToWeek(t *testing.T) {
	now := day("2025-06-10")
	res := Compute(nil, nil, View("decade"), now, now)
	assert.Equal(t, ViewWeek, res.View)
}

func TestStreaks(t *testing.T) {
	now := day("2025-06-10")

	tests := []struct {
		name        string
		days        []string
		wantCurrent int
		wantLongest int
	}{
		{name: "no history", days: nil, wantCurrent: 0, wantLongest: 0},
		{name: "single day today", days: []string{"2025-06-10"}, wantCurrent: 1, wantLongest: 1},
		{
			name:        "run ending today",
			days:        []string{"2025-06-08", "2025-06-09", "2025-06-10"},
			wantCurrent: 3, wantLongest: 3,
		},
		{
			name:        "yesterday anchor keeps the streak alive",
			days:        []string{"2025-06-08", "2025-06-09"},
			wantCurrent: 2, wantLongest: 2,
		},
		{
			name:        "gap before yesterday breaks it",
			days:        []string{"2025-06-05", "2025-06-06"},
			wantCurrent: 0, wantLongest: 2,
		},
		{
			name:        "longest run is in the past",
			days:        []string{"2025-05-01", "2025-05-02", "2025-05-03", "2025-05-04", "2025-06-10"},
			wantCurrent: 1, wantLongest: 4,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pages := make(map[string]int)
			for _, d := range tt.days {
				pages[d] = 10
			}
			st := streaks(pages, now)
			assert.Equal(t, tt.wantCurrent, st.Current, "current")
			assert.Equal(t, tt.wantLongest, st.Longest, "longest")
		})
	}
}

func TestCompute_StatusSummary(t *testing.T) {
	books := []book.Book{
		{Status: book.StatusToRead},
		{Status: book.StatusReading, PagesRead: 120},
		{Status: book.StatusReading, PagesRead: 40},
		{Status: book.StatusFinished, PagesRead: 300},
	}

	now := day("2025-06-10")
	res := Compute(books, nil, ViewWeek, now, now)

	require.Len(t, res.Statuses, 3)
	assert.Equal(t, StatusLine{Status: book.StatusToRead, Books: 1}, res.Statuses[0])
	assert.Equal(t, StatusLine{Status: book.StatusReading, Books: 2, Pages: 160}, res.Statuses[1])
	assert.Equal(t, StatusLine{Status: book.StatusFinished, Books: 1, Pages: 300}, res.Statuses[2])
}

func TestCompute_Last7Averages(t *testing.T) {
	logs := []readinglog.Log{
		logOn("b1", "2025-06-10", 70, intPtr(70)),
		logOn("b1", "2025-06-05", 70, nil),
		logOn("b1", "2025-06-03", 700, nil), // 8 days back, excluded
	}

	now := day("2025-06-10")
	res := Compute(nil, logs, ViewWeek, now, now)

	assert.InDelta(t, 20.0, res.Last7.Pages, 0.001)
	assert.InDelta(t, 10.0, res.Last7.Minutes, 0.001)
}
