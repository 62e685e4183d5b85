package goal

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booktrack/internal/book"
)

func day(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

func finishedBook(id, endDate string, totalPages int) book.Book {
	pages := totalPages
	end := endDate
	return book.Book{
		ID:         id,
		Status:     book.StatusFinished,
		EndDate:    &end,
		TotalPages: &pages,
	}
}

func TestEvaluate_BookCountWindow(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 5,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}

	books := []book.Book{
		finishedBook("b1", "2025-01-05", 200),
		finishedBook("b2", "2025-01-15", 300),
		finishedBook("b3", "2025-01-31", 150), // boundary, inclusive
		finishedBook("b4", "2024-12-31", 400), // outside
		finishedBook("b5", "2025-02-01", 250), // outside
	}

	ev := Evaluate(g, books, day("2025-01-20"))

	assert.Equal(t, 3, ev.Current)
	assert.Equal(t, 60, ev.Percent)
	assert.Equal(t, StatusActive, ev.Status)
}

func TestEvaluate_PageCountSumsTotalPages(t *testing.T) {
	g := Goal{
		Type:        TypePageCount,
		TargetCount: 600,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}

	noPages := "2025-01-12"
	books := []book.Book{
		finishedBook("b1", "2025-01-05", 200),
		finishedBook("b2", "2025-01-15", 100),
		{ID: "b3", Status: book.StatusFinished, EndDate: &noPages}, // missing page count counts as 0
	}

	ev := Evaluate(g, books, day("2025-01-20"))

	assert.Equal(t, 300, ev.Current)
	assert.Equal(t, 50, ev.Percent)
}

func TestEvaluate_ExactCompletionBoundary(t *testing.T) {
	g := Goal{
		Type:        TypePageCount,
		TargetCount: 300,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}
	books := []book.Book{finishedBook("b1", "2025-01-10", 300)}

	// Completed regardless of where now sits relative to the window end.
	for _, now := range []time.Time{day("2025-01-15"), day("2025-03-01")} {
		ev := Evaluate(g, books, now)
		assert.Equal(t, 100, ev.Percent)
		assert.Equal(t, StatusCompleted, ev.Status)
	}
}

func TestEvaluate_ZeroTarget(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 0,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}

	assert.NotPanics(t, func() {
		ev := Evaluate(g, nil, day("2025-01-15"))
		assert.Equal(t, 0, ev.Percent)
	})
}

func TestEvaluate_RiskClassification(t *testing.T) {
	// Window of 10 days evaluated halfway: timePercent = 50.
	newGoal := func(target int) Goal {
		return Goal{
			Type:        TypePageCount,
			TargetCount: target,
			StartDate:   "2025-03-01",
			EndDate:     "2025-03-11",
		}
	}
	now := day("2025-03-06")

	tests := []struct {
		name     string
		pages    int
		target   int
		percent  int
		wantRisk Risk
	}{
		{name: "lagging more than 10 points", pages: 30, target: 100, percent: 30, wantRisk: RiskHigh},
		{name: "between", pages: 45, target: 100, percent: 45, wantRisk: RiskNormal},
		{name: "ahead of the clock", pages: 60, target: 100, percent: 60, wantRisk: RiskGood},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			books := []book.Book{finishedBook("b1", "2025-03-02", tt.pages)}
			ev := Evaluate(newGoal(tt.target), books, now)

			require.Equal(t, StatusActive, ev.Status)
			assert.Equal(t, 50, ev.TimePercent)
			assert.Equal(t, tt.percent, ev.Percent)
			assert.Equal(t, tt.wantRisk, ev.Risk)
		})
	}
}

func TestEvaluate_ExpiredGoalFails(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 3,
		StartDate:   "2024-11-01",
		EndDate:     "2024-11-30",
	}
	books := []book.Book{finishedBook("b1", "2024-11-10", 200)}

	ev := Evaluate(g, books, day("2025-01-15"))

	assert.Equal(t, StatusFailed, ev.Status)
	assert.True(t, ev.Expired)
	assert.Equal(t, 100, ev.TimePercent)
	assert.Empty(t, ev.Risk)
}

func TestEvaluate_BookScopedGoal(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 2,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
		BookIDs:     []string{"b1", "b2"},
	}

	books := []book.Book{
		finishedBook("b1", "2025-01-05", 200),
		finishedBook("b3", "2025-01-10", 300), // finished in window but out of scope
	}

	ev := Evaluate(g, books, day("2025-01-20"))
	assert.Equal(t, 1, ev.Current)
	assert.Equal(t, 50, ev.Percent)

	// None of the scoped books finished: current 0, fails once expired.
	g.BookIDs = []string{"b9"}
	ev = Evaluate(g, books, day("2025-02-15"))
	assert.Equal(t, 0, ev.Current)
	assert.Equal(t, 0, ev.Percent)
	assert.Equal(t, StatusFailed, ev.Status)
}

func TestEvaluate_Idempotent(t *testing.T) {
	g := Goal{
		Type:        TypePageCount,
		TargetCount: 500,
		StartDate:   "2025-01-01",
		EndDate:     "2025-02-01",
	}
	books := []book.Book{
		finishedBook("b1", "2025-01-05", 120),
		finishedBook("b2", "2025-01-20", 310),
	}
	now := day("2025-01-25")

	first := Evaluate(g, books, now)
	second := Evaluate(g, books, now)

	assert.Equal(t, first, second)
}

func TestEvaluate_TimePercentMonotonic(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 10,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-21",
	}

	prev := -1
	for d := 0; d < 30; d++ {
		now := day("2025-01-01").AddDate(0, 0, d)
		ev := Evaluate(g, nil, now)
		require.GreaterOrEqual(t, ev.TimePercent, prev, "timePercent regressed at day %d", d)
		prev = ev.TimePercent
	}
}

func TestEvaluate_PercentGrowsWithQualifyingBooks(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 4,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-31",
	}
	now := day("2025-01-15")

	var books []book.Book
	prev := 0
	for i := 0; i < 5; i++ {
		books = append(books, finishedBook(string(rune('a'+i)), "2025-01-10", 100))
		ev := Evaluate(g, books, now)
		require.GreaterOrEqual(t, ev.Percent, prev)
		prev = ev.Percent
	}
	assert.Equal(t, 100, prev)
}

func TestEvaluate_MalformedWindowDegradesSafely(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 3,
		StartDate:   "2025-02-01",
		EndDate:     "2025-01-01", // end before start; rejected at creation, tolerated here
	}

	assert.NotPanics(t, func() {
		ev := Evaluate(g, nil, day("2025-01-15"))
		assert.Equal(t, 0, ev.TimePercent)
	})
}

func TestPaceFor_RemainingWorkSemantics(t *testing.T) {
	// 10 days left, 150 of 300 pages done: 15 pages/day to catch up.
	g := Goal{
		Type:        TypePageCount,
		TargetCount: 300,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-21",
	}
	books := []book.Book{finishedBook("b1", "2025-01-05", 150)}

	ev := Evaluate(g, books, day("2025-01-11"))
	assert.Equal(t, 150, ev.Pace.Remaining)
	assert.Equal(t, 10, ev.Pace.DaysLeft)
	assert.Equal(t, 15, ev.Pace.PagesPerDay)

	// Met target: zero pace.
	books = append(books, finishedBook("b2", "2025-01-06", 150))
	ev = Evaluate(g, books, day("2025-01-11"))
	assert.Equal(t, 0, ev.Pace.Remaining)
	assert.Equal(t, 0, ev.Pace.PagesPerDay)
	assert.Empty(t, ev.Pace.Text)
}

func TestPaceFor_BookCountWeeklyRate(t *testing.T) {
	g := Goal{
		Type:        TypeBookCount,
		TargetCount: 2,
		StartDate:   "2025-01-01",
		EndDate:     "2025-01-15",
	}

	ev := Evaluate(g, nil, day("2025-01-01"))
	assert.Equal(t, 2, ev.Pace.Remaining)
	assert.Equal(t, 14, ev.Pace.DaysLeft)
	assert.InDelta(t, 1.0, ev.Pace.BooksPerWeek, 0.001)
}

func TestSummarize(t *testing.T) {
	evals := []Evaluation{
		{Status: StatusCompleted},
		{Status: StatusCompleted},
		{Status: StatusFailed},
		{Status: StatusActive, Risk: RiskGood},
		{Status: StatusActive, Risk: RiskHigh},
		{Status: StatusActive, Risk: RiskNormal},
	}

	ov := Summarize(evals)

	assert.Equal(t, 6, ov.Total)
	assert.Equal(t, 2, ov.Completed)
	assert.Equal(t, 1, ov.Failed)
	assert.Equal(t, 3, ov.Active)
	assert.Equal(t, 67, ov.SuccessRate)
	assert.Equal(t, 1, ov.Ahead)
	assert.Equal(t, 1, ov.Behind)
	assert.NotEmpty(t, ov.Summary)
}

func TestSummarize_Empty(t *testing.T) {
	ov := Summarize(nil)
	assert.Equal(t, 0, ov.Total)
	assert.Equal(t, 0, ov.SuccessRate)
	assert.NotEmpty(t, ov.Summary)
}
