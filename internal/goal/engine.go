package goal

import (
	"fmt"
	"math"
	"time"

	"booktrack/internal/book"
)

const oneDay = 24 * time.Hour

// Pace describes the rate still required to hit the target, computed from
// remaining work over remaining days.
type Pace struct {
	Remaining    int     `json:"remaining"`
	DaysLeft     int     `json:"days_left"`
	PagesPerDay  int     `json:"pages_per_day,omitempty"`
	BooksPerWeek float64 `json:"books_per_week,omitempty"`
	Text         string  `json:"text,omitempty"`
}

// Evaluation is the derived view of a goal at a given instant.
type Evaluation struct {
	Goal
	Current     int    `json:"current"`
	Percent     int    `json:"percent"`
	TimePercent int    `json:"time_percent"`
	Status      Status `json:"status"`
	Risk        Risk   `json:"risk,omitempty"`
	Expired     bool   `json:"expired"`
	Pace        Pace   `json:"pace"`
	Note        string `json:"note"`
}

// parseDay parses a YYYY-MM-DD string into a midnight UTC instant.
func parseDay(s string) (time.Time, bool) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

func clampPercent(v float64) int {
	p := int(math.Round(v))
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}
	return p
}

// qualifies reports whether b counts toward a goal window: FINISHED, with an
// end date inside [start, end] as calendar days, and inside the goal's book
// scope when one is set.
func qualifies(b book.Book, start, end time.Time, scope map[string]bool) bool {
	if b.Status != book.StatusFinished || b.EndDate == nil {
		return false
	}
	if len(scope) > 0 && !scope[b.ID] {
		return false
	}
	done, ok := parseDay(*b.EndDate)
	if !ok {
		return false
	}
	return !done.Before(start) && !done.After(end)
}

// Evaluate derives the full progress view of a single goal against the
// user's books at instant now. Pure: no I/O, no clock reads, no mutation.
func Evaluate(g Goal, books []book.Book, now time.Time) Evaluation {
	ev := Evaluation{Goal: g, Risk: RiskNormal}

	start, startOK := parseDay(g.StartDate)
	end, endOK := parseDay(g.EndDate)
	if !startOK || !endOK {
		ev.Status = StatusActive
		return ev
	}

	scope := make(map[string]bool, len(g.BookIDs))
	for _, id := range g.BookIDs {
		scope[id] = true
	}

	for _, b := range books {
		if !qualifies(b, start, end, scope) {
			continue
		}
		switch g.Type {
		case TypePageCount:
			if b.TotalPages != nil {
				ev.Current += *b.TotalPages
			}
		default:
			ev.Current++
		}
	}

	if g.TargetCount > 0 {
		ev.Percent = clampPercent(float64(ev.Current) / float64(g.TargetCount) * 100)
	}

	totalDuration := end.Sub(start)
	elapsed := now.Sub(start)
	if elapsed < 0 {
		elapsed = 0
	}
	if elapsed > totalDuration {
		elapsed = totalDuration
	}
	if totalDuration > 0 {
		ev.TimePercent = clampPercent(float64(elapsed) / float64(totalDuration) * 100)
	}

	ev.Expired = now.After(end)

	switch {
	case ev.Current >= g.TargetCount:
		ev.Status = StatusCompleted
	case ev.Expired:
		ev.Status = StatusFailed
	default:
		ev.Status = StatusActive
	}

	if ev.Status == StatusActive {
		switch {
		case ev.Percent < ev.TimePercent-10:
			ev.Risk = RiskHigh
		case ev.Percent >= ev.TimePercent:
			ev.Risk = RiskGood
		default:
			ev.Risk = RiskNormal
		}
	} else {
		ev.Risk = ""
	}

	ev.Pace = paceFor(g, ev.Current, end, now)
	ev.Note = noteFor(ev)

	return ev
}

// paceFor reports the rate still required: remaining work spread over the
// days left in the window. A met target yields a zero pace.
func paceFor(g Goal, current int, end, now time.Time) Pace {
	remaining := g.TargetCount - current
	if remaining < 0 {
		remaining = 0
	}

	daysLeft := int(math.Ceil(float64(end.Sub(now)) / float64(oneDay)))
	if daysLeft < 0 {
		daysLeft = 0
	}

	p := Pace{Remaining: remaining, DaysLeft: daysLeft}
	if remaining == 0 {
		return p
	}

	denom := daysLeft
	if denom < 1 {
		denom = 1
	}

	if g.Type == TypePageCount {
		p.PagesPerDay = int(math.Ceil(float64(remaining) / float64(denom)))
		p.Text = fmt.Sprintf("You need to read about %d pages a day to reach this goal.", p.PagesPerDay)
	} else {
		perWeek := float64(remaining) * 7 / float64(denom)
		if perWeek < 0.1 {
			perWeek = 0.1
		}
		p.BooksPerWeek = math.Round(perWeek*10) / 10
		p.Text = fmt.Sprintf("You need to finish about %.1f books a week to reach this goal.", p.BooksPerWeek)
	}
	return p
}

func noteFor(ev Evaluation) string {
	switch ev.Status {
	case StatusCompleted:
		if !ev.Expired && ev.Percent >= 100 {
			return "You completed this goal on time. Keep the rhythm and bigger goals are within reach."
		}
		return "Goal completed. It was a close one; consider giving the next goal a little more room."
	case StatusFailed:
		return "This goal's window has passed. Revisit the target size and dates for a more realistic plan."
	}

	switch ev.Risk {
	case RiskHigh:
		return "You are behind the clock on this one. Short daily reading blocks can still close the gap."
	case RiskGood:
		return "You are ahead of schedule. At this pace the goal is comfortably yours."
	default:
		return "Progress and the timeline are tracking closely. Steady reading will see this one through."
	}
}

// Overview aggregates a set of evaluations.
type Overview struct {
	Total       int    `json:"total"`
	Completed   int    `json:"completed"`
	Failed      int    `json:"failed"`
	Active      int    `json:"active"`
	SuccessRate int    `json:"success_rate"`
	Ahead       int    `json:"ahead"`
	Behind      int    `json:"behind"`
	Summary     string `json:"summary"`
}

// Summarize folds evaluations into headline counts and a success rate over
// the goals that have resolved either way.
func Summarize(evals []Evaluation) Overview {
	var ov Overview
	ov.Total = len(evals)

	for _, ev := range evals {
		switch ev.Status {
		case StatusCompleted:
			ov.Completed++
		case StatusFailed:
			ov.Failed++
		case StatusActive:
			ov.Active++
			switch ev.Risk {
			case RiskGood:
				ov.Ahead++
			case RiskHigh:
				ov.Behind++
			}
		}
	}

	if ov.Total > 0 {
		resolved := ov.Completed + ov.Failed
		if resolved < 1 {
			resolved = 1
		}
		ov.SuccessRate = clampPercent(float64(ov.Completed) / float64(resolved) * 100)
	}

	ov.Summary = summaryFor(ov)
	return ov
}

func summaryFor(ov Overview) string {
	switch {
	case ov.Total == 0:
		return "No goals defined yet. A small monthly goal is a good first step."
	case ov.Active == 0 && ov.Completed > 0:
		return "All defined goals are wrapped up. Time to set fresh targets for a new period."
	case ov.Behind > 0 && ov.Ahead > 0:
		return fmt.Sprintf("You are behind schedule on %d goal(s) and ahead on %d. Small daily reading blocks can restore the balance.", ov.Behind, ov.Ahead)
	case ov.Behind > 0:
		return fmt.Sprintf("You are running behind on %d active goal(s). A modest bump in daily reading time will help you catch up.", ov.Behind)
	case ov.Ahead > 0:
		return fmt.Sprintf("You are ahead of the timeline on %d active goal(s). Keeping this pace will lift your success rate further.", ov.Ahead)
	default:
		return "Your goals are tracking the timeline nicely. Stay on plan and they are well within reach."
	}
}
