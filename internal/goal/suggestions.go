package goal

import (
	"fmt"
	"math"
	"sort"
	"time"
)

// Suggestion is an advisory card derived from the evaluated goal set.
type Suggestion struct {
	Kind  string `json:"kind"` // success, risk, info
	Title string `json:"title"`
	Body  string `json:"body"`
}

// Suggestions derives advisory cards: an overall success reading, the
// riskiest active goal with the pace needed to rescue it, and the best
// performing active goal.
func Suggestions(evals []Evaluation, ov Overview, now time.Time) []Suggestion {
	if len(evals) == 0 {
		return []Suggestion{{
			Kind:  "info",
			Title: "No goals yet",
			Body:  "Start with something small, like 100 pages this week or one book this month. Small, reachable goals build the steadiest habit.",
		}}
	}

	var out []Suggestion

	resolved := ov.Completed + ov.Failed
	switch {
	case ov.SuccessRate >= 70:
		out = append(out, Suggestion{
			Kind:  "success",
			Title: "Strong track record",
			Body:  fmt.Sprintf("You have completed %d%% of your resolved goals. Keep this up and your reading habit is on very solid ground.", ov.SuccessRate),
		})
	case ov.SuccessRate <= 40 && resolved > 0:
		out = append(out, Suggestion{
			Kind:  "risk",
			Title: "Success rate is low",
			Body:  fmt.Sprintf("Goals are landing at %d%% right now. Splitting targets into smaller chunks, weekly instead of monthly, can rebuild momentum.", ov.SuccessRate),
		})
	default:
		out = append(out, Suggestion{
			Kind:  "info",
			Title: "A workable balance",
			Body:  "Completed and missed goals are roughly in balance. Holding the current level without adding more goals may be the right move.",
		})
	}

	var active []Evaluation
	for _, ev := range evals {
		if ev.Status == StatusActive {
			active = append(active, ev)
		}
	}

	if risky, ok := riskiest(active); ok {
		out = append(out, Suggestion{
			Kind:  "risk",
			Title: fmt.Sprintf("At-risk goal: %s", risky.Title),
			Body:  riskyBody(risky, now),
		})
	}

	if best, ok := bestPerforming(active); ok {
		out = append(out, Suggestion{
			Kind:  "success",
			Title: fmt.Sprintf("Ahead of schedule: %s", best.Title),
			Body: fmt.Sprintf("Progress %d%% against %d%% of the time elapsed. Spreading this rhythm across your other goals would lift the overall rate quickly.",
				best.Percent, best.TimePercent),
		})
	}

	return out
}

// riskiest picks the active goal whose clock leads its progress by more than
// 10 points, preferring the widest gap.
func riskiest(active []Evaluation) (Evaluation, bool) {
	var candidates []Evaluation
	for _, ev := range active {
		if ev.TimePercent > ev.Percent+10 {
			candidates = append(candidates, ev)
		}
	}
	if len(candidates) == 0 {
		return Evaluation{}, false
	}
	sort.Slice(candidates, func(i, j int) bool {
		return candidates[i].TimePercent-candidates[i].Percent > candidates[j].TimePercent-candidates[j].Percent
	})
	return candidates[0], true
}

func bestPerforming(active []Evaluation) (Evaluation, bool) {
	var best Evaluation
	found := false
	for _, ev := range active {
		if ev.Percent < ev.TimePercent {
			continue
		}
		if !found || ev.Percent > best.Percent {
			best = ev
			found = true
		}
	}
	return best, found
}

func riskyBody(ev Evaluation, now time.Time) string {
	head := fmt.Sprintf("%d%% of the time has passed but you are at %d%% of the target. ", ev.TimePercent, ev.Percent)

	end, ok := parseDay(ev.EndDate)
	daysLeft := 0
	if ok {
		daysLeft = int(math.Ceil(float64(end.Sub(now)) / float64(oneDay)))
	}
	if daysLeft <= 0 {
		return head + "The end date is here; softening the target or restarting the goal may be the honest fix."
	}

	remaining := ev.TargetCount - ev.Current
	if remaining < 0 {
		remaining = 0
	}
	perDay := float64(remaining) / float64(daysLeft)

	if ev.Type == TypeBookCount {
		return head + fmt.Sprintf("Catching up means finishing about %.2f books a day. Trimming the count or extending the window may be more realistic.", perDay)
	}
	return head + fmt.Sprintf("Catching up means about %d pages a day. Short morning or evening sessions could cover it.", int(math.Ceil(perDay)))
}
