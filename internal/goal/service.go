package goal

import (
	"context"
	"sort"
	"time"
)

// Service wires goal storage to the evaluation engine. Evaluation is always
// recomputed from current rows; nothing derived is written back.
type Service struct {
	repo  Repository
	books BookSource
	now   func() time.Time
}

func NewService(repo Repository, books BookSource) *Service {
	return &Service{repo: repo, books: books, now: time.Now}
}

// CreateParams carries the goal form submission.
type CreateParams struct {
	Title       string
	Type        Type
	TargetCount int
	StartDate   string
	EndDate     string
	PeriodType  Period
	BookIDs     []string
}

func (s *Service) Create(ctx context.Context, userID string, p CreateParams) (Goal, error) {
	g := Goal{
		UserID:      userID,
		Title:       p.Title,
		Type:        p.Type,
		TargetCount: p.TargetCount,
		StartDate:   p.StartDate,
		EndDate:     p.EndDate,
		PeriodType:  p.PeriodType,
		BookIDs:     p.BookIDs,
	}

	if g.StartDate == "" {
		g.StartDate = s.now().UTC().Format("2006-01-02")
	}
	if g.EndDate == "" {
		g.EndDate = defaultEndDate(g.StartDate, g.PeriodType)
	}

	start, startOK := parseDay(g.StartDate)
	end, endOK := parseDay(g.EndDate)
	if !startOK || !endOK || !end.After(start) {
		return Goal{}, ErrInvalidWindow
	}

	if err := s.repo.Create(ctx, &g); err != nil {
		return Goal{}, err
	}
	return g, nil
}

// defaultEndDate mirrors the goal form's period picker: the period label only
// suggests an end date, it never affects evaluation.
func defaultEndDate(startDate string, period Period) string {
	start, ok := parseDay(startDate)
	if !ok {
		return ""
	}
	var end time.Time
	switch period {
	case PeriodDaily:
		end = start.AddDate(0, 0, 1)
	case PeriodWeekly:
		end = start.AddDate(0, 0, 6)
	case PeriodYearly:
		end = start.AddDate(1, 0, -1)
	default: // monthly
		end = start.AddDate(0, 1, -1)
	}
	return end.Format("2006-01-02")
}

// ListEvaluated returns the user's goals, each evaluated against the current
// library, ordered by end date.
func (s *Service) ListEvaluated(ctx context.Context, userID string) ([]Evaluation, error) {
	goals, err := s.repo.ListByUser(ctx, userID)
	if err != nil {
		return nil, err
	}
	books, err := s.books.ListAll(ctx, userID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	evals := make([]Evaluation, 0, len(goals))
	for _, g := range goals {
		evals = append(evals, Evaluate(g, books, now))
	}

	sort.Slice(evals, func(i, j int) bool {
		return evals[i].EndDate < evals[j].EndDate
	})
	return evals, nil
}

// GetEvaluated returns one goal evaluated against the current library.
func (s *Service) GetEvaluated(ctx context.Context, userID, id string) (Evaluation, error) {
	g, err := s.repo.GetByID(ctx, userID, id)
	if err != nil {
		return Evaluation{}, err
	}
	books, err := s.books.ListAll(ctx, userID)
	if err != nil {
		return Evaluation{}, err
	}
	return Evaluate(g, books, s.now()), nil
}

// OverviewResult bundles the aggregate view with advisory suggestions.
type OverviewResult struct {
	Overview    Overview     `json:"overview"`
	Goals       []Evaluation `json:"goals"`
	Suggestions []Suggestion `json:"suggestions"`
}

func (s *Service) OverviewFor(ctx context.Context, userID string) (OverviewResult, error) {
	evals, err := s.ListEvaluated(ctx, userID)
	if err != nil {
		return OverviewResult{}, err
	}

	ov := Summarize(evals)
	return OverviewResult{
		Overview:    ov,
		Goals:       evals,
		Suggestions: Suggestions(evals, ov, s.now()),
	}, nil
}

func (s *Service) Delete(ctx context.Context, userID, id string) error {
	return s.repo.Delete(ctx, userID, id)
}
