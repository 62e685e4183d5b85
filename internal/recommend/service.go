package recommend

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
)

// ErrUpstream is returned when the external assistant cannot be reached.
var ErrUpstream = errors.New("recommendation service unavailable")

type Service struct {
	books   BookSource
	advisor Advisor
}

func NewService(books BookSource, advisor Advisor) *Service {
	return &Service{
		books:   books,
		advisor: advisor,
	}
}

// Options carries the user's ask for this recommendation round.
type Options struct {
	Mood       string
	Tone       string
	Minutes    int
	Preference string
}

// Recommendation bundles the derived profile, the ranked shelves, and the
// assistant's free-text advice.
type Recommendation struct {
	Profile Profile `json:"profile"`
	Ranking Ranking `json:"ranking"`
	Advice  string  `json:"advice,omitempty"`
}

func (s *Service) Recommend(ctx context.Context, userID string, opts Options) (Recommendation, error) {
	books, err := s.books.ListAll(ctx, userID)
	if err != nil {
		return Recommendation{}, err
	}

	profile := BuildProfile(books)
	ranking := RankCandidates(books, profile)
	rec := Recommendation{Profile: profile, Ranking: ranking}

	if s.advisor == nil {
		return rec, nil
	}

	candidates := append(append([]Candidate{}, ranking.MustRead...), ranking.Alternatives...)
	advice, err := s.advisor.Advise(ctx, AdviceRequest{
		Profile:    profile,
		Mood:       opts.Mood,
		Tone:       opts.Tone,
		Minutes:    opts.Minutes,
		Preference: opts.Preference,
		Candidates: candidates,
	})
	if err != nil {
		return Recommendation{}, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	rec.Advice = advice
	return rec, nil
}

// Lucky draws a single must-read pick.
func (s *Service) Lucky(ctx context.Context, userID string) (Candidate, error) {
	books, err := s.books.ListAll(ctx, userID)
	if err != nil {
		return Candidate{}, err
	}

	// the package-level source is locked, so concurrent picks are fine
	ranking := RankCandidates(books, BuildProfile(books))
	pick, ok := LuckyPick(ranking, rand.Intn)
	if !ok {
		return Candidate{}, ErrNoCandidates
	}
	return pick, nil
}

// ErrNoCandidates is returned when no shelf book is eligible for a pick.
var ErrNoCandidates = errors.New("no candidate books")
