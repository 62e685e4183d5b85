package recommend

import (
	"context"

	"booktrack/internal/book"
)

// BookSource supplies the user's full library.
type BookSource interface {
	ListAll(ctx context.Context, userID string) ([]book.Book, error)
}

// AdviceRequest is the payload handed to the external assistant.
type AdviceRequest struct {
	Profile    Profile     `json:"profile"`
	Mood       string      `json:"mood,omitempty"`
	Tone       string      `json:"tone,omitempty"`
	Minutes    int         `json:"available_minutes,omitempty"`
	Preference string      `json:"preference,omitempty"`
	Candidates []Candidate `json:"candidates"`
}

// Advisor turns a profile and candidate list into free-text advice.
// Implemented by the AI platform client; may be nil.
type Advisor interface {
	Advise(ctx context.Context, req AdviceRequest) (string, error)
}
