package goal

import (
	"errors"
	"time"
)

var (
	// ErrNotFound is returned when a goal does not exist or belongs to another user.
	ErrNotFound = errors.New("goal not found")
	// ErrInvalidWindow is returned when a goal's end date is not after its start date.
	ErrInvalidWindow = errors.New("goal end date must be after start date")
)

// Type determines how progress is measured against the user's finished books.
type Type string

const (
	TypeBookCount Type = "BOOK_COUNT"
	TypePageCount Type = "PAGE_COUNT"
)

func (t Type) Valid() bool {
	return t == TypeBookCount || t == TypePageCount
}

// Period is an advisory label used only to default the end date on the goal
// form; it plays no part in evaluation.
type Period string

const (
	PeriodDaily   Period = "DAILY"
	PeriodWeekly  Period = "WEEKLY"
	PeriodMonthly Period = "MONTHLY"
	PeriodYearly  Period = "YEARLY"
)

// Status is derived at read time and never persisted.
type Status string

const (
	StatusActive    Status = "ACTIVE"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Risk compares progress against elapsed time for an active goal.
type Risk string

const (
	RiskGood   Risk = "GOOD"
	RiskNormal Risk = "NORMAL"
	RiskHigh   Risk = "HIGH"
)

// Goal is a reading target over a calendar window. Only authored fields are
// stored; status, risk and percentages are computed on every read.
type Goal struct {
	ID          string    `json:"id"`
	UserID      string    `json:"-"`
	Title       string    `json:"title"`
	Type        Type      `json:"type"`
	TargetCount int       `json:"target_count"`
	StartDate   string    `json:"start_date"` // YYYY-MM-DD
	EndDate     string    `json:"end_date"`   // YYYY-MM-DD
	PeriodType  Period    `json:"period_type,omitempty"`
	BookIDs     []string  `json:"book_ids,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}
