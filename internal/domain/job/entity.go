package job

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("job not found")

type Status string

const (
	StatusOpen       Status = "open"
	StatusInProgress Status = "in_progress"
	StatusCompleted  Status = "completed"
	StatusCancelled  Status = "cancelled"
)

// Valid reports enum membership. Any status is reachable from any other;
// the transition graph is deliberately not enforced.
func (s Status) Valid() bool {
	switch s {
	case StatusOpen, StatusInProgress, StatusCompleted, StatusCancelled:
		return true
	}
	return false
}

type BudgetType string

const (
	BudgetRange  BudgetType = "range"
	BudgetFixed  BudgetType = "fixed"
	BudgetHourly BudgetType = "hourly"
)

func (b BudgetType) Valid() bool {
	switch b {
	case BudgetRange, BudgetFixed, BudgetHourly:
		return true
	}
	return false
}

// Job is a homeowner-posted task seeking bids. Budgets are integer minor
// currency units. PosterName and PosterVerified are snapshotted from the
// poster's profile at creation and serve display only.
type Job struct {
	ID             uuid.UUID
	PosterID       uuid.UUID
	Title          string
	Description    string
	Category       string
	Location       string
	BudgetMin      *int64
	BudgetMax      *int64
	BudgetType     BudgetType
	Timeline       string
	Status         Status
	PosterName     string
	PosterVerified bool
	CreatedAt      time.Time
	UpdatedAt      time.Time
}
