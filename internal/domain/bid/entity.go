package bid

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var (
	ErrNotFound      = errors.New("bid not found")
	ErrInvalidAmount = errors.New("invalid bid amount")
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusAccepted Status = "accepted"
	StatusRejected Status = "rejected"
)

// Bid is a professional's priced offer against a job. Amount is integer
// minor currency units. Contact fields are a display cache captured at
// submission; BidderID is the authoritative identity.
type Bid struct {
	ID           uuid.UUID
	JobID        uuid.UUID
	BidderID     uuid.UUID
	ContactName  string
	ContactEmail string
	ContactPhone string
	Amount       int64
	Status       Status
	Message      string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// ResolveAmount picks the submitted amount: the direct figure when given,
// otherwise hourlyRate x estimatedHours. Exact integer arithmetic; both
// routes must yield the same stored value for equal inputs.
func ResolveAmount(direct, hourlyRate, estimatedHours int64) (int64, error) {
	if direct > 0 {
		return direct, nil
	}
	if hourlyRate > 0 && estimatedHours > 0 {
		return hourlyRate * estimatedHours, nil
	}
	return 0, ErrInvalidAmount
}
