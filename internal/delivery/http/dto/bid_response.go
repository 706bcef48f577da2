package dto

import (
	"time"

	"homepro/internal/domain/bid"

	"github.com/google/uuid"
)

type BidResponse struct {
	ID           uuid.UUID `json:"id"`
	JobID        uuid.UUID `json:"job_id"`
	BidderID     uuid.UUID `json:"bidder_id"`
	ContactName  string    `json:"contact_name"`
	ContactEmail string    `json:"contact_email"`
	ContactPhone string    `json:"contact_phone,omitempty"`
	Amount       int64     `json:"amount"`
	Status       string    `json:"status"`
	Message      string    `json:"message,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

func NewBidResponse(b bid.Bid) BidResponse {
	return BidResponse{
		ID:           b.ID,
		JobID:        b.JobID,
		BidderID:     b.BidderID,
		ContactName:  b.ContactName,
		ContactEmail: b.ContactEmail,
		ContactPhone: b.ContactPhone,
		Amount:       b.Amount,
		Status:       string(b.Status),
		Message:      b.Message,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

func NewBidListResponse(bids []bid.Bid) []BidResponse {
	out := make([]BidResponse, 0, len(bids))
	for _, b := range bids {
		out = append(out, NewBidResponse(b))
	}
	return out
}
