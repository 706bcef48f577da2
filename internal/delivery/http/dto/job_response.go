package dto

import (
	"time"

	"homepro/internal/domain/job"

	"github.com/google/uuid"
)

type JobResponse struct {
	ID             uuid.UUID `json:"id"`
	PosterID       uuid.UUID `json:"poster_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Category       string    `json:"category"`
	Location       string    `json:"location"`
	BudgetMin      *int64    `json:"budget_min"`
	BudgetMax      *int64    `json:"budget_max"`
	BudgetType     string    `json:"budget_type"`
	Timeline       string    `json:"timeline,omitempty"`
	Status         string    `json:"status"`
	PosterName     string    `json:"poster_name"`
	PosterVerified bool      `json:"poster_verified"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func NewJobResponse(j job.Job) JobResponse {
	return JobResponse{
		ID:             j.ID,
		PosterID:       j.PosterID,
		Title:          j.Title,
		Description:    j.Description,
		Category:       j.Category,
		Location:       j.Location,
		BudgetMin:      j.BudgetMin,
		BudgetMax:      j.BudgetMax,
		BudgetType:     string(j.BudgetType),
		Timeline:       j.Timeline,
		Status:         string(j.Status),
		PosterName:     j.PosterName,
		PosterVerified: j.PosterVerified,
		CreatedAt:      j.CreatedAt,
		UpdatedAt:      j.UpdatedAt,
	}
}

func NewJobListResponse(jobs []job.Job) []JobResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return out
}
