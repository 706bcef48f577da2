package handler

import (
	"errors"

	"homepro/internal/delivery/http/dto"
	"homepro/internal/delivery/http/middleware"
	"homepro/internal/domain/bid"
	"homepro/internal/domain/job"
	"homepro/internal/pkg/response"
	"homepro/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type BidHandler struct {
	uc usecase.BidUsecase
}

type submitBidRequest struct {
	Amount         int64  `json:"amount"`
	HourlyRate     int64  `json:"hourly_rate"`
	EstimatedHours int64  `json:"estimated_hours"`
	ContactName    string `json:"contact_name"`
	ContactEmail   string `json:"contact_email"`
	ContactPhone   string `json:"contact_phone"`
	Message        string `json:"message"`
}

func NewBidHandler(uc usecase.BidUsecase) *BidHandler {
	return &BidHandler{uc: uc}
}

// RegisterJobRoutes mounts the per-job bid endpoints under /jobs/:id.
func (h *BidHandler) RegisterJobRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/:id/bids", h.Submit)
	r.Get("/:id/bids", h.ListForJob)
}

func (h *BidHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/mine", h.ListMine)
	r.Post("/:id/accept", h.Accept)
	r.Post("/:id/reject", h.Reject)
}

func (h *BidHandler) Submit(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	var req submitBidRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	b, err := h.uc.SubmitBid(c.Context(), userID, usecase.SubmitBidInput{
		JobID:          jobID,
		Amount:         req.Amount,
		HourlyRate:     req.HourlyRate,
		EstimatedHours: req.EstimatedHours,
		ContactName:    req.ContactName,
		ContactEmail:   req.ContactEmail,
		ContactPhone:   req.ContactPhone,
		Message:        req.Message,
	})
	if err != nil {
		return mapBidUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewBidResponse(b))
}

func (h *BidHandler) ListForJob(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job id", nil, err)
	}

	bids, err := h.uc.ListJobBids(c.Context(), userID, jobID)
	if err != nil {
		return mapBidUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBidListResponse(bids))
}

func (h *BidHandler) ListMine(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	bids, err := h.uc.ListMyBids(c.Context(), userID)
	if err != nil {
		return mapBidUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBidListResponse(bids))
}

func (h *BidHandler) Accept(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	bidID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid bid id", nil, err)
	}

	b, err := h.uc.AcceptBid(c.Context(), userID, bidID)
	if err != nil {
		return mapBidUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBidResponse(b))
}

func (h *BidHandler) Reject(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	bidID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid bid id", nil, err)
	}

	b, err := h.uc.RejectBid(c.Context(), userID, bidID)
	if err != nil {
		return mapBidUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewBidResponse(b))
}

func mapBidUsecaseError(err error) error {
	switch {
	case errors.Is(err, bid.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Bid not found", nil, err)
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrOwnJobBid):
		return middleware.NewAppError(fiber.StatusForbidden, "You cannot bid on your own job", nil, err)
	case errors.Is(err, usecase.ErrNotJobOwner):
		return middleware.NewAppError(fiber.StatusForbidden, "Only the job poster may do this", nil, err)
	case errors.Is(err, usecase.ErrRoleNotAllowed):
		return middleware.NewAppError(fiber.StatusForbidden, "Role does not allow this action", nil, err)
	case errors.Is(err, usecase.ErrDuplicateBid):
		return middleware.NewAppError(fiber.StatusConflict, "Bid already submitted for this job", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	case errors.Is(err, usecase.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
