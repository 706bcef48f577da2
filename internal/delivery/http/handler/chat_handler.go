package handler

import (
	"errors"

	"homepro/internal/delivery/http/dto"
	"homepro/internal/delivery/http/middleware"
	"homepro/internal/domain/chat"
	"homepro/internal/domain/job"
	"homepro/internal/pkg/response"
	"homepro/internal/usecase"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"
)

type ChatHandler struct {
	uc usecase.ChatUsecase
}

type ensureConversationRequest struct {
	JobID          uuid.UUID `json:"job_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
}

type sendMessageRequest struct {
	Content string `json:"content"`
}

func NewChatHandler(uc usecase.ChatUsecase) *ChatHandler {
	return &ChatHandler{uc: uc}
}

func (h *ChatHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Post("/", h.EnsureConversation)
	r.Get("/", h.ListConversations)
	r.Get("/unread-count", h.UnreadCount)
	r.Get("/unread-total", h.UnreadTotal)
	r.Get("/:id/messages", h.ListMessages)
	r.Post("/:id/messages", h.SendMessage)
	r.Post("/:id/read", h.MarkRead)
}

// EnsureConversation opens (or returns) the thread for a job and
// professional. Conversations exist only once someone actually starts a chat.
func (h *ChatHandler) EnsureConversation(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req ensureConversationRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}
	if req.JobID == uuid.Nil || req.ProfessionalID == uuid.Nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "job_id and professional_id are required", nil, nil)
	}

	conv, err := h.uc.EnsureConversation(c.Context(), userID, req.JobID, req.ProfessionalID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationResponse(conv))
}

func (h *ChatHandler) ListConversations(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListConversations(c.Context(), userID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewConversationSummaryListResponse(items))
}

// UnreadCount reports the unread badge for one (job, poster, professional)
// triple. A conversation that does not exist yet counts as zero.
func (h *ChatHandler) UnreadCount(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	jobID, err := uuid.Parse(c.Query("job_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid job_id", nil, err)
	}
	posterID, err := uuid.Parse(c.Query("poster_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid poster_id", nil, err)
	}
	professionalID, err := uuid.Parse(c.Query("professional_id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid professional_id", nil, err)
	}

	n, err := h.uc.UnreadCount(c.Context(), userID, usecase.UnreadCountParams{
		JobID:          jobID,
		PosterID:       posterID,
		ProfessionalID: professionalID,
	})
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int{"unread_count": n})
}

func (h *ChatHandler) UnreadTotal(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	n, err := h.uc.UnreadTotal(c.Context(), userID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int{"unread_total": n})
}

func (h *ChatHandler) ListMessages(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid conversation id", nil, err)
	}

	msgs, err := h.uc.ListMessages(c.Context(), userID, convID,
		parseQueryInt(c, "limit", 50), parseQueryInt(c, "offset", 0))
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewMessageListResponse(msgs))
}

func (h *ChatHandler) SendMessage(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid conversation id", nil, err)
	}

	var req sendMessageRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	m, err := h.uc.SendMessage(c.Context(), userID, convID, req.Content)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, response.MessageCreated, dto.NewMessageResponse(m))
}

func (h *ChatHandler) MarkRead(c fiber.Ctx) error {
	userID, ok := middleware.UserIDFromCtx(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	convID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Invalid conversation id", nil, err)
	}

	n, err := h.uc.MarkRead(c.Context(), userID, convID)
	if err != nil {
		return mapChatUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, map[string]int64{"marked_read": n})
}

func mapChatUsecaseError(err error) error {
	switch {
	case errors.Is(err, chat.ErrConversationNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Conversation not found", nil, err)
	case errors.Is(err, job.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, usecase.ErrNotParticipant):
		return middleware.NewAppError(fiber.StatusForbidden, "Not a conversation participant", nil, err)
	case errors.Is(err, usecase.ErrNoBidRelationship):
		return middleware.NewAppError(fiber.StatusForbidden, "No bid links this professional to the job", nil, err)
	case errors.Is(err, usecase.ErrInvalidInput):
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
