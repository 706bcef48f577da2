package dto

import (
	"time"

	"homepro/internal/domain/chat"
	"homepro/internal/repository"

	"github.com/google/uuid"
)

type ConversationResponse struct {
	ID             uuid.UUID `json:"id"`
	JobID          uuid.UUID `json:"job_id"`
	PosterID       uuid.UUID `json:"poster_id"`
	ProfessionalID uuid.UUID `json:"professional_id"`
	LastMessageAt  time.Time `json:"last_message_at"`
	CreatedAt      time.Time `json:"created_at"`
}

type MessageResponse struct {
	ID             uuid.UUID  `json:"id"`
	ConversationID uuid.UUID  `json:"conversation_id"`
	SenderID       uuid.UUID  `json:"sender_id"`
	RecipientID    uuid.UUID  `json:"recipient_id"`
	Content        string     `json:"content"`
	ReadAt         *time.Time `json:"read_at"`
	CreatedAt      time.Time  `json:"created_at"`
}

type ConversationSummaryResponse struct {
	Conversation ConversationResponse `json:"conversation"`
	JobTitle     string               `json:"job_title"`
	LastMessage  *MessageResponse     `json:"last_message,omitempty"`
	UnreadCount  int                  `json:"unread_count"`
}

func NewConversationResponse(c chat.Conversation) ConversationResponse {
	return ConversationResponse{
		ID:             c.ID,
		JobID:          c.JobID,
		PosterID:       c.PosterID,
		ProfessionalID: c.ProfessionalID,
		LastMessageAt:  c.LastMessageAt,
		CreatedAt:      c.CreatedAt,
	}
}

func NewMessageResponse(m chat.Message) MessageResponse {
	return MessageResponse{
		ID:             m.ID,
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		RecipientID:    m.RecipientID,
		Content:        m.Content,
		ReadAt:         m.ReadAt,
		CreatedAt:      m.CreatedAt,
	}
}

func NewMessageListResponse(msgs []chat.Message) []MessageResponse {
	out := make([]MessageResponse, 0, len(msgs))
	for _, m := range msgs {
		out = append(out, NewMessageResponse(m))
	}
	return out
}

func NewConversationSummaryListResponse(items []repository.ConversationSummary) []ConversationSummaryResponse {
	out := make([]ConversationSummaryResponse, 0, len(items))
	for _, s := range items {
		r := ConversationSummaryResponse{
			Conversation: NewConversationResponse(s.Conversation),
			JobTitle:     s.JobTitle,
			UnreadCount:  s.UnreadCount,
		}
		if s.LastMessage != nil {
			m := NewMessageResponse(*s.LastMessage)
			r.LastMessage = &m
		}
		out = append(out, r)
	}
	return out
}
