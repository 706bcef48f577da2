package chat

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

var ErrConversationNotFound = errors.New("conversation not found")

// Conversation is a chat thread scoped to one job and its two participants.
// At most one exists per (job, poster, professional) triple; it is created
// lazily on the first chat attempt.
type Conversation struct {
	ID             uuid.UUID
	JobID          uuid.UUID
	PosterID       uuid.UUID
	ProfessionalID uuid.UUID
	LastMessageAt  time.Time
	CreatedAt      time.Time
}

// HasParticipant reports whether id is one of the two parties.
func (c Conversation) HasParticipant(id uuid.UUID) bool {
	return c.PosterID == id || c.ProfessionalID == id
}

// OtherParticipant returns the counterpart of id, assuming id participates.
func (c Conversation) OtherParticipant(id uuid.UUID) uuid.UUID {
	if c.PosterID == id {
		return c.ProfessionalID
	}
	return c.PosterID
}

// Message with a nil ReadAt is unread.
type Message struct {
	ID             uuid.UUID
	ConversationID uuid.UUID
	SenderID       uuid.UUID
	RecipientID    uuid.UUID
	Content        string
	ReadAt         *time.Time
	CreatedAt      time.Time
}
