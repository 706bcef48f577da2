package usecase

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"homepro/internal/domain/chat"
	"homepro/internal/domain/job"
	"homepro/internal/infrastructure/cache"
	"homepro/internal/repository"
	"homepro/internal/ws"

	"github.com/google/uuid"
)

var ErrNoBidRelationship = errors.New("no bid links this professional to the job")

type UnreadCountParams struct {
	JobID          uuid.UUID
	PosterID       uuid.UUID
	ProfessionalID uuid.UUID
}

type ChatUsecase interface {
	EnsureConversation(ctx context.Context, callerID, jobID, professionalID uuid.UUID) (chat.Conversation, error)
	SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, content string) (chat.Message, error)
	ListMessages(ctx context.Context, callerID, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error)
	ListConversations(ctx context.Context, callerID uuid.UUID) ([]repository.ConversationSummary, error)
	MarkRead(ctx context.Context, callerID, conversationID uuid.UUID) (int64, error)
	UnreadCount(ctx context.Context, viewerID uuid.UUID, p UnreadCountParams) (int, error)
	UnreadTotal(ctx context.Context, viewerID uuid.UUID) (int, error)
}

// Chat owns conversations, messages and the unread counter.
type Chat struct {
	conversations repository.ConversationRepository
	messages      repository.MessageRepository
	jobs          repository.JobRepository
	bids          repository.BidRepository
	cache         *cache.Redis
	notifier      *ws.Notifier
	logger        *log.Logger
}

func NewChatUsecase(
	conversations repository.ConversationRepository,
	messages repository.MessageRepository,
	jobs repository.JobRepository,
	bids repository.BidRepository,
	c *cache.Redis,
	notifier *ws.Notifier,
	logger *log.Logger,
) *Chat {
	return &Chat{
		conversations: conversations,
		messages:      messages,
		jobs:          jobs,
		bids:          bids,
		cache:         c,
		notifier:      notifier,
		logger:        logger,
	}
}

// EnsureConversation creates the thread for (job, poster, professional) on
// first chat attempt and returns the existing one afterwards. The caller
// must be one of the two parties, and the professional must have bid on the
// job.
func (u *Chat) EnsureConversation(ctx context.Context, callerID, jobID, professionalID uuid.UUID) (chat.Conversation, error) {
	j, err := u.jobs.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, job.ErrNotFound) {
			return chat.Conversation{}, err
		}
		return chat.Conversation{}, ErrInternal
	}

	if callerID != j.PosterID && callerID != professionalID {
		return chat.Conversation{}, ErrNotParticipant
	}

	hasBid, err := u.bids.HasBid(ctx, jobID, professionalID)
	if err != nil {
		return chat.Conversation{}, ErrInternal
	}
	if !hasBid {
		return chat.Conversation{}, ErrNoBidRelationship
	}

	c, err := u.conversations.Ensure(ctx, chat.Conversation{
		ID:             uuid.New(),
		JobID:          jobID,
		PosterID:       j.PosterID,
		ProfessionalID: professionalID,
	})
	if err != nil {
		return chat.Conversation{}, ErrInternal
	}
	return c, nil
}

func (u *Chat) SendMessage(ctx context.Context, senderID, conversationID uuid.UUID, content string) (chat.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return chat.Message{}, ErrInvalidInput
	}

	c, err := u.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return chat.Message{}, err
		}
		return chat.Message{}, ErrInternal
	}
	if !c.HasParticipant(senderID) {
		return chat.Message{}, ErrNotParticipant
	}

	m := chat.Message{
		ID:             uuid.New(),
		ConversationID: c.ID,
		SenderID:       senderID,
		RecipientID:    c.OtherParticipant(senderID),
		Content:        content,
		CreatedAt:      time.Now().UTC(),
	}

	if err := u.messages.Create(ctx, m); err != nil {
		return chat.Message{}, ErrInternal
	}
	if err := u.conversations.TouchLastMessage(ctx, c.ID, m.CreatedAt); err != nil && u.logger != nil {
		u.logger.Printf("Chat touch last_message_at failed | conversation=%s error=%v", c.ID, err)
	}

	u.invalidateUnread(ctx, m.RecipientID)
	u.notifier.NotifyMessageCreated(m.RecipientID, c.ID, m.ID, senderID)

	return m, nil
}

func (u *Chat) ListMessages(ctx context.Context, callerID, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	c, err := u.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return nil, err
		}
		return nil, ErrInternal
	}
	if !c.HasParticipant(callerID) {
		return nil, ErrNotParticipant
	}

	out, err := u.messages.ListByConversation(ctx, conversationID, limit, offset)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

func (u *Chat) ListConversations(ctx context.Context, callerID uuid.UUID) ([]repository.ConversationSummary, error) {
	out, err := u.conversations.ListByParticipant(ctx, callerID)
	if err != nil {
		return nil, ErrInternal
	}
	return out, nil
}

// MarkRead stamps every unread message addressed to the caller in the
// conversation; repeat calls affect zero rows and succeed.
func (u *Chat) MarkRead(ctx context.Context, callerID, conversationID uuid.UUID) (int64, error) {
	c, err := u.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return 0, err
		}
		return 0, ErrInternal
	}
	if !c.HasParticipant(callerID) {
		return 0, ErrNotParticipant
	}

	n, err := u.messages.MarkRead(ctx, conversationID, callerID)
	if err != nil {
		return 0, ErrInternal
	}
	if n > 0 {
		u.invalidateUnread(ctx, callerID)
	}
	return n, nil
}

// UnreadCount resolves the conversation for the triple and counts messages
// addressed to the viewer with no read timestamp. A missing conversation is
// a count of zero, not an error.
func (u *Chat) UnreadCount(ctx context.Context, viewerID uuid.UUID, p UnreadCountParams) (int, error) {
	c, err := u.conversations.GetByTriple(ctx, p.JobID, p.PosterID, p.ProfessionalID)
	if err != nil {
		if errors.Is(err, chat.ErrConversationNotFound) {
			return 0, nil
		}
		return 0, ErrInternal
	}
	if !c.HasParticipant(viewerID) {
		return 0, ErrNotParticipant
	}

	n, err := u.messages.CountUnread(ctx, c.ID, viewerID)
	if err != nil {
		return 0, ErrInternal
	}
	return n, nil
}

// UnreadTotal is the viewer's badge across all conversations, cached until
// the next send or mark-read invalidates it.
func (u *Chat) UnreadTotal(ctx context.Context, viewerID uuid.UUID) (int, error) {
	key := cache.UnreadTotalKey(viewerID.String())
	var cached int
	if hit, err := u.cache.GetJSON(ctx, key, &cached); err == nil && hit {
		return cached, nil
	}

	n, err := u.messages.CountUnreadTotal(ctx, viewerID)
	if err != nil {
		return 0, ErrInternal
	}

	if err := u.cache.SetJSON(ctx, key, n, time.Minute); err != nil && u.logger != nil {
		u.logger.Printf("Chat unread cache set failed | user=%s error=%v", viewerID, err)
	}
	return n, nil
}

func (u *Chat) invalidateUnread(ctx context.Context, userID uuid.UUID) {
	if err := u.cache.InvalidateUnread(ctx, userID.String()); err != nil && u.logger != nil {
		u.logger.Printf("Chat unread cache invalidation failed | user=%s error=%v", userID, err)
	}
}
