package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"homepro/internal/database"
	"homepro/internal/domain/chat"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ConversationSummary is one row of a participant's inbox listing.
type ConversationSummary struct {
	Conversation chat.Conversation
	JobTitle     string
	LastMessage  *chat.Message
	UnreadCount  int
}

type ConversationRepository interface {
	GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error)
	GetByTriple(ctx context.Context, jobID, posterID, professionalID uuid.UUID) (chat.Conversation, error)
	Ensure(ctx context.Context, c chat.Conversation) (chat.Conversation, error)
	ListByParticipant(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error)
	TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error
}

type PostgresConversationRepository struct {
	db database.DB
}

func NewPostgresConversationRepository(db database.DB) *PostgresConversationRepository {
	return &PostgresConversationRepository{db: db}
}

const conversationColumns = `id, job_id, poster_id, professional_id, last_message_at, created_at`

func (r *PostgresConversationRepository) GetByID(ctx context.Context, id uuid.UUID) (chat.Conversation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations WHERE id = $1`, id)
	return scanConversation(row)
}

func (r *PostgresConversationRepository) GetByTriple(ctx context.Context, jobID, posterID, professionalID uuid.UUID) (chat.Conversation, error) {
	row := r.db.QueryRow(ctx,
		`SELECT `+conversationColumns+` FROM conversations
		 WHERE job_id = $1 AND poster_id = $2 AND professional_id = $3`,
		jobID, posterID, professionalID)
	return scanConversation(row)
}

// Ensure creates the conversation for the triple if it does not exist yet and
// returns the surviving row either way.
func (r *PostgresConversationRepository) Ensure(ctx context.Context, c chat.Conversation) (chat.Conversation, error) {
	_, err := r.db.Exec(ctx,
		`INSERT INTO conversations (id, job_id, poster_id, professional_id)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (job_id, poster_id, professional_id) DO NOTHING`,
		c.ID, c.JobID, c.PosterID, c.ProfessionalID,
	)
	if err != nil {
		return chat.Conversation{}, err
	}
	return r.GetByTriple(ctx, c.JobID, c.PosterID, c.ProfessionalID)
}

func (r *PostgresConversationRepository) ListByParticipant(ctx context.Context, userID uuid.UUID) ([]ConversationSummary, error) {
	rows, err := r.db.Query(ctx,
		`SELECT c.id, c.job_id, c.poster_id, c.professional_id, c.last_message_at, c.created_at,
			COALESCE(j.title, ''),
			m.id, m.sender_id, m.recipient_id, m.content, m.read_at, m.created_at,
			(SELECT COUNT(*) FROM messages u
			 WHERE u.conversation_id = c.id AND u.recipient_id = $1 AND u.read_at IS NULL)
		 FROM conversations c
		 JOIN jobs j ON j.id = c.job_id
		 LEFT JOIN LATERAL (
			SELECT id, sender_id, recipient_id, content, read_at, created_at
			FROM messages
			WHERE conversation_id = c.id
			ORDER BY created_at DESC
			LIMIT 1
		 ) m ON TRUE
		 WHERE c.poster_id = $1 OR c.professional_id = $1
		 ORDER BY c.last_message_at DESC`,
		userID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]ConversationSummary, 0)
	for rows.Next() {
		var s ConversationSummary
		var msgID, senderID, recipientID *uuid.UUID
		var content *string
		var readAt, msgCreatedAt *time.Time
		err := rows.Scan(
			&s.Conversation.ID, &s.Conversation.JobID, &s.Conversation.PosterID,
			&s.Conversation.ProfessionalID, &s.Conversation.LastMessageAt, &s.Conversation.CreatedAt,
			&s.JobTitle,
			&msgID, &senderID, &recipientID, &content, &readAt, &msgCreatedAt,
			&s.UnreadCount,
		)
		if err != nil {
			return nil, err
		}
		if msgID != nil {
			s.LastMessage = &chat.Message{
				ID:             *msgID,
				ConversationID: s.Conversation.ID,
				SenderID:       *senderID,
				RecipientID:    *recipientID,
				Content:        *content,
				ReadAt:         readAt,
				CreatedAt:      *msgCreatedAt,
			}
		}
		out = append(out, s)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresConversationRepository) TouchLastMessage(ctx context.Context, id uuid.UUID, at time.Time) error {
	_, err := r.db.Exec(ctx,
		`UPDATE conversations SET last_message_at = $2 WHERE id = $1`,
		id, at,
	)
	return err
}

func scanConversation(row database.Row) (chat.Conversation, error) {
	var c chat.Conversation
	err := row.Scan(&c.ID, &c.JobID, &c.PosterID, &c.ProfessionalID, &c.LastMessageAt, &c.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) || errors.Is(err, pgx.ErrNoRows) {
			return chat.Conversation{}, chat.ErrConversationNotFound
		}
		return chat.Conversation{}, err
	}
	return c, nil
}
