package repository

import (
	"context"

	"homepro/internal/database"
	"homepro/internal/domain/chat"

	"github.com/google/uuid"
)

type MessageRepository interface {
	Create(ctx context.Context, m chat.Message) error
	ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error)
	CountUnread(ctx context.Context, conversationID, recipientID uuid.UUID) (int, error)
	CountUnreadTotal(ctx context.Context, recipientID uuid.UUID) (int, error)
	MarkRead(ctx context.Context, conversationID, recipientID uuid.UUID) (int64, error)
}

type PostgresMessageRepository struct {
	db database.DB
}

func NewPostgresMessageRepository(db database.DB) *PostgresMessageRepository {
	return &PostgresMessageRepository{db: db}
}

func (r *PostgresMessageRepository) Create(ctx context.Context, m chat.Message) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO messages (id, conversation_id, sender_id, recipient_id, content, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		m.ID, m.ConversationID, m.SenderID, m.RecipientID, m.Content, m.CreatedAt,
	)
	return err
}

func (r *PostgresMessageRepository) ListByConversation(ctx context.Context, conversationID uuid.UUID, limit, offset int) ([]chat.Message, error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, conversation_id, sender_id, recipient_id, content, read_at, created_at
		 FROM messages
		 WHERE conversation_id = $1
		 ORDER BY created_at ASC
		 LIMIT $2 OFFSET $3`,
		conversationID, limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]chat.Message, 0)
	for rows.Next() {
		var m chat.Message
		if err := rows.Scan(&m.ID, &m.ConversationID, &m.SenderID, &m.RecipientID, &m.Content, &m.ReadAt, &m.CreatedAt); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (r *PostgresMessageRepository) CountUnread(ctx context.Context, conversationID, recipientID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages
		 WHERE conversation_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		conversationID, recipientID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

func (r *PostgresMessageRepository) CountUnreadTotal(ctx context.Context, recipientID uuid.UUID) (int, error) {
	var n int
	row := r.db.QueryRow(ctx,
		`SELECT COUNT(*) FROM messages WHERE recipient_id = $1 AND read_at IS NULL`,
		recipientID,
	)
	if err := row.Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// MarkRead stamps every unread message addressed to recipientID in the
// conversation. Already-read rows are untouched, so repeat calls are no-ops.
func (r *PostgresMessageRepository) MarkRead(ctx context.Context, conversationID, recipientID uuid.UUID) (int64, error) {
	return r.db.Exec(ctx,
		`UPDATE messages SET read_at = now()
		 WHERE conversation_id = $1 AND recipient_id = $2 AND read_at IS NULL`,
		conversationID, recipientID,
	)
}
