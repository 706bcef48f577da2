package ws

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

// Event types pushed to recipients. Clients holding an unread badge recompute
// their count whenever a message_created event arrives.
const (
	EventMessageCreated = "message_created"
	EventBidAccepted    = "bid_accepted"
	EventBidRejected    = "bid_rejected"
)

type MessageCreatedEvent struct {
	Type           string `json:"type"`
	ConversationID string `json:"conversation_id"`
	MessageID      string `json:"message_id"`
	SenderID       string `json:"sender_id"`
	Timestamp      string `json:"timestamp"`
}

type BidStatusEvent struct {
	Type      string `json:"type"`
	BidID     string `json:"bid_id"`
	JobID     string `json:"job_id"`
	Timestamp string `json:"timestamp"`
}

// Notifier pushes domain events to a single user's connections. A nil
// Notifier or nil hub is a no-op, so callers never guard.
type Notifier struct {
	hub *Hub
}

func NewNotifier(hub *Hub) *Notifier {
	return &Notifier{hub: hub}
}

func (n *Notifier) NotifyMessageCreated(recipientID, conversationID, messageID, senderID uuid.UUID) {
	if n == nil || n.hub == nil {
		return
	}
	evt := MessageCreatedEvent{
		Type:           EventMessageCreated,
		ConversationID: conversationID.String(),
		MessageID:      messageID.String(),
		SenderID:       senderID.String(),
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendToUser(recipientID, b)
}

func (n *Notifier) NotifyBidStatus(recipientID, bidID, jobID uuid.UUID, eventType string) {
	if n == nil || n.hub == nil {
		return
	}
	evt := BidStatusEvent{
		Type:      eventType,
		BidID:     bidID.String(),
		JobID:     jobID.String(),
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	}
	b, err := json.Marshal(evt)
	if err != nil {
		return
	}
	n.hub.SendToUser(recipientID, b)
}
