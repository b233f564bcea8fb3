// internal/messaging/models.go

package messaging

import "time"

// Message types
const (
	MessageTypeText  = "text"
	MessageTypeImage = "image"
	MessageTypeEmoji = "emoji"
)

// Message is a stored chat message between two matched users
type Message struct {
	ID          int64     `json:"id" db:"id"`
	SenderID    int64     `json:"sender_id" db:"sender_id"`
	ReceiverID  int64     `json:"receiver_id" db:"receiver_id"`
	Content     string    `json:"content" db:"content"`
	MessageType string    `json:"message_type" db:"message_type"`
	IsRead      bool      `json:"is_read" db:"is_read"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

type SendMessageRequest struct {
	ReceiverID  int64  `json:"receiver_id" validate:"required,gt=0"`
	Content     string `json:"content" validate:"required"`
	MessageType string `json:"message_type" validate:"omitempty,oneof=text image emoji"`
}

type ConversationResponse struct {
	Messages []*Message `json:"messages"`
	Total    int64      `json:"total"`
	HasMore  bool       `json:"has_more"`
}

// WSEvent is the envelope pushed to connected websocket clients
type WSEvent struct {
	Type    string      `json:"type"`
	Payload interface{} `json:"payload"`
}
