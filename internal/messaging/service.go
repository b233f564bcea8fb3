// internal/messaging/service.go

package messaging

import (
	"context"
	"errors"
	"log"
	"strings"
)

var (
	ErrEmptyMessage   = errors.New("message content cannot be empty")
	ErrMessageTooLong = errors.New("message content is too long")
)

type Service interface {
	SendMessage(ctx context.Context, senderID int64, req *SendMessageRequest) (*Message, error)
	GetConversation(ctx context.Context, userID, otherID int64, limit, offset int) (*ConversationResponse, error)
	MarkRead(ctx context.Context, userID, otherID int64) error
	CountUnread(ctx context.Context, userID int64) (int64, error)
}

// Config holds messaging service limits
type Config struct {
	PageSize         int
	MaxMessageLength int
}

// ActivityRecorder receives the sender's activity marker after an
// authorized send. The user directory satisfies this.
type ActivityRecorder interface {
	UpdateLastActive(ctx context.Context, userID int64) error
}

type service struct {
	repo     Repository
	gate     *Gate
	activity ActivityRecorder
	presence *PresenceTracker
	hub      *Hub
	config   *Config
}

// NewService creates the messaging service. activity, presence and hub
// may be nil.
func NewService(repo Repository, gate *Gate, activity ActivityRecorder, presence *PresenceTracker, hub *Hub, config *Config) Service {
	if config.PageSize <= 0 {
		config.PageSize = 50
	}
	if config.MaxMessageLength <= 0 {
		config.MaxMessageLength = 2000
	}
	return &service{
		repo:     repo,
		gate:     gate,
		activity: activity,
		presence: presence,
		hub:      hub,
		config:   config,
	}
}

// SendMessage stores a message for a matched pair. The gate runs before
// any write, so a denied send leaves no trace.
func (s *service) SendMessage(ctx context.Context, senderID int64, req *SendMessageRequest) (*Message, error) {
	content := strings.TrimSpace(req.Content)
	if content == "" {
		recordMessageSent("empty")
		return nil, ErrEmptyMessage
	}
	if len(content) > s.config.MaxMessageLength {
		recordMessageSent("too_long")
		return nil, ErrMessageTooLong
	}

	if err := s.gate.AuthorizeSend(ctx, senderID, req.ReceiverID); err != nil {
		recordMessageSent("denied")
		return nil, err
	}

	messageType := req.MessageType
	if messageType == "" {
		messageType = MessageTypeText
	}

	msg := &Message{
		SenderID:    senderID,
		ReceiverID:  req.ReceiverID,
		Content:     content,
		MessageType: messageType,
	}
	if err := s.repo.CreateMessage(ctx, msg); err != nil {
		recordMessageSent("error")
		return nil, err
	}
	recordMessageSent("ok")

	if s.activity != nil {
		if err := s.activity.UpdateLastActive(ctx, senderID); err != nil {
			log.Printf("failed to update last active for user %d: %v", senderID, err)
		}
	}
	if err := s.presence.Touch(ctx, senderID); err != nil {
		log.Printf("failed to refresh presence for user %d: %v", senderID, err)
	}

	if s.hub != nil {
		s.hub.SendToUser(ctx, req.ReceiverID, &WSEvent{
			Type:    "new_message",
			Payload: msg,
		})
	}

	return msg, nil
}

// GetConversation returns a page of messages between the caller and the
// other user. Both participants see the identical transcript.
func (s *service) GetConversation(ctx context.Context, userID, otherID int64, limit, offset int) (*ConversationResponse, error) {
	if err := s.gate.AuthorizeRead(ctx, userID, otherID); err != nil {
		return nil, err
	}

	if limit <= 0 || limit > s.config.PageSize {
		limit = s.config.PageSize
	}
	if offset < 0 {
		offset = 0
	}

	messages, err := s.repo.GetConversation(ctx, userID, otherID, limit, offset)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.CountConversation(ctx, userID, otherID)
	if err != nil {
		return nil, err
	}

	if messages == nil {
		messages = []*Message{}
	}

	return &ConversationResponse{
		Messages: messages,
		Total:    total,
		HasMore:  int64(offset+len(messages)) < total,
	}, nil
}

func (s *service) MarkRead(ctx context.Context, userID, otherID int64) error {
	if err := s.gate.AuthorizeRead(ctx, userID, otherID); err != nil {
		return err
	}
	return s.repo.MarkConversationRead(ctx, userID, otherID)
}

func (s *service) CountUnread(ctx context.Context, userID int64) (int64, error) {
	return s.repo.CountUnread(ctx, userID)
}
