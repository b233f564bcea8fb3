// internal/notify/service.go

package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/adeolasoneye/mingle-backend/internal/config"
	"github.com/adeolasoneye/mingle-backend/internal/directory"
)

// Service sends best-effort user notifications. Every method logs and
// swallows delivery failures; callers never depend on the outcome.
type Service struct {
	users directory.Directory
	email EmailProvider
	sms   SMSProvider
}

// NewService wires providers from configuration
func NewService(cfg *config.Config, users directory.Directory) *Service {
	var email EmailProvider
	switch cfg.EmailProvider {
	case "sendgrid":
		email = NewSendGridProvider(cfg.SendGridAPIKey, cfg.EmailFrom)
	default:
		email = NewMockEmailProvider()
	}

	var sms SMSProvider
	switch cfg.SMSProvider {
	case "twilio":
		sms = NewTwilioProvider(cfg.TwilioAccountSID, cfg.TwilioAuthToken, cfg.TwilioPhoneNumber)
	default:
		sms = NewMockSMSProvider()
	}

	return &Service{
		users: users,
		email: email,
		sms:   sms,
	}
}

// NotifyMutualMatch tells both users they matched
func (s *Service) NotifyMutualMatch(ctx context.Context, userID, otherUserID int64) {
	s.notifyOne(ctx, userID, otherUserID)
	s.notifyOne(ctx, otherUserID, userID)
}

func (s *Service) notifyOne(ctx context.Context, recipientID, matchedWithID int64) {
	recipient, err := s.users.GetByID(ctx, recipientID)
	if err != nil {
		log.Printf("match notification skipped, user %d lookup failed: %v", recipientID, err)
		return
	}

	matchedWith, err := s.users.GetByID(ctx, matchedWithID)
	if err != nil {
		log.Printf("match notification skipped, user %d lookup failed: %v", matchedWithID, err)
		return
	}

	subject := "It's a match! 🎉"
	body := fmt.Sprintf("You and %s liked each other. Start the conversation!", matchedWith.DisplayName)

	if err := s.email.SendEmail(ctx, recipient.Email, subject, body); err != nil {
		log.Printf("match email to user %d failed: %v", recipientID, err)
	}

	if recipient.Phone != nil && *recipient.Phone != "" {
		if err := s.sms.SendSMS(ctx, *recipient.Phone, body); err != nil {
			log.Printf("match sms to user %d failed: %v", recipientID, err)
		}
	}
}
