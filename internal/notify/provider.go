// internal/notify/provider.go
// Delivery providers. Real senders talk to SendGrid and Twilio; the
// mock variants log instead so development runs without third-party
// credentials.

package notify

import (
	"context"
	"fmt"
	"log"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/twilio/twilio-go"
	twilioApi "github.com/twilio/twilio-go/rest/api/v2010"
)

// EmailProvider delivers a notification email
type EmailProvider interface {
	SendEmail(ctx context.Context, to, subject, body string) error
}

// SMSProvider delivers a notification SMS
type SMSProvider interface {
	SendSMS(ctx context.Context, to, body string) error
}

// SendGrid email provider

type sendgridProvider struct {
	client *sendgrid.Client
	from   string
}

func NewSendGridProvider(apiKey, from string) EmailProvider {
	return &sendgridProvider{
		client: sendgrid.NewSendClient(apiKey),
		from:   from,
	}
}

func (p *sendgridProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	message := mail.NewSingleEmail(
		mail.NewEmail("Mingle", p.from),
		subject,
		mail.NewEmail("", to),
		body,
		fmt.Sprintf("<p>%s</p>", body),
	)

	resp, err := p.client.SendWithContext(ctx, message)
	if err != nil {
		return fmt.Errorf("sendgrid send failed: %w", err)
	}
	if resp.StatusCode >= 400 {
		return fmt.Errorf("sendgrid send failed with status %d", resp.StatusCode)
	}
	return nil
}

// Twilio SMS provider

type twilioProvider struct {
	client *twilio.RestClient
	from   string
}

func NewTwilioProvider(accountSID, authToken, from string) SMSProvider {
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSID,
		Password: authToken,
	})
	return &twilioProvider{client: client, from: from}
}

func (p *twilioProvider) SendSMS(ctx context.Context, to, body string) error {
	params := &twilioApi.CreateMessageParams{}
	params.SetTo(to)
	params.SetFrom(p.from)
	params.SetBody(body)

	if _, err := p.client.Api.CreateMessage(params); err != nil {
		return fmt.Errorf("twilio send failed: %w", err)
	}
	return nil
}

// Mock providers for development

type mockEmailProvider struct{}

func NewMockEmailProvider() EmailProvider {
	return &mockEmailProvider{}
}

func (p *mockEmailProvider) SendEmail(ctx context.Context, to, subject, body string) error {
	log.Printf("📧 [MOCK EMAIL] to=%s subject=%q body=%q", to, subject, body)
	return nil
}

type mockSMSProvider struct{}

func NewMockSMSProvider() SMSProvider {
	return &mockSMSProvider{}
}

func (p *mockSMSProvider) SendSMS(ctx context.Context, to, body string) error {
	log.Printf("📱 [MOCK SMS] to=%s body=%q", to, body)
	return nil
}
