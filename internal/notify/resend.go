package notify

import (
	"context"
	"fmt"

	"github.com/resend/resend-go/v2"
)

// ResendSender sends email alerts through the Resend API.
type ResendSender struct {
	client *resend.Client
	from   string
}

// NewResendSender creates an email sender using the given API key. The from
// address must be a verified Resend sender.
func NewResendSender(apiKey, from string) *ResendSender {
	return &ResendSender{client: resend.NewClient(apiKey), from: from}
}

// SendEmail sends one email and returns the Resend message id.
func (s *ResendSender) SendEmail(ctx context.Context, to, subject, htmlBody, textBody string) (string, error) {
	params := &resend.SendEmailRequest{
		From:    s.from,
		To:      []string{to},
		Subject: subject,
		Html:    htmlBody,
		Text:    textBody,
	}

	sent, err := s.client.Emails.SendWithContext(ctx, params)
	if err != nil {
		return "", fmt.Errorf("failed to send email: %w", err)
	}
	return sent.Id, nil
}

var _ EmailSender = (*ResendSender)(nil)
