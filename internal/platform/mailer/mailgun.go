package mailer

import (
	"context"
	"errors"
	"time"

	"github.com/mailgun/mailgun-go/v4"
)

// Mailgun sends through the Mailgun HTTP API.
type Mailgun struct {
	client  *mailgun.MailgunImpl
	timeout time.Duration
}

func NewMailgun(domain, apiKey string, timeout time.Duration) (*Mailgun, error) {
	if domain == "" || apiKey == "" {
		return nil, errors.New("mailgun: MAILGUN_DOMAIN and MAILGUN_API_KEY are required")
	}
	return &Mailgun{
		client:  mailgun.NewMailgun(domain, apiKey),
		timeout: timeout,
	}, nil
}

func (m *Mailgun) Send(ctx context.Context, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message := m.client.NewMessage(msg.From.String(), msg.Subject, msg.Text, msg.To.String())
	if msg.HTML != "" {
		message.SetHtml(msg.HTML)
	}

	_, id, err := m.client.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return id, nil
}
