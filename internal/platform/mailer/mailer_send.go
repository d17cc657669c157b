package mailer

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/mailersend/mailersend-go"
)

type MailerSend struct {
	client  *mailersend.Mailersend
	timeout time.Duration
}

func NewMailerSend(apiKey string, timeout time.Duration) (*MailerSend, error) {
	if apiKey == "" {
		return nil, errors.New("mailersend: missing MAILERSEND_API_KEY")
	}
	return &MailerSend{
		client:  mailersend.NewMailersend(apiKey),
		timeout: timeout,
	}, nil
}

func (m *MailerSend) Send(ctx context.Context, msg Message) (string, error) {
	ctx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	message := m.client.Email.NewMessage()
	message.SetFrom(mailersend.From{Name: msg.From.Name, Email: msg.From.Email})
	message.SetRecipients([]mailersend.Recipient{{Name: msg.To.Name, Email: msg.To.Email}})
	message.SetSubject(msg.Subject)
	if strings.TrimSpace(msg.Text) != "" {
		message.SetText(msg.Text)
	}
	if strings.TrimSpace(msg.HTML) != "" {
		message.SetHTML(msg.HTML)
	}

	// The SDK turns non-2xx replies into errors.
	res, err := m.client.Email.Send(ctx, message)
	if err != nil {
		return "", err
	}
	return res.Header.Get("X-Message-Id"), nil
}
