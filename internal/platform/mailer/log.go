package mailer

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// LogMailer prints emails instead of sending them. Development only.
type LogMailer struct {
	log *slog.Logger
}

func NewLogMailer(log *slog.Logger) *LogMailer {
	return &LogMailer{log: log}
}

func (l *LogMailer) Send(ctx context.Context, msg Message) (string, error) {
	id := uuid.NewString()
	l.log.InfoContext(ctx, "[DEV MAIL]",
		"message_id", id,
		"from", msg.From.String(),
		"to", msg.To.String(),
		"subject", msg.Subject,
		"text", msg.Text,
	)
	return id, nil
}
