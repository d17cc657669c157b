package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/vitalos/website/pkg/logger"
)

type Publisher interface {
	Publish(ctx context.Context, subject string, data any) error
	Close() error
}

type Subscriber interface {
	QueueSubscribe(subject, queue string, handler func(msg *Message)) error
	Close() error
}

type Message struct {
	Subject    string
	Data       []byte
	ReceivedAt time.Time
}

// NATSPublisher also subscribes; the name follows its main use in the API.
type NATSPublisher struct {
	conn *nats.Conn
}

func NewNATSPublisher(url string) (*NATSPublisher, error) {
	conn, err := nats.Connect(url, nats.Name("vitalos-website"))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return &NATSPublisher{conn: conn}, nil
}

func (n *NATSPublisher) Publish(ctx context.Context, subject string, data any) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("failed to marshal event data: %w", err)
	}

	logger.DebugContext(ctx, "Publishing event", "subject", subject)

	return n.conn.Publish(subject, payload)
}

func (n *NATSPublisher) QueueSubscribe(subject, queue string, handler func(msg *Message)) error {
	_, err := n.conn.QueueSubscribe(subject, queue, func(msg *nats.Msg) {
		handler(&Message{
			Subject:    msg.Subject,
			Data:       msg.Data,
			ReceivedAt: time.Now(),
		})
	})
	return err
}

func (n *NATSPublisher) Close() error {
	return n.conn.Drain()
}

// NopPublisher drops every event. Used when NATS_URL is unset.
type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, string, any) error { return nil }
func (NopPublisher) Close() error                               { return nil }

// New returns a NATS publisher, or a NopPublisher for an empty url.
func New(url string) (Publisher, error) {
	if url == "" {
		return NopPublisher{}, nil
	}
	p, err := NewNATSPublisher(url)
	if err != nil {
		return nil, err
	}
	return p, nil
}

// Subjects
const (
	InvestorAccessRequested = "investor.access.requested"
	InvestorAccessVerified  = "investor.access.verified"
	InvestorAll             = "investor.>"
)

type AccessRequestedEvent struct {
	FullName     string    `json:"full_name"`
	Email        string    `json:"email"`
	Organisation string    `json:"organisation"`
	Role         string    `json:"role"`
	Consent      bool      `json:"consent"`
	IP           string    `json:"ip"`
	UserAgent    string    `json:"user_agent"`
	RequestedAt  time.Time `json:"requested_at"`
}

type AccessVerifiedEvent struct {
	Email      string    `json:"email"`
	VerifiedAt time.Time `json:"verified_at"`
}
