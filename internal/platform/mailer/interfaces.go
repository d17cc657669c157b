package mailer

import (
	"context"
	"fmt"
	"net/mail"
)

// Message is one outgoing email. Text and HTML are alternatives of the same body.
type Message struct {
	From    Address
	To      Address
	Subject string
	Text    string
	HTML    string
}

type Address struct {
	Name  string
	Email string
}

func (a Address) String() string {
	if a.Name == "" {
		return a.Email
	}
	return (&mail.Address{Name: a.Name, Address: a.Email}).String()
}

// ParseAddress accepts "Name <addr>" or a bare address.
func ParseAddress(s string) (Address, error) {
	a, err := mail.ParseAddress(s)
	if err != nil {
		return Address{}, fmt.Errorf("parse address %q: %w", s, err)
	}
	return Address{Name: a.Name, Email: a.Address}, nil
}

// Service sends a message and returns the provider message id, if any.
type Service interface {
	Send(ctx context.Context, msg Message) (string, error)
}
