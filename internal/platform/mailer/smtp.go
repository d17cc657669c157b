package mailer

import (
	"bytes"
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"
)

type SMTP struct {
	Host    string
	Port    int
	User    string
	Pass    string
	UseTLS  bool // implicit TLS, e.g. port 465
	Timeout time.Duration
}

func NewSMTP(host string, port int, user, pass string, useTLS bool, timeout time.Duration) (*SMTP, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return nil, errors.New("smtp: missing SMTP_HOST")
	}
	return &SMTP{
		Host:    host,
		Port:    port,
		User:    strings.TrimSpace(user),
		Pass:    strings.TrimSpace(pass),
		UseTLS:  useTLS,
		Timeout: timeout,
	}, nil
}

func (s *SMTP) Send(ctx context.Context, msg Message) (string, error) {
	to := strings.TrimSpace(msg.To.Email)
	if to == "" {
		return "", errors.New("smtp: empty recipient email")
	}

	ctx, cancel := context.WithTimeout(ctx, s.Timeout)
	defer cancel()

	c, err := s.dial(ctx)
	if err != nil {
		return "", err
	}
	defer c.Close()

	if !s.UseTLS {
		if ok, _ := c.Extension("STARTTLS"); ok {
			if err := c.StartTLS(&tls.Config{ServerName: s.Host}); err != nil {
				return "", fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}
	if s.User != "" {
		if err := c.Auth(smtp.PlainAuth("", s.User, s.Pass, s.Host)); err != nil {
			return "", fmt.Errorf("smtp auth: %w", err)
		}
	}
	if err := c.Mail(msg.From.Email); err != nil {
		return "", err
	}
	if err := c.Rcpt(to); err != nil {
		return "", err
	}
	w, err := c.Data()
	if err != nil {
		return "", err
	}
	if _, err := w.Write(buildMIME(msg)); err != nil {
		return "", err
	}
	if err := w.Close(); err != nil {
		return "", err
	}
	return "", c.Quit()
}

func (s *SMTP) dial(ctx context.Context) (*smtp.Client, error) {
	addr := net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
	var (
		conn net.Conn
		err  error
	)
	if s.UseTLS {
		d := &tls.Dialer{Config: &tls.Config{ServerName: s.Host}}
		conn, err = d.DialContext(ctx, "tcp", addr)
	} else {
		var d net.Dialer
		conn, err = d.DialContext(ctx, "tcp", addr)
	}
	if err != nil {
		return nil, fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	}
	c, err := smtp.NewClient(conn, s.Host)
	if err != nil {
		conn.Close()
		return nil, err
	}
	return c, nil
}

const mimeBoundary = "vitalos-alternative-boundary"

func buildMIME(msg Message) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", msg.From.String())
	fmt.Fprintf(&buf, "To: %s\r\n", msg.To.String())
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", msg.Subject))
	fmt.Fprintf(&buf, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&buf, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", mimeBoundary)

	fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
	fmt.Fprintf(&buf, "Content-Type: text/plain; charset=utf-8\r\n\r\n")
	fmt.Fprintf(&buf, "%s\r\n\r\n", msg.Text)

	if msg.HTML != "" {
		fmt.Fprintf(&buf, "--%s\r\n", mimeBoundary)
		fmt.Fprintf(&buf, "Content-Type: text/html; charset=utf-8\r\n\r\n")
		fmt.Fprintf(&buf, "%s\r\n\r\n", msg.HTML)
	}

	fmt.Fprintf(&buf, "--%s--\r\n", mimeBoundary)
	return buf.Bytes()
}
